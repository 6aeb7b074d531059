package rest

import (
	"chat-relay/auth"
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/infrastructure/ws"
	"chat-relay/mocks"
	"chat-relay/services"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testSecret = "a-test-secret-that-is-long-enough"

type fixture struct {
	router   http.Handler
	chat     *mocks.MockIChat
	contacts *mocks.MockIContactService
	tokens   *auth.TokenManager
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := fixture{
		chat:     mocks.NewMockIChat(ctrl),
		contacts: mocks.NewMockIContactService(ctrl),
		tokens:   auth.NewTokenManager(testSecret, time.Hour),
	}
	f.router = NewRouter(RouterDeps{
		Log:      slog.Default(),
		Chat:     f.chat,
		Contacts: f.contacts,
		Tokens:   f.tokens,
		WebSocket: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusSwitchingProtocols)
		}),
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("# metrics"))
		}),
	})
	return f
}

func (f fixture) do(t *testing.T, method, path, userID string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(method, path, nil)
	if userID != "" {
		token, err := f.tokens.GenerateToken(domain.UserID(userID), nil)
		require.NoError(t, err)
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, r)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var body T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestRouter_Public_Routes(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	up := f.do(t, http.MethodGet, "/up", "")
	req.Equal(http.StatusOK, up.Code)
	req.Equal("ok", up.Body.String())

	req.Equal(http.StatusOK, f.do(t, http.MethodGet, "/metrics", "").Code)
	req.Equal(http.StatusSwitchingProtocols, f.do(t, http.MethodGet, "/ws", "").Code)
}

func TestRouter_Requires_Token(t *testing.T) {
	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/users/online"},
		{http.MethodGet, "/messages/bob"},
		{http.MethodGet, "/contacts"},
		{http.MethodPut, "/contacts/bob"},
		{http.MethodDelete, "/blocks/bob"},
	}

	for _, p := range paths {
		t.Run(fmt.Sprintf("%s %s", p.method, p.path), func(t *testing.T) {
			req := require.New(t)
			f := newFixture(t)

			w := f.do(t, p.method, p.path, "")

			req.Equal(http.StatusUnauthorized, w.Code)
			req.Equal("Unauthenticated", decode[ws.ErrorPayload](t, w).Code)
		})
	}
}

func TestRouter_Online_Users(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.chat.EXPECT().OnlineUsers().Return([]domain.UserID{"alice", "bob"})

	w := f.do(t, http.MethodGet, "/users/online", "alice")

	req.Equal(http.StatusOK, w.Code)
	req.Equal([]string{"alice", "bob"}, decode[onlineUsersResponse](t, w).Users)
}

func TestRouter_Conversation(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	next := "0000000000000000001:" + uuid.NewString()
	msg := domain.Message{
		ID:          uuid.New(),
		SenderID:    "bob",
		RecipientID: "alice",
		Body:        domain.Body{Text: "hello"},
		CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	f.chat.EXPECT().
		GetConversation(gomock.Any()).
		DoAndReturn(func(cmd domain.GetConversationCommand) ([]domain.Message, *string, error) {
			req.Equal(domain.UserID("alice"), cmd.UserID)
			req.Equal(domain.UserID("bob"), cmd.PeerID)
			req.NotNil(cmd.Cursor)
			req.Equal("abc", *cmd.Cursor)
			return []domain.Message{msg}, &next, nil
		})

	w := f.do(t, http.MethodGet, "/messages/bob?cursor=abc", "alice")

	req.Equal(http.StatusOK, w.Code)
	page := decode[ws.HistoryPayload](t, w)
	req.Equal([]ws.MessageView{ws.ToMessageView(msg)}, page.Messages)
	req.Equal(&next, page.Cursor)
}

func TestRouter_Conversation_Invalid_Cursor(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.chat.EXPECT().GetConversation(gomock.Any()).Return(nil, nil, errors.ErrInvalidCursor)

	w := f.do(t, http.MethodGet, "/messages/bob?cursor=nope", "alice")

	req.Equal(http.StatusBadRequest, w.Code)
	req.Equal("InvalidArgument", decode[ws.ErrorPayload](t, w).Code)
}

func TestRouter_Contacts(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.contacts.EXPECT().Relations(domain.UserID("alice")).
		Return(services.Relations{Contacts: []domain.UserID{"bob"}}, nil)

	w := f.do(t, http.MethodGet, "/contacts", "alice")

	req.Equal(http.StatusOK, w.Code)
	body := decode[contactsResponse](t, w)
	req.Equal([]string{"bob"}, body.Contacts)
	req.Equal([]string{}, body.Blocked)
}

func TestRouter_Relations(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		expect func(m *mocks.MockIContactService) *gomock.Call
	}{
		{"Add contact", http.MethodPut, "/contacts/bob", func(m *mocks.MockIContactService) *gomock.Call {
			return m.EXPECT().AddContact(domain.UserID("alice"), domain.UserID("bob"))
		}},
		{"Delete contact", http.MethodDelete, "/contacts/bob", func(m *mocks.MockIContactService) *gomock.Call {
			return m.EXPECT().RemoveContact(domain.UserID("alice"), domain.UserID("bob"))
		}},
		{"Block", http.MethodPut, "/blocks/bob", func(m *mocks.MockIContactService) *gomock.Call {
			return m.EXPECT().Block(domain.UserID("alice"), domain.UserID("bob"))
		}},
		{"Unblock", http.MethodDelete, "/blocks/bob", func(m *mocks.MockIContactService) *gomock.Call {
			return m.EXPECT().Unblock(domain.UserID("alice"), domain.UserID("bob"))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.expect(f.contacts).Return(nil)

			w := f.do(t, tt.method, tt.path, "alice")

			require.Equal(t, http.StatusNoContent, w.Code)
		})
	}
}

func TestRouter_Self_Reference(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.contacts.EXPECT().Block(domain.UserID("alice"), domain.UserID("alice")).Return(errors.ErrSelfReference)

	w := f.do(t, http.MethodPut, "/blocks/alice", "alice")

	req.Equal(http.StatusBadRequest, w.Code)
}

func TestRouter_Internal_Errors_Are_Hidden(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.contacts.EXPECT().Relations(domain.UserID("alice")).Return(services.Relations{}, fmt.Errorf("badger: disk full"))

	w := f.do(t, http.MethodGet, "/contacts", "alice")

	req.Equal(http.StatusInternalServerError, w.Code)
	body := decode[ws.ErrorPayload](t, w)
	req.Equal("Internal", body.Code)
	req.NotContains(body.Message, "disk")
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{errors.ErrInvalidPayload, http.StatusBadRequest},
		{errors.ErrMissingToken, http.StatusUnauthorized},
		{errors.ErrBlocked, http.StatusForbidden},
		{errors.ErrNotRegistered, http.StatusConflict},
		{errors.ErrRateLimited, http.StatusTooManyRequests},
		{errors.ErrDeliveryFailed, http.StatusServiceUnavailable},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			code, _ := errors.Describe(tt.err)
			require.Equal(t, tt.status, HTTPStatus(code))
		})
	}
}
