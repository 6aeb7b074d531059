package rest

import (
	"chat-relay/auth"
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/infrastructure/ws"
	"chat-relay/services"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
	"google.golang.org/grpc/codes"
)

type Handler struct {
	log      *slog.Logger
	chat     contract.IChat
	contacts services.IContactService
}

func NewHandler(log *slog.Logger, chat contract.IChat, contacts services.IContactService) *Handler {
	return &Handler{log: log, chat: chat, contacts: contacts}
}

type onlineUsersResponse struct {
	Users []string `json:"users"`
}

type contactsResponse struct {
	Contacts []string `json:"contacts"`
	Blocked  []string `json:"blocked"`
}

// Up answers the liveness probe.
func (h *Handler) Up(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// OnlineUsers handles GET /users/online
func (h *Handler) OnlineUsers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, onlineUsersResponse{Users: toStrings(h.chat.OnlineUsers())})
}

// Conversation handles GET /messages/{peerID}?cursor=
// The page shape is the one of the history frame.
func (h *Handler) Conversation(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	var cursor *string
	if c := r.URL.Query().Get("cursor"); c != "" {
		cursor = &c
	}
	messages, next, err := h.chat.GetConversation(domain.GetConversationCommand{
		UserID: userID,
		PeerID: pathUser(r),
		Cursor: cursor,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ws.HistoryPayload{Messages: ws.ToMessageViews(messages), Cursor: next})
}

// ListContacts handles GET /contacts
func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	relations, err := h.contacts.Relations(userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contactsResponse{
		Contacts: toStrings(relations.Contacts),
		Blocked:  toStrings(relations.Blocked),
	})
}

func (h *Handler) AddContact(w http.ResponseWriter, r *http.Request) {
	h.relation(w, r, h.contacts.AddContact)
}

func (h *Handler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	h.relation(w, r, h.contacts.RemoveContact)
}

func (h *Handler) Block(w http.ResponseWriter, r *http.Request) {
	h.relation(w, r, h.contacts.Block)
}

func (h *Handler) Unblock(w http.ResponseWriter, r *http.Request) {
	h.relation(w, r, h.contacts.Unblock)
}

// relation applies a change between the caller and the user of the path.
func (h *Handler) relation(w http.ResponseWriter, r *http.Request, apply func(owner, target domain.UserID) error) {
	userID, _ := auth.UserIDFromContext(r.Context())
	if err := apply(userID, pathUser(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	code, _ := errors.Describe(err)
	if code == codes.Internal.String() {
		h.log.Error("Request failed", "path", r.URL.Path, "error", err)
	}
	writeError(w, err)
}

func pathUser(r *http.Request) domain.UserID {
	for _, key := range []string{"peerID", "userID"} {
		if v := chi.URLParam(r, key); v != "" {
			return domain.UserID(strings.TrimSpace(v))
		}
	}
	return ""
}

// toStrings never returns nil so that empty lists encode as [].
func toStrings(users []domain.UserID) []string {
	return lo.Map(lo.Ternary(users == nil, []domain.UserID{}, users), func(u domain.UserID, _ int) string {
		return u.String()
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError answers with the same code and message an error frame would carry.
func writeError(w http.ResponseWriter, err error) {
	code, message := errors.Describe(err)
	writeJSON(w, HTTPStatus(code), ws.ErrorPayload{Code: code, Message: message})
}

// HTTPStatus translates a wire code into an HTTP status.
func HTTPStatus(code string) int {
	switch code {
	case codes.InvalidArgument.String():
		return http.StatusBadRequest
	case codes.Unauthenticated.String():
		return http.StatusUnauthorized
	case codes.PermissionDenied.String():
		return http.StatusForbidden
	case codes.NotFound.String():
		return http.StatusNotFound
	case codes.FailedPrecondition.String():
		return http.StatusConflict
	case codes.ResourceExhausted.String():
		return http.StatusTooManyRequests
	case codes.Unavailable.String():
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
