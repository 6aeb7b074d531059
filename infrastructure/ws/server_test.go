package ws

import (
	"chat-relay/auth"
	"chat-relay/domain"
	"chat-relay/observability"
	"chat-relay/repositories"
	"chat-relay/runtime"
	"chat-relay/runtime/workers"
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"
)

const testSecret = "a-test-secret-that-is-long-enough"

type testServer struct {
	http   *httptest.Server
	tokens *auth.TokenManager
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := slog.Default()
	messages := repositories.NewMessageRepository(db, log, nil)
	registry := runtime.NewPresenceRegistry()
	fanout := workers.NewPresenceFanout(log, 16, time.Second)
	lifecycle := runtime.NewLifecycle(log, registry, fanout)
	router := runtime.NewRouter(log, registry, messages, repositories.NewContactRepository(db), 100)
	orchestrator := runtime.NewOrchestrator(log, workers.NewSupervisor(log, 10*time.Millisecond),
		registry, lifecycle, router, fanout, messages)
	orchestrator.Start(context.Background())

	tokens := auth.NewTokenManager(testSecret, time.Hour)
	server := NewServer(log, orchestrator, tokens, observability.NewCollector(prometheus.NewRegistry()), Config{
		ConnectionBufferSize: 32,
		FramesPerSecond:      100,
		FrameBurst:           100,
	})
	srv := httptest.NewServer(server)
	t.Cleanup(func() {
		server.Shutdown()
		srv.Close()
		orchestrator.Stop()
	})
	return testServer{http: srv, tokens: tokens}
}

func (s testServer) dial(t *testing.T, userID string) *websocket.Conn {
	t.Helper()
	token, err := s.tokens.GenerateToken(domain.UserID(userID), nil)
	require.NoError(t, err)

	cfg, err := websocket.NewConfig("ws"+strings.TrimPrefix(s.http.URL, "http")+"/", s.http.URL)
	require.NoError(t, err)
	cfg.Header.Set("Authorization", "Bearer "+token)
	conn, err := websocket.DialConfig(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, frameType, requestID string, payload any) {
	t.Helper()
	frame, err := NewFrame(frameType, requestID, payload)
	require.NoError(t, err)
	require.NoError(t, websocket.JSON.Send(conn, frame))
}

// readUntil skips frames until one of the wanted type arrives.
func readUntil(t *testing.T, conn *websocket.Conn, frameType string) Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var frame Frame
		require.NoError(t, websocket.JSON.Receive(conn, &frame))
		if frame.Type == frameType {
			return frame
		}
	}
}

func payloadOf[T any](t *testing.T, frame Frame) T {
	t.Helper()
	var payload T
	require.NoError(t, json.Unmarshal(frame.Payload, &payload))
	return payload
}

// online connects userID and waits until its presence is visible to itself.
func (s testServer) online(t *testing.T, userID string) *websocket.Conn {
	t.Helper()
	conn := s.dial(t, userID)
	send(t, conn, TypeUserOnline, "", UserOnlinePayload{UserID: userID})
	for {
		users := payloadOf[OnlineUsersPayload](t, readUntil(t, conn, TypeOnlineUsers)).Users
		for _, u := range users {
			if u == userID {
				return conn
			}
		}
	}
}

func TestServer_Rejects_Missing_Token(t *testing.T) {
	srv := newTestServer(t)

	_, err := websocket.Dial("ws"+strings.TrimPrefix(srv.http.URL, "http")+"/", "", srv.http.URL)

	require.Error(t, err)
}

func TestServer_Presence_And_Delivery(t *testing.T) {
	req := require.New(t)
	srv := newTestServer(t)
	alice := srv.online(t, "alice")
	bob := srv.online(t, "bob")

	// alice learns that bob is online
	for {
		users := payloadOf[OnlineUsersPayload](t, readUntil(t, alice, TypeOnlineUsers)).Users
		if len(users) == 2 {
			req.Equal([]string{"alice", "bob"}, users)
			break
		}
	}

	send(t, alice, TypeSendMessage, "req-1", SendMessagePayload{Recipient: "bob", Text: "hi"})

	received := payloadOf[MessagePayload](t, readUntil(t, bob, TypeReceiveMessage))
	ack := readUntil(t, alice, TypeMessageSent)
	sent := payloadOf[MessagePayload](t, ack)
	req.Equal("req-1", ack.RequestID)
	req.Equal(sent.Message, received.Message)
	req.Equal("hi", received.Message.Text)
	req.Equal("alice", received.Message.SenderID)
	req.NotEmpty(received.Message.CreatedAt)

	// bob leaves, alice is alone again
	req.NoError(bob.Close())
	for {
		users := payloadOf[OnlineUsersPayload](t, readUntil(t, alice, TypeOnlineUsers)).Users
		if len(users) == 1 {
			req.Equal([]string{"alice"}, users)
			break
		}
	}
}

func TestServer_History(t *testing.T) {
	req := require.New(t)
	srv := newTestServer(t)
	alice := srv.online(t, "alice")

	// bob is offline
	send(t, alice, TypeSendMessage, "req-1", SendMessagePayload{Recipient: "bob", Text: "hello"})
	readUntil(t, alice, TypeMessageSent)

	bob := srv.online(t, "bob")
	send(t, bob, TypeHistoryFetch, "req-2", HistoryFetchPayload{PeerID: "alice"})

	frame := readUntil(t, bob, TypeHistory)
	history := payloadOf[HistoryPayload](t, frame)
	req.Equal("req-2", frame.RequestID)
	req.NotEmpty(history.Messages)
	req.Equal("hello", history.Messages[len(history.Messages)-1].Text)
	req.Nil(history.Cursor)
}

func TestServer_Error_Frames(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name      string
		frameType string
		payload   any
		code      string
	}{
		{"Identity mismatch", TypeUserOnline, UserOnlinePayload{UserID: "mallory"}, "PermissionDenied"},
		{"Send before announce", TypeSendMessage, SendMessagePayload{Recipient: "bob", Text: "hi"}, "FailedPrecondition"},
		{"Missing recipient", TypeSendMessage, SendMessagePayload{Text: "hi"}, "InvalidArgument"},
		{"Unsupported frame", "room:join", map[string]string{}, "InvalidArgument"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			conn := srv.dial(t, "alice")

			send(t, conn, tt.frameType, "req-x", tt.payload)

			frame := readUntil(t, conn, TypeError)
			req.Equal("req-x", frame.RequestID)
			req.Equal(tt.code, payloadOf[ErrorPayload](t, frame).Code)
		})
	}
}

func TestServer_Closes_After_Repeated_Malformed_Frames(t *testing.T) {
	req := require.New(t)
	srv := newTestServer(t)
	conn := srv.dial(t, "alice")

	for i := 0; i < maxDecodeErrorsPerConn; i++ {
		req.NoError(websocket.Message.Send(conn, "{not json"))
	}

	req.NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	var err error
	for err == nil {
		var frame Frame
		err = websocket.JSON.Receive(conn, &frame)
		if err == nil {
			req.Equal(TypeError, frame.Type)
		}
	}
	req.NotContains(err.Error(), "timeout")
}
