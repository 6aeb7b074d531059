// Package rest exposes the HTTP surface of the relay: health, metrics,
// the websocket upgrade and the authenticated history and contact endpoints.
package rest

import (
	"chat-relay/auth"
	"chat-relay/contract"
	"chat-relay/services"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterDeps struct {
	Log       *slog.Logger
	Chat      contract.IChat
	Contacts  services.IContactService
	Tokens    *auth.TokenManager
	WebSocket http.Handler
	Metrics   http.Handler
}

// NewRouter mounts every route.
// The websocket route authenticates on its own, before the upgrade.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	h := NewHandler(deps.Log, deps.Chat, deps.Contacts)

	r.Get("/up", h.Up)
	r.Handle("/metrics", deps.Metrics)
	r.Handle("/ws", deps.WebSocket)

	r.Group(func(r chi.Router) {
		r.Use(Authenticate(deps.Log, deps.Tokens))

		r.Get("/users/online", h.OnlineUsers)
		r.Get("/messages/{peerID}", h.Conversation)

		r.Get("/contacts", h.ListContacts)
		r.Route("/contacts/{userID}", func(r chi.Router) {
			r.Put("/", h.AddContact)
			r.Delete("/", h.DeleteContact)
		})
		r.Route("/blocks/{userID}", func(r chi.Router) {
			r.Put("/", h.Block)
			r.Delete("/", h.Unblock)
		})
	})

	return r
}

// Authenticate rejects requests without a valid bearer token.
func Authenticate(log *slog.Logger, tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, err := tokens.Authenticate(r)
			if err != nil {
				log.Debug("Request unauthorized", "path", r.URL.Path, "error", err)
				writeError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
