package ws

import (
	"chat-relay/auth"
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/observability"
	"context"
	"encoding/json"
	goerrors "errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/net/websocket"
	"golang.org/x/time/rate"
)

const (
	maxFramePayloadBytes   = 64 * 1024
	maxDecodeErrorsPerConn = 3
)

type Config struct {
	ConnectionBufferSize int
	FramesPerSecond      float64
	FrameBurst           int
}

// Server upgrades authenticated requests to websockets and speaks the chat
// protocol over them. Every socket is one connection of the chat.
type Server struct {
	log     *slog.Logger
	chat    contract.IChat
	tokens  *auth.TokenManager
	metrics observability.MetricsCollector
	config  Config
	peers   sync.Map // map connection id -> *Peer
}

func NewServer(log *slog.Logger, chat contract.IChat, tokens *auth.TokenManager,
	metrics observability.MetricsCollector, config Config) *Server {
	return &Server{log: log, chat: chat, tokens: tokens, metrics: metrics, config: config}
}

// ServeHTTP checks the token before the upgrade, a rejected client never gets a socket.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ctx, err := s.tokens.Authenticate(r)
	if err != nil {
		s.log.Debug("Websocket unauthorized", "remote", r.RemoteAddr, "error", err)
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}
	identity, _ := auth.UserIDFromContext(ctx)

	// No Handshake: clients outside a browser send no Origin header
	websocket.Server{Handler: func(conn *websocket.Conn) {
		s.serve(ctx, conn, identity)
	}}.ServeHTTP(w, r.WithContext(ctx))
}

// Shutdown closes every open socket. Hijacked connections are not tracked by http.Server.
func (s *Server) Shutdown() {
	s.peers.Range(func(_, value any) bool {
		value.(*Peer).Close()
		return true
	})
}

func (s *Server) serve(ctx context.Context, conn *websocket.Conn, identity domain.UserID) {
	conn.MaxPayloadBytes = maxFramePayloadBytes
	peer := NewPeer(conn, s.log, s.config.ConnectionBufferSize)
	go peer.WriteLoop()

	s.peers.Store(peer.ID(), peer)
	s.chat.Connect(peer)
	defer func() {
		s.chat.Disconnect(peer.ID())
		s.peers.Delete(peer.ID())
		peer.Close()
	}()

	limiter := rate.NewLimiter(rate.Limit(s.config.FramesPerSecond), s.config.FrameBurst)
	decodeErrors := 0

	for {
		var data []byte
		if err := websocket.Message.Receive(conn, &data); err != nil {
			if goerrors.Is(err, websocket.ErrFrameTooLarge) {
				s.reply(peer, ErrorFrame("", errors.ErrPayloadTooLarge))
				continue
			}
			return
		}

		var frame Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			decodeErrors++
			s.reply(peer, ErrorFrame("", errors.ErrInvalidPayload))
			if decodeErrors >= maxDecodeErrorsPerConn {
				s.log.Info("Too many malformed frames, closing", "connection_id", peer.ID())
				return
			}
			continue
		}
		decodeErrors = 0

		if !limiter.Allow() {
			s.reply(peer, ErrorFrame(frame.RequestID, errors.ErrRateLimited))
			continue
		}
		s.metrics.RecordFrame(frame.Type)

		if err := s.handle(ctx, peer, identity, frame); err != nil {
			s.reply(peer, ErrorFrame(frame.RequestID, err))
		}
	}
}

func (s *Server) handle(ctx context.Context, peer *Peer, identity domain.UserID, frame Frame) error {
	switch frame.Type {
	case TypeUserOnline:
		return s.handleUserOnline(peer, identity, frame)
	case TypeSendMessage:
		return s.handleSendMessage(ctx, peer, identity, frame)
	case TypeHistoryFetch:
		return s.handleHistoryFetch(peer, identity, frame)
	default:
		return errors.ErrUnsupportedFrame
	}
}

// handleUserOnline accepts only the identity proven by the token.
func (s *Server) handleUserOnline(peer *Peer, identity domain.UserID, frame Frame) error {
	payload, err := Decode[UserOnlinePayload](frame)
	if err != nil {
		return err
	}
	if domain.UserID(strings.TrimSpace(payload.UserID)) != identity {
		return errors.ErrIdentityMismatch
	}
	return s.chat.Announce(peer.ID(), identity)
}

func (s *Server) handleSendMessage(ctx context.Context, peer *Peer, identity domain.UserID, frame Frame) error {
	payload, err := Decode[SendMessagePayload](frame)
	if err != nil {
		return err
	}
	_, err = s.chat.SendMessage(ctx, domain.SendMessageCommand{
		SenderID:    identity,
		RecipientID: domain.UserID(strings.TrimSpace(payload.Recipient)),
		Body: domain.Body{
			Text:     payload.Text,
			File:     payload.File,
			FileType: payload.FileType,
		},
	}, peer.WithRequest(frame.RequestID))
	return err
}

func (s *Server) handleHistoryFetch(peer *Peer, identity domain.UserID, frame Frame) error {
	payload, err := Decode[HistoryFetchPayload](frame)
	if err != nil {
		return err
	}
	messages, cursor, err := s.chat.GetConversation(domain.GetConversationCommand{
		UserID: identity,
		PeerID: domain.UserID(strings.TrimSpace(payload.PeerID)),
		Cursor: payload.Cursor,
	})
	if err != nil {
		return err
	}
	response, err := NewFrame(TypeHistory, frame.RequestID, HistoryPayload{
		Messages: ToMessageViews(messages),
		Cursor:   cursor,
	})
	if err != nil {
		return err
	}
	return peer.Send(response)
}

func (s *Server) reply(peer *Peer, frame Frame) {
	var payload ErrorPayload
	if json.Unmarshal(frame.Payload, &payload) == nil {
		s.metrics.RecordError(payload.Code)
	}
	if err := peer.Send(frame); err != nil {
		s.log.Debug("Error frame dropped", "connection_id", peer.ID(), "error", err)
	}
}
