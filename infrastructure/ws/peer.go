package ws

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"
)

var _ contract.Connection = (*Peer)(nil)

// Peer is the connection handle of one websocket.
// Frames are queued and written by a single goroutine so that a slow client
// never blocks the caller; a full queue is reported as ErrSlowConsumer.
type Peer struct {
	id        domain.ConnectionID
	conn      *websocket.Conn
	log       *slog.Logger
	outbound  chan Frame
	done      chan struct{}
	closeOnce sync.Once
}

func NewPeer(conn *websocket.Conn, log *slog.Logger, bufferSize int) *Peer {
	id := domain.ConnectionID(uuid.NewString())
	return &Peer{
		id:       id,
		conn:     conn,
		log:      log.With("connection_id", id),
		outbound: make(chan Frame, bufferSize),
		done:     make(chan struct{}),
	}
}

func (p *Peer) ID() domain.ConnectionID { return p.id }

func (p *Peer) Consume(ctx context.Context, e event.DomainEvent) error {
	return p.consume(ctx, e, "")
}

// Send queues a frame without blocking.
func (p *Peer) Send(frame Frame) error {
	select {
	case <-p.done:
		return errors.ErrUnknownConnection
	default:
	}
	select {
	case p.outbound <- frame:
		return nil
	default:
		return errors.ErrSlowConsumer
	}
}

// WriteLoop drains the queue until the peer is closed or a write fails.
func (p *Peer) WriteLoop() {
	for {
		select {
		case <-p.done:
			return
		case frame := <-p.outbound:
			if err := websocket.JSON.Send(p.conn, frame); err != nil {
				p.log.Debug("Write failed, closing peer", "error", err)
				p.Close()
				return
			}
		}
	}
}

// Close stops the writer and the underlying socket. Safe to call many times.
func (p *Peer) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
		_ = p.conn.Close()
	})
}

// Done is closed once the peer is closed.
func (p *Peer) Done() <-chan struct{} {
	return p.done
}

// WithRequest returns a handle answering acknowledgements with requestID.
func (p *Peer) WithRequest(requestID string) contract.Connection {
	return requestScoped{peer: p, requestID: requestID}
}

func (p *Peer) consume(ctx context.Context, e event.DomainEvent, requestID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	frame, ok, err := EncodeEvent(e, requestID)
	if err != nil {
		return err
	}
	if !ok {
		p.log.Debug("Event has no wire representation", "event", e.Name())
		return nil
	}
	return p.Send(frame)
}

type requestScoped struct {
	peer      *Peer
	requestID string
}

func (r requestScoped) ID() domain.ConnectionID { return r.peer.ID() }

func (r requestScoped) Consume(ctx context.Context, e event.DomainEvent) error {
	return r.peer.consume(ctx, e, r.requestID)
}
