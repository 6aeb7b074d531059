package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"log/slog"
	"sync"
	"time"
)

var _ contract.ILifecycle = (*Lifecycle)(nil)

type connection struct {
	conn   contract.Connection
	state  domain.ConnectionState
	userID domain.UserID
}

// Lifecycle follows every connection through Anonymous -> Registered -> Closed
// and keeps every client's presence view in sync.
//
// Registry mutation, snapshot and broadcast enqueue happen under one lock, so
// presence broadcasts leave in the exact order the registry changed.
type Lifecycle struct {
	mu          sync.Mutex
	log         *slog.Logger
	registry    contract.IPresenceRegistry
	broadcaster contract.IBroadcaster
	connections map[domain.ConnectionID]*connection
	now         func() time.Time
	onChange    func(open, online int)
}

func NewLifecycle(log *slog.Logger, registry contract.IPresenceRegistry, broadcaster contract.IBroadcaster) *Lifecycle {
	return &Lifecycle{
		log:         log,
		registry:    registry,
		broadcaster: broadcaster,
		connections: make(map[domain.ConnectionID]*connection),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// OnChange registers a hook observing open connections and online users.
func (l *Lifecycle) OnChange(fn func(open, online int)) *Lifecycle {
	l.onChange = fn
	return l
}

// Open tracks a new anonymous connection. Nothing is broadcast until it announces a user.
func (l *Lifecycle) Open(conn contract.Connection) {
	if conn == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.connections[conn.ID()]; ok {
		return
	}
	l.connections[conn.ID()] = &connection{conn: conn, state: domain.Anonymous}
	l.log.Debug("Connection opened", "connection_id", conn.ID())
	l.notify()
}

// Announce moves a connection to Registered under userID and broadcasts the new online set.
func (l *Lifecycle) Announce(connID domain.ConnectionID, userID domain.UserID) error {
	if userID.IsZero() {
		return errors.ErrInvalidUserID
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.connections[connID]
	if !ok || c.state == domain.Closed {
		return errors.ErrUnknownConnection
	}
	if err := l.registry.Register(userID, c.conn); err != nil {
		return err
	}
	c.state = domain.Registered
	c.userID = userID
	l.log.Info("User online", "user_id", userID, "connection_id", connID)

	l.broadcast()
	l.notify()
	return nil
}

// Close ends a connection. A registered connection that still held its
// presence entry triggers a broadcast to the remaining connections.
func (l *Lifecycle) Close(connID domain.ConnectionID) {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.connections[connID]
	if !ok {
		return
	}
	delete(l.connections, connID)
	previous := c.state
	c.state = domain.Closed

	if previous == domain.Registered {
		if userID, removed := l.registry.Unregister(connID); removed {
			l.log.Info("User offline", "user_id", userID, "connection_id", connID)
			l.broadcast()
		}
	}
	l.log.Debug("Connection closed", "connection_id", connID, "state", previous)
	l.notify()
}

// State reports where a connection stands. Closed connections are forgotten.
func (l *Lifecycle) State(connID domain.ConnectionID) (domain.ConnectionState, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.connections[connID]
	if !ok {
		return domain.Closed, false
	}
	return c.state, true
}

// UserOf returns the user a registered connection announced.
func (l *Lifecycle) UserOf(connID domain.ConnectionID) (domain.UserID, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.connections[connID]
	if !ok || c.state != domain.Registered {
		return "", false
	}
	return c.userID, true
}

// broadcast must be called with l.mu held.
func (l *Lifecycle) broadcast() {
	l.broadcaster.Publish(event.PresenceChanged{
		Online: l.registry.Snapshot(),
		At:     l.now(),
	}, l.sinks())
}

func (l *Lifecycle) sinks() []contract.EventSink {
	res := make([]contract.EventSink, 0, len(l.connections))
	for _, c := range l.connections {
		res = append(res, c.conn)
	}
	return res
}

func (l *Lifecycle) notify() {
	if l.onChange != nil {
		l.onChange(len(l.connections), len(l.registry.Snapshot()))
	}
}
