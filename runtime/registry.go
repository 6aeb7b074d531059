package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
	"slices"
	"sync"

	"github.com/samber/lo"
)

var _ contract.IPresenceRegistry = (*PresenceRegistry)(nil)

// PresenceRegistry is the single source of truth for "is this user reachable".
// It keeps a forward index (user -> connection) used for delivery and a
// reverse index (connection -> user) used on disconnect, since a closing
// transport only knows its own handle.
type PresenceRegistry struct {
	mu       sync.RWMutex
	sessions map[domain.UserID]contract.Connection // map user -> live connection
	owners   map[domain.ConnectionID]domain.UserID // map connection -> user
}

func NewPresenceRegistry() *PresenceRegistry {
	return &PresenceRegistry{
		sessions: make(map[domain.UserID]contract.Connection),
		owners:   make(map[domain.ConnectionID]domain.UserID),
	}
}

// Register inserts or overwrites the entry of userID, last registration wins.
// The superseded handle loses its reverse entry so that its later disconnect
// cannot evict the newer session. A handle previously registered under another
// user is detached from that user first.
func (r *PresenceRegistry) Register(userID domain.UserID, conn contract.Connection) error {
	if userID.IsZero() {
		return errors.ErrInvalidUserID
	}
	if conn == nil {
		return errors.ErrNilConnection
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	connID := conn.ID()
	if previousUser, ok := r.owners[connID]; ok && previousUser != userID {
		delete(r.sessions, previousUser)
	}
	if previous, ok := r.sessions[userID]; ok && previous.ID() != connID {
		delete(r.owners, previous.ID())
	}

	r.sessions[userID] = conn
	r.owners[connID] = userID
	return nil
}

// Unregister removes the entry held by connID, if any.
// It returns the user that went offline and whether anything was removed.
func (r *PresenceRegistry) Unregister(connID domain.ConnectionID) (domain.UserID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.owners[connID]
	if !ok {
		return "", false
	}
	delete(r.owners, connID)

	if current, exists := r.sessions[userID]; exists && current.ID() == connID {
		delete(r.sessions, userID)
		return userID, true
	}
	return "", false
}

func (r *PresenceRegistry) Lookup(userID domain.UserID) (contract.Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.sessions[userID]
	return conn, ok
}

// Snapshot returns the online users at call time, sorted.
func (r *PresenceRegistry) Snapshot() []domain.UserID {
	r.mu.RLock()
	online := lo.Keys(r.sessions)
	r.mu.RUnlock()

	slices.Sort(online)
	return online
}

// Len is the number of online users.
func (r *PresenceRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Clear drops every entry. Called on shutdown, presence is never persisted.
func (r *PresenceRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = make(map[domain.UserID]contract.Connection)
	r.owners = make(map[domain.ConnectionID]domain.UserID)
}
