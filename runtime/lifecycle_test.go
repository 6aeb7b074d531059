package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"chat-relay/mocks"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type published struct {
	event   event.DomainEvent
	targets []contract.EventSink
}

// Broadcaster records publications synchronously.
type Broadcaster struct {
	mu   sync.Mutex
	sent []published
}

func (b *Broadcaster) Publish(e event.DomainEvent, targets []contract.EventSink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, published{event: e, targets: targets})
}

func (b *Broadcaster) Published() []published {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]published(nil), b.sent...)
}

func onlineOf(t *testing.T, p published) []domain.UserID {
	t.Helper()
	evt, ok := p.event.(event.PresenceChanged)
	require.True(t, ok, "unexpected event %T", p.event)
	return evt.Online
}

func TestLifecycle_Open_Does_Not_Broadcast(t *testing.T) {
	req := require.New(t)
	broadcaster := &Broadcaster{}
	lifecycle := NewLifecycle(slog.Default(), NewPresenceRegistry(), broadcaster)
	conn := NewSink()

	lifecycle.Open(conn)

	state, ok := lifecycle.State(conn.ID())
	req.True(ok)
	req.Equal(domain.Anonymous, state)
	req.Empty(broadcaster.Published())
}

func TestLifecycle_Announce_Registers_And_Broadcasts_To_All_Connections(t *testing.T) {
	req := require.New(t)
	broadcaster := &Broadcaster{}
	registry := NewPresenceRegistry()
	lifecycle := NewLifecycle(slog.Default(), registry, broadcaster)
	alice := NewSink()
	anonymous := NewSink()

	// Given two open connections, one of them never announcing
	lifecycle.Open(alice)
	lifecycle.Open(anonymous)

	// When alice announces herself
	req.NoError(lifecycle.Announce(alice.ID(), "alice"))

	// Then she is registered and both connections get the new online set
	state, _ := lifecycle.State(alice.ID())
	req.Equal(domain.Registered, state)
	req.Equal([]domain.UserID{"alice"}, registry.Snapshot())

	sent := broadcaster.Published()
	req.Len(sent, 1)
	req.Equal([]domain.UserID{"alice"}, onlineOf(t, sent[0]))
	req.ElementsMatch([]contract.EventSink{alice, anonymous}, sent[0].targets)
}

func TestLifecycle_Announce_Unknown_Connection(t *testing.T) {
	req := require.New(t)
	broadcaster := &Broadcaster{}
	lifecycle := NewLifecycle(slog.Default(), NewPresenceRegistry(), broadcaster)

	err := lifecycle.Announce(NewSink().ID(), "alice")

	req.ErrorIs(err, errors.ErrUnknownConnection)
	req.Empty(broadcaster.Published())
}

func TestLifecycle_Announce_Empty_User(t *testing.T) {
	req := require.New(t)
	lifecycle := NewLifecycle(slog.Default(), NewPresenceRegistry(), &Broadcaster{})
	conn := NewSink()
	lifecycle.Open(conn)

	req.ErrorIs(lifecycle.Announce(conn.ID(), ""), errors.ErrInvalidUserID)

	state, _ := lifecycle.State(conn.ID())
	req.Equal(domain.Anonymous, state)
}

func TestLifecycle_Close_Anonymous_Connection_Does_Not_Broadcast(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	broadcaster := mocks.NewMockIBroadcaster(ctrl)
	registry := mocks.NewMockIPresenceRegistry(ctrl)
	lifecycle := NewLifecycle(slog.Default(), registry, broadcaster)
	conn := NewSink()

	// Given an anonymous connection
	lifecycle.Open(conn)

	// Then neither the registry nor the broadcaster are touched on close
	registry.EXPECT().Unregister(gomock.Any()).Times(0)
	broadcaster.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	lifecycle.Close(conn.ID())

	_, ok := lifecycle.State(conn.ID())
	req.False(ok)
}

func TestLifecycle_Close_Twice_Is_Noop(t *testing.T) {
	req := require.New(t)
	broadcaster := &Broadcaster{}
	lifecycle := NewLifecycle(slog.Default(), NewPresenceRegistry(), broadcaster)
	alice := NewSink()
	bob := NewSink()
	lifecycle.Open(alice)
	lifecycle.Open(bob)
	req.NoError(lifecycle.Announce(alice.ID(), "alice"))

	lifecycle.Close(alice.ID())
	lifecycle.Close(alice.ID())

	// One broadcast for the announce, one for the close
	req.Len(broadcaster.Published(), 2)
}

func TestLifecycle_Closed_Connection_Cannot_Announce(t *testing.T) {
	req := require.New(t)
	lifecycle := NewLifecycle(slog.Default(), NewPresenceRegistry(), &Broadcaster{})
	conn := NewSink()
	lifecycle.Open(conn)
	lifecycle.Close(conn.ID())

	req.ErrorIs(lifecycle.Announce(conn.ID(), "alice"), errors.ErrUnknownConnection)
}

func TestLifecycle_Alice_And_Bob_Then_Bob_Leaves(t *testing.T) {
	req := require.New(t)
	broadcaster := &Broadcaster{}
	registry := NewPresenceRegistry()
	lifecycle := NewLifecycle(slog.Default(), registry, broadcaster)
	alice := NewSink()
	bob := NewSink()

	// Given alice and bob connect and announce presence
	lifecycle.Open(alice)
	lifecycle.Open(bob)
	req.NoError(lifecycle.Announce(alice.ID(), "alice"))
	req.NoError(lifecycle.Announce(bob.ID(), "bob"))
	req.Equal([]domain.UserID{"alice", "bob"}, registry.Snapshot())
	before := len(broadcaster.Published())

	// When bob disconnects
	lifecycle.Close(bob.ID())

	// Then only alice is online
	req.Equal([]domain.UserID{"alice"}, registry.Snapshot())

	// And presence-changed({alice}) was broadcast exactly once, to alice only
	sent := broadcaster.Published()[before:]
	req.Len(sent, 1)
	req.Equal([]domain.UserID{"alice"}, onlineOf(t, sent[0]))
	req.Equal([]contract.EventSink{alice}, sent[0].targets)
}

func TestLifecycle_Stale_Disconnect_Keeps_Newer_Session(t *testing.T) {
	req := require.New(t)
	broadcaster := &Broadcaster{}
	registry := NewPresenceRegistry()
	lifecycle := NewLifecycle(slog.Default(), registry, broadcaster)
	oldTab := NewSink()
	newTab := NewSink()

	// Given alice reconnected from a second connection
	lifecycle.Open(oldTab)
	req.NoError(lifecycle.Announce(oldTab.ID(), "alice"))
	lifecycle.Open(newTab)
	req.NoError(lifecycle.Announce(newTab.ID(), "alice"))
	before := len(broadcaster.Published())

	// When the first connection finally closes
	lifecycle.Close(oldTab.ID())

	// Then alice stays online on the newest connection and nothing is broadcast
	req.Equal([]domain.UserID{"alice"}, registry.Snapshot())
	found, ok := registry.Lookup("alice")
	req.True(ok)
	req.Equal(newTab.ID(), found.ID())
	req.Len(broadcaster.Published(), before)
}

func TestLifecycle_OnChange_Reports_Counts(t *testing.T) {
	req := require.New(t)
	var open, online int
	lifecycle := NewLifecycle(slog.Default(), NewPresenceRegistry(), &Broadcaster{}).
		OnChange(func(o, u int) { open, online = o, u })
	conn := NewSink()

	lifecycle.Open(conn)
	req.Equal(1, open)
	req.Equal(0, online)

	req.NoError(lifecycle.Announce(conn.ID(), "alice"))
	req.Equal(1, online)

	lifecycle.Close(conn.ID())
	req.Equal(0, open)
	req.Equal(0, online)
}
