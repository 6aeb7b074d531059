// Package runtime owns presence, delivery and connection lifecycles.
// It wires the components together without knowing about any transport.
package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/repositories"
	"chat-relay/runtime/workers"
	"context"
	"log/slog"
	"sync"

	"github.com/samber/lo"
)

var _ contract.IChat = (*Orchestrator)(nil)

// Orchestrator is the facade transports talk to.
type Orchestrator struct {
	mu                sync.Mutex
	log               *slog.Logger
	supervisor        contract.ISupervisor
	registry          *PresenceRegistry
	lifecycle         *Lifecycle
	router            *Router
	fanout            *workers.PresenceFanout
	messageRepository repositories.IMessageRepository
	cancel            context.CancelFunc
}

func NewOrchestrator(log *slog.Logger, supervisor contract.ISupervisor,
	registry *PresenceRegistry, lifecycle *Lifecycle, router *Router,
	fanout *workers.PresenceFanout, messageRepository repositories.IMessageRepository) *Orchestrator {
	return &Orchestrator{
		log:               log,
		supervisor:        supervisor,
		registry:          registry,
		lifecycle:         lifecycle,
		router:            router,
		fanout:            fanout,
		messageRepository: messageRepository,
	}
}

// Start registers the broadcaster to the supervisor and runs it in the background.
func (o *Orchestrator) Start(ctx context.Context) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancel != nil {
		return
	}
	ctx, o.cancel = context.WithCancel(ctx)
	o.supervisor.Add(o.fanout)

	o.log.Info("Starting orchestrator and all supervised workers")
	go o.supervisor.Run(ctx)
}

// Stop cancels the workers and forgets every presence entry.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	o.supervisor.Stop()
	o.registry.Clear()
	o.log.Info("Orchestrator stopped")
}

func (o *Orchestrator) Connect(conn contract.Connection) {
	o.lifecycle.Open(conn)
}

func (o *Orchestrator) Announce(connID domain.ConnectionID, userID domain.UserID) error {
	return o.lifecycle.Announce(connID, userID)
}

func (o *Orchestrator) Disconnect(connID domain.ConnectionID) {
	o.lifecycle.Close(connID)
}

// SendMessage requires origin to be a registered connection of the sender.
func (o *Orchestrator) SendMessage(ctx context.Context, cmd domain.SendMessageCommand, origin contract.Connection) (domain.Message, error) {
	userID, ok := o.lifecycle.UserOf(origin.ID())
	if !ok {
		return domain.Message{}, errors.ErrNotRegistered
	}
	if userID != cmd.SenderID {
		return domain.Message{}, errors.ErrIdentityMismatch
	}
	return o.router.Send(ctx, cmd, origin)
}

// GetConversation returns one page of the history between the two users, oldest first.
func (o *Orchestrator) GetConversation(cmd domain.GetConversationCommand) ([]domain.Message, *string, error) {
	if cmd.UserID.IsZero() || cmd.PeerID.IsZero() {
		return nil, nil, errors.ErrInvalidUserID
	}
	messages, cursor, err := o.messageRepository.GetConversation(cmd.UserID.String(), cmd.PeerID.String(), cmd.Cursor)
	if err != nil {
		return nil, nil, err
	}
	return lo.Map(messages, func(item repositories.DiskMessage, _ int) domain.Message {
		return item.ToMessage()
	}), cursor, nil
}

func (o *Orchestrator) OnlineUsers() []domain.UserID {
	return o.registry.Snapshot()
}

func (o *Orchestrator) State(connID domain.ConnectionID) (domain.ConnectionState, bool) {
	return o.lifecycle.State(connID)
}
