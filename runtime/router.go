package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/domain/mimetypes"
	"chat-relay/errors"
	"chat-relay/repositories"
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var _ contract.IRouter = (*Router)(nil)

// Router persists every outbound message, forwards it when the recipient is
// online and acknowledges the sender. Forwarding is best effort: a recipient
// that misses the live event only finds the message in its history.
type Router struct {
	log           *slog.Logger
	registry      contract.IPresenceRegistry
	messages      repositories.IMessageRepository
	contacts      repositories.IContactRepository
	maxTextLength int
	now           func() time.Time
	newID         func() uuid.UUID
	onOutcome     func(domain.DeliveryOutcome)
}

func NewRouter(
	log *slog.Logger,
	registry contract.IPresenceRegistry,
	messages repositories.IMessageRepository,
	contacts repositories.IContactRepository,
	maxTextLength int,
) *Router {
	return &Router{
		log:           log,
		registry:      registry,
		messages:      messages,
		contacts:      contacts,
		maxTextLength: maxTextLength,
		now:           func() time.Time { return time.Now().UTC() },
		newID:         uuid.New,
	}
}

// OnOutcome registers a hook called once per send attempt that reached persistence.
func (r *Router) OnOutcome(fn func(domain.DeliveryOutcome)) *Router {
	r.onOutcome = fn
	return r
}

// Send runs the whole delivery of one message.
// Once the record is persisted the send is never rolled back: forward errors are
// only logged and the sender is acknowledged whether the recipient is online or not.
func (r *Router) Send(ctx context.Context, cmd domain.SendMessageCommand, origin contract.EventSink) (domain.Message, error) {
	body, err := r.validate(cmd)
	if err != nil {
		return domain.Message{}, err
	}

	blocked, err := r.contacts.IsBlocked(cmd.RecipientID.String(), cmd.SenderID.String())
	if err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", errors.ErrDeliveryFailed, err)
	}
	if blocked {
		r.log.Debug("Message refused by recipient", "sender_id", cmd.SenderID, "recipient_id", cmd.RecipientID)
		return domain.Message{}, errors.ErrBlocked
	}

	message := domain.Message{
		ID:          r.newID(),
		SenderID:    cmd.SenderID,
		RecipientID: cmd.RecipientID,
		Body:        body,
		CreatedAt:   r.now(),
	}

	if err := r.messages.StoreMessage(repositories.FromMessage(message)); err != nil {
		r.log.Error("Message not persisted", "message_id", message.ID, "error", err)
		r.outcome(domain.PersistFailed)
		return domain.Message{}, fmt.Errorf("%w: %v", errors.ErrDeliveryFailed, err)
	}

	if conn, ok := r.registry.Lookup(message.RecipientID); ok {
		if err := conn.Consume(ctx, event.MessageDelivered{Message: message}); err != nil {
			r.log.Warn("Message not forwarded",
				"message_id", message.ID,
				"recipient_id", message.RecipientID,
				"connection_id", conn.ID(),
				"error", err)
			r.outcome(domain.ForwardFailed)
		} else {
			r.outcome(domain.Forwarded)
		}
	} else {
		r.log.Debug("Recipient offline", "message_id", message.ID, "recipient_id", message.RecipientID)
		r.outcome(domain.Offline)
	}

	if origin != nil {
		if err := origin.Consume(ctx, event.MessageAccepted{Message: message}); err != nil {
			r.log.Warn("Acknowledgement not sent", "message_id", message.ID, "sender_id", message.SenderID, "error", err)
		}
	}
	return message, nil
}

// validate returns the body as it will be stored, with its media-type tag normalized.
func (r *Router) validate(cmd domain.SendMessageCommand) (domain.Body, error) {
	if cmd.SenderID.IsZero() || cmd.RecipientID.IsZero() {
		return domain.Body{}, errors.ErrInvalidUserID
	}
	if cmd.SenderID == cmd.RecipientID {
		return domain.Body{}, errors.ErrSelfReference
	}
	body := cmd.Body
	if body.IsEmpty() {
		return domain.Body{}, errors.ErrEmptyBody
	}
	if r.maxTextLength > 0 && utf8.RuneCountInString(body.Text) > r.maxTextLength {
		return domain.Body{}, errors.ErrTextTooLong
	}
	if body.FileType != "" {
		if body.File == "" {
			return domain.Body{}, errors.ErrInvalidPayload
		}
		mt, ok := mimetypes.Normalize(body.FileType)
		if !ok {
			return domain.Body{}, errors.ErrInvalidMediaType
		}
		body.FileType = string(mt)
	}
	return body, nil
}

func (r *Router) outcome(o domain.DeliveryOutcome) {
	if r.onOutcome != nil {
		r.onOutcome(o)
	}
}
