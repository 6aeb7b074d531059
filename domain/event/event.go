package event

import (
	"chat-relay/domain"
	"time"
)

// DomainEvent is anything pushed to a connection.
type DomainEvent interface {
	Name() string
}

// PresenceChanged carries the full set of online users at the time of the change.
type PresenceChanged struct {
	Online []domain.UserID
	At     time.Time
}

func (PresenceChanged) Name() string { return "presence-changed" }

// MessageDelivered is forwarded to the recipient's live connection.
type MessageDelivered struct {
	Message domain.Message
}

func (MessageDelivered) Name() string { return "message-delivered" }

// MessageAccepted acknowledges the persisted record to its sender.
type MessageAccepted struct {
	Message domain.Message
}

func (MessageAccepted) Name() string { return "message-accepted" }
