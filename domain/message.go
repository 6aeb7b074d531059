// Package domain contains core concepts of the chat system.
// This file defines Message records and related rules.
// Messages are immutable once built by the delivery router.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Body is the payload of a message: a text, a file reference, or both.
// FileType is the media-type tag of the referenced file.
type Body struct {
	Text     string
	File     string
	FileType string
}

// IsEmpty reports whether the body carries neither text nor file.
func (b Body) IsEmpty() bool {
	return strings.TrimSpace(b.Text) == "" && strings.TrimSpace(b.File) == ""
}

// Message represents an immutable one-to-one chat record.
type Message struct {
	ID          uuid.UUID // server assigned
	SenderID    UserID
	RecipientID UserID
	Body        Body
	CreatedAt   time.Time // server assigned, UTC
}

// DeliveryOutcome tells what happened to a message after it was accepted.
type DeliveryOutcome string

const (
	// Forwarded messages reached the recipient's live connection.
	Forwarded DeliveryOutcome = "forwarded"
	// Offline recipients only get the message through history.
	Offline DeliveryOutcome = "offline"
	// ForwardFailed means the recipient was online but its connection refused the event.
	ForwardFailed DeliveryOutcome = "forward_failed"
	// PersistFailed messages were never accepted.
	PersistFailed DeliveryOutcome = "persist_failed"
)
