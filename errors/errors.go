package errors

import "fmt"

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")

	ErrInvalidUserID     = fmt.Errorf("user id must not be empty")
	ErrNilConnection     = fmt.Errorf("connection handle must not be nil")
	ErrUnknownConnection = fmt.Errorf("connection is not open")
	ErrIdentityMismatch  = fmt.Errorf("announced identity does not match the authenticated one")
	ErrNotRegistered     = fmt.Errorf("connection must announce presence first")
	ErrEmptyBody         = fmt.Errorf("message needs a text or a file")
	ErrTextTooLong       = fmt.Errorf("message text is too long")
	ErrInvalidMediaType  = fmt.Errorf("unsupported media type")
	ErrInvalidPayload    = fmt.Errorf("invalid payload")
	ErrSelfReference     = fmt.Errorf("a user cannot target itself")
	ErrBlocked           = fmt.Errorf("recipient does not accept messages from this sender")
	ErrDeliveryFailed    = fmt.Errorf("message could not be persisted")
	ErrSlowConsumer      = fmt.Errorf("connection outbound queue is full")
	ErrInvalidToken      = fmt.Errorf("invalid or expired token")
	ErrMissingToken      = fmt.Errorf("authorization token is missing")
	ErrTokenGeneration   = fmt.Errorf("token generation failed")
	ErrRateLimited       = fmt.Errorf("rate limit exceeded")
	ErrInvalidCursor     = fmt.Errorf("invalid history cursor")
	ErrUnsupportedFrame  = fmt.Errorf("unsupported frame type")
	ErrPayloadTooLarge   = fmt.Errorf("payload too large")
)
