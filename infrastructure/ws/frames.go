package ws

import (
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

// Inbound frame types.
const (
	TypeUserOnline   = "user:online"
	TypeSendMessage  = "send:message"
	TypeHistoryFetch = "history:fetch"
)

// Outbound frame types.
const (
	TypeOnlineUsers    = "online:users"
	TypeReceiveMessage = "receive:message"
	TypeMessageSent    = "message:sent"
	TypeHistory        = "history"
	TypeError          = "error"
)

var validate = validator.New()

type Frame struct {
	Type      string          `json:"type"`
	RequestID string          `json:"request_id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

type UserOnlinePayload struct {
	UserID string `json:"user_id" validate:"required,max=256"`
}

type SendMessagePayload struct {
	Recipient string `json:"recipient" validate:"required,max=256"`
	Text      string `json:"text"`
	File      string `json:"file" validate:"max=2048"`
	FileType  string `json:"file_type" validate:"max=255"`
}

type HistoryFetchPayload struct {
	PeerID string  `json:"peer_id" validate:"required,max=256"`
	Cursor *string `json:"cursor,omitempty"`
}

type OnlineUsersPayload struct {
	Users []string `json:"users"`
}

type MessageView struct {
	ID          string `json:"id"`
	SenderID    string `json:"sender_id"`
	RecipientID string `json:"recipient_id"`
	Text        string `json:"text,omitempty"`
	File        string `json:"file,omitempty"`
	FileType    string `json:"file_type,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type MessagePayload struct {
	Message MessageView `json:"message"`
}

type HistoryPayload struct {
	Messages []MessageView `json:"messages"`
	Cursor   *string       `json:"cursor,omitempty"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Decode unmarshals and validates a frame payload.
func Decode[T any](frame Frame) (T, error) {
	var payload T
	if len(frame.Payload) == 0 {
		return payload, errors.ErrInvalidPayload
	}
	if err := json.Unmarshal(frame.Payload, &payload); err != nil {
		return payload, errors.ErrInvalidPayload
	}
	if err := validate.Struct(payload); err != nil {
		return payload, errors.ErrInvalidPayload
	}
	return payload, nil
}

func NewFrame(frameType, requestID string, payload any) (Frame, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Type: frameType, RequestID: requestID, Payload: b}, nil
}

// ErrorFrame carries the wire code of err, never its internal cause.
func ErrorFrame(requestID string, err error) Frame {
	code, message := errors.Describe(err)
	frame, _ := NewFrame(TypeError, requestID, ErrorPayload{Code: code, Message: message})
	return frame
}

// EncodeEvent maps a runtime event to its outbound frame.
// Events without a wire representation return false.
func EncodeEvent(e event.DomainEvent, requestID string) (Frame, bool, error) {
	var (
		frame Frame
		err   error
	)
	switch evt := e.(type) {
	case event.PresenceChanged:
		frame, err = NewFrame(TypeOnlineUsers, "", OnlineUsersPayload{
			Users: lo.Map(evt.Online, func(u domain.UserID, _ int) string { return u.String() }),
		})
	case event.MessageDelivered:
		frame, err = NewFrame(TypeReceiveMessage, "", MessagePayload{Message: ToMessageView(evt.Message)})
	case event.MessageAccepted:
		frame, err = NewFrame(TypeMessageSent, requestID, MessagePayload{Message: ToMessageView(evt.Message)})
	default:
		return Frame{}, false, nil
	}
	return frame, err == nil, err
}

func ToMessageView(m domain.Message) MessageView {
	return MessageView{
		ID:          m.ID.String(),
		SenderID:    m.SenderID.String(),
		RecipientID: m.RecipientID.String(),
		Text:        m.Body.Text,
		File:        m.Body.File,
		FileType:    m.Body.FileType,
		CreatedAt:   m.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func ToMessageViews(messages []domain.Message) []MessageView {
	return lo.Map(messages, func(m domain.Message, _ int) MessageView { return ToMessageView(m) })
}
