//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"bytes"
	"chat-relay/domain"
	"chat-relay/errors"
	"encoding/base64"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

type IMessageRepository interface {
	StoreMessage(message DiskMessage) error
	GetConversation(userA, userB string, cursor *string) ([]DiskMessage, *string, error)
}

type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) MessageRepository {
	return MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

type DiskMessage struct {
	ID          uuid.UUID
	SenderID    string
	RecipientID string
	Text        string
	File        string
	FileType    string
	At          time.Time
}

// StoreMessage persists a message in BadgerDB.
// The key is formatted as "msg:{pair}:{timestamp_padded}:{uuid}" where pair is
// the same for both directions of a conversation. The 19-digit padding keeps
// lexicographical order chronological and the UUID breaks same-nanosecond ties.
func (m MessageRepository) StoreMessage(message DiskMessage) error {
	key := fmt.Sprintf("%s%019d:%s",
		conversationPrefix(message.SenderID, message.RecipientID),
		message.At.UnixNano(),
		message.ID,
	)
	value, err := fromDiskMessage(message)
	if err != nil {
		return err
	}
	b, err := proto.Marshal(value)
	if err != nil {
		return err
	}
	return m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), b)
	})
}

// GetConversation returns the most recent messages exchanged between two users,
// oldest first. The scan runs backwards from the newest key (or from just before
// cursor) and stops at limitMessages. The returned cursor points at the oldest
// message of the page and is nil once history is exhausted.
func (m MessageRepository) GetConversation(userA, userB string, cursor *string) ([]DiskMessage, *string, error) {
	if cursor != nil && !isValidCursor(*cursor) {
		return nil, nil, errors.ErrInvalidCursor
	}

	var values [][]byte
	var lastKey string
	full := false
	err := m.db.View(func(txn *badger.Txn) error {
		prefixStr := conversationPrefix(userA, userB)
		prefix := []byte(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// msg:{pair}:9999999999999999999 sorts after every stored key of the pair
			seekKey = append([]byte(prefixStr), []byte("9999999999999999999")...)
		default:
			seekKey = append([]byte(prefixStr), []byte(*cursor)...)
		}

		it.Seek(seekKey)
		if cursor != nil && it.ValidForPrefix(prefix) && bytes.Equal(it.Item().Key(), seekKey) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if m.limitMessages != nil && len(values) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d message reached", *m.limitMessages))
				full = true
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[len(prefix):])
			if err := item.Value(func(value []byte) error {
				values = append(values, slices.Clone(value))
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	messages := make([]DiskMessage, 0, len(values))
	for _, b := range values {
		var value structpb.Struct
		if err = proto.Unmarshal(b, &value); err != nil {
			return nil, nil, err
		}
		message, err := toDiskMessage(&value)
		if err != nil {
			return nil, nil, err
		}
		messages = append(messages, message)
	}
	slices.Reverse(messages)

	if !full {
		return messages, nil, nil
	}
	return messages, lo.ToPtr(lastKey), nil
}

// conversationPrefix is independent of the argument order.
// Identities are base64 encoded so that a ':' inside one cannot collide with the separator.
func conversationPrefix(userA, userB string) string {
	pair := []string{encodeID(userA), encodeID(userB)}
	slices.Sort(pair)
	return fmt.Sprintf("msg:%s:%s:", pair[0], pair[1])
}

func encodeID(id string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(id))
}

func decodeID(encoded string) (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// isValidCursor accepts "{19 digits}:{uuid}".
func isValidCursor(cursor string) bool {
	if len(cursor) < 21 || cursor[19] != ':' {
		return false
	}
	if _, err := strconv.ParseUint(cursor[:19], 10, 64); err != nil {
		return false
	}
	_, err := uuid.Parse(cursor[20:])
	return err == nil
}

func fromDiskMessage(message DiskMessage) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"id":           message.ID.String(),
		"sender_id":    message.SenderID,
		"recipient_id": message.RecipientID,
		"text":         message.Text,
		"file":         message.File,
		"file_type":    message.FileType,
		"created_at":   message.At.UTC().Format(time.RFC3339Nano),
	})
}

func toDiskMessage(value *structpb.Struct) (DiskMessage, error) {
	fields := value.GetFields()
	parsedID, err := uuid.Parse(fields["id"].GetStringValue())
	if err != nil {
		return DiskMessage{}, err
	}
	at, err := time.Parse(time.RFC3339Nano, fields["created_at"].GetStringValue())
	if err != nil {
		return DiskMessage{}, err
	}
	return DiskMessage{
		ID:          parsedID,
		SenderID:    fields["sender_id"].GetStringValue(),
		RecipientID: fields["recipient_id"].GetStringValue(),
		Text:        fields["text"].GetStringValue(),
		File:        fields["file"].GetStringValue(),
		FileType:    fields["file_type"].GetStringValue(),
		At:          at.UTC(),
	}, nil
}

func FromMessage(message domain.Message) DiskMessage {
	return DiskMessage{
		ID:          message.ID,
		SenderID:    message.SenderID.String(),
		RecipientID: message.RecipientID.String(),
		Text:        message.Body.Text,
		File:        message.Body.File,
		FileType:    message.Body.FileType,
		At:          message.CreatedAt,
	}
}

func (d DiskMessage) ToMessage() domain.Message {
	return domain.Message{
		ID:          d.ID,
		SenderID:    domain.UserID(d.SenderID),
		RecipientID: domain.UserID(d.RecipientID),
		Body:        domain.Body{Text: d.Text, File: d.File, FileType: d.FileType},
		CreatedAt:   d.At,
	}
}
