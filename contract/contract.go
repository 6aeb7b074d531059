//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-relay/domain"
	"chat-relay/domain/event"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// Connection is the handle of one live client channel.
// Two handles are the same connection if and only if their IDs are equal.
type Connection interface {
	EventSink
	ID() domain.ConnectionID
}

type IPresenceRegistry interface {
	Register(userID domain.UserID, conn Connection) error
	Unregister(connID domain.ConnectionID) (domain.UserID, bool)
	Lookup(userID domain.UserID) (Connection, bool)
	Snapshot() []domain.UserID
}

// IBroadcaster pushes one event to a fixed set of targets, asynchronously.
type IBroadcaster interface {
	Publish(e event.DomainEvent, targets []EventSink)
}

type ILifecycle interface {
	Open(conn Connection)
	Announce(connID domain.ConnectionID, userID domain.UserID) error
	Close(connID domain.ConnectionID)
	State(connID domain.ConnectionID) (domain.ConnectionState, bool)
}

type IRouter interface {
	Send(ctx context.Context, cmd domain.SendMessageCommand, origin EventSink) (domain.Message, error)
}

// IChat is the surface transports drive.
type IChat interface {
	Connect(conn Connection)
	Announce(connID domain.ConnectionID, userID domain.UserID) error
	Disconnect(connID domain.ConnectionID)
	SendMessage(ctx context.Context, cmd domain.SendMessageCommand, origin Connection) (domain.Message, error)
	GetConversation(cmd domain.GetConversationCommand) ([]domain.Message, *string, error)
	OnlineUsers() []domain.UserID
}
