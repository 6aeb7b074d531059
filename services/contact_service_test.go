package services_test

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/mocks"
	"chat-relay/repositories"
	"chat-relay/services"
	"fmt"
	"log/slog"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestContactService_Relations(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	t.Cleanup(func() { _ = db.Close() })
	service := services.NewContactService(slog.Default(), repositories.NewContactRepository(db))

	req.NoError(service.AddContact("alice", "bob"))
	req.NoError(service.AddContact("alice", "carol"))
	req.NoError(service.Block("alice", "carol"))

	relations, err := service.Relations("alice")
	req.NoError(err)
	req.Equal([]domain.UserID{"bob"}, relations.Contacts)
	req.Equal([]domain.UserID{"carol"}, relations.Blocked)

	req.NoError(service.Unblock("alice", "carol"))
	req.NoError(service.RemoveContact("alice", "bob"))

	relations, err = service.Relations("alice")
	req.NoError(err)
	req.NotNil(relations.Contacts)
	req.Empty(relations.Contacts)
	req.Empty(relations.Blocked)
}

func TestContactService_Propagates_Repository_Errors(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockIContactRepository(ctrl)
	service := services.NewContactService(slog.Default(), repo)

	repo.EXPECT().Block("alice", "alice").Return(errors.ErrSelfReference)
	req.ErrorIs(service.Block("alice", "alice"), errors.ErrSelfReference)

	repo.EXPECT().ListContacts("alice").Return([]string{"bob"}, nil)
	repo.EXPECT().ListBlocked("alice").Return(nil, fmt.Errorf("disk failure"))
	_, err := service.Relations("alice")
	req.Error(err)
}
