//go:generate go run go.uber.org/mock/mockgen -source=contact.go -destination=../mocks/mock_contact_repository.go -package=mocks
package repositories

import (
	"chat-relay/errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

type IContactRepository interface {
	AddContact(owner, target string) error
	DeleteContact(owner, target string) error
	Block(owner, target string) error
	Unblock(owner, target string) error
	ListContacts(owner string) ([]string, error)
	ListBlocked(owner string) ([]string, error)
	IsBlocked(owner, target string) (bool, error)
}

type relation string

const (
	contactRelation relation = "contact"
	blockRelation   relation = "block"
)

type ContactRepository struct {
	db  *badger.DB
	now func() time.Time
}

func NewContactRepository(db *badger.DB) *ContactRepository {
	return &ContactRepository{db: db, now: time.Now}
}

// AddContact is idempotent, the original creation date is kept.
func (c *ContactRepository) AddContact(owner, target string) error {
	if err := checkPair(owner, target); err != nil {
		return err
	}
	return c.db.Update(func(txn *badger.Txn) error {
		key := relationKey(contactRelation, owner, target)
		if _, err := txn.Get(key); err == nil {
			return nil
		}
		return c.set(txn, key)
	})
}

func (c *ContactRepository) DeleteContact(owner, target string) error {
	if err := checkPair(owner, target); err != nil {
		return err
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(relationKey(contactRelation, owner, target))
	})
}

// Block records that owner refuses messages from target and drops target from
// owner's contacts in the same transaction.
func (c *ContactRepository) Block(owner, target string) error {
	if err := checkPair(owner, target); err != nil {
		return err
	}
	return c.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(relationKey(contactRelation, owner, target)); err != nil {
			return err
		}
		return c.set(txn, relationKey(blockRelation, owner, target))
	})
}

func (c *ContactRepository) Unblock(owner, target string) error {
	if err := checkPair(owner, target); err != nil {
		return err
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(relationKey(blockRelation, owner, target))
	})
}

func (c *ContactRepository) ListContacts(owner string) ([]string, error) {
	return c.list(contactRelation, owner)
}

func (c *ContactRepository) ListBlocked(owner string) ([]string, error) {
	return c.list(blockRelation, owner)
}

func (c *ContactRepository) IsBlocked(owner, target string) (bool, error) {
	blocked := false
	err := c.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(relationKey(blockRelation, owner, target))
		switch {
		case err == nil:
			blocked = true
			return nil
		case err == badger.ErrKeyNotFound:
			return nil
		default:
			return err
		}
	})
	return blocked, err
}

func (c *ContactRepository) set(txn *badger.Txn, key []byte) error {
	value, err := structpb.NewStruct(map[string]any{
		"since": c.now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}
	b, err := proto.Marshal(value)
	if err != nil {
		return err
	}
	return txn.Set(key, b)
}

// list returns the targets of owner for one relation, sorted.
func (c *ContactRepository) list(r relation, owner string) ([]string, error) {
	var targets []string
	err := c.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("%s:%s:", r, encodeID(owner)))
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			target, err := decodeID(string(it.Item().Key()[len(prefix):]))
			if err != nil {
				return err
			}
			targets = append(targets, target)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(targets)
	return targets, nil
}

func relationKey(r relation, owner, target string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", r, encodeID(owner), encodeID(target)))
}

func checkPair(owner, target string) error {
	if strings.TrimSpace(owner) == "" || strings.TrimSpace(target) == "" {
		return errors.ErrInvalidUserID
	}
	if owner == target {
		return errors.ErrSelfReference
	}
	return nil
}
