//go:generate go run go.uber.org/mock/mockgen -source=contact_service.go -destination=../mocks/mock_contact_service.go -package=mocks
package services

import (
	"chat-relay/domain"
	"chat-relay/repositories"
	"log/slog"

	"github.com/samber/lo"
)

// Relations are the two private lists a user keeps about others.
type Relations struct {
	Contacts []domain.UserID
	Blocked  []domain.UserID
}

type IContactService interface {
	AddContact(owner, target domain.UserID) error
	RemoveContact(owner, target domain.UserID) error
	Block(owner, target domain.UserID) error
	Unblock(owner, target domain.UserID) error
	Relations(owner domain.UserID) (Relations, error)
}

type ContactService struct {
	log               *slog.Logger
	contactRepository repositories.IContactRepository
}

func NewContactService(log *slog.Logger, repo repositories.IContactRepository) *ContactService {
	return &ContactService{log: log, contactRepository: repo}
}

func (s *ContactService) AddContact(owner, target domain.UserID) error {
	return s.contactRepository.AddContact(owner.String(), target.String())
}

func (s *ContactService) RemoveContact(owner, target domain.UserID) error {
	return s.contactRepository.DeleteContact(owner.String(), target.String())
}

// Block also drops target from the contacts of owner.
// From then on the router refuses messages from target to owner.
func (s *ContactService) Block(owner, target domain.UserID) error {
	if err := s.contactRepository.Block(owner.String(), target.String()); err != nil {
		return err
	}
	s.log.Info("User blocked", "owner", owner, "target", target)
	return nil
}

func (s *ContactService) Unblock(owner, target domain.UserID) error {
	if err := s.contactRepository.Unblock(owner.String(), target.String()); err != nil {
		return err
	}
	s.log.Info("User unblocked", "owner", owner, "target", target)
	return nil
}

// Relations never returns nil lists.
func (s *ContactService) Relations(owner domain.UserID) (Relations, error) {
	contacts, err := s.contactRepository.ListContacts(owner.String())
	if err != nil {
		return Relations{}, err
	}
	blocked, err := s.contactRepository.ListBlocked(owner.String())
	if err != nil {
		return Relations{}, err
	}
	return Relations{Contacts: toUserIDs(contacts), Blocked: toUserIDs(blocked)}, nil
}

func toUserIDs(ids []string) []domain.UserID {
	return lo.Map(lo.Ternary(ids == nil, []string{}, ids), func(id string, _ int) domain.UserID {
		return domain.UserID(id)
	})
}
