package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/suportify/helpdesk/internal/principal/domain"
)

// principalStore adapts the two physically separate realm repositories to
// the uniform Store contract.
type principalStore struct {
	clientRepo ClientRepository
	staffRepo  StaffRepository
}

// NewStore creates a Store over the two realm repositories.
func NewStore(clientRepo ClientRepository, staffRepo StaffRepository) Store {
	return &principalStore{clientRepo: clientRepo, staffRepo: staffRepo}
}

// FindByID looks up a principal by id within a single realm.
func (s *principalStore) FindByID(
	ctx context.Context,
	realm domain.Realm,
	id uuid.UUID,
) (domain.Principal, error) {
	switch realm {
	case domain.RealmClient:
		client, err := s.clientRepo.GetByID(ctx, id)
		if err != nil {
			return domain.Principal{}, err
		}
		return domain.Principal{Realm: domain.RealmClient, Client: client}, nil
	case domain.RealmStaff:
		staff, err := s.staffRepo.GetByID(ctx, id)
		if err != nil {
			return domain.Principal{}, err
		}
		return domain.Principal{Realm: domain.RealmStaff, Staff: staff}, nil
	default:
		return domain.Principal{}, domain.ErrInvalidRealm
	}
}

// FindByEmail looks up a principal by email within a single realm.
func (s *principalStore) FindByEmail(
	ctx context.Context,
	realm domain.Realm,
	email string,
) (domain.Principal, error) {
	switch realm {
	case domain.RealmClient:
		client, err := s.clientRepo.GetByEmail(ctx, email)
		if err != nil {
			return domain.Principal{}, err
		}
		return domain.Principal{Realm: domain.RealmClient, Client: client}, nil
	case domain.RealmStaff:
		staff, err := s.staffRepo.GetByEmail(ctx, email)
		if err != nil {
			return domain.Principal{}, err
		}
		return domain.Principal{Realm: domain.RealmStaff, Staff: staff}, nil
	default:
		return domain.Principal{}, domain.ErrInvalidRealm
	}
}
