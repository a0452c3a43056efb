package service

import (
	"context"

	"github.com/tunam1808/regional-specialties-be/internal/entity"
)

// CustomerStore is the persistence surface for shop profiles.
type CustomerStore interface {
	GetByAccountID(ctx context.Context, accountID int) (*entity.Customer, error)
	Upsert(ctx context.Context, c *entity.Customer) error
}

type CustomerService struct {
	customers CustomerStore
}

func NewCustomerService(customers CustomerStore) *CustomerService {
	return &CustomerService{customers: customers}
}

func (s *CustomerService) GetProfile(ctx context.Context, actor entity.Actor) (*entity.Customer, error) {
	return s.customers.GetByAccountID(ctx, actor.AccountID)
}

// UpsertProfile lazily creates the customer record on first write. Checkout
// requires this record to exist.
func (s *CustomerService) UpsertProfile(ctx context.Context, actor entity.Actor, c entity.Customer) error {
	if c.FullName == "" {
		return entity.Validationf("full name is required")
	}
	c.AccountID = actor.AccountID
	if err := s.customers.Upsert(ctx, &c); err != nil {
		logger.Error().Err(err).Int("account_id", actor.AccountID).Msg("Error upserting customer profile")
		return err
	}
	return nil
}
