package service

import (
	"context"

	"github.com/tunam1808/regional-specialties-be/internal/entity"
)

// CartStore is the persistence surface the cart service drives.
type CartStore interface {
	AddLine(ctx context.Context, accountID int, line entity.OrderLine) (string, error)
	ListLines(ctx context.Context, accountID int) ([]entity.CartLine, error)
	RemoveLine(ctx context.Context, accountID, productID int) error
}

type CartService struct {
	cart CartStore
}

func NewCartService(cart CartStore) *CartService {
	return &CartService{cart: cart}
}

// AddLine puts a product into the actor's cart, capturing the unit price at
// add-time. Quantity defaults to 1 at the API layer.
func (s *CartService) AddLine(ctx context.Context, actor entity.Actor, line entity.OrderLine) (string, error) {
	if line.ProductID <= 0 || line.UnitPrice <= 0 {
		return "", entity.Validationf("product id and unit price are required")
	}
	if line.Quantity <= 0 {
		return "", entity.Validationf("quantity must be positive")
	}

	cartID, err := s.cart.AddLine(ctx, actor.AccountID, line)
	if err != nil {
		logger.Error().Err(err).Int("product_id", line.ProductID).Msg("Error adding cart line")
		return "", err
	}
	return cartID, nil
}

func (s *CartService) ListCart(ctx context.Context, actor entity.Actor) ([]entity.CartLine, error) {
	return s.cart.ListLines(ctx, actor.AccountID)
}

func (s *CartService) RemoveLine(ctx context.Context, actor entity.Actor, productID int) error {
	return s.cart.RemoveLine(ctx, actor.AccountID, productID)
}
