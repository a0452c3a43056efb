package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunam1808/regional-specialties-be/internal/entity"
)

type fakeCartStore struct {
	added   []entity.OrderLine
	removed []int
}

func (f *fakeCartStore) AddLine(_ context.Context, accountID int, line entity.OrderLine) (string, error) {
	f.added = append(f.added, line)
	return entity.CartID(accountID), nil
}

func (f *fakeCartStore) ListLines(context.Context, int) ([]entity.CartLine, error) {
	return []entity.CartLine{}, nil
}

func (f *fakeCartStore) RemoveLine(_ context.Context, _ int, productID int) error {
	f.removed = append(f.removed, productID)
	return nil
}

func TestCartAddLine(t *testing.T) {
	store := &fakeCartStore{}
	svc := NewCartService(store)

	cartID, err := svc.AddLine(context.Background(), buyer, entity.OrderLine{ProductID: 3, Quantity: 2, UnitPrice: 1000})

	require.NoError(t, err)
	assert.Equal(t, "CART_1", cartID)
	assert.Len(t, store.added, 1)
}

func TestCartAddLineValidation(t *testing.T) {
	store := &fakeCartStore{}
	svc := NewCartService(store)

	tests := []struct {
		name string
		line entity.OrderLine
	}{
		{"missing product", entity.OrderLine{Quantity: 1, UnitPrice: 10}},
		{"missing price", entity.OrderLine{ProductID: 3, Quantity: 1}},
		{"non-positive quantity", entity.OrderLine{ProductID: 3, Quantity: -1, UnitPrice: 10}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.AddLine(context.Background(), buyer, tc.line)
			var validationErr *entity.ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}
	assert.Empty(t, store.added)
}
