package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/tunam1808/regional-specialties-be/internal/entity"
)

// ProductStore is the read surface backing the catalog display endpoints.
type ProductStore interface {
	GetProductByID(ctx context.Context, id int) (*entity.Product, error)
	ListProducts(ctx context.Context) ([]entity.Product, error)
}

// ProductView is a product with its effective sale price computed.
type ProductView struct {
	entity.Product
	FinalPrice float64 `json:"final_price"`
}

// ProductService serves read-only catalog data. Single-product reads go
// through a short-lived Redis cache.
type ProductService struct {
	products ProductStore
	rdb      *redis.Client
}

func NewProductService(products ProductStore, rdb *redis.Client) *ProductService {
	return &ProductService{products: products, rdb: rdb}
}

func (s *ProductService) GetProduct(ctx context.Context, id int) (*ProductView, error) {
	key := fmt.Sprintf("product:%d", id)

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, key).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			logger.Error().Err(err).Msgf("Error reading product %d from cache", id)
		}
		if cached != "" {
			view := ProductView{}
			if err := json.Unmarshal([]byte(cached), &view); err == nil {
				return &view, nil
			}
		}
	}

	p, err := s.products.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := &ProductView{Product: *p, FinalPrice: p.DiscountedPrice()}

	if s.rdb != nil {
		data, err := json.Marshal(view)
		if err == nil {
			if err := s.rdb.Set(ctx, key, data, 5*time.Minute).Err(); err != nil {
				logger.Error().Err(err).Msgf("Error caching product %d", id)
			}
		}
	}
	return view, nil
}

func (s *ProductService) ListProducts(ctx context.Context) ([]ProductView, error) {
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing products")
		return nil, err
	}

	views := make([]ProductView, len(products))
	for i, p := range products {
		views[i] = ProductView{Product: p, FinalPrice: p.DiscountedPrice()}
	}
	return views, nil
}
