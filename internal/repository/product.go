package repository

import (
	"context"
	"database/sql"

	"github.com/tunam1808/regional-specialties-be/internal/entity"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db}
}

func (r *ProductRepository) GetProductByID(ctx context.Context, id int) (*entity.Product, error) {
	p := entity.Product{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, image, description, price, discount, stock, sold FROM products WHERE id = ?`,
		id,
	).Scan(&p.ID, &p.Name, &p.Image, &p.Description, &p.Price, &p.Discount, &p.Stock, &p.Sold)
	if err == sql.ErrNoRows {
		return nil, entity.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) ListProducts(ctx context.Context) ([]entity.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, image, description, price, discount, stock, sold FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []entity.Product{}
	for rows.Next() {
		p := entity.Product{}
		err := rows.Scan(&p.ID, &p.Name, &p.Image, &p.Description, &p.Price, &p.Discount, &p.Stock, &p.Sold)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
