package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/tunam1808/regional-specialties-be/internal/entity"
)

// lockedProduct is the slice of product state read under a row lock during
// checkout.
type lockedProduct struct {
	ID    int
	Name  string
	Price float64
	Stock int
}

// InventoryRepository holds the per-product stock and sold counters. All of
// its methods take the surrounding transaction so lock, validate and
// decrement happen atomically with the rest of the checkout.
type InventoryRepository struct {
	db *sql.DB
}

func NewInventoryRepository(db *sql.DB) *InventoryRepository {
	return &InventoryRepository{db}
}

// LockProducts opens exclusive row locks on the given products and returns
// their current state. Every requested id must exist.
func (r *InventoryRepository) LockProducts(ctx context.Context, tx *sql.Tx, ids []int) ([]lockedProduct, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT id, name, price, stock FROM products WHERE id IN (` + placeholders(len(ids)) + `) FOR UPDATE`
	rows, err := tx.QueryContext(ctx, query, intArgs(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []lockedProduct
	for rows.Next() {
		p := lockedProduct{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(products) != len(ids) {
		return nil, entity.ErrProductNotFound
	}
	return products, nil
}

// DecrementStock subtracts quantity from stock and adds it to the sold
// counter. The caller is expected to have validated against the locked stock
// already; the stock >= quantity guard re-checks defensively so stock can
// never go negative.
func (r *InventoryRepository) DecrementStock(ctx context.Context, tx *sql.Tx, productID, quantity int) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE products SET stock = stock - ?, sold = sold + ? WHERE id = ? AND stock >= ?`,
		quantity, quantity, productID, quantity,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &entity.InsufficientStockError{ProductID: productID}
	}
	return nil
}

// placeholders builds "?, ?, ?" for an IN clause of n values.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func intArgs(ids []int) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
