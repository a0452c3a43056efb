package repository

import (
	"context"
	"database/sql"

	"github.com/tunam1808/regional-specialties-be/internal/entity"
)

// CartRepository manages the per-account cart, modeled as order_items rows
// parented under the derived CART_<account> pseudo-order id.
type CartRepository struct {
	db        *sql.DB
	inventory *InventoryRepository
}

func NewCartRepository(db *sql.DB, inventory *InventoryRepository) *CartRepository {
	return &CartRepository{db: db, inventory: inventory}
}

// AddLine upserts a cart line; re-adding the same product adds the
// quantities instead of duplicating the row. The stock check runs under a
// row lock in its own transaction.
func (r *CartRepository) AddLine(ctx context.Context, accountID int, line entity.OrderLine) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}

	products, err := r.inventory.LockProducts(ctx, tx, []int{line.ProductID})
	if err != nil {
		tx.Rollback()
		return "", err
	}

	p := products[0]
	if line.Quantity > p.Stock {
		tx.Rollback()
		return "", &entity.InsufficientStockError{ProductID: p.ID, Product: p.Name, Remaining: p.Stock}
	}

	cartID := entity.CartID(accountID)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO order_items (order_id, product_id, quantity, unit_price, note)
		 VALUES (?, ?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)`,
		cartID, line.ProductID, line.Quantity, line.UnitPrice, line.Note,
	)
	if err != nil {
		tx.Rollback()
		return "", err
	}

	err = tx.Commit()
	if err != nil {
		return "", err
	}

	return cartID, nil
}

// ListLines returns the cart joined with product display data. Plain read,
// no lock; the checkout path uses LockLines instead.
func (r *CartRepository) ListLines(ctx context.Context, accountID int) ([]entity.CartLine, error) {
	query := `SELECT oi.product_id, p.name, p.image, oi.quantity, oi.unit_price,
			 (oi.quantity * oi.unit_price) AS line_total, oi.note
		 FROM order_items oi
		 JOIN products p ON oi.product_id = p.id
		 WHERE oi.order_id = ?`

	rows, err := r.db.QueryContext(ctx, query, entity.CartID(accountID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []entity.CartLine{}
	for rows.Next() {
		l := entity.CartLine{}
		err := rows.Scan(&l.ProductID, &l.Name, &l.Image, &l.Quantity, &l.UnitPrice, &l.LineTotal, &l.Note)
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// lockedCartLine is a cart row read together with live product stock under a
// row lock during checkout.
type lockedCartLine struct {
	ProductID int
	Name      string
	Quantity  int
	UnitPrice float64
	Stock     int
}

// LockLines reads the selected cart lines joined with live product stock,
// locking the matched product rows for the duration of tx.
func (r *CartRepository) LockLines(ctx context.Context, tx *sql.Tx, cartID string, productIDs []int) ([]lockedCartLine, error) {
	query := `SELECT oi.product_id, p.name, oi.quantity, oi.unit_price, p.stock
		 FROM order_items oi
		 JOIN products p ON oi.product_id = p.id
		 WHERE oi.order_id = ? AND oi.product_id IN (` + placeholders(len(productIDs)) + `) FOR UPDATE`

	args := append([]any{cartID}, intArgs(productIDs)...)
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []lockedCartLine
	for rows.Next() {
		l := lockedCartLine{}
		if err := rows.Scan(&l.ProductID, &l.Name, &l.Quantity, &l.UnitPrice, &l.Stock); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// RemoveLine deletes one product from the cart.
func (r *CartRepository) RemoveLine(ctx context.Context, accountID, productID int) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM order_items WHERE order_id = ? AND product_id = ?`,
		entity.CartID(accountID), productID,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrCartLineNotFound
	}
	return nil
}
