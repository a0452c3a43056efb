package repository

import (
	"context"
	"database/sql"

	"github.com/tunam1808/regional-specialties-be/internal/entity"
)

// CheckoutOrder carries the caller-supplied order fields into the checkout
// transaction. The order id is allocated by the service before the
// transaction starts.
type CheckoutOrder struct {
	OrderID         string
	AccountID       int
	PaymentMethod   string
	ShippingAddress string
	ShippingFee     float64
	Distance        float64
	Note            string
	Status          string
}

// OrderRepository owns the orders table, the checkout transaction and the
// status state machine writes.
type OrderRepository struct {
	db        *sql.DB
	inventory *InventoryRepository
	cart      *CartRepository
}

func NewOrderRepository(db *sql.DB, inventory *InventoryRepository, cart *CartRepository) *OrderRepository {
	return &OrderRepository{db: db, inventory: inventory, cart: cart}
}

// Checkout converts the selected cart lines into a finalized order. The
// whole conversion runs in one transaction: lock cart lines with live stock,
// validate, insert the order, re-parent the lines under the new order id and
// decrement stock. Any failure rolls the transaction back untouched.
func (r *OrderRepository) Checkout(ctx context.Context, order CheckoutOrder, selectedProductIDs []int) (float64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}

	customerID, err := r.customerIDForAccount(ctx, tx, order.AccountID)
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	cartID := entity.CartID(order.AccountID)
	lines, err := r.cart.LockLines(ctx, tx, cartID, selectedProductIDs)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	if len(lines) == 0 {
		tx.Rollback()
		return 0, entity.ErrCartEmpty
	}

	total := order.ShippingFee
	for _, line := range lines {
		if line.Quantity > line.Stock {
			tx.Rollback()
			return 0, &entity.InsufficientStockError{ProductID: line.ProductID, Product: line.Name, Remaining: line.Stock}
		}
		total += float64(line.Quantity) * line.UnitPrice
	}

	if err := r.insertOrder(ctx, tx, order, customerID, total); err != nil {
		tx.Rollback()
		return 0, err
	}

	// Re-parent the purchased lines under the new order id rather than
	// copying them; the rest of the cart stays behind.
	reparent := `UPDATE order_items SET order_id = ? WHERE order_id = ? AND product_id IN (` + placeholders(len(selectedProductIDs)) + `)`
	args := append([]any{order.OrderID, cartID}, intArgs(selectedProductIDs)...)
	if _, err := tx.ExecContext(ctx, reparent, args...); err != nil {
		tx.Rollback()
		return 0, err
	}

	for _, line := range lines {
		if err := r.inventory.DecrementStock(ctx, tx, line.ProductID, line.Quantity); err != nil {
			tx.Rollback()
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return total, nil
}

// CheckoutDirect finalizes a "buy now" order from an ad-hoc item list that
// is not drawn from the cart. Same transaction skeleton as Checkout, but the
// products are locked directly and fresh order lines are inserted.
func (r *OrderRepository) CheckoutDirect(ctx context.Context, order CheckoutOrder, items []entity.OrderLine) (float64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}

	customerID, err := r.customerIDForAccount(ctx, tx, order.AccountID)
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	ids := make([]int, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}
	products, err := r.inventory.LockProducts(ctx, tx, ids)
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	stock := make(map[int]lockedProduct, len(products))
	for _, p := range products {
		stock[p.ID] = p
	}

	total := order.ShippingFee
	for _, item := range items {
		p := stock[item.ProductID]
		if item.Quantity > p.Stock {
			tx.Rollback()
			return 0, &entity.InsufficientStockError{ProductID: p.ID, Product: p.Name, Remaining: p.Stock}
		}
		total += float64(item.Quantity) * item.UnitPrice
	}

	if err := r.insertOrder(ctx, tx, order, customerID, total); err != nil {
		tx.Rollback()
		return 0, err
	}

	insert := `INSERT INTO order_items (order_id, product_id, quantity, unit_price, note) VALUES (?, ?, ?, ?, ?)`
	for _, item := range items {
		if _, err := tx.ExecContext(ctx, insert, order.OrderID, item.ProductID, item.Quantity, item.UnitPrice, item.Note); err != nil {
			tx.Rollback()
			return 0, err
		}
	}

	for _, item := range items {
		if err := r.inventory.DecrementStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
			tx.Rollback()
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *OrderRepository) customerIDForAccount(ctx context.Context, tx *sql.Tx, accountID int) (int, error) {
	var customerID int
	err := tx.QueryRowContext(ctx, `SELECT id FROM customers WHERE account_id = ?`, accountID).Scan(&customerID)
	if err == sql.ErrNoRows {
		return 0, entity.ErrCustomerProfileMissing
	}
	if err != nil {
		return 0, err
	}
	return customerID, nil
}

func (r *OrderRepository) insertOrder(ctx context.Context, tx *sql.Tx, order CheckoutOrder, customerID int, total float64) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO orders (order_id, customer_id, account_id, total, status, payment_method,
			shipping_address, shipping_fee, distance, note, placed_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`,
		order.OrderID, customerID, order.AccountID, total, order.Status, order.PaymentMethod,
		order.ShippingAddress, order.ShippingFee, order.Distance, order.Note,
	)
	return err
}

const orderColumns = `order_id, customer_id, account_id, total, status, payment_method,
	shipping_address, shipping_fee, distance, note, placed_at, updated_at`

// actorScope appends the ownership filter for non-admin actors. Every read
// and mutation goes through this single predicate instead of per-role query
// text.
func actorScope(actor entity.Actor) (string, []any) {
	if actor.Admin() {
		return "", nil
	}
	return " AND account_id = ?", []any{actor.AccountID}
}

// ListOrders returns the actor's orders, newest first; admins see all.
func (r *OrderRepository) ListOrders(ctx context.Context, actor entity.Actor) ([]entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE 1=1`
	scope, args := actorScope(actor)
	query += scope + ` ORDER BY placed_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []entity.Order{}
	for rows.Next() {
		o := entity.Order{}
		err := rows.Scan(&o.OrderID, &o.CustomerID, &o.AccountID, &o.Total, &o.Status, &o.PaymentMethod,
			&o.ShippingAddress, &o.ShippingFee, &o.Distance, &o.Note, &o.PlacedAt, &o.UpdatedAt)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// GetOrder returns one order with its lines, or ErrNotFoundOrForbidden when
// it does not exist or the actor may not see it.
func (r *OrderRepository) GetOrder(ctx context.Context, actor entity.Actor, orderID string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_id = ?`
	scope, scopeArgs := actorScope(actor)
	args := append([]any{orderID}, scopeArgs...)

	o := entity.Order{}
	err := r.db.QueryRowContext(ctx, query+scope, args...).Scan(
		&o.OrderID, &o.CustomerID, &o.AccountID, &o.Total, &o.Status, &o.PaymentMethod,
		&o.ShippingAddress, &o.ShippingFee, &o.Distance, &o.Note, &o.PlacedAt, &o.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, entity.ErrNotFoundOrForbidden
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT product_id, quantity, unit_price, note FROM order_items WHERE order_id = ?`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		line := entity.OrderLine{}
		if err := rows.Scan(&line.ProductID, &line.Quantity, &line.UnitPrice, &line.Note); err != nil {
			return nil, err
		}
		o.Lines = append(o.Lines, line)
	}
	return &o, rows.Err()
}

// UpdateStatus writes a new status for an order the actor may mutate.
func (r *OrderRepository) UpdateStatus(ctx context.Context, actor entity.Actor, orderID, status string) error {
	query := `UPDATE orders SET status = ?, updated_at = NOW() WHERE order_id = ?`
	scope, scopeArgs := actorScope(actor)
	args := append([]any{status, orderID}, scopeArgs...)

	res, err := r.db.ExecContext(ctx, query+scope, args...)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrNotFoundOrForbidden
	}
	return nil
}

// DeleteOrder removes the order and its lines.
func (r *OrderRepository) DeleteOrder(ctx context.Context, actor entity.Actor, orderID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	query := `DELETE FROM orders WHERE order_id = ?`
	scope, scopeArgs := actorScope(actor)
	args := append([]any{orderID}, scopeArgs...)

	res, err := tx.ExecContext(ctx, query+scope, args...)
	if err != nil {
		tx.Rollback()
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return err
	}
	if affected == 0 {
		tx.Rollback()
		return entity.ErrNotFoundOrForbidden
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, orderID)
	if err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// AdvanceStatus applies a transition only if the order is still in the
// expected prior status. A false return means a manual write moved the order
// elsewhere and the transition was skipped.
func (r *OrderRepository) AdvanceStatus(ctx context.Context, orderID, from, to string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = ?, updated_at = NOW() WHERE order_id = ? AND status = ?`,
		to, orderID, from,
	)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}
