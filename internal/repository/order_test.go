package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunam1808/regional-specialties-be/internal/entity"
)

func newRepos(t *testing.T) (*OrderRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	inventory := NewInventoryRepository(db)
	cart := NewCartRepository(db, inventory)
	return NewOrderRepository(db, inventory, cart), mock
}

var testOrder = CheckoutOrder{
	OrderID:         "ord-1",
	AccountID:       1,
	PaymentMethod:   entity.PaymentMethodCash,
	ShippingAddress: "X",
	ShippingFee:     200,
	Status:          entity.StatusPending,
}

func expectCustomerLookup(mock sqlmock.Sqlmock, customerID int) {
	mock.ExpectQuery("SELECT id FROM customers WHERE account_id").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(customerID))
}

func TestCheckoutHappyPath(t *testing.T) {
	repo, mock := newRepos(t)

	mock.ExpectBegin()
	expectCustomerLookup(mock, 7)
	mock.ExpectQuery("FROM order_items oi").
		WithArgs("CART_1", 3, 4).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "name", "quantity", "unit_price", "stock"}).
			AddRow(3, "Dried mango", 2, 1000.0, 5).
			AddRow(4, "Forest honey", 1, 500.0, 9))
	mock.ExpectExec("INSERT INTO orders").
		WithArgs("ord-1", 7, 1, 2700.0, entity.StatusPending, entity.PaymentMethodCash, "X", 200.0, 0.0, "").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE order_items SET order_id").
		WithArgs("ord-1", "CART_1", 3, 4).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("UPDATE products SET stock = stock").
		WithArgs(2, 2, 3, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE products SET stock = stock").
		WithArgs(1, 1, 4, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	total, err := repo.Checkout(context.Background(), testOrder, []int{3, 4})

	require.NoError(t, err)
	assert.Equal(t, 2700.0, total, "total = 2*1000 + 1*500 + 200 shipping")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutInsufficientStockRollsBack(t *testing.T) {
	repo, mock := newRepos(t)

	mock.ExpectBegin()
	expectCustomerLookup(mock, 7)
	mock.ExpectQuery("FROM order_items oi").
		WithArgs("CART_1", 3).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "name", "quantity", "unit_price", "stock"}).
			AddRow(3, "Dried mango", 6, 1000.0, 5))
	mock.ExpectRollback()

	_, err := repo.Checkout(context.Background(), testOrder, []int{3})

	var stockErr *entity.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Dried mango", stockErr.Product)
	assert.Equal(t, 5, stockErr.Remaining)
	assert.NoError(t, mock.ExpectationsWereMet(), "no order insert, no stock decrement")
}

func TestCheckoutMissingCustomerRollsBack(t *testing.T) {
	repo, mock := newRepos(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM customers WHERE account_id").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := repo.Checkout(context.Background(), testOrder, []int{3})

	assert.ErrorIs(t, err, entity.ErrCustomerProfileMissing)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutEmptySelectionRollsBack(t *testing.T) {
	repo, mock := newRepos(t)

	mock.ExpectBegin()
	expectCustomerLookup(mock, 7)
	mock.ExpectQuery("FROM order_items oi").
		WithArgs("CART_1", 3).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "name", "quantity", "unit_price", "stock"}))
	mock.ExpectRollback()

	_, err := repo.Checkout(context.Background(), testOrder, []int{3})

	assert.ErrorIs(t, err, entity.ErrCartEmpty)
}

func TestCheckoutDefensiveDecrementFailureRollsBack(t *testing.T) {
	repo, mock := newRepos(t)

	mock.ExpectBegin()
	expectCustomerLookup(mock, 7)
	mock.ExpectQuery("FROM order_items oi").
		WithArgs("CART_1", 3).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "name", "quantity", "unit_price", "stock"}).
			AddRow(3, "Dried mango", 2, 1000.0, 5))
	mock.ExpectExec("INSERT INTO orders").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE order_items SET order_id").
		WillReturnResult(sqlmock.NewResult(0, 1))
	// The guarded update touches zero rows: stock changed underneath us.
	mock.ExpectExec("UPDATE products SET stock = stock").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.Checkout(context.Background(), testOrder, []int{3})

	var stockErr *entity.InsufficientStockError
	assert.ErrorAs(t, err, &stockErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutDirect(t *testing.T) {
	repo, mock := newRepos(t)

	mock.ExpectBegin()
	expectCustomerLookup(mock, 7)
	mock.ExpectQuery("SELECT id, name, price, stock FROM products").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "stock"}).
			AddRow(5, "Rice paper", 800.0, 10))
	mock.ExpectExec("INSERT INTO orders").
		WithArgs("ord-1", 7, 1, 1800.0, entity.StatusPending, entity.PaymentMethodCash, "X", 200.0, 0.0, "").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs("ord-1", 5, 2, 800.0, "").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE products SET stock = stock").
		WithArgs(2, 2, 5, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	total, err := repo.CheckoutDirect(context.Background(), testOrder, []entity.OrderLine{
		{ProductID: 5, Quantity: 2, UnitPrice: 800},
	})

	require.NoError(t, err)
	assert.Equal(t, 1800.0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutDirectUnknownProduct(t *testing.T) {
	repo, mock := newRepos(t)

	mock.ExpectBegin()
	expectCustomerLookup(mock, 7)
	mock.ExpectQuery("SELECT id, name, price, stock FROM products").
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "stock"}))
	mock.ExpectRollback()

	_, err := repo.CheckoutDirect(context.Background(), testOrder, []entity.OrderLine{
		{ProductID: 99, Quantity: 1, UnitPrice: 100},
	})

	assert.ErrorIs(t, err, entity.ErrProductNotFound)
}

func TestUpdateStatusScopesNonAdminToOwnOrders(t *testing.T) {
	repo, mock := newRepos(t)

	mock.ExpectExec("UPDATE orders SET status").
		WithArgs(entity.StatusCancelled, "ord-1", 2).
		WillReturnResult(sqlmock.NewResult(0, 0))

	actor := entity.Actor{AccountID: 2, Role: entity.RoleUser}
	err := repo.UpdateStatus(context.Background(), actor, "ord-1", entity.StatusCancelled)

	assert.ErrorIs(t, err, entity.ErrNotFoundOrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusAdminIsUnscoped(t *testing.T) {
	repo, mock := newRepos(t)

	mock.ExpectExec("UPDATE orders SET status").
		WithArgs(entity.StatusConfirmed, "ord-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	admin := entity.Actor{AccountID: 9, Role: entity.RoleAdmin}
	err := repo.UpdateStatus(context.Background(), admin, "ord-1", entity.StatusConfirmed)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdvanceStatusReportsManualOverride(t *testing.T) {
	repo, mock := newRepos(t)

	mock.ExpectExec("UPDATE orders SET status").
		WithArgs(entity.StatusShipping, "ord-1", entity.StatusConfirmed).
		WillReturnResult(sqlmock.NewResult(0, 0))

	applied, err := repo.AdvanceStatus(context.Background(), "ord-1", entity.StatusConfirmed, entity.StatusShipping)

	require.NoError(t, err)
	assert.False(t, applied)
}

func TestDeleteOrderNotOwnedRollsBack(t *testing.T) {
	repo, mock := newRepos(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM orders").
		WithArgs("ord-1", 2).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	actor := entity.Actor{AccountID: 2, Role: entity.RoleUser}
	err := repo.DeleteOrder(context.Background(), actor, "ord-1")

	assert.ErrorIs(t, err, entity.ErrNotFoundOrForbidden)
}

func TestGetOrderNotOwnedIsConflatedWithMissing(t *testing.T) {
	repo, mock := newRepos(t)

	mock.ExpectQuery("SELECT (.+) FROM orders WHERE order_id").
		WithArgs("ord-1", 2).
		WillReturnRows(sqlmock.NewRows([]string{"order_id"}))

	actor := entity.Actor{AccountID: 2, Role: entity.RoleUser}
	_, err := repo.GetOrder(context.Background(), actor, "ord-1")

	assert.ErrorIs(t, err, entity.ErrNotFoundOrForbidden)
}
