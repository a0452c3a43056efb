package repository

import (
	"context"
	"database/sql"

	"github.com/tunam1808/regional-specialties-be/internal/entity"
)

type CustomerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db}
}

func (r *CustomerRepository) GetByAccountID(ctx context.Context, accountID int) (*entity.Customer, error) {
	c := entity.Customer{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, account_id, full_name, phone, address FROM customers WHERE account_id = ?`,
		accountID,
	).Scan(&c.ID, &c.AccountID, &c.FullName, &c.Phone, &c.Address)
	if err == sql.ErrNoRows {
		return nil, entity.ErrCustomerProfileMissing
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Upsert creates the customer profile on first write and updates it after;
// exactly one row per account.
func (r *CustomerRepository) Upsert(ctx context.Context, c *entity.Customer) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO customers (account_id, full_name, phone, address)
		 VALUES (?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE full_name = VALUES(full_name), phone = VALUES(phone), address = VALUES(address)`,
		c.AccountID, c.FullName, c.Phone, c.Address,
	)
	return err
}
