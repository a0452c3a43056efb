package migrations

import (
	"database/sql"
	"time"
)

var tables = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		image VARCHAR(255) NOT NULL DEFAULT '',
		description TEXT,
		price DOUBLE NOT NULL,
		discount INT NOT NULL DEFAULT 0,
		stock INT NOT NULL,
		sold INT NOT NULL DEFAULT 0
	);`,
	`CREATE TABLE IF NOT EXISTS customers (
		id INT AUTO_INCREMENT PRIMARY KEY,
		account_id INT NOT NULL UNIQUE,
		full_name VARCHAR(100) NOT NULL,
		phone VARCHAR(20) NOT NULL DEFAULT '',
		address VARCHAR(255) NOT NULL DEFAULT ''
	);`,
	`CREATE TABLE IF NOT EXISTS orders (
		id INT AUTO_INCREMENT PRIMARY KEY,
		order_id VARCHAR(64) NOT NULL UNIQUE,
		customer_id INT NOT NULL,
		account_id INT NOT NULL,
		total DOUBLE NOT NULL,
		status VARCHAR(20) NOT NULL,
		payment_method VARCHAR(30) NOT NULL,
		shipping_address VARCHAR(255) NOT NULL,
		shipping_fee DOUBLE NOT NULL DEFAULT 0,
		distance DOUBLE NOT NULL DEFAULT 0,
		note VARCHAR(255) NOT NULL DEFAULT '',
		placed_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id INT AUTO_INCREMENT PRIMARY KEY,
		order_id VARCHAR(64) NOT NULL,
		product_id INT NOT NULL,
		quantity INT NOT NULL,
		unit_price DOUBLE NOT NULL,
		note VARCHAR(255) NOT NULL DEFAULT '',
		UNIQUE KEY order_product_idx (order_id, product_id)
	);`,
}

// AutoMigrate creates the shop tables if they do not exist.
func AutoMigrate(retries int, db *sql.DB) error {
	for _, query := range tables {
		_, err := db.Exec(query)
		if err != nil {
			// Retry creating the table
			for i := 0; i < retries; i++ {
				time.Sleep(1 * time.Second)
				_, err = db.Exec(query)
				if err == nil {
					break
				}
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}
