package entity

import (
	"fmt"
	"time"
)

// Order statuses. Scheduler-driven delivery progression only ever moves
// confirmed -> shipping -> completed; everything else is a manual or
// payment-gateway transition.
const (
	StatusPending        = "pending"
	StatusConfirmed      = "confirmed"
	StatusShipping       = "shipping"
	StatusCompleted      = "completed"
	StatusCancelled      = "cancelled"
	StatusPaymentPending = "payment_pending"
	StatusPaymentFailed  = "payment_failed"
)

const (
	PaymentMethodCash     = "cash"
	PaymentMethodTransfer = "transfer"
	PaymentMethodEWallet  = "e-wallet"
	PaymentMethodPayPal   = "paypal"
)

var validStatuses = map[string]bool{
	StatusPending:        true,
	StatusConfirmed:      true,
	StatusShipping:       true,
	StatusCompleted:      true,
	StatusCancelled:      true,
	StatusPaymentPending: true,
	StatusPaymentFailed:  true,
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool { return validStatuses[s] }

type Order struct {
	ID              int         `json:"id"`
	OrderID         string      `json:"order_id"`
	CustomerID      int         `json:"customer_id"`
	AccountID       int         `json:"account_id"`
	Total           float64     `json:"total"`
	Status          string      `json:"status"`
	PaymentMethod   string      `json:"payment_method"`
	ShippingAddress string      `json:"shipping_address"`
	ShippingFee     float64     `json:"shipping_fee"`
	Distance        float64     `json:"distance"`
	Note            string      `json:"note"`
	PlacedAt        time.Time   `json:"placed_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	Lines           []OrderLine `json:"lines,omitempty"`
}

// OrderLine is a snapshot of a purchased product. Cart lines share the same
// table, parented under the cart id instead of a real order id, and the unit
// price is captured at add-time, never re-read from the live product.
type OrderLine struct {
	ProductID int     `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Note      string  `json:"note"`
}

// CartLine is a cart row joined with product display data.
type CartLine struct {
	ProductID int     `json:"product_id"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
	Note      string  `json:"note"`
}

// CartID derives the pseudo-order id holding an account's cart lines.
func CartID(accountID int) string {
	return fmt.Sprintf("CART_%d", accountID)
}

/*
Schema MySQL:
CREATE TABLE `orders` (
  `id` int(11) NOT NULL AUTO_INCREMENT,
  `order_id` varchar(64) NOT NULL,
  `customer_id` int(11) NOT NULL,
  `account_id` int(11) NOT NULL,
  `total` double NOT NULL,
  `status` varchar(20) NOT NULL,
  `payment_method` varchar(30) NOT NULL,
  `shipping_address` varchar(255) NOT NULL,
  `shipping_fee` double NOT NULL DEFAULT 0,
  `distance` double NOT NULL DEFAULT 0,
  `note` varchar(255) NOT NULL DEFAULT '',
  `placed_at` datetime NOT NULL,
  `updated_at` datetime NOT NULL,
  PRIMARY KEY (`id`),
  UNIQUE KEY `order_id_idx` (`order_id`)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

CREATE TABLE `order_items` (
  `id` int(11) NOT NULL AUTO_INCREMENT,
  `order_id` varchar(64) NOT NULL,  -- either CART_<account> or a real order id
  `product_id` int(11) NOT NULL,
  `quantity` int(11) NOT NULL,
  `unit_price` double NOT NULL,
  `note` varchar(255) NOT NULL DEFAULT '',
  PRIMARY KEY (`id`),
  UNIQUE KEY `order_product_idx` (`order_id`, `product_id`)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
*/
