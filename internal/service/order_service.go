package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/tunam1808/regional-specialties-be/internal/entity"
	"github.com/tunam1808/regional-specialties-be/internal/repository"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// OrderStore is the persistence surface the order service drives.
type OrderStore interface {
	Checkout(ctx context.Context, order repository.CheckoutOrder, selectedProductIDs []int) (float64, error)
	CheckoutDirect(ctx context.Context, order repository.CheckoutOrder, items []entity.OrderLine) (float64, error)
	ListOrders(ctx context.Context, actor entity.Actor) ([]entity.Order, error)
	GetOrder(ctx context.Context, actor entity.Actor, orderID string) (*entity.Order, error)
	UpdateStatus(ctx context.Context, actor entity.Actor, orderID, status string) error
	DeleteOrder(ctx context.Context, actor entity.Actor, orderID string) error
	AdvanceStatus(ctx context.Context, orderID, from, to string) (bool, error)
}

// ProgressScheduler receives confirmed orders for automatic delivery
// progression.
type ProgressScheduler interface {
	Register(orderID string)
}

// EventWriter is satisfied by *kafka.Writer.
type EventWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// IdempotencyStore tracks consumed checkout idempotency keys.
type IdempotencyStore interface {
	Claim(ctx context.Context, key string) (bool, error)
}

// CheckoutInput is the caller-supplied checkout payload. SelectedProductIDs
// drives cart mode, Items drives direct ("buy now") mode.
type CheckoutInput struct {
	PaymentMethod      string
	ShippingAddress    string
	Note               string
	ShippingFee        float64
	Distance           float64
	SelectedProductIDs []int
	Items              []entity.OrderLine
	IdempotencyKey     string
}

// OrderService owns the order lifecycle: checkout, status transitions,
// scheduler registration and event publishing.
type OrderService struct {
	orders      OrderStore
	scheduler   ProgressScheduler
	kafkaWriter EventWriter
	idempotency IdempotencyStore
}

func NewOrderService(orders OrderStore, scheduler ProgressScheduler, kafkaWriter EventWriter, idempotency IdempotencyStore) *OrderService {
	return &OrderService{
		orders:      orders,
		scheduler:   scheduler,
		kafkaWriter: kafkaWriter,
		idempotency: idempotency,
	}
}

// Checkout converts the selected cart lines into a finalized order and
// returns the new order id.
func (s *OrderService) Checkout(ctx context.Context, actor entity.Actor, in CheckoutInput) (string, error) {
	if err := s.validateCommon(ctx, in); err != nil {
		return "", err
	}
	if len(in.SelectedProductIDs) == 0 {
		return "", entity.Validationf("no products selected for checkout")
	}

	order := s.buildOrder(actor, in)
	total, err := s.orders.Checkout(ctx, order, in.SelectedProductIDs)
	if err != nil {
		logger.Error().Err(err).Int("account_id", actor.AccountID).Msg("Error during cart checkout")
		return "", err
	}

	logger.Info().Str("order_id", order.OrderID).Float64("total", total).Msg("Order placed from cart")
	s.publishOrderEvent(ctx, order.OrderID, "created")
	return order.OrderID, nil
}

// CheckoutDirect finalizes a "buy now" purchase from an ad-hoc item list.
func (s *OrderService) CheckoutDirect(ctx context.Context, actor entity.Actor, in CheckoutInput) (string, error) {
	if err := s.validateCommon(ctx, in); err != nil {
		return "", err
	}
	if len(in.Items) == 0 {
		return "", entity.Validationf("items are required for direct checkout")
	}
	for _, item := range in.Items {
		if item.ProductID <= 0 || item.Quantity <= 0 || item.UnitPrice < 0 {
			return "", entity.Validationf("each item needs a product id, a positive quantity and a non-negative price")
		}
	}

	order := s.buildOrder(actor, in)
	total, err := s.orders.CheckoutDirect(ctx, order, in.Items)
	if err != nil {
		logger.Error().Err(err).Int("account_id", actor.AccountID).Msg("Error during direct checkout")
		return "", err
	}

	logger.Info().Str("order_id", order.OrderID).Float64("total", total).Msg("Order placed directly")
	s.publishOrderEvent(ctx, order.OrderID, "created")
	return order.OrderID, nil
}

func (s *OrderService) validateCommon(ctx context.Context, in CheckoutInput) error {
	if in.PaymentMethod == "" || in.ShippingAddress == "" {
		return entity.Validationf("payment method and shipping address are required")
	}
	if in.ShippingFee < 0 {
		return entity.Validationf("shipping fee must not be negative")
	}
	if in.IdempotencyKey != "" {
		won, err := s.idempotency.Claim(ctx, in.IdempotencyKey)
		if err != nil {
			return err
		}
		if !won {
			return entity.ErrDuplicateIdempotencyKey
		}
	}
	return nil
}

func (s *OrderService) buildOrder(actor entity.Actor, in CheckoutInput) repository.CheckoutOrder {
	status := entity.StatusPending
	if in.PaymentMethod == entity.PaymentMethodPayPal {
		// Gateway orders start out awaiting the external capture.
		status = entity.StatusPaymentPending
	}
	return repository.CheckoutOrder{
		OrderID:         newOrderID(),
		AccountID:       actor.AccountID,
		PaymentMethod:   in.PaymentMethod,
		ShippingAddress: in.ShippingAddress,
		ShippingFee:     in.ShippingFee,
		Distance:        in.Distance,
		Note:            in.Note,
		Status:          status,
	}
}

// ListOrders returns the actor's orders; admins see everyone's.
func (s *OrderService) ListOrders(ctx context.Context, actor entity.Actor) ([]entity.Order, error) {
	orders, err := s.orders.ListOrders(ctx, actor)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing orders")
		return nil, err
	}
	return orders, nil
}

func (s *OrderService) GetOrder(ctx context.Context, actor entity.Actor, orderID string) (*entity.Order, error) {
	return s.orders.GetOrder(ctx, actor, orderID)
}

// UpdateStatus performs a manual status transition. Moving an order to
// confirmed hands it to the scheduler for automatic delivery progression.
func (s *OrderService) UpdateStatus(ctx context.Context, actor entity.Actor, orderID, status string) error {
	if !entity.ValidStatus(status) {
		return entity.Validationf("unknown order status %q", status)
	}

	if err := s.orders.UpdateStatus(ctx, actor, orderID, status); err != nil {
		return err
	}

	if status == entity.StatusConfirmed {
		s.scheduler.Register(orderID)
	}
	s.publishOrderEvent(ctx, orderID, "updated")
	return nil
}

// CancelOrder moves the order to cancelled. Any later scheduler tick sees
// the changed status and skips the order.
func (s *OrderService) CancelOrder(ctx context.Context, actor entity.Actor, orderID string) error {
	if err := s.orders.UpdateStatus(ctx, actor, orderID, entity.StatusCancelled); err != nil {
		return err
	}
	s.publishOrderEvent(ctx, orderID, "cancelled")
	return nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, actor entity.Actor, orderID string) error {
	return s.orders.DeleteOrder(ctx, actor, orderID)
}

// HandlePaymentCapture applies the effect of the gateway capture callback:
// success confirms the order, failure or denial marks it failed. Either way
// the transition only lands while the order still awaits payment.
func (s *OrderService) HandlePaymentCapture(ctx context.Context, orderID string, captured bool) error {
	if !captured {
		_, err := s.orders.AdvanceStatus(ctx, orderID, entity.StatusPaymentPending, entity.StatusPaymentFailed)
		return err
	}

	applied, err := s.orders.AdvanceStatus(ctx, orderID, entity.StatusPaymentPending, entity.StatusConfirmed)
	if err != nil {
		return err
	}
	if !applied {
		logger.Warn().Str("order_id", orderID).Msg("Payment capture for an order no longer awaiting payment")
		return nil
	}

	s.scheduler.Register(orderID)
	s.publishOrderEvent(ctx, orderID, "updated")
	return nil
}

// publishOrderEvent emits an order lifecycle event. Publishing failures are
// logged, never surfaced: the order is already committed.
func (s *OrderService) publishOrderEvent(ctx context.Context, orderID, event string) {
	payload, err := json.Marshal(map[string]string{"order_id": orderID, "event": event})
	if err != nil {
		logger.Error().Err(err).Msg("Error marshalling order event")
		return
	}

	// order-created-<id> or order-updated-<id>
	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("order-%s-%s", event, orderID)),
		Value: payload,
	}

	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Error().Err(err).Str("order_id", orderID).Msg("Error publishing order event")
	}
}

// newOrderID allocates a globally unique, time-ordered order id. UUIDv7
// keys concurrent checkouts without any shared counter.
func newOrderID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
