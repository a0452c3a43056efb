package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tunam1808/regional-specialties-be/internal/entity"
	"github.com/tunam1808/regional-specialties-be/internal/service"
)

type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

type checkoutItem struct {
	ProductID int     `json:"productId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

type checkoutRequest struct {
	PaymentMethod      string         `json:"paymentMethod"`
	ShippingAddress    string         `json:"shippingAddress"`
	Note               string         `json:"note"`
	SelectedProductIDs []int          `json:"selectedProductIds"`
	Items              []checkoutItem `json:"items"`
	Distance           float64        `json:"distance"`
	ShippingFee        float64        `json:"shippingFee"`
}

func (req checkoutRequest) toInput(idempotencyKey string) service.CheckoutInput {
	in := service.CheckoutInput{
		PaymentMethod:      req.PaymentMethod,
		ShippingAddress:    req.ShippingAddress,
		Note:               req.Note,
		ShippingFee:        req.ShippingFee,
		Distance:           req.Distance,
		SelectedProductIDs: req.SelectedProductIDs,
		IdempotencyKey:     idempotencyKey,
	}
	for _, item := range req.Items {
		in.Items = append(in.Items, entity.OrderLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return in
}

// Checkout converts selected cart lines into an order --> POST /api/orders/checkout
func (h *OrderHandler) Checkout(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	req := checkoutRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	in := req.toInput(c.Request().Header.Get("Idempotent-Key"))
	orderID, err := h.orderService.Checkout(c.Request().Context(), actor, in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]string{"orderId": orderID})
}

// CheckoutDirect places a "buy now" order --> POST /api/orders/direct
func (h *OrderHandler) CheckoutDirect(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	req := checkoutRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	in := req.toInput(c.Request().Header.Get("Idempotent-Key"))
	orderID, err := h.orderService.CheckoutDirect(c.Request().Context(), actor, in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]string{"orderId": orderID})
}

// ListOrders returns own orders, or all orders for admins --> GET /api/orders
func (h *OrderHandler) ListOrders(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	orders, err := h.orderService.ListOrders(c.Request().Context(), actor)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// GetOrder returns one order with its lines --> GET /api/orders/:id
func (h *OrderHandler) GetOrder(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	order, err := h.orderService.GetOrder(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// UpdateStatus performs a manual status transition --> PUT /api/orders/:id/status
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	req := struct {
		Status string `json:"status"`
	}{}
	if err := c.Bind(&req); err != nil || req.Status == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing status"})
	}

	if err := h.orderService.UpdateStatus(c.Request().Context(), actor, c.Param("id"), req.Status); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Status updated"})
}

// CancelOrder cancels an order --> POST /api/orders/:id/cancel
func (h *OrderHandler) CancelOrder(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	if err := h.orderService.CancelOrder(c.Request().Context(), actor, c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Order cancelled"})
}

// DeleteOrder removes an order --> DELETE /api/orders/:id
func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	if err := h.orderService.DeleteOrder(c.Request().Context(), actor, c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Order deleted"})
}
