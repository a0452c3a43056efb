package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tunam1808/regional-specialties-be/internal/service"
)

type PaymentHandler struct {
	orderService *service.OrderService
}

func NewPaymentHandler(orderService *service.OrderService) *PaymentHandler {
	return &PaymentHandler{orderService: orderService}
}

type captureRequest struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"` // COMPLETED, DENIED or FAILED
}

// Capture is the payment gateway callback --> POST /api/payment/capture.
// No end-user auth; the gateway reports the capture outcome and the matching
// status transition is applied.
func (h *PaymentHandler) Capture(c echo.Context) error {
	req := captureRequest{}
	if err := c.Bind(&req); err != nil || req.OrderID == "" || req.Status == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing orderId or status"})
	}

	captured := req.Status == "COMPLETED"
	if err := h.orderService.HandlePaymentCapture(c.Request().Context(), req.OrderID, captured); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"received": true})
}
