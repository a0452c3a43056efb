package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tunam1808/regional-specialties-be/internal/entity"
	"github.com/tunam1808/regional-specialties-be/internal/service"
)

type CustomerHandler struct {
	customerService *service.CustomerService
}

func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// GetProfile --> GET /api/customers/me
func (h *CustomerHandler) GetProfile(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	customer, err := h.customerService.GetProfile(c.Request().Context(), actor)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, customer)
}

// UpsertProfile --> PUT /api/customers/me
func (h *CustomerHandler) UpsertProfile(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	customer := entity.Customer{}
	if err := c.Bind(&customer); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}

	if err := h.customerService.UpsertProfile(c.Request().Context(), actor, customer); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Profile saved"})
}
