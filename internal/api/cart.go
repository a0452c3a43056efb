package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tunam1808/regional-specialties-be/internal/entity"
	"github.com/tunam1808/regional-specialties-be/internal/service"
)

type CartHandler struct {
	cartService *service.CartService
}

func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

type addCartRequest struct {
	ProductID int     `json:"productId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Note      string  `json:"note"`
}

// AddLine puts a product into the cart --> POST /api/cart/add
func (h *CartHandler) AddLine(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	req := addCartRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cartID, err := h.cartService.AddLine(c.Request().Context(), actor, entity.OrderLine{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
		Note:      req.Note,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]string{"cartId": cartID})
}

// GetCart returns the actor's cart --> GET /api/cart/me
func (h *CartHandler) GetCart(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	lines, err := h.cartService.ListCart(c.Request().Context(), actor)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, lines)
}

// RemoveLine deletes a product from the cart --> DELETE /api/cart/product/:productId
func (h *CartHandler) RemoveLine(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
	}

	if err := h.cartService.RemoveLine(c.Request().Context(), actor, productID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Product removed from cart"})
}
