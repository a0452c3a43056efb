package api

import (
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/tunam1808/regional-specialties-be/internal/entity"
)

// AuthClaims is the JWT payload issued by the external auth service.
type AuthClaims struct {
	AccountID int    `json:"id"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// actorFromContext extracts the acting account from the verified JWT.
func actorFromContext(c echo.Context) (entity.Actor, bool) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return entity.Actor{}, false
	}
	claims, ok := token.Claims.(*AuthClaims)
	if !ok || claims.AccountID == 0 {
		return entity.Actor{}, false
	}
	return entity.Actor{AccountID: claims.AccountID, Role: claims.Role}, true
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Not logged in"})
}

// writeError maps domain errors onto HTTP responses in one place.
func writeError(c echo.Context, err error) error {
	var stockErr *entity.InsufficientStockError
	if errors.As(err, &stockErr) {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"error":     stockErr.Error(),
			"product":   stockErr.Product,
			"remaining": stockErr.Remaining,
		})
	}

	var validationErr *entity.ValidationError
	switch {
	case errors.As(err, &validationErr),
		errors.Is(err, entity.ErrCustomerProfileMissing),
		errors.Is(err, entity.ErrCartEmpty),
		errors.Is(err, entity.ErrDuplicateIdempotencyKey):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, entity.ErrNotFoundOrForbidden),
		errors.Is(err, entity.ErrCartLineNotFound),
		errors.Is(err, entity.ErrProductNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
