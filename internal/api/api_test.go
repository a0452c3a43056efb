package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunam1808/regional-specialties-be/internal/entity"
)

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestWriteErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"validation", entity.Validationf("bad input"), http.StatusBadRequest},
		{"insufficient stock", &entity.InsufficientStockError{Product: "P", Remaining: 2}, http.StatusBadRequest},
		{"customer profile missing", entity.ErrCustomerProfileMissing, http.StatusBadRequest},
		{"cart empty", entity.ErrCartEmpty, http.StatusBadRequest},
		{"duplicate idempotency key", entity.ErrDuplicateIdempotencyKey, http.StatusBadRequest},
		{"not found or forbidden", entity.ErrNotFoundOrForbidden, http.StatusNotFound},
		{"cart line missing", entity.ErrCartLineNotFound, http.StatusNotFound},
		{"product missing", entity.ErrProductNotFound, http.StatusNotFound},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newTestContext(t)
			require.NoError(t, writeError(c, tc.err))
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestWriteErrorNamesProductAndRemainingStock(t *testing.T) {
	c, rec := newTestContext(t)

	err := writeError(c, &entity.InsufficientStockError{Product: "Dried mango", Remaining: 2})

	require.NoError(t, err)
	assert.Contains(t, rec.Body.String(), "Dried mango")
	assert.Contains(t, rec.Body.String(), `"remaining":2`)
}

func TestActorFromContext(t *testing.T) {
	c, _ := newTestContext(t)
	_, ok := actorFromContext(c)
	assert.False(t, ok, "no token on the context")

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &AuthClaims{AccountID: 5, Role: entity.RoleAdmin})
	c.Set("user", token)

	actor, ok := actorFromContext(c)
	require.True(t, ok)
	assert.Equal(t, 5, actor.AccountID)
	assert.True(t, actor.Admin())
}
