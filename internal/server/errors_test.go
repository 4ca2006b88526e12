package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	invoicedomain "github.com/maplebill/maplebill/internal/invoice/domain"
)

func performWithError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())
	engine.GET("/boom", func(c *gin.Context) {
		AbortWithError(c, err)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	engine.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorPayload {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func TestErrorHandlingMiddleware_DomainErrorStatusCodes(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		errType string
	}{
		{"validation", invoicedomain.ErrInvalidQuantity, http.StatusBadRequest, "validation_error"},
		{"wrapped validation", fmt.Errorf("context: %w", invoicedomain.ErrRefundExceedsTotal), http.StatusBadRequest, "validation_error"},
		{"conflict", invoicedomain.ErrCannotCancelInvoice, http.StatusConflict, "conflict"},
		{"stale write", invoicedomain.ErrStaleInvoice, http.StatusConflict, "conflict"},
		{"not found", invoicedomain.ErrNotFound, http.StatusNotFound, "not_found"},
		{"unknown", fmt.Errorf("disk on fire"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := performWithError(t, tc.err)
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.errType, decodeError(t, w).Type)
		})
	}
}

func TestErrorHandlingMiddleware_InternalErrorHidesDetail(t *testing.T) {
	w := performWithError(t, fmt.Errorf("password is hunter2"))
	payload := decodeError(t, w)
	assert.Equal(t, "internal server error", payload.Message, "internal detail must not leak")
}

func TestErrorHandlingMiddleware_FieldValidationErrors(t *testing.T) {
	w := performWithError(t, newValidationError("amount", "positive", "amount must be positive"))
	require.Equal(t, http.StatusBadRequest, w.Code)

	payload := decodeError(t, w)
	require.Len(t, payload.Errors, 1)
	assert.Equal(t, "amount", payload.Errors[0].Field)
	assert.Equal(t, "positive", payload.Errors[0].Code)
}

func TestErrorHandlingMiddleware_NoErrorPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())
	engine.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
