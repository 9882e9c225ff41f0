package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopcore/fulfillment/internal/domain/fulfillment"
	"github.com/shopcore/fulfillment/internal/domain/shared"
	"github.com/shopcore/fulfillment/internal/interfaces/http/dto"
	"github.com/shopcore/fulfillment/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := middleware.SetupValidator(); err != nil {
		panic(err)
	}
}

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*gin.Context)
		expectedID string
	}{
		{
			name:       "from middleware",
			setup:      func(c *gin.Context) { c.Set(middleware.RequestIDKey, "ctx-request-id") },
			expectedID: "ctx-request-id",
		},
		{
			name:       "from header when context empty",
			setup:      func(c *gin.Context) { c.Request.Header.Set(middleware.HeaderRequestID, "header-request-id") },
			expectedID: "header-request-id",
		},
		{
			name:       "empty when not set",
			setup:      func(c *gin.Context) {},
			expectedID: "",
		},
		{
			name: "context takes precedence over header",
			setup: func(c *gin.Context) {
				c.Set(middleware.RequestIDKey, "ctx-id")
				c.Request.Header.Set(middleware.HeaderRequestID, "header-id")
			},
			expectedID: "ctx-id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext()
			tt.setup(c)
			assert.Equal(t, tt.expectedID, getRequestID(c))
		})
	}
}

func TestParseUUIDParam(t *testing.T) {
	c, _ := newTestContext()
	c.Params = gin.Params{{Key: "id", Value: "3f1c2a4e-8d7b-4b1a-9c2e-5f6a7b8c9d0e"}}
	id, ok := parseUUIDParam(c, "id")
	assert.True(t, ok)
	assert.Equal(t, "3f1c2a4e-8d7b-4b1a-9c2e-5f6a7b8c9d0e", id.String())

	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
	_, ok = parseUUIDParam(c, "id")
	assert.False(t, ok)

	c.Params = gin.Params{{Key: "id", Value: "00000000-0000-0000-0000-000000000000"}}
	_, ok = parseUUIDParam(c, "id")
	assert.False(t, ok)
}

func TestBaseHandlerSuccessResponses(t *testing.T) {
	h := &BaseHandler{}

	c, w := newTestContext()
	h.Success(c, gin.H{"id": "1"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeResponse(t, w).Success)

	c, w = newTestContext()
	h.Created(c, gin.H{"id": "1"})
	assert.Equal(t, http.StatusCreated, w.Code)

	c, w = newTestContext()
	h.SuccessWithMeta(c, []string{"a", "b"}, 45, 2, 20)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(45), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestBaseHandlerErrorMethods(t *testing.T) {
	h := &BaseHandler{}
	tests := []struct {
		name         string
		call         func(*gin.Context)
		expectedCode int
		expectedErr  string
	}{
		{"BadRequest", func(c *gin.Context) { h.BadRequest(c, "bad") }, http.StatusBadRequest, dto.ErrCodeBadRequest},
		{"NotFound", func(c *gin.Context) { h.NotFound(c, "missing") }, http.StatusNotFound, dto.ErrCodeNotFound},
		{"InternalError", func(c *gin.Context) { h.InternalError(c, "boom") }, http.StatusInternalServerError, dto.ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext()
			c.Set(middleware.RequestIDKey, "req-1")
			tt.call(c)

			assert.Equal(t, tt.expectedCode, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.expectedErr, resp.Error.Code)
			assert.Equal(t, "req-1", resp.Error.RequestID)
		})
	}
}

func TestBaseHandlerHandleError(t *testing.T) {
	h := &BaseHandler{}
	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedErr  string
		expectedMsg  string
	}{
		{"order not found", fulfillment.ErrOrderNotFound, http.StatusNotFound, dto.ErrCodeNotFound, "order not found"},
		{"payment not found", fulfillment.ErrPaymentNotFound, http.StatusNotFound, dto.ErrCodeNotFound, "payment not found"},
		{"invalid transition", fulfillment.ErrInvalidPaymentTransition, http.StatusUnprocessableEntity, dto.ErrCodeInvalidPaymentTransition, "payment status transition not allowed"},
		{"order creation failed", fulfillment.ErrOrderCreationFailed, http.StatusInternalServerError, dto.ErrCodeOrderCreationFailed, "order creation failed"},
		{"payment update failed", fulfillment.ErrPaymentUpdateFailed, http.StatusInternalServerError, dto.ErrCodePaymentUpdateFailed, "payment update failed"},
		{"invalid input", shared.ErrInvalidInput, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid input provided"},
		{"wrapped domain error", fmt.Errorf("ledger: %w", fulfillment.ErrPaymentNotFound), http.StatusNotFound, dto.ErrCodeNotFound, "payment not found"},
		{"plain error", errors.New("pq: connection reset"), http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext()
			h.HandleError(c, tt.err)

			assert.Equal(t, tt.expectedCode, w.Code)
			resp := decodeResponse(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.expectedErr, resp.Error.Code)
			assert.Equal(t, tt.expectedMsg, resp.Error.Message)
		})
	}

	t.Run("nil error writes nothing", func(t *testing.T) {
		c, w := newTestContext()
		h.HandleError(c, nil)
		assert.Empty(t, w.Body.String())
	})
}
