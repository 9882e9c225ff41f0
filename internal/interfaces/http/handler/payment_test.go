package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	fulfillmentapp "github.com/shopcore/fulfillment/internal/application/fulfillment"
	"github.com/shopcore/fulfillment/internal/domain/fulfillment"
	"github.com/shopcore/fulfillment/internal/interfaces/http/dto"
	"github.com/shopcore/fulfillment/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newPaymentRouter(svc *MockFulfillmentService) *gin.Engine {
	h := NewPaymentHandler(svc, svc)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/api/v1/payments/:id", h.GetPayment)
	r.PATCH("/api/v1/payments/:id", h.UpdatePayment)
	return r
}

func TestPaymentHandler_GetPayment(t *testing.T) {
	paymentID := uuid.New()

	t.Run("found", func(t *testing.T) {
		svc := new(MockFulfillmentService)
		svc.On("GetPayment", mock.Anything, paymentID).Return(&fulfillmentapp.PaymentResponse{
			ID:     paymentID,
			Method: "BANK_TRANSFER",
			Amount: decimal.NewFromInt(140),
			Status: "PENDING",
		}, nil)

		w := doJSON(newPaymentRouter(svc), http.MethodGet, "/api/v1/payments/"+paymentID.String(), "")

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w).Data.(map[string]interface{})
		assert.Equal(t, "PENDING", data["status"])
		assert.Equal(t, "140", data["amount"])
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(MockFulfillmentService)
		svc.On("GetPayment", mock.Anything, paymentID).Return(nil, fulfillment.ErrPaymentNotFound)

		w := doJSON(newPaymentRouter(svc), http.MethodGet, "/api/v1/payments/"+paymentID.String(), "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
		assert.Equal(t, "payment not found", resp.Error.Message)
	})
}

func TestPaymentHandler_UpdatePayment(t *testing.T) {
	paymentID := uuid.New()
	paidAt := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	svc := new(MockFulfillmentService)
	svc.On("UpdatePayment", mock.Anything, paymentID, mock.MatchedBy(func(in fulfillmentapp.PaymentUpdateInput) bool {
		return in.Status == "PAID" &&
			in.Carrier == "J&T Express" &&
			in.PaymentDate != nil && in.PaymentDate.Equal(paidAt)
	})).Return(&fulfillmentapp.PaymentResponse{ID: paymentID, Status: "PAID", PaymentDate: &paidAt}, nil)

	w := doJSON(newPaymentRouter(svc), http.MethodPatch, "/api/v1/payments/"+paymentID.String(),
		`{"status": "PAID", "carrier": "J&T Express", "payment_date": "2026-03-01T09:30:00Z"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]interface{})
	assert.Equal(t, "PAID", data["status"])
	svc.AssertExpectations(t)
}

func TestPaymentHandler_UpdatePayment_Errors(t *testing.T) {
	paymentID := uuid.New()

	tests := []struct {
		name       string
		path       string
		body       string
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "invalid id",
			path:       "/api/v1/payments/xyz",
			body:       `{"status": "PAID"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrCodeBadRequest,
		},
		{
			name:       "unknown status",
			path:       "/api/v1/payments/" + paymentID.String(),
			body:       `{"status": "SHIPPED"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrCodeValidation,
		},
		{
			name:       "missing status",
			path:       "/api/v1/payments/" + paymentID.String(),
			body:       `{"carrier": "GHN"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrCodeValidation,
		},
		{
			name:       "unknown payment",
			path:       "/api/v1/payments/" + paymentID.String(),
			body:       `{"status": "PAID"}`,
			serviceErr: fulfillment.ErrPaymentNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   dto.ErrCodeNotFound,
		},
		{
			name:       "disallowed transition",
			path:       "/api/v1/payments/" + paymentID.String(),
			body:       `{"status": "PENDING"}`,
			serviceErr: fulfillment.ErrInvalidPaymentTransition,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   dto.ErrCodeInvalidPaymentTransition,
		},
		{
			name:       "rolled back",
			path:       "/api/v1/payments/" + paymentID.String(),
			body:       `{"status": "PAID"}`,
			serviceErr: fulfillment.ErrPaymentUpdateFailed,
			wantStatus: http.StatusInternalServerError,
			wantCode:   dto.ErrCodePaymentUpdateFailed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockFulfillmentService)
			if tt.serviceErr != nil {
				svc.On("UpdatePayment", mock.Anything, paymentID, mock.Anything).Return(nil, tt.serviceErr)
			}

			w := doJSON(newPaymentRouter(svc), http.MethodPatch, tt.path, tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			if tt.serviceErr == nil {
				svc.AssertNotCalled(t, "UpdatePayment", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}
