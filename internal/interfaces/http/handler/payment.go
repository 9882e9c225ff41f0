package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	fulfillmentapp "github.com/shopcore/fulfillment/internal/application/fulfillment"
	"github.com/shopcore/fulfillment/internal/infrastructure/logger"
)

// PaymentUpdater applies payment status changes
type PaymentUpdater interface {
	UpdatePayment(ctx context.Context, paymentID uuid.UUID, in fulfillmentapp.PaymentUpdateInput) (*fulfillmentapp.PaymentResponse, error)
}

// PaymentReader reads payments
type PaymentReader interface {
	GetPayment(ctx context.Context, id uuid.UUID) (*fulfillmentapp.PaymentResponse, error)
}

// PaymentHandler handles payment lookups and status changes
type PaymentHandler struct {
	BaseHandler
	updater PaymentUpdater
	reader  PaymentReader
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(updater PaymentUpdater, reader PaymentReader) *PaymentHandler {
	return &PaymentHandler{
		updater: updater,
		reader:  reader,
	}
}

// GetPayment godoc
// @ID           getPayment
// @Summary      Get a payment
// @Tags         payments
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Success      200 {object} APIResponse[fulfillmentapp.PaymentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /payments/{id} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	payment, err := h.reader.GetPayment(logger.WithPaymentID(c.Request.Context(), id.String()), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payment)
}

// UpdatePayment godoc
// @ID           updatePayment
// @Summary      Update a payment status
// @Description  Moves the payment to a new status. The first move to PAID provisions a shipment with the given carrier; repeating it is a no-op.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Param        request body fulfillmentapp.PaymentUpdateInput true "Status change"
// @Success      200 {object} APIResponse[fulfillmentapp.PaymentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /payments/{id} [patch]
func (h *PaymentHandler) UpdatePayment(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	var req fulfillmentapp.PaymentUpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	payment, err := h.updater.UpdatePayment(logger.WithPaymentID(c.Request.Context(), id.String()), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payment)
}
