package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	fulfillmentapp "github.com/shopcore/fulfillment/internal/application/fulfillment"
	"github.com/shopcore/fulfillment/internal/domain/shared"
	"github.com/shopcore/fulfillment/internal/infrastructure/logger"
)

// OrderPlacer places orders
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, in fulfillmentapp.CheckoutInput) (*fulfillmentapp.OrderResponse, error)
}

// OrderReader reads orders
type OrderReader interface {
	GetOrder(ctx context.Context, id uuid.UUID) (*fulfillmentapp.OrderResponse, error)
	ListOrdersByBuyer(ctx context.Context, buyerID uuid.UUID, filter fulfillmentapp.OrderListFilter) (*shared.Paginated[fulfillmentapp.OrderListItemResponse], error)
}

// OrderHandler handles checkout and order lookups
type OrderHandler struct {
	BaseHandler
	placer OrderPlacer
	reader OrderReader
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(placer OrderPlacer, reader OrderReader) *OrderHandler {
	return &OrderHandler{
		placer: placer,
		reader: reader,
	}
}

// ListOrdersQuery is the query string of the order list
type ListOrdersQuery struct {
	BuyerID string `form:"buyer_id" binding:"required,uuid"`
	fulfillmentapp.OrderListFilter
}

// PlaceOrder godoc
// @ID           placeOrder
// @Summary      Place an order
// @Description  Checkout: persists the address, order, items and payment atomically. Cash-on-delivery orders also get a shipment.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body fulfillmentapp.CheckoutInput true "Checkout request"
// @Success      201 {object} APIResponse[fulfillmentapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /orders [post]
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req fulfillmentapp.CheckoutInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.placer.PlaceOrder(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// GetOrder godoc
// @ID           getOrder
// @Summary      Get an order
// @Description  Returns the order with its address, items, payment and shipments
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[fulfillmentapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	ctx := logger.WithOrderID(c.Request.Context(), id.String())
	order, err := h.reader.GetOrder(ctx, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// ListOrders godoc
// @ID           listOrders
// @Summary      List a buyer's orders
// @Description  Paginated list of one buyer's orders, newest first unless order_by/order_dir say otherwise
// @Tags         orders
// @Produce      json
// @Param        buyer_id query string true "Buyer ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" Enums(order_date, total_amount, status) default(order_date)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} APIResponse[[]fulfillmentapp.OrderListItemResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var query ListOrdersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.reader.ListOrdersByBuyer(c.Request.Context(), uuid.MustParse(query.BuyerID), query.OrderListFilter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
