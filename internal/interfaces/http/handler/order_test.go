package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	fulfillmentapp "github.com/shopcore/fulfillment/internal/application/fulfillment"
	"github.com/shopcore/fulfillment/internal/domain/fulfillment"
	"github.com/shopcore/fulfillment/internal/domain/shared"
	"github.com/shopcore/fulfillment/internal/interfaces/http/dto"
	"github.com/shopcore/fulfillment/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newOrderRouter(svc *MockFulfillmentService) *gin.Engine {
	h := NewOrderHandler(svc, svc)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.POST("/api/v1/orders", h.PlaceOrder)
	r.GET("/api/v1/orders", h.ListOrders)
	r.GET("/api/v1/orders/:id", h.GetOrder)
	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const checkoutBody = `{
	"buyer_id": "6b1f9d4e-2c3a-4e5f-8a9b-0c1d2e3f4a5b",
	"shipping_address": {"street": "12 Nguyen Hue", "province": "HCMC", "country": "VN"},
	"items": [
		{"product_variant_id": "0e7d3c2b-1a09-4f8e-9d7c-6b5a4f3e2d1c", "quantity": 2, "unit_price": "50", "total_price": "100", "discount_value": "10"},
		{"product_variant_id": "1f8e4d3c-2b1a-4098-8e7d-7c6b5a4f3e2d", "quantity": 1, "unit_price": "50", "total_price": "50"}
	],
	"payment_method": "cod",
	"carrier": "J&T Express"
}`

func TestOrderHandler_PlaceOrder(t *testing.T) {
	svc := new(MockFulfillmentService)
	orderID := uuid.New()
	svc.On("PlaceOrder", mock.Anything, mock.MatchedBy(func(in fulfillmentapp.CheckoutInput) bool {
		return in.PaymentMethod == "cod" &&
			len(in.Items) == 2 &&
			in.Items[0].TotalPrice.Equal(decimal.NewFromInt(100)) &&
			in.Items[0].DiscountValue != nil &&
			in.Items[1].DiscountValue == nil &&
			in.Carrier == "J&T Express"
	})).Return(&fulfillmentapp.OrderResponse{
		ID:          orderID,
		SubTotal:    decimal.NewFromInt(150),
		Discount:    decimal.NewFromInt(10),
		TotalAmount: decimal.NewFromInt(140),
		Status:      "PENDING",
		OrderDate:   time.Now(),
	}, nil)

	w := doJSON(newOrderRouter(svc), http.MethodPost, "/api/v1/orders", checkoutBody)

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, orderID.String(), data["id"])
	assert.Equal(t, "140", data["total_amount"])
	svc.AssertExpectations(t)
}

func TestOrderHandler_PlaceOrder_Validation(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantCode  string
		wantField string
	}{
		{
			name:     "malformed json",
			body:     `{"buyer_id":`,
			wantCode: dto.ErrCodeInvalidJSON,
		},
		{
			name: "missing items",
			body: `{"buyer_id": "6b1f9d4e-2c3a-4e5f-8a9b-0c1d2e3f4a5b",
				"shipping_address": {"street": "s", "province": "p", "country": "c"},
				"payment_method": "COD"}`,
			wantCode:  dto.ErrCodeValidation,
			wantField: "items",
		},
		{
			name: "unknown payment method",
			body: `{"buyer_id": "6b1f9d4e-2c3a-4e5f-8a9b-0c1d2e3f4a5b",
				"shipping_address": {"street": "s", "province": "p", "country": "c"},
				"items": [{"product_variant_id": "0e7d3c2b-1a09-4f8e-9d7c-6b5a4f3e2d1c", "quantity": 1, "total_price": "1"}],
				"payment_method": "CRYPTO"}`,
			wantCode:  dto.ErrCodeValidation,
			wantField: "payment_method",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockFulfillmentService)
			w := doJSON(newOrderRouter(svc), http.MethodPost, "/api/v1/orders", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := decodeResponse(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.RequestID)
			if tt.wantField != "" {
				var fields []string
				for _, d := range resp.Error.Details {
					fields = append(fields, d.Field)
				}
				assert.Contains(t, fields, tt.wantField)
			}
			svc.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything)
		})
	}
}

func TestOrderHandler_PlaceOrder_Failure(t *testing.T) {
	svc := new(MockFulfillmentService)
	svc.On("PlaceOrder", mock.Anything, mock.Anything).Return(nil, fulfillment.ErrOrderCreationFailed)

	w := doJSON(newOrderRouter(svc), http.MethodPost, "/api/v1/orders", checkoutBody)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeOrderCreationFailed, resp.Error.Code)
	assert.Equal(t, "order creation failed", resp.Error.Message)
}

func TestOrderHandler_GetOrder(t *testing.T) {
	orderID := uuid.New()

	t.Run("found", func(t *testing.T) {
		svc := new(MockFulfillmentService)
		svc.On("GetOrder", mock.Anything, orderID).Return(&fulfillmentapp.OrderResponse{
			ID:        orderID,
			Items:     []fulfillmentapp.OrderItemResponse{},
			Shipments: []fulfillmentapp.ShipmentResponse{},
		}, nil)

		w := doJSON(newOrderRouter(svc), http.MethodGet, "/api/v1/orders/"+orderID.String(), "")

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w).Data.(map[string]interface{})
		assert.Equal(t, orderID.String(), data["id"])
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(MockFulfillmentService)
		svc.On("GetOrder", mock.Anything, orderID).Return(nil, fulfillment.ErrOrderNotFound)

		w := doJSON(newOrderRouter(svc), http.MethodGet, "/api/v1/orders/"+orderID.String(), "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodeNotFound, decodeResponse(t, w).Error.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		svc := new(MockFulfillmentService)
		w := doJSON(newOrderRouter(svc), http.MethodGet, "/api/v1/orders/abc", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "GetOrder", mock.Anything, mock.Anything)
	})
}

func TestOrderHandler_ListOrders(t *testing.T) {
	buyerID := uuid.New()

	t.Run("paginated", func(t *testing.T) {
		svc := new(MockFulfillmentService)
		page := shared.NewPaginated([]fulfillmentapp.OrderListItemResponse{
			{ID: uuid.New(), UserID: buyerID, Status: "PENDING"},
			{ID: uuid.New(), UserID: buyerID, Status: "PENDING"},
		}, 7, 2, 2)
		svc.On("ListOrdersByBuyer", mock.Anything, buyerID, fulfillmentapp.OrderListFilter{Page: 2, PageSize: 2}).
			Return(&page, nil)

		w := doJSON(newOrderRouter(svc), http.MethodGet, "/api/v1/orders?buyer_id="+buyerID.String()+"&page=2&page_size=2", "")

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		assert.Len(t, resp.Data.([]interface{}), 2)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(7), resp.Meta.Total)
		assert.Equal(t, 2, resp.Meta.Page)
		assert.Equal(t, 4, resp.Meta.TotalPages)
		svc.AssertExpectations(t)
	})

	t.Run("buyer required", func(t *testing.T) {
		svc := new(MockFulfillmentService)
		w := doJSON(newOrderRouter(svc), http.MethodGet, "/api/v1/orders", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, decodeResponse(t, w).Error.Code)
	})

	t.Run("page size capped", func(t *testing.T) {
		svc := new(MockFulfillmentService)
		w := doJSON(newOrderRouter(svc), http.MethodGet, "/api/v1/orders?buyer_id="+buyerID.String()+"&page_size=500", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "ListOrdersByBuyer", mock.Anything, mock.Anything, mock.Anything)
	})
}
