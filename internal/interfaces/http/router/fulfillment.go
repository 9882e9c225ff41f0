package router

import (
	"github.com/gin-gonic/gin"
	"github.com/shopcore/fulfillment/internal/interfaces/http/handler"
)

// FulfillmentHandlers bundles the handlers served under the API prefix
type FulfillmentHandlers struct {
	Orders   *handler.OrderHandler
	Payments *handler.PaymentHandler
	System   *handler.SystemHandler
}

// FulfillmentRoutes builds the order, payment and system groups.
// writeGuards run in front of the endpoints that change the ledger.
func FulfillmentRoutes(h FulfillmentHandlers, writeGuards ...gin.HandlerFunc) []RouteRegistrar {
	guarded := func(fn gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, writeGuards...), fn)
	}

	orders := NewDomainGroup("orders", "/orders").
		POST("", guarded(h.Orders.PlaceOrder)...).
		GET("", h.Orders.ListOrders).
		GET("/:id", h.Orders.GetOrder)

	payments := NewDomainGroup("payments", "/payments").
		GET("/:id", h.Payments.GetPayment).
		PATCH("/:id", guarded(h.Payments.UpdatePayment)...)

	system := NewDomainGroup("system", "/system").
		GET("/info", h.System.GetSystemInfo).
		GET("/ping", h.System.Ping)

	return []RouteRegistrar{orders, payments, system}
}
