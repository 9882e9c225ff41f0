package fulfillment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopcore/fulfillment/internal/domain/fulfillment"
	"github.com/shopspring/decimal"
)

// ==================== Checkout DTOs ====================

// AddressInput carries the shipping address of a checkout
type AddressInput struct {
	Street   string `json:"street" binding:"required,max=255"`
	Ward     string `json:"ward" binding:"max=100"`
	District string `json:"district" binding:"max=100"`
	Province string `json:"province" binding:"required,max=100"`
	ZipCode  string `json:"zip_code" binding:"max=20"`
	Country  string `json:"country" binding:"required,max=100"`
}

// LineItemInput is one requested line of a checkout.
// TotalPrice is supplied by the caller and stored as is.
type LineItemInput struct {
	ProductVariantID uuid.UUID        `json:"product_variant_id" binding:"required"`
	Quantity         int              `json:"quantity" binding:"required,min=1"`
	UnitPrice        decimal.Decimal  `json:"unit_price"`
	TotalPrice       decimal.Decimal  `json:"total_price"`
	DiscountValue    *decimal.Decimal `json:"discount_value"`
}

// CheckoutInput represents a request to place an order
type CheckoutInput struct {
	BuyerID         uuid.UUID       `json:"buyer_id" binding:"required"`
	ShippingAddress AddressInput    `json:"shipping_address" binding:"required"`
	Items           []LineItemInput `json:"items" binding:"required,min=1,dive"`
	PaymentMethod   string          `json:"payment_method" binding:"required,payment_method"`
	Carrier         string          `json:"carrier" binding:"max=100"` // used when the order ships on checkout
}

func (in CheckoutInput) addressFields() fulfillment.AddressFields {
	a := in.ShippingAddress
	return fulfillment.AddressFields{
		Street:   a.Street,
		Ward:     a.Ward,
		District: a.District,
		Province: a.Province,
		ZipCode:  a.ZipCode,
		Country:  a.Country,
	}
}

func (in CheckoutInput) lineItems() []fulfillment.LineItem {
	lines := make([]fulfillment.LineItem, len(in.Items))
	for i, item := range in.Items {
		lines[i] = fulfillment.LineItem{
			ProductVariantID: item.ProductVariantID,
			Quantity:         item.Quantity,
			UnitPrice:        item.UnitPrice,
			TotalPrice:       item.TotalPrice,
			DiscountValue:    item.DiscountValue,
		}
	}
	return lines
}

// ==================== Payment DTOs ====================

// PaymentUpdateInput represents a payment status change
type PaymentUpdateInput struct {
	Status           string     `json:"status" binding:"required,payment_status"`
	PaymentDate      *time.Time `json:"payment_date"`
	Carrier          string     `json:"carrier" binding:"max=100"` // used when the change provisions a shipment
	ProcessByStaffID *uuid.UUID `json:"process_by_staff_id"`
}

// OrderListFilter represents filter options for a buyer's order list
type OrderListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ==================== Responses ====================

// AddressResponse represents an address in API responses
type AddressResponse struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	Street   string    `json:"street"`
	Ward     string    `json:"ward"`
	District string    `json:"district"`
	Province string    `json:"province"`
	ZipCode  string    `json:"zip_code"`
	Country  string    `json:"country"`
}

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ID               uuid.UUID        `json:"id"`
	Position         int              `json:"position"`
	ProductVariantID uuid.UUID        `json:"product_variant_id"`
	Quantity         int              `json:"quantity"`
	UnitPrice        decimal.Decimal  `json:"unit_price"`
	TotalPrice       decimal.Decimal  `json:"total_price"`
	DiscountValue    *decimal.Decimal `json:"discount_value,omitempty"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID            uuid.UUID       `json:"id"`
	OrderID       uuid.UUID       `json:"order_id"`
	BuyerID       uuid.UUID       `json:"buyer_id"`
	TransactionID string          `json:"transaction_id"`
	Method        string          `json:"method"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	PaymentDate   *time.Time      `json:"payment_date,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// ShipmentResponse represents a shipment in API responses
type ShipmentResponse struct {
	ID                uuid.UUID  `json:"id"`
	OrderID           uuid.UUID  `json:"order_id"`
	ProcessByStaffID  *uuid.UUID `json:"process_by_staff_id,omitempty"`
	Carrier           string     `json:"carrier"`
	TrackingNumber    string     `json:"tracking_number"`
	EstimatedShipDate time.Time  `json:"estimated_ship_date"`
	EstimatedDelivery time.Time  `json:"estimated_delivery"`
	Status            string     `json:"status"`
	CreatedAt         time.Time  `json:"created_at"`
}

// OrderResponse represents an order with its full graph
type OrderResponse struct {
	ID               uuid.UUID           `json:"id"`
	UserID           uuid.UUID           `json:"user_id"`
	ProcessByStaffID *uuid.UUID          `json:"process_by_staff_id,omitempty"`
	OrderDate        time.Time           `json:"order_date"`
	Status           string              `json:"status"`
	SubTotal         decimal.Decimal     `json:"sub_total"`
	ShippingFee      decimal.Decimal     `json:"shipping_fee"`
	Discount         decimal.Decimal     `json:"discount"`
	TotalAmount      decimal.Decimal     `json:"total_amount"`
	ShippingAddress  *AddressResponse    `json:"shipping_address,omitempty"`
	Items            []OrderItemResponse `json:"items"`
	Payment          *PaymentResponse    `json:"payment,omitempty"`
	Shipments        []ShipmentResponse  `json:"shipments"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// OrderListItemResponse represents an order in list responses (no graph)
type OrderListItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	OrderDate   time.Time       `json:"order_date"`
	Status      string          `json:"status"`
	SubTotal    decimal.Decimal `json:"sub_total"`
	Discount    decimal.Decimal `json:"discount"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// ToAddressResponse converts a domain address to a response
func ToAddressResponse(a *fulfillment.Address) *AddressResponse {
	if a == nil {
		return nil
	}
	return &AddressResponse{
		ID:       a.ID,
		UserID:   a.UserID,
		Street:   a.Street,
		Ward:     a.Ward,
		District: a.District,
		Province: a.Province,
		ZipCode:  a.ZipCode,
		Country:  a.Country,
	}
}

// ToPaymentResponse converts a domain payment to a response
func ToPaymentResponse(p *fulfillment.Payment) *PaymentResponse {
	if p == nil {
		return nil
	}
	return &PaymentResponse{
		ID:            p.ID,
		OrderID:       p.OrderID,
		BuyerID:       p.BuyerID,
		TransactionID: p.TransactionID,
		Method:        string(p.Method),
		Amount:        p.Amount,
		Status:        string(p.Status),
		PaymentDate:   p.PaymentDate,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		Version:       p.Version,
	}
}

// ToShipmentResponse converts a domain shipment to a response
func ToShipmentResponse(s *fulfillment.Shipment) ShipmentResponse {
	return ShipmentResponse{
		ID:                s.ID,
		OrderID:           s.OrderID,
		ProcessByStaffID:  s.ProcessByStaffID,
		Carrier:           s.Carrier,
		TrackingNumber:    s.TrackingNumber,
		EstimatedShipDate: s.EstimatedShipDate,
		EstimatedDelivery: s.EstimatedDelivery,
		Status:            string(s.Status),
		CreatedAt:         s.CreatedAt,
	}
}

// ToOrderResponse converts an order graph to a response
func ToOrderResponse(o *fulfillment.Order) *OrderResponse {
	if o == nil {
		return nil
	}
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ID:               item.ID,
			Position:         item.Position,
			ProductVariantID: item.ProductVariantID,
			Quantity:         item.Quantity,
			UnitPrice:        item.UnitPrice,
			TotalPrice:       item.TotalPrice,
			DiscountValue:    item.DiscountValue,
		}
	}
	shipments := make([]ShipmentResponse, len(o.Shipments))
	for i := range o.Shipments {
		shipments[i] = ToShipmentResponse(&o.Shipments[i])
	}

	return &OrderResponse{
		ID:               o.ID,
		UserID:           o.UserID,
		ProcessByStaffID: o.ProcessByStaffID,
		OrderDate:        o.OrderDate,
		Status:           string(o.Status),
		SubTotal:         o.SubTotal,
		ShippingFee:      o.ShippingFee,
		Discount:         o.Discount,
		TotalAmount:      o.TotalAmount,
		ShippingAddress:  ToAddressResponse(o.ShippingAddress),
		Items:            items,
		Payment:          ToPaymentResponse(o.Payment),
		Shipments:        shipments,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

// ToOrderListItemResponse converts an order row to a list item
func ToOrderListItemResponse(o *fulfillment.Order) OrderListItemResponse {
	return OrderListItemResponse{
		ID:          o.ID,
		UserID:      o.UserID,
		OrderDate:   o.OrderDate,
		Status:      string(o.Status),
		SubTotal:    o.SubTotal,
		Discount:    o.Discount,
		TotalAmount: o.TotalAmount,
	}
}
