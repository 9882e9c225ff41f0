package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopcore/fulfillment/internal/domain/fulfillment"
	"github.com/shopspring/decimal"
)

// AddressModel is the persistence model for a shipping address
type AddressModel struct {
	BaseModel
	UserID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Street   string    `gorm:"type:varchar(255);not null"`
	Ward     string    `gorm:"type:varchar(100)"`
	District string    `gorm:"type:varchar(100)"`
	Province string    `gorm:"type:varchar(100);not null"`
	ZipCode  string    `gorm:"type:varchar(20)"`
	Country  string    `gorm:"type:varchar(64);not null"`
}

func (AddressModel) TableName() string {
	return "addresses"
}

func (m *AddressModel) ToDomain() *fulfillment.Address {
	return &fulfillment.Address{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		Street:     m.Street,
		Ward:       m.Ward,
		District:   m.District,
		Province:   m.Province,
		ZipCode:    m.ZipCode,
		Country:    m.Country,
	}
}

func AddressModelFromDomain(a *fulfillment.Address) *AddressModel {
	m := &AddressModel{
		UserID:   a.UserID,
		Street:   a.Street,
		Ward:     a.Ward,
		District: a.District,
		Province: a.Province,
		ZipCode:  a.ZipCode,
		Country:  a.Country,
	}
	m.FromDomainBaseEntity(a.BaseEntity)
	return m
}

// OrderModel is the persistence model for an order and its relation graph
type OrderModel struct {
	AggregateModel
	UserID            uuid.UUID               `gorm:"type:uuid;not null;index:idx_orders_user_date,priority:1"`
	ShippingAddressID uuid.UUID               `gorm:"type:uuid;not null"`
	ProcessByStaffID  *uuid.UUID              `gorm:"type:uuid"`
	OrderDate         time.Time               `gorm:"not null;index:idx_orders_user_date,priority:2"`
	Status            fulfillment.OrderStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	SubTotal          decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	ShippingFee       decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	Discount          decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	TotalAmount       decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`

	ShippingAddress *AddressModel    `gorm:"foreignKey:ShippingAddressID"`
	Items           []OrderItemModel `gorm:"foreignKey:OrderID"`
	Payment         *PaymentModel    `gorm:"foreignKey:OrderID"`
	Shipments       []ShipmentModel  `gorm:"foreignKey:OrderID"`
}

func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the model and whatever part of the graph was preloaded
func (m *OrderModel) ToDomain() *fulfillment.Order {
	order := &fulfillment.Order{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		UserID:            m.UserID,
		ShippingAddressID: m.ShippingAddressID,
		ProcessByStaffID:  m.ProcessByStaffID,
		OrderDate:         m.OrderDate,
		Status:            m.Status,
		SubTotal:          m.SubTotal,
		ShippingFee:       m.ShippingFee,
		Discount:          m.Discount,
		TotalAmount:       m.TotalAmount,
	}
	if m.ShippingAddress != nil {
		order.ShippingAddress = m.ShippingAddress.ToDomain()
	}
	if len(m.Items) > 0 {
		order.Items = make([]fulfillment.OrderItem, len(m.Items))
		for i := range m.Items {
			order.Items[i] = *m.Items[i].ToDomain()
		}
	}
	if m.Payment != nil {
		order.Payment = m.Payment.ToDomain(m.UserID)
	}
	if len(m.Shipments) > 0 {
		order.Shipments = make([]fulfillment.Shipment, len(m.Shipments))
		for i := range m.Shipments {
			order.Shipments[i] = *m.Shipments[i].ToDomain()
		}
	}
	return order
}

// OrderModelFromDomain maps the order row only; related rows are written by
// their own repositories.
func OrderModelFromDomain(o *fulfillment.Order) *OrderModel {
	m := &OrderModel{
		UserID:            o.UserID,
		ShippingAddressID: o.ShippingAddressID,
		ProcessByStaffID:  o.ProcessByStaffID,
		OrderDate:         o.OrderDate,
		Status:            o.Status,
		SubTotal:          o.SubTotal,
		ShippingFee:       o.ShippingFee,
		Discount:          o.Discount,
		TotalAmount:       o.TotalAmount,
	}
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	return m
}

// OrderItemModel is the persistence model for an order line
type OrderItemModel struct {
	BaseModel
	OrderID          uuid.UUID           `gorm:"type:uuid;not null;index"`
	Position         int                 `gorm:"not null"`
	ProductVariantID uuid.UUID           `gorm:"type:uuid;not null"`
	Quantity         int                 `gorm:"not null"`
	UnitPrice        decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	TotalPrice       decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	DiscountValue    decimal.NullDecimal `gorm:"type:decimal(18,4)"`
}

func (OrderItemModel) TableName() string {
	return "order_items"
}

func (m *OrderItemModel) ToDomain() *fulfillment.OrderItem {
	item := &fulfillment.OrderItem{
		BaseEntity:       m.BaseModel.ToDomain(),
		OrderID:          m.OrderID,
		Position:         m.Position,
		ProductVariantID: m.ProductVariantID,
		Quantity:         m.Quantity,
		UnitPrice:        m.UnitPrice,
		TotalPrice:       m.TotalPrice,
	}
	if m.DiscountValue.Valid {
		d := m.DiscountValue.Decimal
		item.DiscountValue = &d
	}
	return item
}

func OrderItemModelFromDomain(i *fulfillment.OrderItem) *OrderItemModel {
	m := &OrderItemModel{
		OrderID:          i.OrderID,
		Position:         i.Position,
		ProductVariantID: i.ProductVariantID,
		Quantity:         i.Quantity,
		UnitPrice:        i.UnitPrice,
		TotalPrice:       i.TotalPrice,
	}
	if i.DiscountValue != nil {
		m.DiscountValue = decimal.NewNullDecimal(*i.DiscountValue)
	}
	m.FromDomainBaseEntity(i.BaseEntity)
	return m
}

// PaymentModel is the persistence model for a payment. One payment per order.
type PaymentModel struct {
	AggregateModel
	OrderID       uuid.UUID                 `gorm:"type:uuid;not null;uniqueIndex"`
	TransactionID string                    `gorm:"type:varchar(128);not null;uniqueIndex"`
	Method        fulfillment.PaymentMethod `gorm:"type:varchar(20);not null"`
	Amount        decimal.Decimal           `gorm:"type:decimal(18,4);not null"`
	Status        fulfillment.PaymentStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	PaymentDate   *time.Time

	Order *OrderModel `gorm:"foreignKey:OrderID"`
}

func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the model; buyerID is the owning order's buyer
func (m *PaymentModel) ToDomain(buyerID uuid.UUID) *fulfillment.Payment {
	return &fulfillment.Payment{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		OrderID:           m.OrderID,
		BuyerID:           buyerID,
		TransactionID:     m.TransactionID,
		Method:            m.Method,
		Amount:            m.Amount,
		Status:            m.Status,
		PaymentDate:       m.PaymentDate,
	}
}

func PaymentModelFromDomain(p *fulfillment.Payment) *PaymentModel {
	m := &PaymentModel{
		OrderID:       p.OrderID,
		TransactionID: p.TransactionID,
		Method:        p.Method,
		Amount:        p.Amount,
		Status:        p.Status,
		PaymentDate:   p.PaymentDate,
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return m
}

// ShipmentModel is the persistence model for a shipment
type ShipmentModel struct {
	BaseModel
	OrderID           uuid.UUID                  `gorm:"type:uuid;not null;index"`
	ProcessByStaffID  *uuid.UUID                 `gorm:"type:uuid"`
	Carrier           string                     `gorm:"type:varchar(100);not null"`
	TrackingNumber    string                     `gorm:"type:varchar(128);not null;uniqueIndex"`
	EstimatedShipDate time.Time                  `gorm:"not null"`
	EstimatedDelivery time.Time                  `gorm:"not null"`
	Status            fulfillment.ShipmentStatus `gorm:"type:varchar(30);not null;default:'WAITING_FOR_PICKUP'"`
}

func (ShipmentModel) TableName() string {
	return "shipments"
}

func (m *ShipmentModel) ToDomain() *fulfillment.Shipment {
	return &fulfillment.Shipment{
		BaseEntity:        m.BaseModel.ToDomain(),
		OrderID:           m.OrderID,
		ProcessByStaffID:  m.ProcessByStaffID,
		Carrier:           m.Carrier,
		TrackingNumber:    m.TrackingNumber,
		EstimatedShipDate: m.EstimatedShipDate,
		EstimatedDelivery: m.EstimatedDelivery,
		Status:            m.Status,
	}
}

func ShipmentModelFromDomain(s *fulfillment.Shipment) *ShipmentModel {
	m := &ShipmentModel{
		OrderID:           s.OrderID,
		ProcessByStaffID:  s.ProcessByStaffID,
		Carrier:           s.Carrier,
		TrackingNumber:    s.TrackingNumber,
		EstimatedShipDate: s.EstimatedShipDate,
		EstimatedDelivery: s.EstimatedDelivery,
		Status:            s.Status,
	}
	m.FromDomainBaseEntity(s.BaseEntity)
	return m
}

// LedgerModels lists every fulfillment model, in dependency order, for AutoMigrate
func LedgerModels() []any {
	return []any{
		&AddressModel{},
		&OrderModel{},
		&OrderItemModel{},
		&PaymentModel{},
		&ShipmentModel{},
		&OutboxEntryModel{},
	}
}
