package fulfillment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func newTestAddress(t *testing.T, userID uuid.UUID) *Address {
	t.Helper()
	addr, err := NewAddress(userID, AddressFields{
		Street:   "12 Nguyen Hue",
		District: "District 1",
		Province: "Ho Chi Minh City",
		Country:  "VN",
	}, time.Now())
	require.NoError(t, err)
	return addr
}

func sampleLines() []LineItem {
	return []LineItem{
		{ProductVariantID: uuid.New(), Quantity: 1, UnitPrice: dec("100"), TotalPrice: dec("100"), DiscountValue: decPtr("10")},
		{ProductVariantID: uuid.New(), Quantity: 2, UnitPrice: dec("25"), TotalPrice: dec("50"), DiscountValue: decPtr("0")},
	}
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name        string
		lines       []LineItem
		shippingFee decimal.Decimal
		subTotal    string
		discount    string
		total       string
	}{
		{
			name:        "two lines without shipping",
			lines:       sampleLines(),
			shippingFee: decimal.Zero,
			subTotal:    "150",
			discount:    "10",
			total:       "140",
		},
		{
			name: "missing discount counts as zero",
			lines: []LineItem{
				{ProductVariantID: uuid.New(), Quantity: 1, UnitPrice: dec("80"), TotalPrice: dec("80")},
				{ProductVariantID: uuid.New(), Quantity: 1, UnitPrice: dec("20"), TotalPrice: dec("20"), DiscountValue: decPtr("5")},
			},
			shippingFee: decimal.Zero,
			subTotal:    "100",
			discount:    "5",
			total:       "95",
		},
		{
			name:        "shipping fee is added",
			lines:       sampleLines(),
			shippingFee: dec("15.5"),
			subTotal:    "150",
			discount:    "10",
			total:       "155.5",
		},
		{
			name: "line total is taken as supplied",
			lines: []LineItem{
				{ProductVariantID: uuid.New(), Quantity: 3, UnitPrice: dec("10"), TotalPrice: dec("25")},
			},
			shippingFee: decimal.Zero,
			subTotal:    "25",
			discount:    "0",
			total:       "25",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals := ComputeTotals(tt.lines, tt.shippingFee)
			assert.True(t, dec(tt.subTotal).Equal(totals.SubTotal), "subTotal %s", totals.SubTotal)
			assert.True(t, dec(tt.discount).Equal(totals.Discount), "discount %s", totals.Discount)
			assert.True(t, dec(tt.total).Equal(totals.TotalAmount), "total %s", totals.TotalAmount)
		})
	}
}

func TestNewOrder(t *testing.T) {
	buyer := uuid.New()
	addr := newTestAddress(t, buyer)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("builds a pending order with totals and positioned items", func(t *testing.T) {
		order, err := NewOrder(buyer, addr, sampleLines(), decimal.Zero, now)
		require.NoError(t, err)

		assert.Equal(t, OrderStatusPending, order.Status)
		assert.Equal(t, buyer, order.UserID)
		assert.Equal(t, addr.ID, order.ShippingAddressID)
		assert.Equal(t, now, order.OrderDate)
		assert.True(t, dec("140").Equal(order.TotalAmount))
		require.Len(t, order.Items, 2)
		for i, item := range order.Items {
			assert.Equal(t, order.ID, item.OrderID)
			assert.Equal(t, i+1, item.Position)
		}
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		cases := map[string]func() (*Order, error){
			"no items": func() (*Order, error) {
				return NewOrder(buyer, addr, nil, decimal.Zero, now)
			},
			"no buyer": func() (*Order, error) {
				return NewOrder(uuid.Nil, addr, sampleLines(), decimal.Zero, now)
			},
			"no address": func() (*Order, error) {
				return NewOrder(buyer, nil, sampleLines(), decimal.Zero, now)
			},
			"negative shipping fee": func() (*Order, error) {
				return NewOrder(buyer, addr, sampleLines(), dec("-1"), now)
			},
			"zero quantity": func() (*Order, error) {
				lines := sampleLines()
				lines[0].Quantity = 0
				return NewOrder(buyer, addr, lines, decimal.Zero, now)
			},
			"negative discount": func() (*Order, error) {
				lines := sampleLines()
				lines[1].DiscountValue = decPtr("-3")
				return NewOrder(buyer, addr, lines, decimal.Zero, now)
			},
		}
		for name, build := range cases {
			t.Run(name, func(t *testing.T) {
				order, err := build()
				assert.Nil(t, order)
				assert.Error(t, err)
			})
		}
	})
}

func TestOrder_MarkPlaced(t *testing.T) {
	buyer := uuid.New()
	order, err := NewOrder(buyer, newTestAddress(t, buyer), sampleLines(), decimal.Zero, time.Now())
	require.NoError(t, err)
	payment, err := NewPayment(order, PaymentMethodCOD, "tx-1", time.Now())
	require.NoError(t, err)

	order.MarkPlaced(payment)

	assert.Same(t, payment, order.Payment)
	events := order.GetDomainEvents()
	require.Len(t, events, 1)
	placed, ok := events[0].(*OrderPlacedEvent)
	require.True(t, ok)
	assert.Equal(t, EventTypeOrderPlaced, placed.EventType())
	assert.Equal(t, PaymentMethodCOD, placed.PaymentMethod)
	assert.Equal(t, 2, placed.ItemCount)
	assert.True(t, dec("140").Equal(placed.TotalAmount))
}

func TestNewAddress(t *testing.T) {
	_, err := NewAddress(uuid.New(), AddressFields{Street: "  ", Province: "Hanoi", Country: "VN"}, time.Now())
	assert.Error(t, err)

	_, err = NewAddress(uuid.Nil, AddressFields{Street: "1 Trang Tien", Province: "Hanoi", Country: "VN"}, time.Now())
	assert.Error(t, err)

	addr, err := NewAddress(uuid.New(), AddressFields{Street: " 1 Trang Tien ", Province: "Hanoi", Country: "VN"}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "1 Trang Tien", addr.Street)
}
