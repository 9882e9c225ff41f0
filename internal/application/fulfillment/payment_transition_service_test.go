package fulfillment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopcore/fulfillment/internal/domain/fulfillment"
	"github.com/shopcore/fulfillment/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func pendingPayment(t *testing.T, method fulfillment.PaymentMethod) *fulfillment.Payment {
	t.Helper()
	order := &fulfillment.Order{UserID: uuid.New(), TotalAmount: dec("140")}
	order.ID = uuid.New()
	p, err := fulfillment.NewPayment(order, method, "TXN", provisionNow.Add(-time.Hour))
	require.NoError(t, err)
	return p
}

func newMockedPaymentService(ledger *MockLedger) *PaymentTransitionService {
	gen := fixedGenerator{tracking: "TRK", txID: "TXN"}
	return NewPaymentTransitionService(ledger, newTestProvisioner(gen), nil,
		WithPaymentClock(func() time.Time { return provisionNow }))
}

func TestPaymentTransitionService_PaidProvisionsShipment(t *testing.T) {
	tx := newStubTx()
	ledger := &MockLedger{tx: tx}
	ledger.On("Execute", mock.Anything).Return(nil)

	payment := pendingPayment(t, fulfillment.PaymentMethodBankTransfer)
	tx.payments.On("FindByID", mock.Anything, payment.ID).Return(payment, nil)
	tx.payments.On("TransitionStatus", mock.Anything, payment.ID,
		fulfillment.PaymentStatusPending, fulfillment.PaymentStatusPaid,
		mock.MatchedBy(func(d *time.Time) bool { return d != nil && d.Equal(provisionNow) }),
	).Return(true, nil)
	tx.shipments.On("Create", mock.Anything, mock.MatchedBy(func(s *fulfillment.Shipment) bool {
		return s.OrderID == payment.OrderID && s.Carrier == "J&T Express"
	})).Return(nil)
	tx.events.On("Record", mock.Anything, mock.Anything).Return(nil)

	svc := newMockedPaymentService(ledger)
	resp, err := svc.UpdatePayment(context.Background(), payment.ID, PaymentUpdateInput{
		Status:  "PAID",
		Carrier: "J&T Express",
	})
	require.NoError(t, err)

	assert.Equal(t, "PAID", resp.Status)
	require.NotNil(t, resp.PaymentDate)
	assert.True(t, resp.PaymentDate.Equal(provisionNow))
	assert.Equal(t, 2, resp.Version)
	tx.shipments.AssertNumberOfCalls(t, "Create", 1)
	// shipment event, then the payment status event
	tx.events.AssertNumberOfCalls(t, "Record", 2)
}

func TestPaymentTransitionService_ExplicitPaymentDateIsKept(t *testing.T) {
	tx := newStubTx()
	ledger := &MockLedger{tx: tx}
	ledger.On("Execute", mock.Anything).Return(nil)

	paidAt := provisionNow.Add(-30 * time.Minute)
	payment := pendingPayment(t, fulfillment.PaymentMethodCard)
	tx.payments.On("FindByID", mock.Anything, payment.ID).Return(payment, nil)
	tx.payments.On("TransitionStatus", mock.Anything, payment.ID,
		fulfillment.PaymentStatusPending, fulfillment.PaymentStatusPaid, &paidAt).Return(true, nil)
	tx.shipments.On("Create", mock.Anything, mock.Anything).Return(nil)
	tx.events.On("Record", mock.Anything, mock.Anything).Return(nil)

	svc := newMockedPaymentService(ledger)
	resp, err := svc.UpdatePayment(context.Background(), payment.ID, PaymentUpdateInput{
		Status:      "PAID",
		PaymentDate: &paidAt,
	})
	require.NoError(t, err)
	assert.True(t, resp.PaymentDate.Equal(paidAt))
}

func TestPaymentTransitionService_FailedHasNoShipment(t *testing.T) {
	tx := newStubTx()
	ledger := &MockLedger{tx: tx}
	ledger.On("Execute", mock.Anything).Return(nil)

	payment := pendingPayment(t, fulfillment.PaymentMethodEWallet)
	tx.payments.On("FindByID", mock.Anything, payment.ID).Return(payment, nil)
	tx.payments.On("TransitionStatus", mock.Anything, payment.ID,
		fulfillment.PaymentStatusPending, fulfillment.PaymentStatusFailed, (*time.Time)(nil)).Return(true, nil)
	tx.events.On("Record", mock.Anything, mock.Anything).Return(nil)

	svc := newMockedPaymentService(ledger)
	resp, err := svc.UpdatePayment(context.Background(), payment.ID, PaymentUpdateInput{Status: "failed"})
	require.NoError(t, err)

	assert.Equal(t, "FAILED", resp.Status)
	assert.Nil(t, resp.PaymentDate)
	tx.shipments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPaymentTransitionService_NoOpSkipsWrite(t *testing.T) {
	tx := newStubTx()
	ledger := &MockLedger{tx: tx}
	ledger.On("Execute", mock.Anything).Return(nil)

	payment := pendingPayment(t, fulfillment.PaymentMethodCard)
	payment.Status = fulfillment.PaymentStatusPaid
	tx.payments.On("FindByID", mock.Anything, payment.ID).Return(payment, nil)

	svc := newMockedPaymentService(ledger)
	resp, err := svc.UpdatePayment(context.Background(), payment.ID, PaymentUpdateInput{Status: "PAID"})
	require.NoError(t, err)

	assert.Equal(t, "PAID", resp.Status)
	assert.Equal(t, payment.Version, resp.Version)
	tx.payments.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	tx.shipments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	tx.events.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestPaymentTransitionService_LostRaceReturnsCurrent(t *testing.T) {
	tx := newStubTx()
	ledger := &MockLedger{tx: tx}
	ledger.On("Execute", mock.Anything).Return(nil)

	stale := pendingPayment(t, fulfillment.PaymentMethodBankTransfer)
	current := *stale
	current.Status = fulfillment.PaymentStatusPaid
	current.Version = 2

	tx.payments.On("FindByID", mock.Anything, stale.ID).Return(stale, nil).Once()
	tx.payments.On("FindByID", mock.Anything, stale.ID).Return(&current, nil).Once()
	tx.payments.On("TransitionStatus", mock.Anything, stale.ID,
		fulfillment.PaymentStatusPending, fulfillment.PaymentStatusPaid, mock.Anything).Return(false, nil)

	svc := newMockedPaymentService(ledger)
	resp, err := svc.UpdatePayment(context.Background(), stale.ID, PaymentUpdateInput{Status: "PAID"})
	require.NoError(t, err)

	assert.Equal(t, "PAID", resp.Status)
	assert.Equal(t, 2, resp.Version)
	tx.shipments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	tx.events.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestPaymentTransitionService_Errors(t *testing.T) {
	t.Run("unknown status is invalid input", func(t *testing.T) {
		ledger := &MockLedger{tx: newStubTx()}
		svc := newMockedPaymentService(ledger)

		_, err := svc.UpdatePayment(context.Background(), uuid.New(), PaymentUpdateInput{Status: "SETTLED"})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		ledger.AssertNotCalled(t, "Execute", mock.Anything)
	})

	t.Run("missing payment is not found", func(t *testing.T) {
		tx := newStubTx()
		ledger := &MockLedger{tx: tx}
		ledger.On("Execute", mock.Anything).Return(nil)
		tx.payments.On("FindByID", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

		svc := newMockedPaymentService(ledger)
		_, err := svc.UpdatePayment(context.Background(), uuid.New(), PaymentUpdateInput{Status: "PAID"})
		assert.ErrorIs(t, err, fulfillment.ErrPaymentNotFound)
		assert.Equal(t, "payment not found", err.Error())
	})

	t.Run("unknown status is rejected before the ledger", func(t *testing.T) {
		ledger := &MockLedger{tx: newStubTx()}

		svc := newMockedPaymentService(ledger)
		_, err := svc.UpdatePayment(context.Background(), uuid.New(), PaymentUpdateInput{Status: "SETTLED"})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		ledger.AssertNotCalled(t, "Execute", mock.Anything)
	})

	t.Run("shipment failure is generic", func(t *testing.T) {
		tx := newStubTx()
		ledger := &MockLedger{tx: tx}
		ledger.On("Execute", mock.Anything).Return(nil)

		payment := pendingPayment(t, fulfillment.PaymentMethodCard)
		tx.payments.On("FindByID", mock.Anything, payment.ID).Return(payment, nil)
		tx.payments.On("TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
		tx.shipments.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))

		svc := newMockedPaymentService(ledger)
		_, err := svc.UpdatePayment(context.Background(), payment.ID, PaymentUpdateInput{Status: "PAID"})
		assert.ErrorIs(t, err, fulfillment.ErrPaymentUpdateFailed)
		assert.Equal(t, "payment update failed", err.Error())
	})
}

func TestPaymentTransitionService_LatePaidAfterFailure(t *testing.T) {
	tests := []struct {
		name      string
		existing  int64
		wantShips int
	}{
		{"order without shipment gets one", 0, 1},
		{"order that already shipped keeps its shipment", 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := newStubTx()
			ledger := &MockLedger{tx: tx}
			ledger.On("Execute", mock.Anything).Return(nil)

			payment := pendingPayment(t, fulfillment.PaymentMethodEWallet)
			payment.Status = fulfillment.PaymentStatusFailed
			tx.payments.On("FindByID", mock.Anything, payment.ID).Return(payment, nil)
			tx.payments.On("TransitionStatus", mock.Anything, payment.ID,
				fulfillment.PaymentStatusFailed, fulfillment.PaymentStatusPaid, mock.Anything).Return(true, nil)
			tx.shipments.On("CountByOrderID", mock.Anything, payment.OrderID).Return(tt.existing, nil)
			tx.shipments.On("Create", mock.Anything, mock.Anything).Return(nil)
			tx.events.On("Record", mock.Anything, mock.Anything).Return(nil)

			svc := newMockedPaymentService(ledger)
			resp, err := svc.UpdatePayment(context.Background(), payment.ID, PaymentUpdateInput{Status: "PAID"})
			require.NoError(t, err)
			assert.Equal(t, "PAID", resp.Status)
			tx.shipments.AssertNumberOfCalls(t, "Create", tt.wantShips)
		})
	}
}

func TestPaymentTransitionService_ReversalHasNoShipmentEffect(t *testing.T) {
	tx := newStubTx()
	ledger := &MockLedger{tx: tx}
	ledger.On("Execute", mock.Anything).Return(nil)

	payment := pendingPayment(t, fulfillment.PaymentMethodCard)
	payment.Status = fulfillment.PaymentStatusPaid
	tx.payments.On("FindByID", mock.Anything, payment.ID).Return(payment, nil)
	tx.payments.On("TransitionStatus", mock.Anything, payment.ID,
		fulfillment.PaymentStatusPaid, fulfillment.PaymentStatusFailed, (*time.Time)(nil)).Return(true, nil)
	tx.events.On("Record", mock.Anything, mock.Anything).Return(nil)

	svc := newMockedPaymentService(ledger)
	resp, err := svc.UpdatePayment(context.Background(), payment.ID, PaymentUpdateInput{Status: "FAILED"})
	require.NoError(t, err)
	assert.Equal(t, "FAILED", resp.Status)
	tx.shipments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	tx.shipments.AssertNotCalled(t, "CountByOrderID", mock.Anything, mock.Anything)
}
