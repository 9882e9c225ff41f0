package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopcore/fulfillment/internal/domain/fulfillment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockPaymentRepository creates a GormPaymentRepository with a mocked SQL connection
func newMockPaymentRepository(t *testing.T) (*GormPaymentRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormPaymentRepository(gormDB), mock, mockDB
}

func TestGormPaymentRepository_TransitionStatusSQL(t *testing.T) {
	paymentID := uuid.New()
	paidAt := time.Now()

	t.Run("guards the update on the expected status", func(t *testing.T) {
		repo, mock, mockDB := newMockPaymentRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "payments" SET .*"status"=\$\d.*"version"=version \+ 1 WHERE id = \$\d AND status = \$\d`).
			WithArgs(paidAt, "PAID", sqlmock.AnyArg(), paymentID, "PENDING").
			WillReturnResult(sqlmock.NewResult(0, 1))

		applied, err := repo.TransitionStatus(context.Background(), paymentID, fulfillment.PaymentStatusPending, fulfillment.PaymentStatusPaid, &paidAt)

		require.NoError(t, err)
		assert.True(t, applied)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports not applied when no row matched", func(t *testing.T) {
		repo, mock, mockDB := newMockPaymentRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "payments" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		applied, err := repo.TransitionStatus(context.Background(), paymentID, fulfillment.PaymentStatusPending, fulfillment.PaymentStatusFailed, nil)

		require.NoError(t, err)
		assert.False(t, applied)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates database errors", func(t *testing.T) {
		repo, mock, mockDB := newMockPaymentRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "payments" SET`).
			WillReturnError(errors.New("connection reset"))

		applied, err := repo.TransitionStatus(context.Background(), paymentID, fulfillment.PaymentStatusPending, fulfillment.PaymentStatusPaid, nil)

		assert.Error(t, err)
		assert.False(t, applied)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
