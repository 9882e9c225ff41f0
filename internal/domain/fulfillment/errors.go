package fulfillment

import (
	"fmt"

	"github.com/shopcore/fulfillment/internal/domain/shared"
)

// Fulfillment domain errors. Codes are matched with errors.Is, so detailed
// variants built from the same code compare equal to these sentinels.
var (
	ErrOrderCreationFailed      = shared.NewDomainError("ORDER_CREATION_FAILED", "order creation failed")
	ErrPaymentUpdateFailed      = shared.NewDomainError("PAYMENT_UPDATE_FAILED", "payment update failed")
	ErrOrderNotFound            = shared.NewDomainError("NOT_FOUND", "order not found")
	ErrPaymentNotFound          = shared.NewDomainError("NOT_FOUND", "payment not found")
	ErrInvalidPaymentTransition = shared.NewDomainError("INVALID_PAYMENT_TRANSITION", "payment status transition not allowed")
)

func invalidInput(format string, args ...any) *shared.DomainError {
	return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf(format, args...))
}
