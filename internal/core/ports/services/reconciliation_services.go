package services

import (
	"context"

	"github.com/kopesha/lending-backend/internal/dto"
)

// ReconciliationSvcFacade maps loosely identified inbound payment
// notifications onto loans and feeds the repayment allocator.
type ReconciliationSvcFacade interface {
	// ReconcilePayment matches the notification to at most one eligible loan
	// and records the repayment with the transaction ID as reference code.
	// The returned ack is always success: duplicates and no-match outcomes are
	// benign, and a failure ack would only provoke gateway retries.
	ReconcilePayment(ctx context.Context, notification dto.PaymentNotification) dto.PaymentAck
}
