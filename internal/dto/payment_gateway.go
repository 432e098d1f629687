package dto

import "github.com/shopspring/decimal"

// PaymentNotification is the inbound payment confirmation from the gateway.
// BillingReference is whatever the payer typed as the account reference and is
// frequently partial or wrong; the reconciliation matcher deals with that.
type PaymentNotification struct {
	TransactionID    string          `json:"transaction_id" binding:"required"`
	BillingReference string          `json:"billing_reference"`
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	SenderPhone      string          `json:"sender_phone"`
}

// PaymentAck is returned to the gateway unconditionally. A non-zero result
// code would trigger gateway-side redelivery, so even "no match" acks success.
type PaymentAck struct {
	ResultCode int    `json:"result_code"`
	ResultDesc string `json:"result_desc"`
}

// SuccessAck is the acknowledgment the gateway expects for every notification.
func SuccessAck() PaymentAck {
	return PaymentAck{ResultCode: 0, ResultDesc: "Success"}
}

// PayoutResult is the outbound-disbursement result callback from the payout
// collaborator. A non-zero ResultCode means the payout failed after the loan
// was already marked disbursed; reversal is a manual follow-up.
type PayoutResult struct {
	ResultCode    int    `json:"result_code"`
	OriginatorID  string `json:"originator_id"`
	TransactionID string `json:"transaction_id"`
}
