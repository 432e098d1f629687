package domain

import "time"

// LoanActivity is one line of the append-only narrative log kept per loan.
// The core only writes these; audit and reporting consume them elsewhere.
type LoanActivity struct {
	ActivityID string    `json:"activityID"`
	LoanID     string    `json:"loanID"`
	StaffID    string    `json:"staffID"` // empty for system-generated entries
	Action     string    `json:"action"`
	Note       string    `json:"note"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Common activity actions recorded by the core flows.
const (
	ActivityCreated      = "CREATED"
	ActivityVerified     = "VERIFIED"
	ActivityApproved     = "APPROVED"
	ActivityRejected     = "REJECTED"
	ActivityDisbursement = "DISBURSEMENT"
	ActivityRepayment    = "REPAYMENT"
	ActivityFullyRepaid  = "FULLY_REPAID"
	ActivityOverdue      = "MARKED_OVERDUE"
	ActivityReinstated   = "REINSTATED"
	ActivityDefaulted    = "DEFAULTED"
	ActivityPayoutFailed = "PAYOUT_FAILED"
)
