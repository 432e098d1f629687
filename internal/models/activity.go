package models

import "time"

// LoanActivity is the persistence representation of a narrative log row.
type LoanActivity struct {
	ActivityID string    `json:"activityID"`
	LoanID     string    `json:"loanID"`
	StaffID    string    `json:"staffID"`
	Action     string    `json:"action"`
	Note       string    `json:"note"`
	CreatedAt  time.Time `json:"createdAt"`
}
