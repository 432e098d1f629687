package dto

import (
	"time"

	"github.com/kopesha/lending-backend/internal/core/domain"
)

// ActivityResponse is one line of a loan's narrative log.
type ActivityResponse struct {
	ActivityID string    `json:"activityID"`
	LoanID     string    `json:"loanID"`
	StaffID    string    `json:"staffID,omitempty"`
	Action     string    `json:"action"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ToActivityResponses converts a slice of domain activities.
func ToActivityResponses(activities []domain.LoanActivity) []ActivityResponse {
	out := make([]ActivityResponse, len(activities))
	for i, a := range activities {
		out[i] = ActivityResponse{
			ActivityID: a.ActivityID,
			LoanID:     a.LoanID,
			StaffID:    a.StaffID,
			Action:     a.Action,
			Note:       a.Note,
			CreatedAt:  a.CreatedAt,
		}
	}
	return out
}
