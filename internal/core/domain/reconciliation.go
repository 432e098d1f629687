package domain

// ReconciliationCandidate pairs an eligible loan with the customer identifiers
// the matcher can key on. Candidates are ordered by loan creation time so the
// earliest loan wins ties.
type ReconciliationCandidate struct {
	Loan     Loan     `json:"loan"`
	Customer Customer `json:"customer"`
}
