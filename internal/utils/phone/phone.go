// Package phone normalizes Kenyan MSISDNs to the canonical international
// form used by the payment gateway (2547XXXXXXXX, no plus sign).
package phone

import "strings"

// Normalize converts a raw phone string to canonical 254... form.
// Accepts "+254...", "07...", "01...", "7..." and "1..." inputs; anything
// else is returned stripped of whitespace so a substring match can still be
// attempted on the raw value.
func Normalize(raw string) string {
	p := strings.TrimSpace(raw)
	p = strings.ReplaceAll(p, " ", "")
	p = strings.TrimPrefix(p, "+")
	switch {
	case strings.HasPrefix(p, "0"):
		return "254" + p[1:]
	case strings.HasPrefix(p, "7"), strings.HasPrefix(p, "1"):
		return "254" + p
	default:
		return p
	}
}

// IsValid reports whether raw normalizes to a well-formed Kenyan MSISDN
// (254 followed by nine digits).
func IsValid(raw string) bool {
	p := Normalize(raw)
	if len(p) != 12 || !strings.HasPrefix(p, "254") {
		return false
	}
	for _, r := range p {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
