package domain

import (
	"strings"
	"time"
)

// DeliveryProfile is the user's saved delivery location.
type DeliveryProfile struct {
	UserID   string
	FullName string
	Address1 string
	Address2 string
	City     string
	State    string
	Zipcode  string

	UpdatedAt time.Time
}

// DeliveryAddress composes the address string attached to quotes:
// address1[, address2], city, state, zipcode. Empty parts are skipped.
func (p *DeliveryProfile) DeliveryAddress() string {
	if p == nil || strings.TrimSpace(p.Address1) == "" {
		return ""
	}

	parts := make([]string, 0, 5)
	for _, part := range []string{p.Address1, p.Address2, p.City, p.State, p.Zipcode} {
		if s := strings.TrimSpace(part); s != "" {
			parts = append(parts, s)
		}
	}

	return strings.Join(parts, ", ")
}

// NormalizedState returns the two-letter state code in upper case.
func (p *DeliveryProfile) NormalizedState() string {
	if p == nil {
		return ""
	}

	return strings.ToUpper(strings.TrimSpace(p.State))
}
