package dto

import (
	"time"

	"github.com/jsamuelsen/fuelquote/internal/domain"
)

// ProfileRequest is the body of POST/PUT /profile.
type ProfileRequest struct {
	FullName string `json:"fullName"`
	Address1 string `json:"address1"`
	Address2 string `json:"address2"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zipcode  string `json:"zipcode"`
}

// ToDomain converts the request into a delivery profile.
func (r ProfileRequest) ToDomain() domain.DeliveryProfile {
	return domain.DeliveryProfile{
		FullName: r.FullName,
		Address1: r.Address1,
		Address2: r.Address2,
		City:     r.City,
		State:    r.State,
		Zipcode:  r.Zipcode,
	}
}

// ProfileResponse is a stored delivery profile with its composed address.
type ProfileResponse struct {
	FullName        string    `json:"fullName,omitempty"`
	Address1        string    `json:"address1"`
	Address2        string    `json:"address2,omitempty"`
	City            string    `json:"city"`
	State           string    `json:"state"`
	Zipcode         string    `json:"zipcode"`
	DeliveryAddress string    `json:"deliveryAddress"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// NewProfileResponse converts a domain profile.
func NewProfileResponse(p *domain.DeliveryProfile) ProfileResponse {
	return ProfileResponse{
		FullName:        p.FullName,
		Address1:        p.Address1,
		Address2:        p.Address2,
		City:            p.City,
		State:           p.State,
		Zipcode:         p.Zipcode,
		DeliveryAddress: p.DeliveryAddress(),
		UpdatedAt:       p.UpdatedAt,
	}
}
