package domain

import (
	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// ResponsibleEntity is an organization with a geographic jurisdiction.
type ResponsibleEntity struct {
	ID       uuid.UUID            `json:"id"`
	Name     string               `json:"name"`
	Category OrganizationCategory `json:"category"`
	Email    string               `json:"email"`
	Address  string               `json:"address"`
	Phone    string               `json:"phone"`
	// Jurisdiction is an orb.Polygon or orb.MultiPolygon in lng/lat order.
	Jurisdiction orb.Geometry `json:"-"`
}

type EntityContact struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

func (r *ResponsibleEntity) Contact() *EntityContact {
	if r == nil {
		return nil
	}
	return &EntityContact{Name: r.Name, Email: r.Email, Address: r.Address, Phone: r.Phone}
}
