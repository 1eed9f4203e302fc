package service

import (
	"fmt"
	"slices"

	"readyToHelp/internal/domain"
	"readyToHelp/pkg/e"
)

// TypeRouter maps incident categories onto the organization category that
// handles them. It is immutable after construction.
type TypeRouter struct {
	forward map[domain.IncidentCategory]domain.OrganizationCategory
	inverse map[domain.OrganizationCategory][]domain.IncidentCategory
}

func NewTypeRouter() *TypeRouter {
	forward := map[domain.IncidentCategory]domain.OrganizationCategory{
		domain.ForestFire: domain.FireBrigade,
		domain.UrbanFire:  domain.FireBrigade,

		domain.Flood:     domain.CivilProtection,
		domain.Landslide: domain.CivilProtection,

		domain.RoadAccident:      domain.Police,
		domain.AnimalOnRoad:      domain.Police,
		domain.TrafficCongestion: domain.Police,
		domain.Crime:             domain.Police,
		domain.PublicDisturbance: domain.Police,
		domain.DomesticViolence:  domain.Police,

		domain.PublicLighting: domain.Municipality,
		domain.Sanitation:     domain.Municipality,

		domain.RoadDamage:          domain.Infrastructure,
		domain.RoadObstruction:     domain.Infrastructure,
		domain.TrafficLightFailure: domain.Infrastructure,
		domain.ElectricalNetwork:   domain.Infrastructure,
		domain.VehicleBreakdown:    domain.Infrastructure,

		domain.LostAnimal:    domain.AnimalServices,
		domain.InjuredAnimal: domain.AnimalServices,

		domain.Pollution:        domain.Environment,
		domain.MedicalEmergency: domain.EmergencyMedical,
		domain.WorkAccident:     domain.LabourAuthority,
	}

	inverse := make(map[domain.OrganizationCategory][]domain.IncidentCategory)
	for ic, oc := range forward {
		inverse[oc] = append(inverse[oc], ic)
	}
	for _, list := range inverse {
		slices.Sort(list)
	}

	return &TypeRouter{forward: forward, inverse: inverse}
}

func (r *TypeRouter) ResponsibleCategoryFor(c domain.IncidentCategory) (domain.OrganizationCategory, error) {
	oc, ok := r.forward[c]
	if !ok {
		return "", fmt.Errorf("%w: %q", e.ErrUnmappedCategory, c)
	}
	return oc, nil
}

// CategoriesHandledBy returns the incident categories routed to org, sorted.
func (r *TypeRouter) CategoriesHandledBy(org domain.OrganizationCategory) []domain.IncidentCategory {
	return slices.Clone(r.inverse[org])
}
