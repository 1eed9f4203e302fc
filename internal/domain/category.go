package domain

// IncidentCategory is the kind of incident a citizen reports.
type IncidentCategory string

const (
	ForestFire          IncidentCategory = "FOREST_FIRE"
	UrbanFire           IncidentCategory = "URBAN_FIRE"
	Flood               IncidentCategory = "FLOOD"
	Landslide           IncidentCategory = "LANDSLIDE"
	RoadAccident        IncidentCategory = "ROAD_ACCIDENT"
	VehicleBreakdown    IncidentCategory = "VEHICLE_BREAKDOWN"
	AnimalOnRoad        IncidentCategory = "ANIMAL_ON_ROAD"
	RoadObstruction     IncidentCategory = "ROAD_OBSTRUCTION"
	TrafficCongestion   IncidentCategory = "TRAFFIC_CONGESTION"
	PublicLighting      IncidentCategory = "PUBLIC_LIGHTING"
	Sanitation          IncidentCategory = "SANITATION"
	ElectricalNetwork   IncidentCategory = "ELECTRICAL_NETWORK"
	RoadDamage          IncidentCategory = "ROAD_DAMAGE"
	TrafficLightFailure IncidentCategory = "TRAFFIC_LIGHT_FAILURE"
	Crime               IncidentCategory = "CRIME"
	PublicDisturbance   IncidentCategory = "PUBLIC_DISTURBANCE"
	DomesticViolence    IncidentCategory = "DOMESTIC_VIOLENCE"
	LostAnimal          IncidentCategory = "LOST_ANIMAL"
	InjuredAnimal       IncidentCategory = "INJURED_ANIMAL"
	Pollution           IncidentCategory = "POLLUTION"
	MedicalEmergency    IncidentCategory = "MEDICAL_EMERGENCY"
	WorkAccident        IncidentCategory = "WORK_ACCIDENT"
)

// IncidentCategories lists every defined incident category in declaration order.
func IncidentCategories() []IncidentCategory {
	return []IncidentCategory{
		ForestFire, UrbanFire, Flood, Landslide, RoadAccident, VehicleBreakdown,
		AnimalOnRoad, RoadObstruction, TrafficCongestion, PublicLighting, Sanitation,
		ElectricalNetwork, RoadDamage, TrafficLightFailure, Crime, PublicDisturbance,
		DomesticViolence, LostAnimal, InjuredAnimal, Pollution, MedicalEmergency, WorkAccident,
	}
}

func (c IncidentCategory) Valid() bool {
	for _, known := range IncidentCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// OrganizationCategory is the kind of organization that handles incidents.
type OrganizationCategory string

const (
	FireBrigade      OrganizationCategory = "FIRE_BRIGADE"
	CivilProtection  OrganizationCategory = "CIVIL_PROTECTION"
	Police           OrganizationCategory = "POLICE"
	Municipality     OrganizationCategory = "MUNICIPALITY"
	Infrastructure   OrganizationCategory = "INFRASTRUCTURE"
	AnimalServices   OrganizationCategory = "ANIMAL_SERVICES"
	Environment      OrganizationCategory = "ENVIRONMENT"
	EmergencyMedical OrganizationCategory = "EMERGENCY_MEDICAL"
	LabourAuthority  OrganizationCategory = "LABOUR_AUTHORITY"
)

func OrganizationCategories() []OrganizationCategory {
	return []OrganizationCategory{
		FireBrigade, CivilProtection, Police, Municipality, Infrastructure,
		AnimalServices, Environment, EmergencyMedical, LabourAuthority,
	}
}

func (c OrganizationCategory) Valid() bool {
	for _, known := range OrganizationCategories() {
		if c == known {
			return true
		}
	}
	return false
}
