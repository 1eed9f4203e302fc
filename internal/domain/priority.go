package domain

var basePriority = map[IncidentCategory]Priority{
	ForestFire:       PriorityHigh,
	UrbanFire:        PriorityHigh,
	Flood:            PriorityHigh,
	Landslide:        PriorityHigh,
	RoadAccident:     PriorityHigh,
	Crime:            PriorityHigh,
	DomesticViolence: PriorityHigh,
	MedicalEmergency: PriorityHigh,
	WorkAccident:     PriorityHigh,

	VehicleBreakdown:  PriorityMedium,
	AnimalOnRoad:      PriorityMedium,
	RoadObstruction:   PriorityMedium,
	TrafficCongestion: PriorityMedium,
	ElectricalNetwork: PriorityMedium,
	Sanitation:        PriorityMedium,
	PublicDisturbance: PriorityMedium,
	InjuredAnimal:     PriorityMedium,
	Pollution:         PriorityMedium,

	PublicLighting:      PriorityLow,
	RoadDamage:          PriorityLow,
	TrafficLightFailure: PriorityLow,
	LostAnimal:          PriorityLow,
}

var baseRadiusMeters = map[IncidentCategory]float64{
	ForestFire:          2500,
	UrbanFire:           1500,
	Flood:               2000,
	Landslide:           500,
	RoadAccident:        400,
	VehicleBreakdown:    125,
	AnimalOnRoad:        150,
	RoadObstruction:     200,
	TrafficCongestion:   200,
	PublicLighting:      100,
	Sanitation:          150,
	ElectricalNetwork:   300,
	RoadDamage:          200,
	TrafficLightFailure: 100,
	Crime:               300,
	PublicDisturbance:   300,
	DomesticViolence:    200,
	LostAnimal:          250,
	InjuredAnimal:       300,
	Pollution:           750,
	MedicalEmergency:    1000,
	WorkAccident:        300,
}

const defaultBaseRadiusMeters = 300

// ComputePriority escalates by corroboration: MEDIUM turns HIGH at 5 reports,
// LOW turns MEDIUM at 7.
func ComputePriority(c IncidentCategory, reportCount int) Priority {
	base, ok := basePriority[c]
	if !ok {
		base = PriorityLow
	}
	switch base {
	case PriorityHigh:
		return PriorityHigh
	case PriorityMedium:
		if reportCount >= 5 {
			return PriorityHigh
		}
		return PriorityMedium
	default:
		if reportCount >= 7 {
			return PriorityMedium
		}
		return PriorityLow
	}
}

// ComputeProximityRadius is the area of effect shown for an occurrence.
func ComputeProximityRadius(c IncidentCategory, p Priority) float64 {
	base, ok := baseRadiusMeters[c]
	if !ok {
		base = defaultBaseRadiusMeters
	}
	switch p {
	case PriorityHigh:
		return base * 2
	case PriorityMedium:
		return base * 1.5
	default:
		return base
	}
}

// Reprioritize refreshes Priority and ProximityRadiusMeters from the report count.
func (o *Occurrence) Reprioritize() {
	o.Priority = ComputePriority(o.Category, o.ReportCount)
	o.ProximityRadiusMeters = ComputeProximityRadius(o.Category, o.Priority)
}
