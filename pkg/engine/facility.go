package engine

import (
	"math"

	"github.com/pharmops/capacity-api-go/pkg/models"
)

// CheckFacility computes one (week, resource) row of the facility forecast.
// Units needed round up: a demand needing 5.1 hoods needs 6 hoods. Equipment
// events that target the resource scale its per-unit throughput.
func (p *Planner) CheckFacility(res models.FacilityResource, week int, dailyDemand float64) models.FacilityStatus {
	throughput := res.ThroughputPerUnitPerDay * p.CapacityMultiplier(res.Name, week)
	needed := math.Ceil(dailyDemand / throughput)

	return models.FacilityStatus{
		Week:           week,
		ResourceName:   res.Name,
		UnitsNeeded:    needed,
		UnitsAvailable: res.CurrentUnits,
		MaxUnits:       res.MaxUnits,
		IsConstrained:  needed > res.CurrentUnits,
		ExceedsMax:     needed > res.MaxUnits,
	}
}
