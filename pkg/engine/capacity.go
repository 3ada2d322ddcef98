package engine

import "github.com/pharmops/capacity-api-go/pkg/models"

// EffectiveHeadcount returns the staff productive at a stage in the given
// week: base headcount plus every hire whose onboarding has completed.
// A hire effective week 10 with 2 onboarding weeks counts from week 12.
func (p *Planner) EffectiveHeadcount(stage models.StageConfig, hires []models.HiringEvent, week int) int {
	headcount := stage.Headcount
	for _, h := range hires {
		if h.Role == stage.Name && week >= h.ProductiveWeek() {
			headcount += h.Count
		}
	}
	return headcount
}

// CapacityMultiplier returns the combined equipment boost active for the
// named stage or facility resource in the given week. Boosts stack
// additively: two +20% events give 1.4, not 1.44.
func (p *Planner) CapacityMultiplier(name string, week int) float64 {
	multiplier := 1.0
	for _, ev := range p.Plan.EquipmentEvents {
		if ev.AppliesTo == name && week >= ev.EffectiveWeek {
			multiplier += ev.CapacityBoostPercent / 100
		}
	}
	return multiplier
}

// StageWeek computes one (week, stage) cell of the capacity model against
// the given weekly demand. A stage with zero capacity reports utilization 0
// rather than dividing by zero; callers surface that case separately.
func (p *Planner) StageWeek(stage models.StageConfig, hires []models.HiringEvent, week int, weeklyDemand float64) models.StageUtilization {
	headcount := p.EffectiveHeadcount(stage, hires, week)
	capacity := float64(headcount) * stage.CapacityPerPerson *
		float64(p.Plan.WorkingDaysPerWeek) * p.CapacityMultiplier(stage.Name, week)

	utilization := 0.0
	if capacity > 0 {
		utilization = weeklyDemand / capacity
	}
	backlog := 0.0
	if utilization > 1 {
		backlog = weeklyDemand - capacity
	}

	return models.StageUtilization{
		Week:                week,
		StageName:           stage.Name,
		EffectiveHeadcount:  headcount,
		TotalWeeklyCapacity: capacity,
		WeeklyDemand:        weeklyDemand,
		Utilization:         utilization,
		Backlog:             backlog,
		Status:              Classify(utilization),
	}
}
