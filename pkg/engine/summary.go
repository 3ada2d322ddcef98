package engine

import (
	"fmt"
	"sort"

	"github.com/pharmops/capacity-api-go/pkg/models"
)

// checkpointWeeks are the horizon positions the comparison dashboard quotes
// demand at; checkpoints past the horizon are skipped.
var checkpointWeeks = []int{12, 24, 52}

// Summarize distills a computed scenario into its headline metrics.
func (p *Planner) Summarize(sc models.Scenario, r *models.ScenarioResult) models.ScenarioSummary {
	baseStaff := 0
	for _, st := range p.Plan.Stages {
		baseStaff += st.Headcount
	}

	summary := models.ScenarioSummary{
		TotalPlannedHires:     sc.TotalPlannedHires(),
		TotalStaff:            baseStaff + sc.TotalPlannedHires(),
		Week1DailyOrders:      r.Forecast[0].DailyOrders,
		Week1WeeklyOrders:     r.Forecast[0].WeeklyOrders,
		CurrentBottlenecks:    []string{},
		DailyOrdersAtWeek:     make(map[int]float64),
		FirstOverCapacityWeek: FirstOverCapacityWeeks(r.Utilization),
	}

	// Week 1 rows sit at the front of the week-major utilization slice.
	for _, row := range r.Utilization[:len(p.Plan.Stages)] {
		if row.IsBottleneck {
			summary.CurrentBottlenecks = append(summary.CurrentBottlenecks, row.StageName)
		}
		if row.Utilization > summary.CurrentMaxUtilization {
			summary.CurrentMaxUtilization = row.Utilization
		}
	}

	for _, w := range checkpointWeeks {
		if w <= p.Plan.HorizonWeeks {
			summary.DailyOrdersAtWeek[w] = r.Forecast[w-1].DailyOrders
		}
	}

	summary.HiringPriorities = p.hiringPriorities(r)
	summary.FacilityOutlook = facilityOutlook(r.Facility)
	summary.Milestones = p.milestones(sc, r, summary.FacilityOutlook)
	return summary
}

// hiringPriorities ranks every stage that goes critical within the horizon,
// soonest first.
func (p *Planner) hiringPriorities(r *models.ScenarioResult) []models.HiringPriority {
	peaks := make(map[string]float64)
	for _, row := range r.Utilization {
		if row.Utilization > peaks[row.StageName] {
			peaks[row.StageName] = row.Utilization
		}
	}

	var priorities []models.HiringPriority
	for _, st := range p.Plan.Stages {
		week := r.FirstCriticalWeek[st.Name]
		if week == 0 {
			continue
		}
		priorities = append(priorities, models.HiringPriority{
			StageName:         st.Name,
			Priority:          priorityFor(week),
			FirstCriticalWeek: week,
			PeakUtilization:   peaks[st.Name],
		})
	}
	sort.Slice(priorities, func(i, j int) bool {
		if priorities[i].FirstCriticalWeek != priorities[j].FirstCriticalWeek {
			return priorities[i].FirstCriticalWeek < priorities[j].FirstCriticalWeek
		}
		return priorities[i].StageName < priorities[j].StageName
	})
	return priorities
}

// priorityFor buckets a first-critical week into an urgency label.
func priorityFor(week int) models.HirePriority {
	switch {
	case week <= 4:
		return models.PriorityUrgent
	case week <= 12:
		return models.PriorityHigh
	case week <= 26:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}

// milestones collects the scenario's dated events: hires turning productive,
// equipment coming online, stages going critical, resources binding.
func (p *Planner) milestones(sc models.Scenario, r *models.ScenarioResult, outlook []models.FacilityOutlook) []models.Milestone {
	var ms []models.Milestone

	for _, h := range sc.HiringEvents {
		if w := h.ProductiveWeek(); w <= p.Plan.HorizonWeeks {
			ms = append(ms, models.Milestone{
				Week:    w,
				Kind:    models.MilestoneHireProductive,
				Subject: h.Role,
				Detail:  fmt.Sprintf("+%d %s productive after onboarding", h.Count, h.Role),
			})
		}
	}
	for _, ev := range p.Plan.EquipmentEvents {
		if ev.EffectiveWeek <= p.Plan.HorizonWeeks {
			ms = append(ms, models.Milestone{
				Week:    ev.EffectiveWeek,
				Kind:    models.MilestoneEquipmentOnline,
				Subject: ev.AppliesTo,
				Detail:  fmt.Sprintf("%s (+%g%% capacity)", ev.Description, ev.CapacityBoostPercent),
			})
		}
	}
	for _, st := range p.Plan.Stages {
		if w := r.FirstCriticalWeek[st.Name]; w > 0 {
			ms = append(ms, models.Milestone{
				Week:    w,
				Kind:    models.MilestoneStageCritical,
				Subject: st.Name,
				Detail:  "utilization crosses the critical threshold",
			})
		}
	}
	for _, fo := range outlook {
		if fo.FirstConstrainedWeek > 0 {
			ms = append(ms, models.Milestone{
				Week:    fo.FirstConstrainedWeek,
				Kind:    models.MilestoneFacilityConstrained,
				Subject: fo.ResourceName,
				Detail:  "demand outgrows the current build-out",
			})
		}
	}

	sort.Slice(ms, func(i, j int) bool {
		if ms[i].Week != ms[j].Week {
			return ms[i].Week < ms[j].Week
		}
		if ms[i].Kind != ms[j].Kind {
			return ms[i].Kind < ms[j].Kind
		}
		return ms[i].Subject < ms[j].Subject
	})
	return ms
}

// facilityOutlook condenses the per-week facility rows into one row per
// resource, in first-seen order.
func facilityOutlook(rows []models.FacilityStatus) []models.FacilityOutlook {
	var order []string
	byName := make(map[string]*models.FacilityOutlook)
	currentUnits := make(map[string]float64)

	for _, row := range rows {
		fo, ok := byName[row.ResourceName]
		if !ok {
			fo = &models.FacilityOutlook{ResourceName: row.ResourceName}
			byName[row.ResourceName] = fo
			currentUnits[row.ResourceName] = row.UnitsAvailable
			order = append(order, row.ResourceName)
		}
		if row.IsConstrained && fo.FirstConstrainedWeek == 0 {
			fo.FirstConstrainedWeek = row.Week
		}
		if row.ExceedsMax && fo.FirstOverMaxWeek == 0 {
			fo.FirstOverMaxWeek = row.Week
		}
		if row.UnitsNeeded > fo.PeakUnitsNeeded {
			fo.PeakUnitsNeeded = row.UnitsNeeded
		}
	}

	outlooks := make([]models.FacilityOutlook, 0, len(order))
	for _, name := range order {
		fo := byName[name]
		if extra := fo.PeakUnitsNeeded - currentUnits[name]; extra > 0 {
			fo.AdditionalUnitsNeeded = extra
		}
		outlooks = append(outlooks, *fo)
	}
	return outlooks
}
