package engine

import "github.com/pharmops/capacity-api-go/pkg/models"

// Forecast projects weekly order demand over the horizon for one growth
// assumption. Week 1 is the baseline; each later week compounds the weekly
// rate on the previous week's daily volume.
func (p *Planner) Forecast(growth models.GrowthAssumption) []models.WeeklySnapshot {
	weeklyRate := growth.WeeklyRate()
	workingDays := float64(p.Plan.WorkingDaysPerWeek)

	weeks := make([]models.WeeklySnapshot, p.Plan.HorizonWeeks)
	daily := p.Plan.BaselineDailyOrders
	cumulative := 0.0
	for w := 1; w <= p.Plan.HorizonWeeks; w++ {
		if w > 1 {
			daily *= 1 + weeklyRate
		}
		weekly := daily * workingDays
		cumulative += weekly
		weeks[w-1] = models.WeeklySnapshot{
			Week:                w,
			DailyOrders:         daily,
			WeeklyOrders:        weekly,
			MonthlyOrdersApprox: weekly * models.WeeksPerMonth,
			CumulativeOrders:    cumulative,
		}
	}
	return weeks
}
