package engine

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/pharmops/capacity-api-go/pkg/models"
)

// RunScenario evaluates one scenario over the full horizon: forecast,
// per-stage utilization with bottleneck flags, facility checks, and the
// headline summary. The same scenario on the same plan always produces the
// same result.
func (p *Planner) RunScenario(sc models.Scenario) models.ScenarioResult {
	log.Info().
		Str("scenario", sc.Name).
		Int("horizon_weeks", p.Plan.HorizonWeeks).
		Float64("monthly_growth_pct", sc.Growth.MonthlyGrowthPercent).
		Msg("Running capacity scenario")

	for _, st := range p.Plan.Stages {
		if p.EffectiveHeadcount(st, sc.HiringEvents, 1) == 0 {
			log.Warn().
				Str("scenario", sc.Name).
				Str("stage", st.Name).
				Msg("Stage has zero capacity at week 1; utilization reports 0 until staffed")
		}
	}

	forecast := p.Forecast(sc.Growth)

	utilization := make([]models.StageUtilization, 0, len(forecast)*len(p.Plan.Stages))
	var facility []models.FacilityStatus
	for _, wk := range forecast {
		rows := make([]models.StageUtilization, len(p.Plan.Stages))
		for i, st := range p.Plan.Stages {
			rows[i] = p.StageWeek(st, sc.HiringEvents, wk.Week, wk.WeeklyOrders)
		}
		FlagBottlenecks(rows)
		utilization = append(utilization, rows...)

		for _, res := range p.Plan.Facilities {
			facility = append(facility, p.CheckFacility(res, wk.Week, wk.DailyOrders))
		}
	}

	result := models.ScenarioResult{
		ScenarioName:      sc.Name,
		Description:       sc.Description,
		Forecast:          forecast,
		Utilization:       utilization,
		Facility:          facility,
		FirstCriticalWeek: FirstCriticalWeeks(utilization),
	}
	result.Summary = p.Summarize(sc, &result)
	return result
}

// CompareScenarios evaluates every scenario in the plan concurrently and
// returns them in input order. Scenarios share the plan read-only and each
// goroutine writes only its own result slot. runID is caller-assigned and
// echoed on the report; the engine itself stays a pure function of its
// inputs.
func (p *Planner) CompareScenarios(runID string) models.ComparisonReport {
	log.Info().
		Str("run_id", runID).
		Int("scenarios", len(p.Plan.Scenarios)).
		Int("horizon_weeks", p.Plan.HorizonWeeks).
		Msg("Starting scenario comparison")

	results := make([]models.ScenarioResult, len(p.Plan.Scenarios))
	var wg sync.WaitGroup
	for i, sc := range p.Plan.Scenarios {
		wg.Add(1)
		go func(slot int, sc models.Scenario) {
			defer wg.Done()
			results[slot] = p.RunScenario(sc)
		}(i, sc)
	}
	wg.Wait()

	return models.ComparisonReport{
		RunID:               runID,
		HorizonWeeks:        p.Plan.HorizonWeeks,
		WorkingDaysPerWeek:  p.Plan.WorkingDaysPerWeek,
		BaselineDailyOrders: p.Plan.BaselineDailyOrders,
		Scenarios:           results,
	}
}
