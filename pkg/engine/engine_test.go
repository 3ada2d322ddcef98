package engine

import (
	"math"

	"github.com/pharmops/capacity-api-go/pkg/models"
)

// testPlan mirrors the pharmacy configuration the model was built around:
// four sequential stages, one constrained resource, one equipment upgrade.
func testPlan() *models.PlanInput {
	return &models.PlanInput{
		BaselineDailyOrders: 800,
		WorkingDaysPerWeek:  5,
		HorizonWeeks:        52,
		Stages: []models.StageConfig{
			{Name: "Compounding", Headcount: 6, CapacityPerPerson: 50},
			{Name: "PV1 Techs", Headcount: 4, CapacityPerPerson: 200},
			{Name: "PV2 Techs", Headcount: 3, CapacityPerPerson: 160},
			{Name: "Fulfillment", Headcount: 8, CapacityPerPerson: 120},
		},
		Facilities: []models.FacilityResource{
			{Name: "Hoods", CurrentUnits: 6, MaxUnits: 8, ThroughputPerUnitPerDay: 60},
		},
		EquipmentEvents: []models.EquipmentEvent{
			{Description: "Vial filling machine", AppliesTo: "Compounding", EffectiveWeek: 10, CapacityBoostPercent: 20},
		},
		Scenarios: []models.Scenario{
			{
				Name:   "Baseline",
				Growth: models.GrowthAssumption{MonthlyGrowthPercent: 5},
				HiringEvents: []models.HiringEvent{
					{Role: "PV2 Techs", Count: 2, EffectiveWeek: 8, OnboardingWeeks: 2},
					{Role: "Fulfillment", Count: 1, EffectiveWeek: 12, OnboardingWeeks: 1},
				},
			},
			{
				Name:   "Pessimistic",
				Growth: models.GrowthAssumption{MonthlyGrowthPercent: 3},
			},
		},
	}
}

func almost(got, want, eps float64) bool {
	return math.Abs(got-want) <= eps
}
