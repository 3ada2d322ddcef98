package engine

import (
	"testing"

	"github.com/pharmops/capacity-api-go/pkg/models"
)

func TestCheckFacilityRoundsUp(t *testing.T) {
	plan := testPlan()
	plan.EquipmentEvents = nil
	p := NewPlanner(plan)
	hoods := models.FacilityResource{Name: "Hoods", CurrentUnits: 6, MaxUnits: 8, ThroughputPerUnitPerDay: 60}

	// 350 orders/day over 60/unit/day is 5.83 units; a partial hood is a hood.
	row := p.CheckFacility(hoods, 1, 350)
	if row.UnitsNeeded != 6 {
		t.Errorf("Expected 6 units needed for 350/day at 60/unit, got %f", row.UnitsNeeded)
	}
	if row.IsConstrained {
		t.Error("6 needed against 6 current is not constrained")
	}

	row = p.CheckFacility(hoods, 1, 300)
	if row.UnitsNeeded != 5 {
		t.Errorf("Expected exact division to not round up, got %f", row.UnitsNeeded)
	}
}

func TestCheckFacilityFlags(t *testing.T) {
	plan := testPlan()
	plan.EquipmentEvents = nil
	p := NewPlanner(plan)
	hoods := models.FacilityResource{Name: "Hoods", CurrentUnits: 6, MaxUnits: 8, ThroughputPerUnitPerDay: 60}

	row := p.CheckFacility(hoods, 1, 400)
	if !row.IsConstrained {
		t.Error("Expected 7 needed against 6 current to be constrained")
	}
	if row.ExceedsMax {
		t.Error("7 needed against a ceiling of 8 does not exceed max")
	}

	row = p.CheckFacility(hoods, 1, 500)
	if row.UnitsNeeded != 9 {
		t.Fatalf("Expected 9 units needed, got %f", row.UnitsNeeded)
	}
	if !row.IsConstrained || !row.ExceedsMax {
		t.Error("Expected 9 needed to trip both the build-out and the ceiling")
	}
}

func TestCheckFacilityEquipmentBoost(t *testing.T) {
	plan := testPlan()
	plan.EquipmentEvents = []models.EquipmentEvent{
		{Description: "Hood retrofit", AppliesTo: "Hoods", EffectiveWeek: 4, CapacityBoostPercent: 50},
	}
	p := NewPlanner(plan)
	hoods := models.FacilityResource{Name: "Hoods", CurrentUnits: 6, MaxUnits: 8, ThroughputPerUnitPerDay: 60}

	before := p.CheckFacility(hoods, 3, 540)
	if before.UnitsNeeded != 9 {
		t.Errorf("Expected 9 units before the retrofit, got %f", before.UnitsNeeded)
	}
	after := p.CheckFacility(hoods, 4, 540)
	if after.UnitsNeeded != 6 {
		t.Errorf("Expected 6 units at 90/unit/day after the retrofit, got %f", after.UnitsNeeded)
	}
}
