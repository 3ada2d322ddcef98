package engine

import (
	"testing"

	"github.com/pharmops/capacity-api-go/pkg/models"
)

func TestForecastBaselineWeek(t *testing.T) {
	p := NewPlanner(testPlan())
	weeks := p.Forecast(models.GrowthAssumption{MonthlyGrowthPercent: 5})

	if len(weeks) != 52 {
		t.Fatalf("Expected 52 weeks, got %d", len(weeks))
	}
	if weeks[0].Week != 1 {
		t.Errorf("Expected first snapshot to be week 1, got %d", weeks[0].Week)
	}
	if weeks[0].DailyOrders != 800 {
		t.Errorf("Expected week 1 daily orders to equal the baseline 800, got %f", weeks[0].DailyOrders)
	}
	if weeks[0].WeeklyOrders != 4000 {
		t.Errorf("Expected week 1 weekly orders 4000, got %f", weeks[0].WeeklyOrders)
	}
	if weeks[0].CumulativeOrders != 4000 {
		t.Errorf("Expected week 1 cumulative orders 4000, got %f", weeks[0].CumulativeOrders)
	}
}

func TestForecastCompounding(t *testing.T) {
	p := NewPlanner(testPlan())
	weeks := p.Forecast(models.GrowthAssumption{MonthlyGrowthPercent: 5})

	// 5%/month over 4.33 weeks/month compounds 800 to about 809.24 in week 2.
	if !almost(weeks[1].DailyOrders, 809.24, 0.01) {
		t.Errorf("Expected week 2 daily orders near 809.24, got %f", weeks[1].DailyOrders)
	}
	if !almost(weeks[1].CumulativeOrders, 8046.19, 0.01) {
		t.Errorf("Expected week 2 cumulative orders near 8046.19, got %f", weeks[1].CumulativeOrders)
	}
}

func TestForecastMonotonic(t *testing.T) {
	p := NewPlanner(testPlan())

	weeks := p.Forecast(models.GrowthAssumption{MonthlyGrowthPercent: 5})
	for i := 1; i < len(weeks); i++ {
		if weeks[i].DailyOrders <= weeks[i-1].DailyOrders {
			t.Fatalf("Positive growth must increase demand every week; week %d went from %f to %f",
				weeks[i].Week, weeks[i-1].DailyOrders, weeks[i].DailyOrders)
		}
	}

	weeks = p.Forecast(models.GrowthAssumption{MonthlyGrowthPercent: -3})
	for i := 1; i < len(weeks); i++ {
		if weeks[i].DailyOrders >= weeks[i-1].DailyOrders {
			t.Fatalf("Negative growth must decrease demand every week; week %d went from %f to %f",
				weeks[i].Week, weeks[i-1].DailyOrders, weeks[i].DailyOrders)
		}
	}
}

func TestForecastZeroGrowth(t *testing.T) {
	p := NewPlanner(testPlan())
	weeks := p.Forecast(models.GrowthAssumption{})

	for _, wk := range weeks {
		if wk.DailyOrders != 800 {
			t.Fatalf("Zero growth must hold demand flat; week %d has %f", wk.Week, wk.DailyOrders)
		}
	}
}

func TestForecastAccumulation(t *testing.T) {
	p := NewPlanner(testPlan())
	weeks := p.Forecast(models.GrowthAssumption{MonthlyGrowthPercent: 5})

	sum := 0.0
	for _, wk := range weeks {
		sum += wk.WeeklyOrders
		if !almost(wk.CumulativeOrders, sum, 1e-6) {
			t.Fatalf("Week %d cumulative %f does not match running sum %f", wk.Week, wk.CumulativeOrders, sum)
		}
		if !almost(wk.MonthlyOrdersApprox, wk.WeeklyOrders*models.WeeksPerMonth, 1e-9) {
			t.Fatalf("Week %d monthly approximation should be weekly x %v", wk.Week, models.WeeksPerMonth)
		}
	}
}
