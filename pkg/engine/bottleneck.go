package engine

import "github.com/pharmops/capacity-api-go/pkg/models"

// Classify maps a utilization value onto the OK / WARNING / CRITICAL bands.
// Both band edges belong to WARNING: 0.70 and 0.90 are warnings, anything
// above 0.90 is critical.
func Classify(utilization float64) models.UtilizationStatus {
	switch {
	case utilization > models.CriticalUtilization:
		return models.StatusCritical
	case utilization >= models.WarnUtilization:
		return models.StatusWarning
	default:
		return models.StatusOK
	}
}

// FlagBottlenecks marks every stage tied for the highest utilization among
// the rows of a single week. An all-zero week ties every stage at the
// maximum, so every stage is flagged.
func FlagBottlenecks(rows []models.StageUtilization) {
	if len(rows) == 0 {
		return
	}
	maxUtil := rows[0].Utilization
	for _, r := range rows[1:] {
		if r.Utilization > maxUtil {
			maxUtil = r.Utilization
		}
	}
	for i := range rows {
		if rows[i].Utilization == maxUtil {
			rows[i].IsBottleneck = true
		}
	}
}

// FirstCriticalWeeks returns, per stage, the earliest week whose utilization
// crosses into CRITICAL. Stages that never cross report 0. rows may span the
// whole horizon in any order.
func FirstCriticalWeeks(rows []models.StageUtilization) map[string]int {
	return firstWeekAbove(rows, models.CriticalUtilization)
}

// FirstOverCapacityWeeks returns, per stage, the earliest week whose demand
// exceeds capacity outright (utilization above 1.0). Stages that never
// overflow report 0.
func FirstOverCapacityWeeks(rows []models.StageUtilization) map[string]int {
	return firstWeekAbove(rows, 1.0)
}

func firstWeekAbove(rows []models.StageUtilization, threshold float64) map[string]int {
	weeks := make(map[string]int)
	for _, r := range rows {
		if _, seen := weeks[r.StageName]; !seen {
			weeks[r.StageName] = 0
		}
		if r.Utilization > threshold {
			if cur := weeks[r.StageName]; cur == 0 || r.Week < cur {
				weeks[r.StageName] = r.Week
			}
		}
	}
	return weeks
}
