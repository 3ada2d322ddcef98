// Package engine projects order demand against staged production capacity
// and flags the bottlenecks, facility limits, and hiring gaps per scenario.
package engine

import (
	"github.com/pharmops/capacity-api-go/pkg/models"
)

// Planner evaluates scenarios against a shared plan configuration
type Planner struct {
	Plan *models.PlanInput
}

// NewPlanner creates a planner for a validated plan
func NewPlanner(plan *models.PlanInput) *Planner {
	return &Planner{Plan: plan}
}
