package models

import (
	"errors"
	"fmt"
	"sort"
)

// Validate checks a plan before any computation runs. It returns the first
// problem found; callers treat any error as a rejected plan.
func (p *PlanInput) Validate() error {
	if p.BaselineDailyOrders < 0 {
		return fmt.Errorf("baseline_daily_orders must be >= 0, got %g", p.BaselineDailyOrders)
	}
	if p.WorkingDaysPerWeek < 1 || p.WorkingDaysPerWeek > 7 {
		return fmt.Errorf("working_days_per_week must be between 1 and 7, got %d", p.WorkingDaysPerWeek)
	}
	if p.HorizonWeeks < 1 {
		return fmt.Errorf("horizon_weeks must be >= 1, got %d", p.HorizonWeeks)
	}
	if len(p.Stages) == 0 {
		return errors.New("at least one stage is required")
	}

	stageNames := make(map[string]bool, len(p.Stages))
	for i, st := range p.Stages {
		if st.Name == "" {
			return fmt.Errorf("stage %d: name is required", i)
		}
		if stageNames[st.Name] {
			return fmt.Errorf("duplicate stage name %q", st.Name)
		}
		stageNames[st.Name] = true
		if st.Headcount < 0 {
			return fmt.Errorf("stage %q: headcount must be >= 0, got %d", st.Name, st.Headcount)
		}
		if st.CapacityPerPerson <= 0 {
			return fmt.Errorf("stage %q: capacity_per_person must be > 0, got %g", st.Name, st.CapacityPerPerson)
		}
	}

	resourceNames := make(map[string]bool, len(p.Facilities))
	for i, f := range p.Facilities {
		if f.Name == "" {
			return fmt.Errorf("facility %d: name is required", i)
		}
		if resourceNames[f.Name] {
			return fmt.Errorf("duplicate facility name %q", f.Name)
		}
		resourceNames[f.Name] = true
		if f.ThroughputPerUnitPerDay <= 0 {
			return fmt.Errorf("facility %q: throughput_per_unit_per_day must be > 0, got %g", f.Name, f.ThroughputPerUnitPerDay)
		}
		if f.CurrentUnits < 0 {
			return fmt.Errorf("facility %q: current_units must be >= 0, got %g", f.Name, f.CurrentUnits)
		}
		if f.MaxUnits < f.CurrentUnits {
			return fmt.Errorf("facility %q: max_units (%g) must be >= current_units (%g)", f.Name, f.MaxUnits, f.CurrentUnits)
		}
	}

	eventsByTarget := make(map[string][]EquipmentEvent)
	for i, ev := range p.EquipmentEvents {
		if ev.AppliesTo == "" {
			return fmt.Errorf("equipment event %d: applies_to is required", i)
		}
		if !stageNames[ev.AppliesTo] && !resourceNames[ev.AppliesTo] {
			return fmt.Errorf("equipment event %d: applies_to %q matches no stage or facility", i, ev.AppliesTo)
		}
		if ev.EffectiveWeek < 1 {
			return fmt.Errorf("equipment event %d: effective_week must be >= 1, got %d", i, ev.EffectiveWeek)
		}
		eventsByTarget[ev.AppliesTo] = append(eventsByTarget[ev.AppliesTo], ev)
	}
	// Boosts stack additively from their effective week onward, so a run of
	// negative events can erase a target's capacity entirely. The engine
	// divides by facility throughput, so the multiplier must stay positive
	// at every week boundary.
	for name, events := range eventsByTarget {
		sort.Slice(events, func(i, j int) bool { return events[i].EffectiveWeek < events[j].EffectiveWeek })
		multiplier := 1.0
		for i, ev := range events {
			multiplier += ev.CapacityBoostPercent / 100
			lastOfWeek := i == len(events)-1 || events[i+1].EffectiveWeek != ev.EffectiveWeek
			if lastOfWeek && multiplier <= 0 {
				return fmt.Errorf("equipment events for %q reduce its capacity multiplier to %g from week %d; the stacked boost must stay above -100%%",
					name, multiplier, ev.EffectiveWeek)
			}
		}
	}

	if len(p.Scenarios) == 0 {
		return errors.New("at least one scenario is required")
	}
	scenarioNames := make(map[string]bool, len(p.Scenarios))
	for i, sc := range p.Scenarios {
		if sc.Name == "" {
			return fmt.Errorf("scenario %d: name is required", i)
		}
		if scenarioNames[sc.Name] {
			return fmt.Errorf("duplicate scenario name %q", sc.Name)
		}
		scenarioNames[sc.Name] = true
		for j, h := range sc.HiringEvents {
			if h.Role == "" {
				return fmt.Errorf("scenario %q: hiring event %d: role is required", sc.Name, j)
			}
			if !stageNames[h.Role] {
				return fmt.Errorf("scenario %q: hiring event %d: role %q matches no stage", sc.Name, j, h.Role)
			}
			if h.Count <= 0 {
				return fmt.Errorf("scenario %q: hiring event %d: count must be > 0, got %d", sc.Name, j, h.Count)
			}
			if h.EffectiveWeek < 1 {
				return fmt.Errorf("scenario %q: hiring event %d: effective_week must be >= 1, got %d", sc.Name, j, h.EffectiveWeek)
			}
			if h.OnboardingWeeks < 0 {
				return fmt.Errorf("scenario %q: hiring event %d: onboarding_weeks must be >= 0, got %d", sc.Name, j, h.OnboardingWeeks)
			}
		}
	}
	return nil
}
