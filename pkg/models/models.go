package models

// Fixed model constants. The workbook the planners used before this service
// buried these inside formulas; they are named here and are not configurable.
const (
	// WeeksPerMonth converts monthly growth rates and volumes to weekly ones.
	WeeksPerMonth = 4.33
	// WarnUtilization is the lower bound of the WARNING band (inclusive).
	WarnUtilization = 0.70
	// CriticalUtilization is the upper bound of the WARNING band (inclusive);
	// anything above it is CRITICAL.
	CriticalUtilization = 0.90
	// DefaultHorizonWeeks is the forecast length used when a plan omits one.
	DefaultHorizonWeeks = 52
	// DefaultWorkingDays is used when a plan omits working days per week.
	DefaultWorkingDays = 5
)

// StageConfig represents one sequential production stage and its current staffing
type StageConfig struct {
	Name              string  `json:"name" yaml:"name"`
	Headcount         int     `json:"headcount" yaml:"headcount"`
	CapacityPerPerson float64 `json:"capacity_per_person" yaml:"capacity_per_person"` // units per person per working day
	Unit              string  `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// FacilityResource represents a physical constraint (hoods, storage, stations)
// with a current build-out and a hard ceiling
type FacilityResource struct {
	Name                    string  `json:"name" yaml:"name"`
	CurrentUnits            float64 `json:"current_units" yaml:"current_units"`
	MaxUnits                float64 `json:"max_units" yaml:"max_units"`
	ThroughputPerUnitPerDay float64 `json:"throughput_per_unit_per_day" yaml:"throughput_per_unit_per_day"`
}

// HiringEvent adds Count FTE to the stage named Role; the hire contributes
// nothing until onboarding completes
type HiringEvent struct {
	Role            string `json:"role" yaml:"role"`
	Count           int    `json:"count" yaml:"count"`
	EffectiveWeek   int    `json:"effective_week" yaml:"effective_week"`
	OnboardingWeeks int    `json:"onboarding_weeks" yaml:"onboarding_weeks"`
	Note            string `json:"note,omitempty" yaml:"note,omitempty"`
}

// ProductiveWeek returns the first week the hire counts toward headcount.
func (h HiringEvent) ProductiveWeek() int {
	return h.EffectiveWeek + h.OnboardingWeeks
}

// EquipmentEvent multiplies the capacity of the stage or facility resource
// named in AppliesTo from EffectiveWeek onward
type EquipmentEvent struct {
	Description          string  `json:"description" yaml:"description"`
	AppliesTo            string  `json:"applies_to" yaml:"applies_to"`
	EffectiveWeek        int     `json:"effective_week" yaml:"effective_week"`
	CapacityBoostPercent float64 `json:"capacity_boost_percent" yaml:"capacity_boost_percent"`
}

// GrowthAssumption holds the monthly order growth rate for a scenario
type GrowthAssumption struct {
	MonthlyGrowthPercent float64 `json:"monthly_growth_percent" yaml:"monthly_growth_percent"`
}

// WeeklyRate converts the monthly percentage into a weekly fraction.
func (g GrowthAssumption) WeeklyRate() float64 {
	return g.MonthlyGrowthPercent / WeeksPerMonth / 100
}

// Scenario is a named growth assumption plus hiring plan, evaluated
// independently of its siblings over the shared horizon
type Scenario struct {
	Name         string           `json:"name" yaml:"name"`
	Growth       GrowthAssumption `json:"growth" yaml:"growth"`
	HiringEvents []HiringEvent    `json:"hiring_events,omitempty" yaml:"hiring_events,omitempty"`
	Description  string           `json:"description,omitempty" yaml:"description,omitempty"`
}

// TotalPlannedHires sums the FTE count across the scenario's hiring plan.
func (s Scenario) TotalPlannedHires() int {
	total := 0
	for _, h := range s.HiringEvents {
		total += h.Count
	}
	return total
}

// PlanInput is the full configuration for a planning run: baseline demand,
// current staffing, physical resources, equipment timeline, and scenarios
type PlanInput struct {
	BaselineDailyOrders float64            `json:"baseline_daily_orders" yaml:"baseline_daily_orders"`
	WorkingDaysPerWeek  int                `json:"working_days_per_week" yaml:"working_days_per_week"`
	HorizonWeeks        int                `json:"horizon_weeks" yaml:"horizon_weeks"`
	Stages              []StageConfig      `json:"stages" yaml:"stages"`
	Facilities          []FacilityResource `json:"facilities,omitempty" yaml:"facilities,omitempty"`
	EquipmentEvents     []EquipmentEvent   `json:"equipment_events,omitempty" yaml:"equipment_events,omitempty"`
	Scenarios           []Scenario         `json:"scenarios" yaml:"scenarios"`
}

// ApplyDefaults fills zero-valued horizon and working-days fields.
func (p *PlanInput) ApplyDefaults() {
	if p.HorizonWeeks == 0 {
		p.HorizonWeeks = DefaultHorizonWeeks
	}
	if p.WorkingDaysPerWeek == 0 {
		p.WorkingDaysPerWeek = DefaultWorkingDays
	}
}

// WeeklySnapshot is one week of the demand forecast
type WeeklySnapshot struct {
	Week                int     `json:"week"`
	DailyOrders         float64 `json:"daily_orders"`
	WeeklyOrders        float64 `json:"weekly_orders"`
	MonthlyOrdersApprox float64 `json:"monthly_orders_approx"`
	CumulativeOrders    float64 `json:"cumulative_orders"`
}

// UtilizationStatus classifies utilization into OK / WARNING / CRITICAL bands
type UtilizationStatus string

const (
	StatusOK       UtilizationStatus = "OK"
	StatusWarning  UtilizationStatus = "WARNING"
	StatusCritical UtilizationStatus = "CRITICAL"
)

// StageUtilization is one (week, stage) cell of the capacity model
type StageUtilization struct {
	Week                int               `json:"week"`
	StageName           string            `json:"stage_name"`
	EffectiveHeadcount  int               `json:"effective_headcount"`
	TotalWeeklyCapacity float64           `json:"total_weekly_capacity"`
	WeeklyDemand        float64           `json:"weekly_demand"`
	Utilization         float64           `json:"utilization"`
	Backlog             float64           `json:"backlog"`
	IsBottleneck        bool              `json:"is_bottleneck"`
	Status              UtilizationStatus `json:"status"`
}

// FacilityStatus is one (week, resource) row of the facility forecast.
// IsConstrained compares needed units against the current build-out;
// ExceedsMax compares against the physical ceiling.
type FacilityStatus struct {
	Week           int     `json:"week"`
	ResourceName   string  `json:"resource_name"`
	UnitsNeeded    float64 `json:"units_needed"`
	UnitsAvailable float64 `json:"units_available"`
	MaxUnits       float64 `json:"max_units"`
	IsConstrained  bool    `json:"is_constrained"`
	ExceedsMax     bool    `json:"exceeds_max"`
}

// HirePriority buckets how urgently a stage needs staffing
type HirePriority string

const (
	PriorityUrgent HirePriority = "URGENT"
	PriorityHigh   HirePriority = "HIGH"
	PriorityMedium HirePriority = "MEDIUM"
	PriorityLow    HirePriority = "LOW"
)

// HiringPriority ranks a stage that goes critical within the horizon
type HiringPriority struct {
	StageName         string       `json:"stage_name"`
	Priority          HirePriority `json:"priority"`
	FirstCriticalWeek int          `json:"first_critical_week"`
	PeakUtilization   float64      `json:"peak_utilization"`
}

// MilestoneKind tags the events collected on a scenario timeline
type MilestoneKind string

const (
	MilestoneHireProductive      MilestoneKind = "hire_productive"
	MilestoneEquipmentOnline     MilestoneKind = "equipment_online"
	MilestoneStageCritical       MilestoneKind = "stage_critical"
	MilestoneFacilityConstrained MilestoneKind = "facility_constrained"
)

// Milestone is one dated event on a scenario's timeline
type Milestone struct {
	Week    int           `json:"week"`
	Kind    MilestoneKind `json:"kind"`
	Subject string        `json:"subject"`
	Detail  string        `json:"detail,omitempty"`
}

// FacilityOutlook summarizes a resource over the whole horizon: when it first
// binds and how many units beyond the current build-out the peak requires
type FacilityOutlook struct {
	ResourceName          string  `json:"resource_name"`
	FirstConstrainedWeek  int     `json:"first_constrained_week"`
	FirstOverMaxWeek      int     `json:"first_over_max_week"`
	PeakUnitsNeeded       float64 `json:"peak_units_needed"`
	AdditionalUnitsNeeded float64 `json:"additional_units_needed"`
}

// ScenarioSummary carries the headline metrics for one scenario. Week values
// of 0 mean "never within the horizon".
type ScenarioSummary struct {
	TotalPlannedHires     int               `json:"total_planned_hires"`
	TotalStaff            int               `json:"total_staff"`
	Week1DailyOrders      float64           `json:"week1_daily_orders"`
	Week1WeeklyOrders     float64           `json:"week1_weekly_orders"`
	CurrentBottlenecks    []string          `json:"current_bottlenecks"`
	CurrentMaxUtilization float64           `json:"current_max_utilization"`
	DailyOrdersAtWeek     map[int]float64   `json:"daily_orders_at_week,omitempty"`
	FirstOverCapacityWeek map[string]int    `json:"first_over_capacity_week,omitempty"`
	HiringPriorities      []HiringPriority  `json:"hiring_priorities,omitempty"`
	Milestones            []Milestone       `json:"milestones,omitempty"`
	FacilityOutlook       []FacilityOutlook `json:"facility_outlook,omitempty"`
}

// ScenarioResult is the full computed output for one scenario. Utilization
// rows are week-major: all stages for week 1, then week 2, and so on.
type ScenarioResult struct {
	ScenarioName      string             `json:"scenario_name"`
	Description       string             `json:"description,omitempty"`
	Forecast          []WeeklySnapshot   `json:"forecast"`
	Utilization       []StageUtilization `json:"utilization"`
	Facility          []FacilityStatus   `json:"facility,omitempty"`
	FirstCriticalWeek map[string]int     `json:"first_critical_week"`
	Summary           ScenarioSummary    `json:"summary"`
}

// ComparisonReport is the engine's top-level output: every scenario computed
// from the same shared inputs, in input order
type ComparisonReport struct {
	RunID               string           `json:"run_id,omitempty"`
	HorizonWeeks        int              `json:"horizon_weeks"`
	WorkingDaysPerWeek  int              `json:"working_days_per_week"`
	BaselineDailyOrders float64          `json:"baseline_daily_orders"`
	Scenarios           []ScenarioResult `json:"scenarios"`
}

// Scenario returns the result for the named scenario, or nil if absent.
func (r *ComparisonReport) Scenario(name string) *ScenarioResult {
	for i := range r.Scenarios {
		if r.Scenarios[i].ScenarioName == name {
			return &r.Scenarios[i]
		}
	}
	return nil
}
