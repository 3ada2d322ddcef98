package planfile

// samplePlan is the compounding-pharmacy configuration the model was first
// built for. Storage is tracked in square feet: at 10 sq ft per order a
// square foot handles 0.1 orders per day.
const samplePlan = `# Pharmacy capacity plan
baseline_daily_orders: 800
working_days_per_week: 5
horizon_weeks: 52

stages:
  - name: Compounding
    headcount: 6
    capacity_per_person: 50
    unit: compounds/day
  - name: PV1 Techs
    headcount: 4
    capacity_per_person: 200
    unit: validations/day
  - name: PV2 Techs
    headcount: 3
    capacity_per_person: 160
    unit: validations/day
  - name: Fulfillment
    headcount: 8
    capacity_per_person: 120
    unit: orders/day

facilities:
  - name: Compounding Hoods
    current_units: 6
    max_units: 8
    throughput_per_unit_per_day: 60
  - name: Storage (sq ft)
    current_units: 8000
    max_units: 12000
    throughput_per_unit_per_day: 0.1
  - name: Packing Stations
    current_units: 10
    max_units: 15
    throughput_per_unit_per_day: 100

equipment_events:
  - description: Automated vial filling machine
    applies_to: Compounding
    effective_week: 10
    capacity_boost_percent: 20

scenarios:
  - name: Baseline
    description: Current trajectory
    growth:
      monthly_growth_percent: 5
    hiring_events:
      - role: PV2 Techs
        count: 2
        effective_week: 8
        onboarding_weeks: 2
        note: Address current bottleneck
      - role: Fulfillment
        count: 1
        effective_week: 12
        onboarding_weeks: 1
        note: Prepare for increased volume
      - role: Compounding
        count: 1
        effective_week: 20
        onboarding_weeks: 4
        note: Long onboarding for compounding
      - role: PV1 Techs
        count: 1
        effective_week: 16
        onboarding_weeks: 2
  - name: Optimistic
    description: Aggressive growth
    growth:
      monthly_growth_percent: 7
    hiring_events:
      - role: PV2 Techs
        count: 3
        effective_week: 6
        onboarding_weeks: 2
        note: Earlier and more aggressive
      - role: Fulfillment
        count: 2
        effective_week: 10
        onboarding_weeks: 1
        note: Double the baseline
      - role: Compounding
        count: 2
        effective_week: 16
        onboarding_weeks: 4
        note: Support higher volume
      - role: PV1 Techs
        count: 2
        effective_week: 12
        onboarding_weeks: 2
  - name: Pessimistic
    description: Conservative
    growth:
      monthly_growth_percent: 3
    hiring_events:
      - role: PV2 Techs
        count: 1
        effective_week: 12
        onboarding_weeks: 2
        note: Minimal hiring
      - role: Fulfillment
        count: 1
        effective_week: 20
        onboarding_weeks: 1
        note: Only if needed
`
