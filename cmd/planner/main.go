// Command planner runs capacity scenarios from a plan file and prints a
// comparison report, without needing the API server or a database.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pharmops/capacity-api-go/pkg/engine"
	"github.com/pharmops/capacity-api-go/pkg/models"
	"github.com/pharmops/capacity-api-go/pkg/planfile"
)

func main() {
	planPath := flag.String("plan", "", "Path to a YAML or JSON plan file (empty runs the built-in sample)")
	format := flag.String("format", "text", "Output format: text or json")
	scenario := flag.String("scenario", "", "Only report the named scenario")
	writeSample := flag.String("write-sample", "", "Write the sample plan to path and exit")
	verbose := flag.Bool("v", false, "Log scenario runs")
	flag.Parse()

	if !*verbose {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}

	if *writeSample != "" {
		if err := planfile.WriteSample(*writeSample); err != nil {
			fatal(err)
		}
		fmt.Printf("Wrote sample plan to %s\n", *writeSample)
		return
	}

	plan, err := planfile.Load(*planPath)
	if err != nil {
		fatal(err)
	}

	report := engine.NewPlanner(plan).CompareScenarios(uuid.NewString())

	if *scenario != "" {
		result := report.Scenario(*scenario)
		if result == nil {
			fatal(fmt.Errorf("no scenario named %q in the plan", *scenario))
		}
		report.Scenarios = []models.ScenarioResult{*result}
	}

	if strings.EqualFold(*format, "json") {
		payload, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			fatal(err)
		}
		fmt.Println(string(payload))
		return
	}

	writeReport(os.Stdout, report)
}

// writeReport renders the comparison report as plain text, one block per
// scenario.
func writeReport(w io.Writer, report models.ComparisonReport) {
	fmt.Fprintln(w, "Capacity Planning Report")
	fmt.Fprintln(w, "------------------------")
	fmt.Fprintf(w, "Run: %s\n", report.RunID)
	fmt.Fprintf(w, "Horizon: %d weeks | working days/week: %d | baseline: %.1f orders/day\n",
		report.HorizonWeeks, report.WorkingDaysPerWeek, report.BaselineDailyOrders)

	for i := range report.Scenarios {
		fmt.Fprintln(w)
		writeScenario(w, &report.Scenarios[i])
	}
}

func writeScenario(w io.Writer, result *models.ScenarioResult) {
	s := result.Summary

	if result.Description != "" {
		fmt.Fprintf(w, "Scenario: %s (%s)\n", result.ScenarioName, result.Description)
	} else {
		fmt.Fprintf(w, "Scenario: %s\n", result.ScenarioName)
	}
	fmt.Fprintf(w, "Planned hires: %d | staff at horizon: %d\n", s.TotalPlannedHires, s.TotalStaff)

	bottlenecks := "none"
	if len(s.CurrentBottlenecks) > 0 {
		bottlenecks = strings.Join(s.CurrentBottlenecks, ", ")
	}
	fmt.Fprintf(w, "Week 1: %.1f orders/day (%.1f/week) | max utilization %.2f | bottleneck: %s\n",
		s.Week1DailyOrders, s.Week1WeeklyOrders, s.CurrentMaxUtilization, bottlenecks)

	for _, week := range []int{12, 24, 52} {
		if daily, ok := s.DailyOrdersAtWeek[week]; ok {
			fmt.Fprintf(w, "Week %d demand: %.1f orders/day\n", week, daily)
		}
	}

	if len(s.HiringPriorities) > 0 {
		fmt.Fprintln(w, "Hiring priorities")
		for _, hp := range s.HiringPriorities {
			fmt.Fprintf(w, "- %s | %s | critical from week %d | peak utilization %.2f\n",
				hp.StageName, hp.Priority, hp.FirstCriticalWeek, hp.PeakUtilization)
		}
	}

	if len(s.FacilityOutlook) > 0 {
		fmt.Fprintln(w, "Facility outlook")
		for _, fo := range s.FacilityOutlook {
			line := fmt.Sprintf("- %s | peak need %.0f units", fo.ResourceName, fo.PeakUnitsNeeded)
			if fo.FirstConstrainedWeek > 0 {
				line += fmt.Sprintf(" | constrained from week %d", fo.FirstConstrainedWeek)
			}
			if fo.FirstOverMaxWeek > 0 {
				line += fmt.Sprintf(" | over max from week %d", fo.FirstOverMaxWeek)
			}
			if fo.AdditionalUnitsNeeded > 0 {
				line += fmt.Sprintf(" | +%.0f beyond current", fo.AdditionalUnitsNeeded)
			}
			fmt.Fprintln(w, line)
		}
	}

	if len(s.Milestones) > 0 {
		fmt.Fprintln(w, "Milestones")
		for _, m := range s.Milestones {
			fmt.Fprintf(w, "- week %d | %s | %s", m.Week, m.Kind, m.Subject)
			if m.Detail != "" {
				fmt.Fprintf(w, " | %s", m.Detail)
			}
			fmt.Fprintln(w)
		}
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %s\n", err)
	os.Exit(1)
}
