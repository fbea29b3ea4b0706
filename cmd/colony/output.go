package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/napolitain/colony-sim/internal/analysis"
	"github.com/napolitain/colony-sim/internal/research"
	"github.com/napolitain/colony-sim/internal/simulation"
)

func printSteps(timeline *simulation.Timeline, secondsPerDay float64) {
	color.New(color.FgYellow).Println("📊 Steps:")

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"#", "Start", "Duration", "Limiting", "Idle"}),
	)
	for _, s := range timeline.Steps {
		_ = table.Append([]string{
			fmt.Sprintf("%d", s.Index+1),
			formatDays(s.Start, secondsPerDay),
			formatDays(s.Duration, secondsPerDay),
			orDash(strings.Join(s.Utilization.LimitingResources, ", ")),
			fmt.Sprintf("%d", len(s.Utilization.UnusedProduction)),
		})
	}
	_ = table.Render()
}

func printTotals(timeline *simulation.Timeline, secondsPerDay float64) {
	totals := timeline.Totals()
	if len(totals) == 0 {
		return
	}
	color.New(color.FgYellow).Println("\n📦 Totals:")

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Resource", "Consumed", "Produced", "Net", "Net/day"}),
	)
	elapsedDays := timeline.Elapsed() / secondsPerDay
	for _, t := range totals {
		perDay := 0.0
		if elapsedDays > 0 {
			perDay = t.Net() / elapsedDays
		}
		_ = table.Append([]string{
			t.Resource,
			fmt.Sprintf("%.2f", t.Consumed),
			fmt.Sprintf("%.2f", t.Produced),
			fmt.Sprintf("%+.2f", t.Net()),
			fmt.Sprintf("%+.3f", perDay),
		})
	}
	_ = table.Render()
}

func printEvents(events []simulation.Event, secondsPerDay float64) {
	if len(events) == 0 {
		return
	}
	fmt.Println("\n🕑 Events:")
	for _, e := range events {
		line := fmt.Sprintf("   day %7.2f  %-12s %s", e.Time/secondsPerDay, e.Type, e.Resource)
		switch e.Type {
		case simulation.EventBreakthrough:
			color.Green("%s", line)
		case simulation.EventStarved:
			color.Red("%s", line)
		default:
			fmt.Println(line)
		}
	}
}

func printResearch(scenario *research.Scenario) {
	progress := scenario.Progress()
	if len(progress) == 0 {
		return
	}
	fmt.Println("\n🔬 Research:")
	for _, p := range progress {
		where := p.Body
		if where == "" {
			where = "everywhere"
		}
		fmt.Printf("   • %s (%s): %s, %.2f kerbal-days toward next tier\n", p.Category, where, p.Tier, p.KerbalDays)
	}
}

func printWarnings(warnings []analysis.Warning) {
	if len(warnings) == 0 {
		return
	}
	fmt.Println("\n⚠️  Warnings:")
	for _, w := range warnings {
		line := fmt.Sprintf("   [%s] %s", w.Severity, w.Message)
		switch w.Severity {
		case analysis.Critical:
			color.Red("%s", line)
		case analysis.Warn:
			color.Yellow("%s", line)
		default:
			fmt.Println(line)
		}
	}
}

func writeTimeline(path string, timeline *simulation.Timeline) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := timeline.WriteCSV(f); err != nil {
		return fmt.Errorf("failed to write timeline: %w", err)
	}
	return nil
}

func formatDays(seconds, secondsPerDay float64) string {
	return fmt.Sprintf("%.2f d", seconds/secondsPerDay)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
