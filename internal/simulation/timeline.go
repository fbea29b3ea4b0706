package simulation

import (
	"fmt"
	"io"
	"sort"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/floats"

	"github.com/napolitain/colony-sim/internal/solver/production"
)

// Step is one solver call and the span its rates held for
type Step struct {
	Index       int
	Start       float64
	Duration    float64
	Utilization production.Utilization
}

// Timeline records every step of a run
type Timeline struct {
	Steps []Step
}

// Append records a step
func (t *Timeline) Append(index int, start float64, u production.Utilization) {
	t.Steps = append(t.Steps, Step{
		Index:       index,
		Start:       start,
		Duration:    u.TimePassed,
		Utilization: u,
	})
}

// Row is one resource's rates during one step, as exported to CSV
type Row struct {
	Step        int     `csv:"step"`
	Start       float64 `csv:"start_seconds"`
	Duration    float64 `csv:"duration_seconds"`
	Resource    string  `csv:"resource"`
	Consumption float64 `csv:"consumption_per_second"`
	Production  float64 `csv:"production_per_second"`
	Limiting    bool    `csv:"limiting"`
}

// Rows flattens the timeline, one row per resource per step, resources in
// name order
func (t *Timeline) Rows() []*Row {
	var rows []*Row
	for _, s := range t.Steps {
		u := s.Utilization
		limiting := make(map[string]bool, len(u.LimitingResources))
		for _, name := range u.LimitingResources {
			limiting[name] = true
		}
		for _, name := range resourceNames(u) {
			rows = append(rows, &Row{
				Step:        s.Index,
				Start:       s.Start,
				Duration:    s.Duration,
				Resource:    name,
				Consumption: u.ConsumptionPerSecond[name],
				Production:  u.ProductionPerSecond[name],
				Limiting:    limiting[name],
			})
		}
	}
	return rows
}

// WriteCSV writes the rows with a header line
func (t *Timeline) WriteCSV(w io.Writer) error {
	rows := t.Rows()
	if rows == nil {
		rows = []*Row{}
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("writing timeline: %w", err)
	}
	return nil
}

// Total is how much of a resource a run drew and stockpiled
type Total struct {
	Resource string
	Consumed float64
	Produced float64
}

// Net is produced minus consumed
func (t Total) Net() float64 {
	return t.Produced - t.Consumed
}

// Totals sums rate times duration over every step, resources in name order
func (t *Timeline) Totals() []Total {
	durations := make([]float64, len(t.Steps))
	names := make(map[string]bool)
	for i, s := range t.Steps {
		durations[i] = s.Duration
		for _, name := range resourceNames(s.Utilization) {
			names[name] = true
		}
	}

	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	totals := make([]Total, 0, len(sorted))
	consumed := make([]float64, len(t.Steps))
	produced := make([]float64, len(t.Steps))
	for _, name := range sorted {
		for i, s := range t.Steps {
			consumed[i] = s.Utilization.ConsumptionPerSecond[name]
			produced[i] = s.Utilization.ProductionPerSecond[name]
		}
		totals = append(totals, Total{
			Resource: name,
			Consumed: floats.Dot(consumed, durations),
			Produced: floats.Dot(produced, durations),
		})
	}
	return totals
}

// Elapsed is the simulated time covered by the timeline
func (t *Timeline) Elapsed() float64 {
	durations := make([]float64, len(t.Steps))
	for i, s := range t.Steps {
		durations[i] = s.Duration
	}
	return floats.Sum(durations)
}

func resourceNames(u production.Utilization) []string {
	seen := make(map[string]bool, len(u.ConsumptionPerSecond)+len(u.ProductionPerSecond))
	names := make([]string, 0, len(seen))
	for name := range u.ConsumptionPerSecond {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for name := range u.ProductionPerSecond {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
