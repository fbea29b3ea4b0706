// Package analysis inspects a colony's configuration and last solver result
// and explains what is wrong with it. Nothing here is fatal; the solver runs
// whatever it is given.
package analysis

import (
	"fmt"
	"sort"

	"github.com/napolitain/colony-sim/internal/models"
	"github.com/napolitain/colony-sim/internal/simulation"
	"github.com/napolitain/colony-sim/internal/solver/production"
)

// Severity ranks warnings
type Severity int

const (
	Info Severity = iota
	Warn
	Critical
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warn:
		return "warning"
	case Critical:
		return "critical"
	default:
		return "unknown"
	}
}

// Warning is one finding about a colony
type Warning struct {
	Severity Severity
	Resource string
	Message  string
}

// Suggester proposes the closest known resource name, or ""
type Suggester interface {
	Suggest(name string) string
}

// Analyze returns warnings about colony, most severe first. last is the most
// recent solver result for the colony and may be nil.
func Analyze(colony *simulation.Colony, sink models.ResearchSink, suggest Suggester, last *production.Utilization) []Warning {
	a := &analyzer{colony: colony, sink: sink, suggest: suggest}

	a.checkTiers()
	a.checkSupply()
	a.checkStorage()
	a.checkCombiners()
	a.checkFood()
	a.checkUnknownKeys()
	if last != nil {
		a.checkUtilization(*last)
	}

	sort.SliceStable(a.warnings, func(i, j int) bool {
		return a.warnings[i].Severity > a.warnings[j].Severity
	})
	return a.warnings
}

type analyzer struct {
	colony   *simulation.Colony
	sink     models.ResearchSink
	suggest  Suggester
	warnings []Warning
}

func (a *analyzer) add(severity Severity, resource, format string, args ...any) {
	a.warnings = append(a.warnings, Warning{
		Severity: severity,
		Resource: resource,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (a *analyzer) enabledProducers() []models.Producer {
	var result []models.Producer
	for _, p := range a.colony.Producers {
		if p != nil && p.IsProductionEnabled() && p.Output() != nil {
			result = append(result, p)
		}
	}
	return result
}

// checkTiers flags producers set above what research has unlocked
func (a *analyzer) checkTiers() {
	seen := make(map[string]bool)
	for _, p := range a.enabledProducers() {
		unlocked := a.sink.MaxUnlockedTier(p.Output(), p.Body())
		name := p.Output().TieredName(p.Tier())
		if p.Tier() > unlocked && !seen[name] {
			seen[name] = true
			a.add(Warn, name, "%s is set to %s but only %s is unlocked on %s",
				p.Kind(), p.Tier(), unlocked, p.Body())
		}
	}
}

// checkSupply flags producers the solver will prune for lack of input
func (a *analyzer) checkSupply() {
	producers := a.enabledProducers()
	nodes := production.FindProducers(producers, a.sink, a.colony.Resources, a.colony.Storage)
	production.SortProducerList(nodes)
	viable := production.MatchProducersWithSourceProducers(nodes)

	kept := make(map[string]bool, len(viable))
	for _, n := range viable {
		if !n.IsStorage {
			kept[n.TieredName()] = true
		}
	}
	seen := make(map[string]bool)
	for _, p := range producers {
		name := p.Output().TieredName(p.Tier())
		if kept[name] || seen[name] {
			continue
		}
		seen[name] = true
		a.add(Critical, name, "nothing supplies %s at %s or better, so %s cannot run",
			p.Input().BaseName, p.Tier(), name)
	}
}

// checkStorage flags stockpilable output with nowhere to go
func (a *analyzer) checkStorage() {
	seen := make(map[string]bool)
	for _, p := range a.enabledProducers() {
		r := p.Output()
		name := r.TieredName(p.Tier())
		if !r.CanBeStored || r.ExcessProductionCountsTowardsResearch || seen[name] {
			continue
		}
		seen[name] = true
		if _, space, ok := models.LookupTiered(a.colony.Storage, r, p.Tier()); !ok || space <= production.AcceptableError {
			a.add(Info, name, "no storage space for %s; surplus is discarded", name)
		}
	}
}

// checkCombiners flags combiners missing an input, an output or a tiered supplier
func (a *analyzer) checkCombiners() {
	producing := make(map[*models.TieredResource]bool)
	for _, p := range a.enabledProducers() {
		producing[p.Output()] = true
	}
	for key, amount := range a.colony.Resources {
		if amount <= production.AcceptableError {
			continue
		}
		if r, _, ok := a.sink.TryParseTieredResourceName(key); ok {
			producing[r] = true
		}
	}

	for _, c := range a.colony.Combiners {
		if c == nil || !c.IsProductionEnabled() || c.TieredInput() == nil {
			continue
		}
		in := c.NonTieredInputResourceName()
		out := c.NonTieredOutputResourceName()
		if a.colony.Resources[in] <= production.AcceptableError {
			a.add(Warn, in, "%s has no %s to work with", c.Kind(), in)
		}
		if a.colony.Storage[out] <= production.AcceptableError {
			a.add(Warn, out, "%s has no room to store %s", c.Kind(), out)
		}
		if !producing[c.TieredInput()] {
			a.add(Warn, c.TieredInput().BaseName, "%s has no source of %s", c.Kind(), c.TieredInput().BaseName)
		}
	}
}

// checkFood flags a crew with nothing to eat
func (a *analyzer) checkFood() {
	if a.colony.Crew <= 0 {
		return
	}
	for _, p := range a.enabledProducers() {
		if p.Output().IsEdible() {
			return
		}
	}
	for key, amount := range a.colony.Resources {
		if amount <= production.AcceptableError {
			continue
		}
		if r, _, ok := a.sink.TryParseTieredResourceName(key); ok && r.IsEdible() {
			return
		}
	}
	a.add(Critical, "", "crew of %d has no food source", a.colony.Crew)
}

// checkUnknownKeys flags keys that look like misspelled tiered resources.
// Untiered resources a combiner uses are expected and skipped.
func (a *analyzer) checkUnknownKeys() {
	if a.suggest == nil {
		return
	}
	untiered := make(map[string]bool)
	for _, c := range a.colony.Combiners {
		if c != nil {
			untiered[c.NonTieredInputResourceName()] = true
			untiered[c.NonTieredOutputResourceName()] = true
		}
	}
	for _, m := range []map[string]float64{a.colony.Resources, a.colony.Storage} {
		for _, key := range sortedKeys(m) {
			if untiered[key] {
				continue
			}
			if _, _, ok := a.sink.TryParseTieredResourceName(key); ok {
				continue
			}
			if suggestion := a.suggest.Suggest(key); suggestion != "" {
				a.add(Warn, key, "%s is not a known resource; did you mean %s?", key, suggestion)
			}
		}
	}
}

// checkUtilization reports idle capacity and bottlenecks from a solver run
func (a *analyzer) checkUtilization(u production.Utilization) {
	if !u.Feasible() {
		a.add(Critical, "", "the crew cannot be fed")
		return
	}
	for _, name := range sortedKeys(u.UnusedProduction) {
		a.add(Info, name, "%.3g per day of %s capacity is idle", u.UnusedProduction[name], name)
	}
	for _, name := range u.LimitingResources {
		a.add(Info, name, "%s is limiting production", name)
	}
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
