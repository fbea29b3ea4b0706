package production

import (
	"math"
	"sort"

	"github.com/napolitain/colony-sim/internal/models"
)

// SecondsPerDay converts the per-day rates producers are rated in to the
// per-second rates reported in a Utilization
const SecondsPerDay = 86400.0

// boundaryTolerance is the relative slack within which two depletion or
// fill events count as simultaneous
const boundaryTolerance = 1e-9

// Options tune a utilization run
type Options struct {
	SecondsPerDay float64
}

// DefaultOptions returns the options CalculateResourceUtilization uses
func DefaultOptions() Options {
	return Options{SecondsPerDay: SecondsPerDay}
}

// Utilization is the outcome of one call. A zero TimePassed means the crew
// cannot be fed at all; every other field except LimitingResources is then
// nil.
type Utilization struct {
	// TimePassed is how many seconds the rates below hold for
	TimePassed float64

	Breakthroughs []*models.TieredResource

	// Keyed by the resource keys of availableResources / availableStorage,
	// or by untiered resource name for combiners
	ConsumptionPerSecond map[string]float64
	ProductionPerSecond  map[string]float64

	// LimitingResources names resources that capped a producer or combiner,
	// or whose depletion or overflow ended the time window. Sorted, never nil.
	LimitingResources []string

	// UnusedProduction is idle producer capacity in units per day, keyed by
	// tiered resource name
	UnusedProduction map[string]float64
}

// Feasible reports whether the colony can run for a positive time
func (u Utilization) Feasible() bool {
	return u.TimePassed > 0
}

func infeasible() Utilization {
	return Utilization{LimitingResources: []string{}}
}

// CalculateResourceUtilization works out what numCrew kerbals and the given
// producers and combiners consume and produce, and for how long (up to
// fullTimespanInSeconds) those rates hold before a stock runs dry or a store
// fills. Research earned over that time is passed to sink, which must not be
// nil. The inputs are only read.
func CalculateResourceUtilization(
	numCrew int,
	fullTimespanInSeconds float64,
	producers []models.Producer,
	combiners []models.Combiner,
	sink models.ResearchSink,
	availableResources map[string]float64,
	availableStorage map[string]float64,
) Utilization {
	return CalculateResourceUtilizationWithOptions(
		DefaultOptions(), numCrew, fullTimespanInSeconds,
		producers, combiners, sink, availableResources, availableStorage)
}

// CalculateResourceUtilizationWithOptions is CalculateResourceUtilization
// with explicit options
func CalculateResourceUtilizationWithOptions(
	opts Options,
	numCrew int,
	fullTimespanInSeconds float64,
	producers []models.Producer,
	combiners []models.Combiner,
	sink models.ResearchSink,
	availableResources map[string]float64,
	availableStorage map[string]float64,
) Utilization {
	if opts.SecondsPerDay <= 0 {
		opts.SecondsPerDay = SecondsPerDay
	}
	if fullTimespanInSeconds <= 0 {
		return infeasible()
	}

	nodes := FindProducers(producers, sink, availableResources, availableStorage)
	SortProducerList(nodes)
	nodes = MatchProducersWithSourceProducers(nodes)

	r := &run{
		opts:        opts,
		nodes:       nodes,
		available:   availableResources,
		storage:     availableStorage,
		consumption: make(map[string]float64),
		production:  make(map[string]float64),
		unused:      make(map[string]float64),
		limiting:    make(map[string]bool),
	}

	if !r.feedCrew(numCrew) {
		return infeasible()
	}
	r.resolveCombiners(AmalgamateCombiners(combiners))
	r.stockpile()
	r.recordStorageDraws()
	r.recordIdleCapacity()

	timePassed := r.resolveElapsedTime(fullTimespanInSeconds)
	if timePassed <= 0 {
		return infeasible()
	}

	return Utilization{
		TimePassed:           timePassed,
		Breakthroughs:        r.applyResearch(sink, timePassed),
		ConsumptionPerSecond: r.consumption,
		ProductionPerSecond:  r.production,
		LimitingResources:    r.limitingList(),
		UnusedProduction:     r.unused,
	}
}

// run holds the scratch state of one utilization call
type run struct {
	opts      Options
	nodes     []*ProducerData
	available map[string]float64
	storage   map[string]float64

	consumption map[string]float64
	production  map[string]float64
	unused      map[string]float64
	limiting    map[string]bool
}

// feedCrew satisfies the crew's diet, producers first and stock only if
// they fall short. It reports whether the whole diet could be covered.
func (r *run) feedCrew(numCrew int) bool {
	if numCrew <= 0 {
		return true
	}
	crew := float64(numCrew)

	var growers, stores []*ProducerData
	for _, node := range r.nodes {
		if !node.Resource.IsEdible() {
			continue
		}
		if node.IsStorage {
			stores = append(stores, node)
		} else {
			growers = append(growers, node)
		}
	}
	sortByDietCeiling(growers)
	sortByDietCeiling(stores)

	fulfilled := climbDiet(growers, crew, 0)
	if fulfilled < 1-AcceptableError {
		fulfilled = climbDiet(stores, crew, fulfilled)
	}
	return fulfilled >= 1-AcceptableError
}

// sortByDietCeiling puts the food with the lowest tier ceiling first. It is
// stable, so equal ceilings keep the producer sort order.
func sortByDietCeiling(list []*ProducerData) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].MaxDietRatio() < list[j].MaxDietRatio()
	})
}

// climbDiet asks each food node to raise the fulfilled ratio up to its own
// ceiling and returns the new ratio
func climbDiet(list []*ProducerData, crew, fulfilled float64) float64 {
	for _, node := range list {
		ceiling := node.MaxDietRatio()
		if ceiling <= fulfilled {
			continue
		}
		received := node.TryToProduce(crew * (ceiling - fulfilled))
		fulfilled += received / crew
	}
	return fulfilled
}

// stockpile runs every producer with storage room flat out, and producers
// whose surplus still earns research
func (r *run) stockpile() {
	for _, node := range r.nodes {
		if node.IsStorage || !node.IsStockpiling {
			continue
		}
		got := node.TryToProduce(math.Inf(1))
		if node.StockpileKey != "" && got > 0 {
			r.production[node.StockpileKey] += got / r.opts.SecondsPerDay
		}
	}
}

func (r *run) recordStorageDraws() {
	for _, node := range r.nodes {
		if node.IsStorage && node.AllottedCapacity > 0 {
			r.consumption[node.StorageKey] += node.AllottedCapacity / r.opts.SecondsPerDay
		}
	}
}

// recordIdleCapacity reports producers starved of input as limited by that
// input, and capacity nobody wanted as unused
func (r *run) recordIdleCapacity() {
	for _, node := range r.nodes {
		if node.IsStorage {
			continue
		}
		if node.WastedCapacity > 0 {
			r.addLimiting(node.Input.BaseName)
			continue
		}
		if idle := node.UnusedCapacity(); idle > AcceptableError {
			r.unused[node.TieredName()] += idle
		}
	}
}

// resolveElapsedTime shrinks the span to the first moment a drawn-down stock
// empties or a stockpile's storage fills
func (r *run) resolveElapsedTime(fullTimespan float64) float64 {
	type boundary struct {
		resource string
		seconds  float64
	}
	var events []boundary

	for _, key := range sortedKeys(r.consumption) {
		if rate := r.consumption[key]; rate > 0 {
			events = append(events, boundary{key, r.available[key] / rate})
		}
	}
	for _, key := range sortedKeys(r.production) {
		if rate := r.production[key]; rate > 0 {
			events = append(events, boundary{key, r.storage[key] / rate})
		}
	}

	timePassed := fullTimespan
	for _, e := range events {
		if e.seconds < timePassed {
			timePassed = e.seconds
		}
	}
	for _, e := range events {
		if e.seconds <= timePassed*(1+boundaryTolerance) {
			r.addLimiting(e.resource)
		}
	}
	return timePassed
}

// applyResearch credits each node's research-enabled work over timePassed
func (r *run) applyResearch(sink models.ResearchSink, timePassed float64) []*models.TieredResource {
	breakthroughs := make([]*models.TieredResource, 0)
	seen := make(map[*models.TieredResource]bool)

	for _, node := range r.nodes {
		if node.SourceTemplate == nil {
			continue
		}
		contributionInKerbals := math.Min(node.AllottedCapacity, node.ProductionContributingToResearch)
		if contributionInKerbals <= 0 {
			continue
		}
		if node.SourceTemplate.ContributeResearch(sink, timePassed*contributionInKerbals) && !seen[node.Resource] {
			seen[node.Resource] = true
			breakthroughs = append(breakthroughs, node.Resource)
		}
	}
	return breakthroughs
}

func (r *run) addLimiting(name string) {
	if name != "" {
		r.limiting[name] = true
	}
}

func (r *run) limitingList() []string {
	names := make([]string, 0, len(r.limiting))
	for name := range r.limiting {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
