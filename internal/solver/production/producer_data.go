// Package production works out how a colony's producers, stockpiles and
// combiners are used over a span of time: what gets eaten, what gets stored,
// how long until some stock runs out or some store fills, and what research
// that work earns.
package production

import (
	"math"
	"sort"
	"strings"

	"github.com/napolitain/colony-sim/internal/models"
)

// AcceptableError is the tolerance, in units per day, under which a request
// counts as fulfilled and an amount counts as nothing
const AcceptableError = 0.001

// storageCapacity is the day-rate of a stockpile. Stock is limited by time
// until empty, not by rate.
var storageCapacity = math.Inf(1)

// ProducerData aggregates every producer of the same kind, tier and output
// into one node, or wraps an on-hand stock as a producer. It is scratch state
// for a single utilization run.
type ProducerData struct {
	// SourceTemplate is the first producer merged into this node. Nil for
	// storage nodes.
	SourceTemplate models.Producer

	Resource *models.TieredResource
	Tier     models.Tier
	Input    *models.TieredResource

	IsStorage bool
	// StorageKey is the availableResources key a storage node draws from
	StorageKey string

	TotalProductionCapacity          float64
	ProductionContributingToResearch float64
	// IsStockpiling nodes run flat out once the crew is fed. StockpileKey is
	// the storage key their surplus is recorded under, empty when the
	// surplus only earns research.
	IsStockpiling bool
	StockpileKey  string

	// Suppliers can provide Input at Tier or better, in sort order
	Suppliers []*ProducerData

	AllottedCapacity float64
	// WastedCapacity > 0 marks the node exhausted for the rest of the run
	WastedCapacity float64
}

// NeedsInput reports whether the node must be fed by suppliers
func (p *ProducerData) NeedsInput() bool {
	return p.Input != nil && !p.Input.IsHarvestedLocally
}

// TieredName is the resource key of the node's output
func (p *ProducerData) TieredName() string {
	return p.Resource.TieredName(p.Tier)
}

// MaxDietRatio is the most of the crew's diet this node's output can cover
func (p *ProducerData) MaxDietRatio() float64 {
	return p.Resource.MaxDietRatio(p.Tier)
}

type producerKey struct {
	kind   string
	tier   models.Tier
	output string
}

// FindProducers merges enabled producers into nodes and adds one storage
// node for every on-hand stock of a tiered resource. Keys of available that
// are not tiered resources are ignored.
func FindProducers(
	producers []models.Producer,
	sink models.ResearchSink,
	available map[string]float64,
	storage map[string]float64,
) []*ProducerData {
	result := make([]*ProducerData, 0, len(producers)+len(available))
	byKey := make(map[producerKey]*ProducerData)

	for _, p := range producers {
		if p == nil || !p.IsProductionEnabled() || p.Output() == nil {
			continue
		}

		key := producerKey{kind: p.Kind(), tier: p.Tier(), output: p.Output().BaseName}
		node, ok := byKey[key]
		if !ok {
			node = &ProducerData{
				SourceTemplate: p,
				Resource:       p.Output(),
				Tier:           p.Tier(),
				Input:          p.Input(),
			}
			node.StockpileKey = stockpileKey(storage, node.Resource, node.Tier)
			node.IsStockpiling = node.StockpileKey != "" ||
				node.Resource.ExcessProductionCountsTowardsResearch
			byKey[key] = node
			result = append(result, node)
		}

		node.TotalProductionCapacity += p.ProductionRate()
		if p.IsResearchEnabled() {
			node.ProductionContributingToResearch += p.ProductionRate()
		}
	}

	for _, name := range sortedKeys(available) {
		if available[name] <= AcceptableError {
			continue
		}
		resource, tier, ok := sink.TryParseTieredResourceName(name)
		if !ok || resource.IsHarvestedLocally {
			continue
		}
		result = append(result, &ProducerData{
			Resource:                resource,
			Tier:                    tier,
			IsStorage:               true,
			StorageKey:              name,
			TotalProductionCapacity: storageCapacity,
		})
	}

	return result
}

// stockpileKey is the storage key with room for a resource at a tier, or ""
func stockpileKey(storage map[string]float64, r *models.TieredResource, tier models.Tier) string {
	if !r.CanBeStored {
		return ""
	}
	key, space, ok := models.LookupTiered(storage, r, tier)
	if !ok || space <= AcceptableError {
		return ""
	}
	return key
}

// SortProducerList orders nodes so that real producers come before stock,
// low tiers before high, food before other output, then by name
func SortProducerList(list []*ProducerData) {
	sort.SliceStable(list, func(i, j int) bool {
		return compareProducers(list[i], list[j]) < 0
	})
}

func compareProducers(a, b *ProducerData) int {
	if a.IsStorage != b.IsStorage {
		if a.IsStorage {
			return 1
		}
		return -1
	}
	if a.Tier != b.Tier {
		return int(a.Tier) - int(b.Tier)
	}
	if a.Resource.IsEdible() != b.Resource.IsEdible() {
		if a.Resource.IsEdible() {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Resource.BaseName, b.Resource.BaseName)
}

// MatchProducersWithSourceProducers links each node that needs an input to
// every other node producing that input at its tier or better, then drops
// nodes that cannot be traced back to a node needing no input. The returned
// list keeps the order of list.
func MatchProducersWithSourceProducers(list []*ProducerData) []*ProducerData {
	dependents := make(map[*ProducerData][]*ProducerData)

	for _, node := range list {
		node.Suppliers = nil
		if !node.NeedsInput() {
			continue
		}
		for _, candidate := range list {
			if candidate == node || candidate.Resource != node.Input || candidate.Tier < node.Tier {
				continue
			}
			node.Suppliers = append(node.Suppliers, candidate)
			dependents[candidate] = append(dependents[candidate], node)
		}
	}

	// Walk outwards from the self-sufficient nodes; anything not reached has
	// no chain of supply.
	viable := make(map[*ProducerData]bool, len(list))
	queue := make([]*ProducerData, 0, len(list))
	for _, node := range list {
		if !node.NeedsInput() {
			viable[node] = true
			queue = append(queue, node)
		}
	}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, dependent := range dependents[current] {
			if !viable[dependent] {
				viable[dependent] = true
				queue = append(queue, dependent)
			}
		}
	}

	result := make([]*ProducerData, 0, len(list))
	for _, node := range list {
		if !viable[node] {
			continue
		}
		suppliers := node.Suppliers[:0]
		for _, s := range node.Suppliers {
			if viable[s] {
				suppliers = append(suppliers, s)
			}
		}
		node.Suppliers = suppliers
		result = append(result, node)
	}
	return result
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
