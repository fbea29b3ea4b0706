package production

import "github.com/napolitain/colony-sim/internal/models"

// AmalgamatedCombiner merges every enabled combiner of the same kind and
// resources, summing their rates. UsedCapacity and RequiredMixins are scratch
// state for one run, in units per day.
type AmalgamatedCombiner struct {
	Exemplar       models.Combiner
	ProductionRate float64
	UsedCapacity   float64
	RequiredMixins float64

	// limitedBy is set when tiered supply ran out before capacity did
	limitedBy string
}

// RemainingCapacity is output per day the combiner could still make
func (c *AmalgamatedCombiner) RemainingCapacity() float64 {
	return c.ProductionRate - c.UsedCapacity
}

type combinerKey struct {
	kind   string
	tiered string
	input  string
	output string
}

// AmalgamateCombiners groups enabled combiners, keeping first-seen order
func AmalgamateCombiners(combiners []models.Combiner) []*AmalgamatedCombiner {
	result := make([]*AmalgamatedCombiner, 0, len(combiners))
	byKey := make(map[combinerKey]*AmalgamatedCombiner)

	for _, c := range combiners {
		if c == nil || !c.IsProductionEnabled() || c.TieredInput() == nil {
			continue
		}
		key := combinerKey{
			kind:   c.Kind(),
			tiered: c.TieredInput().BaseName,
			input:  c.NonTieredInputResourceName(),
			output: c.NonTieredOutputResourceName(),
		}
		amalgam, ok := byKey[key]
		if !ok {
			amalgam = &AmalgamatedCombiner{Exemplar: c}
			byKey[key] = amalgam
			result = append(result, amalgam)
		}
		amalgam.ProductionRate += c.ProductionRate()
	}
	return result
}

// resolveCombiners feeds whatever tiered capacity is left into combiners.
// Combiners whose untiered input is missing, or whose output has nowhere to
// go, are skipped and that resource is reported as limiting.
func (r *run) resolveCombiners(amalgams []*AmalgamatedCombiner) {
	if len(amalgams) == 0 {
		return
	}

	runnable := make([]*AmalgamatedCombiner, 0, len(amalgams))
	for _, c := range amalgams {
		if in := c.Exemplar.NonTieredInputResourceName(); r.available[in] <= AcceptableError {
			r.addLimiting(in)
			continue
		}
		if out := c.Exemplar.NonTieredOutputResourceName(); r.storage[out] <= AcceptableError {
			r.addLimiting(out)
			continue
		}
		runnable = append(runnable, c)
	}

	for _, node := range r.nodes {
		for _, c := range runnable {
			if c.Exemplar.TieredInput() != node.Resource {
				continue
			}
			remaining := c.RemainingCapacity()
			if remaining <= AcceptableError {
				continue
			}
			ratio := c.Exemplar.RatioForTier(node.Tier)
			if ratio <= 0 {
				continue
			}

			suppliesWanted := remaining * ratio
			obtained := node.TryToProduce(suppliesWanted)
			if obtained <= 0 {
				// Nothing delivered means no combiner work this tick.
				c.limitedBy = node.Resource.BaseName
				continue
			}

			fraction := obtained / suppliesWanted
			used := fraction * remaining
			c.UsedCapacity += used
			c.RequiredMixins += used * (1 - ratio)
			if fraction < 1-AcceptableError {
				c.limitedBy = node.Resource.BaseName
			}
		}
	}

	for _, c := range runnable {
		in := c.Exemplar.NonTieredInputResourceName()
		out := c.Exemplar.NonTieredOutputResourceName()

		if c.UsedCapacity > 0 {
			r.production[out] += c.UsedCapacity / r.opts.SecondsPerDay
			if c.RequiredMixins > 0 {
				r.consumption[in] += c.RequiredMixins / r.opts.SecondsPerDay
			}
		}

		if c.RemainingCapacity() > AcceptableError {
			if c.limitedBy == "" {
				c.limitedBy = c.Exemplar.TieredInput().BaseName
			}
			r.addLimiting(c.limitedBy)
		}
	}
}
