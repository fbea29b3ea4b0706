package models

// ResearchCategory groups resources whose production advances the same
// research track. KerbalDaysPerTier[i] is the work needed to move from
// Tier i to Tier i+1.
type ResearchCategory struct {
	Name              string
	DisplayName       string
	KerbalDaysPerTier [NumTiers - 1]float64

	// BodySpecific categories track progress separately per celestial body
	BodySpecific bool
}

// KerbalDaysToAdvance returns the work required to leave the given tier.
// Tier4 cannot be advanced past and returns 0.
func (c *ResearchCategory) KerbalDaysToAdvance(from Tier) float64 {
	if from < Tier0 || from >= Tier4 {
		return 0
	}
	return c.KerbalDaysPerTier[from]
}

// TieredResource describes one kind of resource that exists at each of the
// five tiers. It is reference data: built once when the catalog is loaded and
// never mutated afterwards.
type TieredResource struct {
	BaseName    string
	DisplayName string
	Unit        string

	// CanBeStored resources have surplus production tracked as stockpile
	CanBeStored bool

	// ExcessProductionCountsTowardsResearch means producers run flat out
	// even with nowhere to put the output, to earn research
	ExcessProductionCountsTowardsResearch bool

	// IsHarvestedLocally resources are assumed to be freely available at the
	// production site and are never drawn from storage
	IsHarvestedLocally bool

	// DietEffectiveness is nil for inedible resources. Otherwise entry i is
	// the fraction of a crew member's diet one unit at Tier i can satisfy.
	DietEffectiveness []float64

	// MadeFromName names the prerequisite resource (empty for none). The
	// requirement applies from MadeFromStartingTier upwards.
	MadeFromName         string
	MadeFromStartingTier Tier

	ResearchCategoryName string

	madeFrom         *TieredResource
	researchCategory *ResearchCategory
}

// IsEdible reports whether the resource can feed crew
func (r *TieredResource) IsEdible() bool {
	return len(r.DietEffectiveness) == NumTiers
}

// MaxDietRatio returns the diet fraction one unit at the given tier satisfies
func (r *TieredResource) MaxDietRatio(tier Tier) float64 {
	if !r.IsEdible() || !tier.IsValid() {
		return 0
	}
	return r.DietEffectiveness[tier]
}

// MadeFrom returns the resource that must be consumed to produce this
// resource at the given tier, or nil if production at that tier needs no
// input.
func (r *TieredResource) MadeFrom(tier Tier) *TieredResource {
	if r.madeFrom == nil || tier < r.MadeFromStartingTier {
		return nil
	}
	return r.madeFrom
}

// ResearchCategory returns the research track fed by this resource, if any
func (r *TieredResource) ResearchCategory() *ResearchCategory {
	return r.researchCategory
}

// TieredName returns the storage key of this resource at a tier, e.g.
// "Fertilizer-Tier2"
func (r *TieredResource) TieredName(tier Tier) string {
	return r.BaseName + "-" + tier.String()
}

func (r *TieredResource) String() string {
	return r.BaseName
}
