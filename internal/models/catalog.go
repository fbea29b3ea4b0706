package models

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Catalog is the immutable set of tiered resources and research categories
// known to a game session.
type Catalog struct {
	resources  []*TieredResource
	byName     map[string]*TieredResource
	categories map[string]*ResearchCategory
	catOrder   []*ResearchCategory
}

// NewCatalog links resources to their prerequisites and research categories
// and validates the result. Resources keep the order they were given in.
func NewCatalog(resources []*TieredResource, categories []*ResearchCategory) (*Catalog, error) {
	c := &Catalog{
		resources:  make([]*TieredResource, 0, len(resources)),
		byName:     make(map[string]*TieredResource, len(resources)),
		categories: make(map[string]*ResearchCategory, len(categories)),
		catOrder:   make([]*ResearchCategory, 0, len(categories)),
	}

	for _, cat := range categories {
		if _, dup := c.categories[cat.Name]; dup {
			return nil, fmt.Errorf("duplicate research category: %s", cat.Name)
		}
		c.categories[cat.Name] = cat
		c.catOrder = append(c.catOrder, cat)
	}

	for _, r := range resources {
		if r.BaseName == "" {
			return nil, &CatalogError{Resource: "<unnamed>", Problem: "missing name"}
		}
		if strings.Contains(r.BaseName, tierSeparator) {
			return nil, &CatalogError{Resource: r.BaseName, Problem: "name may not contain " + tierSeparator}
		}
		if _, dup := c.byName[r.BaseName]; dup {
			return nil, &CatalogError{Resource: r.BaseName, Problem: "defined twice"}
		}
		c.byName[r.BaseName] = r
		c.resources = append(c.resources, r)
	}

	for _, r := range c.resources {
		if err := c.link(r); err != nil {
			return nil, err
		}
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) link(r *TieredResource) error {
	if r.MadeFromName != "" {
		src, ok := c.byName[r.MadeFromName]
		if !ok {
			return &CatalogError{Resource: r.BaseName, Problem: "made from unknown resource " + r.MadeFromName}
		}
		r.madeFrom = src
	}
	if r.ResearchCategoryName != "" {
		cat, ok := c.categories[r.ResearchCategoryName]
		if !ok {
			return &CatalogError{Resource: r.BaseName, Problem: "unknown research category " + r.ResearchCategoryName}
		}
		r.researchCategory = cat
	}
	return nil
}

// Validate checks diet curves, tiers and that no resource is (transitively)
// made from itself.
func (c *Catalog) Validate() error {
	for _, r := range c.resources {
		if r.DietEffectiveness != nil {
			if len(r.DietEffectiveness) != NumTiers {
				return &CatalogError{Resource: r.BaseName, Problem: fmt.Sprintf("diet curve needs %d values, has %d", NumTiers, len(r.DietEffectiveness))}
			}
			for i, v := range r.DietEffectiveness {
				if v < 0 || v > 1 {
					return &CatalogError{Resource: r.BaseName, Problem: fmt.Sprintf("diet effectiveness at %s is %g, must be within [0,1]", Tier(i), v)}
				}
			}
		}
		if !r.MadeFromStartingTier.IsValid() {
			return &CatalogError{Resource: r.BaseName, Problem: "invalid made-from starting tier"}
		}

		seen := map[*TieredResource]bool{r: true}
		for src := r.madeFrom; src != nil; src = src.madeFrom {
			if seen[src] {
				return &CatalogError{Resource: r.BaseName, Problem: "circular made-from chain through " + src.BaseName}
			}
			seen[src] = true
		}
	}

	for _, cat := range c.catOrder {
		for i, days := range cat.KerbalDaysPerTier {
			if days <= 0 {
				return fmt.Errorf("research category %s: %s needs a positive threshold", cat.Name, Tier(i))
			}
		}
	}
	return nil
}

// Resources returns the catalog's resources in definition order
func (c *Catalog) Resources() []*TieredResource {
	out := make([]*TieredResource, len(c.resources))
	copy(out, c.resources)
	return out
}

// Categories returns the research categories in definition order
func (c *Catalog) Categories() []*ResearchCategory {
	out := make([]*ResearchCategory, len(c.catOrder))
	copy(out, c.catOrder)
	return out
}

// Find looks up a resource by base name
func (c *Catalog) Find(baseName string) (*TieredResource, bool) {
	r, ok := c.byName[baseName]
	return r, ok
}

// MustFind is Find for names known to be present, such as test fixtures
func (c *Catalog) MustFind(baseName string) *TieredResource {
	r, ok := c.byName[baseName]
	if !ok {
		panic(&UnknownResourceError{Name: baseName, Suggestion: c.Suggest(baseName)})
	}
	return r
}

// Resolve finds a resource by base name, or returns an
// *UnknownResourceError carrying the closest known name
func (c *Catalog) Resolve(baseName string) (*TieredResource, error) {
	if r, ok := c.byName[baseName]; ok {
		return r, nil
	}
	return nil, &UnknownResourceError{Name: baseName, Suggestion: c.Suggest(baseName)}
}

// Category looks up a research category by name
func (c *Catalog) Category(name string) (*ResearchCategory, bool) {
	cat, ok := c.categories[name]
	return cat, ok
}

// TryParseTieredResourceName resolves a storage key such as
// "HydroponicSnacks-Tier1" or the bare Tier4 form "Snacks". Keys naming
// unrelated game resources (e.g. ElectricCharge) return ok=false.
func (c *Catalog) TryParseTieredResourceName(name string) (*TieredResource, Tier, bool) {
	base, tier, ok := SplitTieredName(name)
	if !ok {
		return nil, Tier0, false
	}
	r, found := c.byName[base]
	if !found {
		return nil, Tier0, false
	}
	return r, tier, true
}

// Suggest returns the known base name closest to name, or "" if nothing is
// close enough to be a plausible typo.
func (c *Catalog) Suggest(name string) string {
	base, _, ok := SplitTieredName(name)
	if !ok {
		base = name
	}
	compare := strings.ToLower(base)

	best := ""
	bestDist := -1
	for _, r := range c.resources {
		candidate := strings.ToLower(r.BaseName)
		if candidate == compare {
			return r.BaseName
		}
		dist := levenshtein.ComputeDistance(compare, candidate)
		if dist > suggestionLimit(len(candidate)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best = r.BaseName
			bestDist = dist
		}
	}
	return best
}

func suggestionLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
