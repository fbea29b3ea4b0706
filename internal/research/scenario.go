// Package research tracks how far each research category has progressed on
// each body. Scenario is the ResearchSink the production solver reports
// research-enabled work to.
package research

import (
	"sort"

	"github.com/napolitain/colony-sim/internal/models"
)

const secondsPerKerbalDay = 24 * 60 * 60

type trackKey struct {
	category string
	body     string
}

// Progress is the state of one research track
type Progress struct {
	Category string
	Body     string // empty for categories that are not body specific
	Tier     models.Tier
	// KerbalDays accumulated toward the next tier
	KerbalDays float64
}

// Scenario holds research progress for every category and body
type Scenario struct {
	catalog *models.Catalog
	tracks  map[trackKey]*Progress
	// SecondsPerKerbalDay converts contributed kerbal-seconds to kerbal-days
	SecondsPerKerbalDay float64
}

// NewScenario creates a scenario with every track at Tier0
func NewScenario(catalog *models.Catalog) *Scenario {
	return &Scenario{
		catalog:             catalog,
		tracks:              make(map[trackKey]*Progress),
		SecondsPerKerbalDay: secondsPerKerbalDay,
	}
}

// Catalog returns the catalog names are resolved against
func (s *Scenario) Catalog() *models.Catalog {
	return s.catalog
}

func (s *Scenario) key(category *models.ResearchCategory, body string) trackKey {
	if !category.BodySpecific {
		body = ""
	}
	return trackKey{category: category.Name, body: body}
}

func (s *Scenario) track(category *models.ResearchCategory, body string) *Progress {
	k := s.key(category, body)
	p, ok := s.tracks[k]
	if !ok {
		p = &Progress{Category: k.category, Body: k.body, Tier: models.Tier0}
		s.tracks[k] = p
	}
	return p
}

// ContributeResearch adds work to the track of resource's category. At most
// one tier is gained per call and progress restarts from zero after it.
// Resources without a category and tracks already at Tier4 ignore the work.
func (s *Scenario) ContributeResearch(resource *models.TieredResource, body string, kerbalSeconds float64) bool {
	category := resource.ResearchCategory()
	if category == nil || kerbalSeconds <= 0 {
		return false
	}

	p := s.track(category, body)
	if p.Tier >= models.Tier4 {
		return false
	}

	p.KerbalDays += kerbalSeconds / s.SecondsPerKerbalDay
	if p.KerbalDays < category.KerbalDaysToAdvance(p.Tier) {
		return false
	}

	p.Tier = p.Tier.Next()
	p.KerbalDays = 0
	return true
}

// MaxUnlockedTier is the best tier resource can be produced at on body.
// Resources outside any research category are always available at Tier4.
func (s *Scenario) MaxUnlockedTier(resource *models.TieredResource, body string) models.Tier {
	category := resource.ResearchCategory()
	if category == nil {
		return models.Tier4
	}
	if p, ok := s.tracks[s.key(category, body)]; ok {
		return p.Tier
	}
	return models.Tier0
}

// TryParseTieredResourceName resolves names through the catalog
func (s *Scenario) TryParseTieredResourceName(name string) (*models.TieredResource, models.Tier, bool) {
	return s.catalog.TryParseTieredResourceName(name)
}

// SetTier unlocks a tier directly, resetting progress
func (s *Scenario) SetTier(category *models.ResearchCategory, body string, tier models.Tier) {
	p := s.track(category, body)
	p.Tier = tier
	p.KerbalDays = 0
}

// Progress returns a copy of every started track, sorted by category then body
func (s *Scenario) Progress() []Progress {
	result := make([]Progress, 0, len(s.tracks))
	for _, p := range s.tracks {
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Category != result[j].Category {
			return result[i].Category < result[j].Category
		}
		return result[i].Body < result[j].Body
	})
	return result
}

// Clone returns an independent copy
func (s *Scenario) Clone() *Scenario {
	c := &Scenario{
		catalog:             s.catalog,
		tracks:              make(map[trackKey]*Progress, len(s.tracks)),
		SecondsPerKerbalDay: s.SecondsPerKerbalDay,
	}
	for k, p := range s.tracks {
		cp := *p
		c.tracks[k] = &cp
	}
	return c
}
