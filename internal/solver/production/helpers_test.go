package production

import (
	"math"
	"testing"

	"github.com/napolitain/colony-sim/internal/models"
)

// recordingSink resolves names through a catalog and records every research
// contribution. breakAt is the kerbal-seconds total per resource at which a
// contribution reports a breakthrough; zero never does.
type recordingSink struct {
	*models.Catalog
	breakAt       float64
	contributions map[string]float64
}

func newRecordingSink(catalog *models.Catalog) *recordingSink {
	return &recordingSink{Catalog: catalog, contributions: make(map[string]float64)}
}

func (s *recordingSink) ContributeResearch(r *models.TieredResource, body string, kerbalSeconds float64) bool {
	before := s.contributions[r.BaseName]
	s.contributions[r.BaseName] = before + kerbalSeconds
	return s.breakAt > 0 && before < s.breakAt && before+kerbalSeconds >= s.breakAt
}

func (s *recordingSink) MaxUnlockedTier(*models.TieredResource, string) models.Tier {
	return models.Tier0
}

func module(catalog *models.Catalog, resource string, tier models.Tier, rate float64) *models.Module {
	return &models.Module{
		Name:            resource + " module",
		ModuleKind:      "module",
		ModuleTier:      tier,
		Rate:            rate,
		Produces:        catalog.MustFind(resource),
		BodyName:        "Mun",
		Enabled:         true,
		ResearchEnabled: true,
	}
}

func producers(modules ...*models.Module) []models.Producer {
	result := make([]models.Producer, len(modules))
	for i, m := range modules {
		result[i] = m
	}
	return result
}

func perSecond(perDay float64) float64 {
	return perDay / SecondsPerDay
}

func assertClose(t *testing.T, what string, got, want float64) {
	t.Helper()
	tolerance := 1e-9 * math.Max(1, math.Abs(want))
	if math.Abs(got-want) > tolerance {
		t.Errorf("%s = %v, want %v", what, got, want)
	}
}

func assertLimiting(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("limiting resources = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("limiting resources = %v, want %v", got, want)
		}
	}
}
