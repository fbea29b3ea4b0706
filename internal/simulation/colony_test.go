package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/napolitain/colony-sim/internal/models"
	"github.com/napolitain/colony-sim/internal/solver/production"
)

func testColony() *Colony {
	catalog := models.NewTestCatalog()
	return NewColony(&models.ColonyConfig{
		Name: "Test",
		Body: "Mun",
		Crew: 2,
		Modules: []*models.Module{{
			Name: "vat", ModuleKind: "vat", Rate: 1, Enabled: true,
			Produces: catalog.MustFind("Fertilizer"),
		}},
		Resources: map[string]float64{"Snacks": 10, "Fertilizer-Tier0": 5},
		Storage:   map[string]float64{"Snacks": 2, "Fertilizer-Tier0": 1},
	})
}

func TestNewColonyCopiesMaps(t *testing.T) {
	cfg := &models.ColonyConfig{Resources: map[string]float64{"Snacks": 1}}
	c := NewColony(cfg)
	c.Resources["Snacks"] = 99

	assert.Equal(t, 1.0, cfg.Resources["Snacks"])
	assert.NotNil(t, c.Storage)
}

func TestColonyClone(t *testing.T) {
	c := testColony()
	clone := c.Clone()
	clone.Resources["Snacks"] = 0
	clone.Storage["Snacks"] = 0
	clone.Now = 50

	assert.Equal(t, 10.0, c.Resources["Snacks"])
	assert.Equal(t, 2.0, c.Storage["Snacks"])
	assert.Zero(t, c.Now)
	assert.Len(t, clone.Producers, 1)
}

func TestColonyApply(t *testing.T) {
	c := testColony()
	u := production.Utilization{
		TimePassed:           86400,
		ConsumptionPerSecond: map[string]float64{"Snacks": 2.0 / 86400},
		ProductionPerSecond:  map[string]float64{"Fertilizer-Tier0": 1.0 / 86400},
	}

	depleted, full := c.Apply(u)

	assert.InDelta(t, 8, c.Resources["Snacks"], 1e-9)
	assert.InDelta(t, 4, c.Storage["Snacks"], 1e-9, "eating frees storage")
	assert.InDelta(t, 6, c.Resources["Fertilizer-Tier0"], 1e-9)
	assert.InDelta(t, 0, c.Storage["Fertilizer-Tier0"], 1e-9)
	assert.Empty(t, depleted)
	assert.Equal(t, []string{"Fertilizer-Tier0"}, full)
	assert.Equal(t, 86400.0, c.Now)
}

func TestColonyApplyClampsAndReportsDepletion(t *testing.T) {
	c := testColony()
	u := production.Utilization{
		TimePassed:           86400,
		ConsumptionPerSecond: map[string]float64{"Snacks": 10.5 / 86400, "MetalOre": 1.0 / 86400},
		ProductionPerSecond:  map[string]float64{},
	}

	depleted, full := c.Apply(u)

	require.Equal(t, []string{"MetalOre", "Snacks"}, depleted)
	assert.Empty(t, full)
	assert.Zero(t, c.Resources["Snacks"])
	assert.Zero(t, c.Resources["MetalOre"])
	_, hasStorage := c.Storage["MetalOre"]
	assert.False(t, hasStorage, "drawing an unstored resource creates no storage")
}
