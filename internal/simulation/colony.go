package simulation

import (
	"sort"

	"github.com/napolitain/colony-sim/internal/models"
	"github.com/napolitain/colony-sim/internal/solver/production"
)

// Colony is the mutable state of a colony during a run. Producers and
// combiners are fixed for the run; stocks and free storage change.
type Colony struct {
	Name string
	Body string
	Crew int

	Producers []models.Producer
	Combiners []models.Combiner

	// Resources on hand and free storage space
	Resources map[string]float64
	Storage   map[string]float64

	// Now is seconds since the start of the run
	Now float64
}

// NewColony creates run state from a loaded colony
func NewColony(cfg *models.ColonyConfig) *Colony {
	return &Colony{
		Name:      cfg.Name,
		Body:      cfg.Body,
		Crew:      cfg.Crew,
		Producers: cfg.Producers(),
		Combiners: cfg.Combiners(),
		Resources: copyAmounts(cfg.Resources),
		Storage:   copyAmounts(cfg.Storage),
	}
}

// Clone creates a deep copy of stocks and storage. Producers and combiners
// are shared.
func (c *Colony) Clone() *Colony {
	clone := *c
	clone.Producers = append([]models.Producer(nil), c.Producers...)
	clone.Combiners = append([]models.Combiner(nil), c.Combiners...)
	clone.Resources = copyAmounts(c.Resources)
	clone.Storage = copyAmounts(c.Storage)
	return &clone
}

// Apply advances the colony by u.TimePassed at u's rates. Drawing a stock
// frees the matching storage space; stockpiling takes it. Amounts never go
// below zero. It returns the keys that ran out and the keys whose storage
// filled, each sorted.
func (c *Colony) Apply(u production.Utilization) (depleted, full []string) {
	dt := u.TimePassed

	for key, rate := range u.ConsumptionPerSecond {
		amount := rate * dt
		c.Resources[key] = clampZero(c.Resources[key] - amount)
		if space, ok := c.Storage[key]; ok {
			c.Storage[key] = space + amount
		}
	}
	for key, rate := range u.ProductionPerSecond {
		amount := rate * dt
		c.Resources[key] += amount
		c.Storage[key] = clampZero(c.Storage[key] - amount)
	}

	for key := range u.ConsumptionPerSecond {
		if c.Resources[key] <= production.AcceptableError {
			depleted = append(depleted, key)
		}
	}
	for key := range u.ProductionPerSecond {
		if c.Storage[key] <= production.AcceptableError {
			full = append(full, key)
		}
	}

	c.Now += dt
	sort.Strings(depleted)
	sort.Strings(full)
	return depleted, full
}

func clampZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func copyAmounts(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
