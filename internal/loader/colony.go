package loader

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/napolitain/colony-sim/internal/config"
	"github.com/napolitain/colony-sim/internal/models"
)

// ColonyYAML is the on-disk form of a colony scenario
type ColonyYAML struct {
	Name      string             `yaml:"name" validate:"required"`
	Body      string             `yaml:"body" validate:"required"`
	Crew      int                `yaml:"crew" validate:"gte=0"`
	Producers []ProducerYAML     `yaml:"producers" validate:"dive"`
	Combiners []CombinerYAML     `yaml:"combiners" validate:"dive"`
	Resources map[string]float64 `yaml:"resources" validate:"dive,gte=0"`
	Storage   map[string]float64 `yaml:"storage" validate:"dive,gte=0"`
}

// ProducerYAML describes Count identical production modules
type ProducerYAML struct {
	Name   string  `yaml:"name"`
	Kind   string  `yaml:"kind" validate:"required"`
	Output string  `yaml:"output" validate:"required"`
	Tier   int     `yaml:"tier" validate:"gte=0,lte=4"`
	Rate   float64 `yaml:"rate" validate:"gte=0"`
	// Count defaults to 1
	Count int `yaml:"count" validate:"gte=0"`
	// Body defaults to the colony's body
	Body     string `yaml:"body"`
	Enabled  *bool  `yaml:"enabled"`
	Research *bool  `yaml:"research"`
}

// CombinerYAML describes Count identical combiners
type CombinerYAML struct {
	Kind    string    `yaml:"kind" validate:"required"`
	Tiered  string    `yaml:"tiered" validate:"required"`
	Input   string    `yaml:"input" validate:"required"`
	Output  string    `yaml:"output" validate:"required"`
	Rate    float64   `yaml:"rate" validate:"gte=0"`
	Ratios  []float64 `yaml:"ratios" validate:"len=5,dive,gte=0,lte=1"`
	Count   int       `yaml:"count" validate:"gte=0"`
	Enabled *bool     `yaml:"enabled"`
}

// UnknownProducerError reports a producer whose output is not in the catalog
type UnknownProducerError struct {
	Index int
	Kind  string
	Err   *models.UnknownResourceError
}

func (e *UnknownProducerError) Error() string {
	return fmt.Sprintf("producer %d (%s): %v", e.Index, e.Kind, e.Err)
}

func (e *UnknownProducerError) Unwrap() error {
	return e.Err
}

// LoadColony loads a colony scenario, resolving resource names against catalog
func LoadColony(path string, catalog *models.Catalog) (*models.ColonyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read colony: %w", err)
	}
	colony, err := ParseColony(data, catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to load colony %s: %w", path, err)
	}
	return colony, nil
}

// ParseColony decodes and validates a colony scenario
func ParseColony(data []byte, catalog *models.Catalog) (*models.ColonyConfig, error) {
	var raw ColonyYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse colony: %w", err)
	}
	if err := config.NewValidator().Validate(&raw); err != nil {
		return nil, err
	}

	colony := &models.ColonyConfig{
		Name:      raw.Name,
		Body:      raw.Body,
		Crew:      raw.Crew,
		Resources: copyAmounts(raw.Resources),
		Storage:   copyAmounts(raw.Storage),
	}

	for i, p := range raw.Producers {
		output, err := catalog.Resolve(p.Output)
		if err != nil {
			var unknown *models.UnknownResourceError
			if errors.As(err, &unknown) {
				return nil, &UnknownProducerError{Index: i, Kind: p.Kind, Err: unknown}
			}
			return nil, err
		}
		body := p.Body
		if body == "" {
			body = raw.Body
		}
		name := p.Name
		if name == "" {
			name = p.Kind
		}
		for n := 0; n < countOrOne(p.Count); n++ {
			colony.Modules = append(colony.Modules, &models.Module{
				Name:            instanceName(name, n, p.Count),
				ModuleKind:      p.Kind,
				ModuleTier:      models.Tier(p.Tier),
				Rate:            p.Rate,
				Produces:        output,
				BodyName:        body,
				Enabled:         boolOr(p.Enabled, true),
				ResearchEnabled: boolOr(p.Research, true),
			})
		}
	}

	for i, c := range raw.Combiners {
		tiered, err := catalog.Resolve(c.Tiered)
		if err != nil {
			return nil, fmt.Errorf("combiner %d (%s): %w", i, c.Kind, err)
		}
		for n := 0; n < countOrOne(c.Count); n++ {
			combinator := &models.Combinator{
				CombinatorKind: c.Kind,
				Rate:           c.Rate,
				Tiered:         tiered,
				InputName:      c.Input,
				OutputName:     c.Output,
				Enabled:        boolOr(c.Enabled, true),
			}
			copy(combinator.Ratios[:], c.Ratios)
			colony.Combinators = append(colony.Combinators, combinator)
		}
	}

	return colony, nil
}

func countOrOne(count int) int {
	if count <= 0 {
		return 1
	}
	return count
}

func instanceName(name string, n, count int) string {
	if count <= 1 {
		return name
	}
	return fmt.Sprintf("%s #%d", name, n+1)
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func copyAmounts(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
