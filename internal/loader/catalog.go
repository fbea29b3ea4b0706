package loader

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/napolitain/colony-sim/internal/models"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// CatalogYAML is the on-disk form of a resource catalog
type CatalogYAML struct {
	Categories []CategoryYAML `yaml:"categories"`
	Resources  []ResourceYAML `yaml:"resources"`
}

// CategoryYAML describes one research category
type CategoryYAML struct {
	Name         string    `yaml:"name"`
	DisplayName  string    `yaml:"display_name"`
	KerbalDays   []float64 `yaml:"kerbal_days"`
	BodySpecific bool      `yaml:"body_specific"`
}

// ResourceYAML describes one tiered resource
type ResourceYAML struct {
	Name                        string    `yaml:"name"`
	DisplayName                 string    `yaml:"display_name"`
	Unit                        string    `yaml:"unit"`
	CanBeStored                 bool      `yaml:"can_be_stored"`
	ExcessCountsTowardsResearch bool      `yaml:"excess_counts_towards_research"`
	HarvestedLocally            bool      `yaml:"harvested_locally"`
	Diet                        []float64 `yaml:"diet"`
	MadeFrom                    string    `yaml:"made_from"`
	MadeFromTier                int       `yaml:"made_from_tier"`
	Research                    string    `yaml:"research"`
}

// LoadCatalog loads the built-in catalog and merges the file at path over it.
// Entries in the file replace built-in entries of the same name; new entries
// are appended. An empty path gives the built-in catalog.
func LoadCatalog(path string) (*models.Catalog, error) {
	var base CatalogYAML
	if err := yaml.Unmarshal(defaultsYAML, &base); err != nil {
		return nil, fmt.Errorf("failed to parse embedded catalog: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog: %w", err)
		}
		var user CatalogYAML
		if err := yaml.Unmarshal(data, &user); err != nil {
			return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
		}
		base = mergeCatalogs(base, user)
	}

	return BuildCatalog(base)
}

// BuildCatalog converts the YAML form into a linked, validated catalog
func BuildCatalog(raw CatalogYAML) (*models.Catalog, error) {
	categories := make([]*models.ResearchCategory, 0, len(raw.Categories))
	for _, c := range raw.Categories {
		if len(c.KerbalDays) != models.NumTiers-1 {
			return nil, fmt.Errorf("research category %s: expected %d kerbal_days thresholds, got %d",
				c.Name, models.NumTiers-1, len(c.KerbalDays))
		}
		cat := &models.ResearchCategory{
			Name:         c.Name,
			DisplayName:  c.DisplayName,
			BodySpecific: c.BodySpecific,
		}
		copy(cat.KerbalDaysPerTier[:], c.KerbalDays)
		categories = append(categories, cat)
	}

	resources := make([]*models.TieredResource, 0, len(raw.Resources))
	for _, r := range raw.Resources {
		resources = append(resources, &models.TieredResource{
			BaseName:                              r.Name,
			DisplayName:                           r.DisplayName,
			Unit:                                  r.Unit,
			CanBeStored:                           r.CanBeStored,
			ExcessProductionCountsTowardsResearch: r.ExcessCountsTowardsResearch,
			IsHarvestedLocally:                    r.HarvestedLocally,
			DietEffectiveness:                     r.Diet,
			MadeFromName:                          r.MadeFrom,
			MadeFromStartingTier:                  models.Tier(r.MadeFromTier),
			ResearchCategoryName:                  r.Research,
		})
	}

	catalog, err := models.NewCatalog(resources, categories)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog: %w", err)
	}
	return catalog, nil
}

func mergeCatalogs(base, user CatalogYAML) CatalogYAML {
	base.Categories = mergeByName(base.Categories, user.Categories, func(c CategoryYAML) string { return c.Name })
	base.Resources = mergeByName(base.Resources, user.Resources, func(r ResourceYAML) string { return r.Name })
	return base
}

func mergeByName[T any](base, overrides []T, name func(T) string) []T {
	result := make([]T, len(base), len(base)+len(overrides))
	copy(result, base)

	index := make(map[string]int, len(result))
	for i, item := range result {
		index[name(item)] = i
	}
	for _, item := range overrides {
		if i, ok := index[name(item)]; ok {
			result[i] = item
			continue
		}
		index[name(item)] = len(result)
		result = append(result, item)
	}
	return result
}
