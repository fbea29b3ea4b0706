package models

// NewTestCatalog builds a small catalog mirroring the shipped defaults, for
// tests in this and other packages.
func NewTestCatalog() *Catalog {
	categories := []*ResearchCategory{
		{Name: "farming", DisplayName: "Farming", KerbalDaysPerTier: [4]float64{10, 30, 90, 270}, BodySpecific: true},
		{Name: "production", DisplayName: "Production", KerbalDaysPerTier: [4]float64{20, 60, 180, 540}, BodySpecific: true},
		{Name: "shinies", DisplayName: "Shinies", KerbalDaysPerTier: [4]float64{15, 45, 135, 405}},
	}
	resources := []*TieredResource{
		{
			BaseName: "Snacks", DisplayName: "Snacks", Unit: "kerbal-days",
			CanBeStored:       true,
			DietEffectiveness: []float64{1, 1, 1, 1, 1},
		},
		{
			BaseName: "HydroponicSnacks", DisplayName: "Hydroponic Snacks", Unit: "kerbal-days",
			DietEffectiveness:    []float64{0.2, 0.35, 0.55, 0.75, 0.95},
			MadeFromName:         "Fertilizer",
			MadeFromStartingTier: Tier0,
			ResearchCategoryName: "farming",
		},
		{
			BaseName: "AgroponicSnacks", DisplayName: "Agroponic Snacks", Unit: "kerbal-days",
			DietEffectiveness:    []float64{0.2, 0.4, 0.6, 0.8, 0.95},
			MadeFromName:         "Fertilizer",
			MadeFromStartingTier: Tier2,
			ResearchCategoryName: "farming",
		},
		{
			BaseName: "Fertilizer", DisplayName: "Fertilizer", Unit: "kerbal-days",
			CanBeStored:          true,
			MadeFromName:         "Stuff",
			MadeFromStartingTier: Tier2,
			ResearchCategoryName: "production",
		},
		{
			BaseName: "Stuff", DisplayName: "Stuff", Unit: "tons",
			IsHarvestedLocally: true,
		},
		{
			BaseName: "LocalParts", DisplayName: "Local Parts", Unit: "parts",
			CanBeStored:          true,
			MadeFromName:         "Stuff",
			MadeFromStartingTier: Tier0,
			ResearchCategoryName: "production",
		},
		{
			BaseName: "Shinies", DisplayName: "Shinies", Unit: "bling",
			ExcessProductionCountsTowardsResearch: true,
			ResearchCategoryName:                  "shinies",
		},
	}

	c, err := NewCatalog(resources, categories)
	if err != nil {
		panic(err)
	}
	return c
}
