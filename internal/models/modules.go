package models

// Module is the standard Producer: one part module making a tiered resource.
type Module struct {
	Name            string
	ModuleKind      string
	ModuleTier      Tier
	Rate            float64 // units per day
	Produces        *TieredResource
	BodyName        string
	Enabled         bool
	ResearchEnabled bool
}

func (m *Module) Kind() string              { return m.ModuleKind }
func (m *Module) Tier() Tier                { return m.ModuleTier }
func (m *Module) ProductionRate() float64   { return m.Rate }
func (m *Module) IsProductionEnabled() bool { return m.Enabled }
func (m *Module) IsResearchEnabled() bool   { return m.ResearchEnabled }
func (m *Module) Output() *TieredResource   { return m.Produces }
func (m *Module) Body() string              { return m.BodyName }

// Input is derived from the output resource's prerequisite at the module's tier
func (m *Module) Input() *TieredResource {
	if m.Produces == nil {
		return nil
	}
	return m.Produces.MadeFrom(m.ModuleTier)
}

// ContributeResearch forwards work to the research track of the output
func (m *Module) ContributeResearch(sink ResearchSink, kerbalSeconds float64) bool {
	return sink.ContributeResearch(m.Produces, m.BodyName, kerbalSeconds)
}

// Combinator is the standard Combiner
type Combinator struct {
	CombinatorKind string
	Rate           float64 // output units per day
	Tiered         *TieredResource
	InputName      string
	OutputName     string
	Ratios         [NumTiers]float64
	Enabled        bool
}

func (c *Combinator) Kind() string                        { return c.CombinatorKind }
func (c *Combinator) ProductionRate() float64             { return c.Rate }
func (c *Combinator) TieredInput() *TieredResource        { return c.Tiered }
func (c *Combinator) NonTieredInputResourceName() string  { return c.InputName }
func (c *Combinator) NonTieredOutputResourceName() string { return c.OutputName }
func (c *Combinator) IsProductionEnabled() bool           { return c.Enabled }

// RatioForTier clamps the configured ratio into [0,1]
func (c *Combinator) RatioForTier(tier Tier) float64 {
	if !tier.IsValid() {
		return 0
	}
	r := c.Ratios[tier]
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}
