package models

// ResearchSink is the research scenario collaborator. It receives research
// labor, answers what tier has been unlocked, and resolves resource keys.
type ResearchSink interface {
	// ContributeResearch adds kerbal-seconds of work to the research track of
	// resource on body, returning true if that crossed into a new tier
	ContributeResearch(resource *TieredResource, body string, kerbalSeconds float64) bool
	MaxUnlockedTier(resource *TieredResource, body string) Tier
	TryParseTieredResourceName(name string) (*TieredResource, Tier, bool)
}

// Producer is a single production unit, typically one part module.
// Callers build these from live game objects once per tick; the solver only
// reads them.
type Producer interface {
	// Kind tags the concrete producer type. Producers are merged only when
	// Kind, Tier and Output all match.
	Kind() string
	Tier() Tier
	// ProductionRate is output units per day at full capacity
	ProductionRate() float64
	IsProductionEnabled() bool
	IsResearchEnabled() bool
	Output() *TieredResource
	// Input is nil for primary producers that need no input
	Input() *TieredResource
	Body() string
	ContributeResearch(sink ResearchSink, kerbalSeconds float64) bool
}

// Combiner blends a tiered resource with an untiered game resource to make
// another untiered game resource.
type Combiner interface {
	Kind() string
	// ProductionRate is output units per day at full capacity
	ProductionRate() float64
	TieredInput() *TieredResource
	NonTieredInputResourceName() string
	NonTieredOutputResourceName() string
	// RatioForTier is the fraction of throughput, within [0,1], that must
	// come from the tiered input when it is supplied at the given tier.
	// The rest comes from the untiered input.
	RatioForTier(tier Tier) float64
	IsProductionEnabled() bool
}
