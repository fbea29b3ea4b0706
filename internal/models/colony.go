package models

// ColonyConfig is a colony as loaded from a scenario file: who lives there,
// what they run, and what is on hand.
type ColonyConfig struct {
	Name string
	Body string
	Crew int

	Modules     []*Module
	Combinators []*Combinator

	// Resources on hand and free storage space, keyed like "Snacks-Tier4"
	// or by untiered game resource name
	Resources map[string]float64
	Storage   map[string]float64
}

// Producers returns the modules as the solver's producer list
func (c *ColonyConfig) Producers() []Producer {
	result := make([]Producer, len(c.Modules))
	for i, m := range c.Modules {
		result[i] = m
	}
	return result
}

// Combiners returns the combinators as the solver's combiner list
func (c *ColonyConfig) Combiners() []Combiner {
	result := make([]Combiner, len(c.Combinators))
	for i, cb := range c.Combinators {
		result[i] = cb
	}
	return result
}
