package models

import "fmt"

// Tier is the technology level a resource is produced or consumed at.
// Tier4 is the top, Kerbin-grade, level.
type Tier int

const (
	Tier0 Tier = iota
	Tier1
	Tier2
	Tier3
	Tier4
)

// NumTiers is the number of tiers, Tier0 through Tier4
const NumTiers = 5

// AllTiers returns all tiers in ascending order
func AllTiers() []Tier {
	return []Tier{Tier0, Tier1, Tier2, Tier3, Tier4}
}

// String returns the name used in resource keys, e.g. "Tier2"
func (t Tier) String() string {
	return fmt.Sprintf("Tier%d", int(t))
}

// DisplayName returns a human readable name for the tier
func (t Tier) DisplayName() string {
	switch t {
	case Tier0:
		return "Primitive"
	case Tier1:
		return "Basic"
	case Tier2:
		return "Developed"
	case Tier3:
		return "Advanced"
	case Tier4:
		return "Kerbin-grade"
	default:
		return t.String()
	}
}

// IsValid reports whether t is one of Tier0..Tier4
func (t Tier) IsValid() bool {
	return t >= Tier0 && t <= Tier4
}

// Next returns the tier above t, or Tier4 if t is already at the top
func (t Tier) Next() Tier {
	if t >= Tier4 {
		return Tier4
	}
	return t + 1
}
