package models

import "strings"

const tierSeparator = "-Tier"

// SplitTieredName splits a resource key into base name and tier.
// "Fertilizer-Tier2" gives ("Fertilizer", Tier2, true). A key without a tier
// suffix is the bare Tier4 form: "Snacks" gives ("Snacks", Tier4, true).
// The suffix must be a single digit naming a valid tier, so "Snacks-Tier04"
// and "Snacks-Tier9" fail.
func SplitTieredName(name string) (string, Tier, bool) {
	if name == "" {
		return "", Tier0, false
	}

	i := strings.LastIndex(name, tierSeparator)
	if i < 0 {
		return name, Tier4, true
	}

	base := name[:i]
	suffix := name[i+len(tierSeparator):]
	if base == "" || len(suffix) != 1 || suffix[0] < '0' || suffix[0] > '9' {
		return "", Tier0, false
	}

	tier := Tier(suffix[0] - '0')
	if !tier.IsValid() {
		return "", Tier0, false
	}
	return base, tier, true
}

// StorageKeys returns the keys a resource at a tier may be stored under.
// Tier4 resources may also appear under their bare name.
func StorageKeys(r *TieredResource, tier Tier) []string {
	if tier == Tier4 {
		return []string{r.TieredName(tier), r.BaseName}
	}
	return []string{r.TieredName(tier)}
}

// LookupTiered finds the amount stored for a resource at a tier, trying each
// accepted key form. It returns the key that matched.
func LookupTiered(m map[string]float64, r *TieredResource, tier Tier) (string, float64, bool) {
	for _, key := range StorageKeys(r, tier) {
		if amount, ok := m[key]; ok {
			return key, amount, true
		}
	}
	return "", 0, false
}
