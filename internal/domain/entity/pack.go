package entity

import "strings"

// PackDefinition is a purchasable pack with its reference price. Pack names
// and prices come from the API these days; this table is the fallback for
// legacy data and the source for the mock generator.
type PackDefinition struct {
	Name  string
	Price float64
}

// PackDefinitions is the fixed fallback pack table.
var PackDefinitions = []PackDefinition{
	{Name: "Pokémon Master Pack", Price: 250},
	{Name: "Starter Pack", Price: 30},
	{Name: "Great Pack", Price: 150},
	{Name: "Gem Sack", Price: 10},
}

var packPricing = func() map[string]float64 {
	m := make(map[string]float64, len(PackDefinitions))
	for _, p := range PackDefinitions {
		m[NormalizePackName(p.Name)] = p.Price
	}
	return m
}()

// NormalizePackName lowercases a pack name and collapses runs of
// whitespace so lookups survive minor formatting differences.
func NormalizePackName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// PackPriceFor returns the reference price for a pack name, preferring the
// fixed table and falling back to the amount the breakdown reported.
func PackPriceFor(name string, fallbackAmount float64) float64 {
	if price, ok := packPricing[NormalizePackName(name)]; ok {
		return price
	}
	return fallbackAmount
}
