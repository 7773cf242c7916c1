package entity

// UserTier is a spend-based classification bucket.
type UserTier struct {
	Name      string
	Threshold float64
}

// UserTiers in ascending threshold order. Classification picks the highest
// threshold not exceeding the lifetime total; thresholds are inclusive.
var UserTiers = []UserTier{
	{Name: "Free to Play", Threshold: 0},
	{Name: "Minnow", Threshold: 100},
	{Name: "Dolphin", Threshold: 1000},
	{Name: "Whale", Threshold: 10000},
	{Name: "Leviathan", Threshold: 50000},
}

// TierForSpend returns the tier name for a lifetime spend total.
func TierForSpend(total float64) string {
	tier := UserTiers[0].Name
	for _, t := range UserTiers {
		if total >= t.Threshold {
			tier = t.Name
		}
	}
	return tier
}
