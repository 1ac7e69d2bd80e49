package analytics

import (
	"liquidchecker/internal/domain"
)

// ProgressBuckets splits the listing into bonding-progress quartiles.
// Tokens with unknown progress are excluded. Each bucket covers
// [Min, Max); the last bucket includes 100.
func ProgressBuckets(tokens []domain.Token) []domain.ProgressBucket {
	buckets := []domain.ProgressBucket{
		{Label: "0-25%", Min: 0, Max: 25},
		{Label: "25-50%", Min: 25, Max: 50},
		{Label: "50-75%", Min: 50, Max: 75},
		{Label: "75-100%", Min: 75, Max: 100},
	}

	for _, t := range tokens {
		if domain.IsUnknown(t.Progress) {
			continue
		}
		for i := range buckets {
			last := i == len(buckets)-1
			if t.Progress >= buckets[i].Min && (t.Progress < buckets[i].Max || (last && t.Progress == buckets[i].Max)) {
				buckets[i].Count++
				break
			}
		}
	}
	return buckets
}
