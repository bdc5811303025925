package service

// gradeTiers holds the labeled score brackets in ascending floor order.
var gradeTiers = []struct {
	Floor int
	Label string
}{
	{0, "Newcomer"},
	{50, "Active"},
	{100, "Trusted"},
	{500, "Elite"},
	{1000, "Legendary"},
}

// GradeTier maps a score to its bracket label. Scores below the first floor
// (negative scores are possible) still classify as Newcomer.
func GradeTier(score int) string {
	label := gradeTiers[0].Label
	for _, tier := range gradeTiers {
		if score >= tier.Floor {
			label = tier.Label
		}
	}
	return label
}

// ProgressToNextTier reports how far a score has climbed through its current
// bracket, as a percentage. Always 100 at the top tier, 0 below the first
// bracket's span.
func ProgressToNextTier(score int) float64 {
	if score < gradeTiers[0].Floor {
		return 0
	}
	for i := 0; i < len(gradeTiers)-1; i++ {
		floor := gradeTiers[i].Floor
		next := gradeTiers[i+1].Floor
		if score >= floor && score < next {
			return float64(score-floor) / float64(next-floor) * 100
		}
	}
	return 100
}
