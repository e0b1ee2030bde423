package story

import "slices"

// ChooseTechniques returns a shuffled selection of the category's techniques,
// padded with the generic ones it lacks and capped at MaxTechniques.
func (c *Catalog) ChooseTechniques(category string, rng RandomSource) []string {
	if rng == nil {
		rng = DefaultRandom()
	}
	picks := c.TechniquesFor(category)
	rng.Shuffle(len(picks), func(i, j int) {
		picks[i], picks[j] = picks[j], picks[i]
	})
	for _, g := range genericTechniques {
		if !slices.Contains(picks, g) {
			picks = append(picks, g)
		}
	}
	if len(picks) > MaxTechniques {
		picks = picks[:MaxTechniques]
	}
	return picks
}
