package story

import "strings"

// DetectCategory picks a category label for free-text input. Categories are
// tried in catalog order and the first one with any keyword contained in the
// lowered input wins. Containment is a plain substring test, so "case" also
// matches "casement". Without a hit a label is drawn uniformly from rng.
func (c *Catalog) DetectCategory(input string, rng RandomSource) string {
	lower := strings.ToLower(input)
	for _, cat := range c.categories {
		for _, kw := range cat.Keywords {
			if strings.Contains(lower, kw) {
				return cat.Label
			}
		}
	}
	if rng == nil {
		rng = DefaultRandom()
	}
	return c.labels[rng.IntN(len(c.labels))]
}

// ResolveCategory returns the canonical label for a caller-supplied category,
// or the trimmed value itself when it is not in the catalog. An empty value
// is classified from input.
func (c *Catalog) ResolveCategory(requested, input string, rng RandomSource) string {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		return c.DetectCategory(input, rng)
	}
	if cat, ok := c.Lookup(requested); ok {
		return cat.Label
	}
	return requested
}
