package story

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}

func TestCatalog_Labels(t *testing.T) {
	labels := Default().Labels()
	assert.Equal(t, []string{
		"Magic Adventure",
		"Epic Quest",
		"Mystery",
		"Funny",
		"Friends and Family",
		"Furry Friends",
		"Space Adventure",
		"Boo!",
	}, labels)

	// callers get a copy
	labels[0] = "changed"
	assert.Equal(t, "Magic Adventure", Default().Labels()[0])
}

func TestCatalog_Lookup(t *testing.T) {
	cat, ok := Default().Lookup("boo")
	require.True(t, ok)
	assert.Equal(t, "Boo!", cat.Label)

	cat, ok = Default().Lookup("  space adventure ")
	require.True(t, ok)
	assert.Equal(t, "space_adventure", cat.Key)

	_, ok = Default().Lookup("Pirates")
	assert.False(t, ok)
}

func TestDetectCategory(t *testing.T) {
	c := Default()

	t.Run("keyword hit", func(t *testing.T) {
		assert.Equal(t, "Boo!", c.DetectCategory("a spooky ghost story", seeded(1)))
		assert.Equal(t, "Space Adventure", c.DetectCategory("A ROCKET to the Moon", seeded(1)))
	})

	t.Run("first category in order wins", func(t *testing.T) {
		// "dragon" (Magic Adventure) and "ghost" (Boo!) both match
		assert.Equal(t, "Magic Adventure", c.DetectCategory("a ghost and a dragon", seeded(1)))
	})

	t.Run("substring containment", func(t *testing.T) {
		assert.Equal(t, "Mystery", c.DetectCategory("the old casement window", seeded(1)))
		assert.Equal(t, "Furry Friends", c.DetectCategory("a red carpet", seeded(1)))
	})

	t.Run("empty input falls back to a random label", func(t *testing.T) {
		got := c.DetectCategory("", seeded(7))
		assert.Contains(t, c.Labels(), got)
		assert.Equal(t, got, c.DetectCategory("", seeded(7)), "same seed, same pick")
	})

	t.Run("fallback reaches every label", func(t *testing.T) {
		rng := seeded(42)
		seen := map[string]bool{}
		for i := 0; i < 500; i++ {
			seen[c.DetectCategory("brave puppy", rng)] = true
		}
		assert.Len(t, seen, len(c.Labels()))
	})
}

func TestResolveCategory(t *testing.T) {
	c := Default()
	assert.Equal(t, "Furry Friends", c.ResolveCategory("furry friends", "", seeded(1)))
	assert.Equal(t, "Pirates", c.ResolveCategory(" Pirates ", "", seeded(1)))
	assert.Equal(t, "Boo!", c.ResolveCategory("", "a witch", seeded(1)))
}

func TestDetermineAgeBracket(t *testing.T) {
	tests := []struct {
		in   string
		want AgeBracket
	}{
		{"Young", AgeYoung},
		{"y", AgeYoung},
		{"", AgeMiddle},
		{"middle", AgeMiddle},
		{"teen", AgeMiddle},
		{"OLDER", AgeOlder},
		{"  old  ", AgeOlder},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetermineAgeBracket(tt.in), "input %q", tt.in)
	}
}

func TestAgeBracketForAge(t *testing.T) {
	assert.Equal(t, AgeYoung, AgeBracketForAge(0))
	assert.Equal(t, AgeYoung, AgeBracketForAge(6))
	assert.Equal(t, AgeMiddle, AgeBracketForAge(7))
	assert.Equal(t, AgeMiddle, AgeBracketForAge(8))
	assert.Equal(t, AgeOlder, AgeBracketForAge(9))
}

func TestChooseTechniques(t *testing.T) {
	c := Default()
	rng := seeded(3)

	for _, label := range append(c.Labels(), "Unknown Style") {
		for i := 0; i < 20; i++ {
			picks := c.ChooseTechniques(label, rng)
			assert.LessOrEqual(t, len(picks), MaxTechniques, label)

			seen := map[string]bool{}
			for _, name := range picks {
				_, ok := c.Technique(name)
				assert.True(t, ok, "unknown technique %q", name)
				assert.False(t, seen[name], "duplicate technique %q", name)
				seen[name] = true
			}
		}
	}
}

func TestChooseTechniques_UnknownCategoryPadsGenerics(t *testing.T) {
	picks := Default().ChooseTechniques("Pirates", seeded(9))
	require.Len(t, picks, 6)
	assert.ElementsMatch(t, []string{"Clear Arc (B-M-E)", "Show, Don't Tell", "Positive Moral"}, picks[:3])
	assert.Equal(t, []string{TechniqueSensoryDetails, TechniqueKidDialogue, TechniqueVocabularyCeiling}, picks[3:])
}

func TestChooseTechniques_DoesNotMutateTable(t *testing.T) {
	c := Default()
	before := c.TechniquesFor("Mystery")
	for i := 0; i < 10; i++ {
		c.ChooseTechniques("Mystery", seeded(uint64(i)))
	}
	assert.Equal(t, before, c.TechniquesFor("Mystery"))
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount("  "))
	assert.Equal(t, 4, WordCount("one two\nthree\tfour"))
}
