package story

import "strings"

// Category is one of the fixed story styles offered to readers.
type Category struct {
	Key      string
	Label    string
	Keywords []string
}

// Technique is a named craft rule injected into the storyteller prompt.
type Technique struct {
	Name        string
	Instruction string
}

// Generic technique names appended to every selection when missing.
const (
	TechniqueSensoryDetails    = "Sensory Details"
	TechniqueKidDialogue       = "Kid Dialogue"
	TechniqueVocabularyCeiling = "Vocabulary Ceiling"
)

// MaxTechniques caps the craft bullets per storyteller prompt.
const MaxTechniques = 7

var genericTechniques = []string{
	TechniqueSensoryDetails,
	TechniqueKidDialogue,
	TechniqueVocabularyCeiling,
}

var fallbackTechniques = []string{
	"Clear Arc (B-M-E)",
	"Show, Don't Tell",
	"Positive Moral",
}

// Catalog holds the category and technique tables. It is built once and
// never mutated, so a single instance is shared by all requests.
type Catalog struct {
	categories []Category
	labels     []string
	techniques map[string]Technique
	byCategory map[string][]string
}

var defaultCatalog = newDefaultCatalog()

// Default returns the process-wide catalog.
func Default() *Catalog {
	return defaultCatalog
}

// Categories returns the categories in classification order.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Labels returns the public category labels in order.
func (c *Catalog) Labels() []string {
	out := make([]string, len(c.labels))
	copy(out, c.labels)
	return out
}

// Lookup matches a key or label case-insensitively.
func (c *Catalog) Lookup(name string) (Category, bool) {
	name = strings.TrimSpace(name)
	for _, cat := range c.categories {
		if strings.EqualFold(cat.Label, name) || strings.EqualFold(cat.Key, name) {
			return cat, true
		}
	}
	return Category{}, false
}

// Technique returns a technique from the library by name.
func (c *Catalog) Technique(name string) (Technique, bool) {
	t, ok := c.techniques[name]
	return t, ok
}

// TechniquesFor returns the ordered technique names applicable to a
// category label, or the generic fallback list for unknown labels.
func (c *Catalog) TechniquesFor(label string) []string {
	names, ok := c.byCategory[label]
	if !ok {
		names = fallbackTechniques
	}
	out := make([]string, len(names))
	copy(out, names)
	return out
}

func newDefaultCatalog() *Catalog {
	categories := []Category{
		{Key: "magic_adventure", Label: "Magic Adventure", Keywords: []string{"wizard", "magic", "castle", "fairy", "dragon"}},
		{Key: "epic_quest", Label: "Epic Quest", Keywords: []string{"journey", "quest", "explore", "map", "treasure"}},
		{Key: "mystery", Label: "Mystery", Keywords: []string{"mystery", "secret", "clue", "detective", "case"}},
		{Key: "funny", Label: "Funny", Keywords: []string{"funny", "silly", "laugh", "joke", "goofy"}},
		{Key: "friends_and_family", Label: "Friends and Family", Keywords: []string{"family", "friend", "home", "siblings", "school"}},
		{Key: "furry_friends", Label: "Furry Friends", Keywords: []string{"cat", "dog", "rabbit", "animal", "pet"}},
		{Key: "space_adventure", Label: "Space Adventure", Keywords: []string{"space", "planet", "rocket", "alien", "moon"}},
		{Key: "boo", Label: "Boo!", Keywords: []string{"ghost", "spooky", "monster", "witch", "boo"}},
	}

	library := []Technique{
		{"Clear Arc (B-M-E)", "Use a clear three-part arc: cozy beginning, gentle middle challenge, happy resolution."},
		{"Rule of Three", "Use three beats, helpers, or tries."},
		{"Show, Don't Tell", "Show feelings via actions and dialogue, not explanations."},
		{TechniqueSensoryDetails, "Kid-friendly sensory details (sound, color, smell, textures)."},
		{TechniqueKidDialogue, "Short, lively lines; clear speaker tags."},
		{"Positive Moral", "Gentle moral (cooperation, kindness, courage) woven naturally."},
		{"Humor & Surprise", "Small, safe surprises or wordplay; warm humor."},
		{"Figurative Light", "Light similes/metaphors kids get (e.g., 'soft as a marshmallow cloud')."},
		{"Safe Stakes", "Conflict remains gentle and safe for ages 5-10."},
		{"Rhythm & Repetition", "Light repetition/rhythm without tedium."},
		{TechniqueVocabularyCeiling, "Roughly Grade 2-4; explain rare words in context."},
		{"World Seeds", "Snacks, pets, cozy rooms, friendly robots: anchors kids love."},
		{"Category Flavor: Magic Adventure", "Magical helper/tool; whimsical rule; fair outcomes."},
		{"Category Flavor: Epic Quest", "Simple map, three small trials, friendly guide, clear goal."},
		{"Category Flavor: Mystery", "Fair visible clues; silly (not scary) red herrings; tidy reveal."},
		{"Category Flavor: Funny", "Exaggeration, harmless mishaps; end with a giggle and a hug."},
		{"Category Flavor: Friends and Family", "Home/school setting; teamwork, empathy, sharing, reassurance."},
		{"Category Flavor: Furry Friends", "Animal sidekick with a quirk; show care/responsibility."},
		{"Category Flavor: Space Adventure", "Cozy sci-fi: friendly alien, soft rockets, wonder about stars."},
		{"Category Flavor: Boo!", "Spooky-but-safe: giggly ghosts, glow comfort, reassuring end."},
		{"Clue Economy", "Keep clues visible and simple; reveal gently."},
	}

	byCategory := map[string][]string{
		"Magic Adventure":    {"Clear Arc (B-M-E)", "Rule of Three", "Show, Don't Tell", TechniqueSensoryDetails, TechniqueKidDialogue, "Positive Moral", "Figurative Light", "Category Flavor: Magic Adventure"},
		"Epic Quest":         {"Clear Arc (B-M-E)", "Rule of Three", "World Seeds", TechniqueKidDialogue, "Positive Moral", "Safe Stakes", "Category Flavor: Epic Quest"},
		"Mystery":            {"Clear Arc (B-M-E)", "Clue Economy", "Show, Don't Tell", TechniqueKidDialogue, "Positive Moral", "Safe Stakes", "Category Flavor: Mystery"},
		"Funny":              {"Clear Arc (B-M-E)", "Humor & Surprise", "Rhythm & Repetition", TechniqueKidDialogue, "World Seeds", "Positive Moral", "Category Flavor: Funny"},
		"Friends and Family": {"Clear Arc (B-M-E)", "Show, Don't Tell", TechniqueKidDialogue, "World Seeds", "Positive Moral", "Safe Stakes", "Category Flavor: Friends and Family"},
		"Furry Friends":      {"Clear Arc (B-M-E)", "Show, Don't Tell", TechniqueSensoryDetails, TechniqueKidDialogue, "Positive Moral", "World Seeds", "Category Flavor: Furry Friends"},
		"Space Adventure":    {"Clear Arc (B-M-E)", "Rule of Three", TechniqueSensoryDetails, TechniqueKidDialogue, "Positive Moral", "Figurative Light", "Category Flavor: Space Adventure"},
		"Boo!":               {"Clear Arc (B-M-E)", "Safe Stakes", "Humor & Surprise", TechniqueSensoryDetails, TechniqueKidDialogue, "Positive Moral", "Category Flavor: Boo!"},
	}

	c := &Catalog{
		categories: categories,
		labels:     make([]string, 0, len(categories)),
		techniques: make(map[string]Technique, len(library)),
		byCategory: byCategory,
	}
	for _, cat := range categories {
		c.labels = append(c.labels, cat.Label)
	}
	for _, t := range library {
		c.techniques[t.Name] = t
	}
	return c
}
