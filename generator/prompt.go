package generator

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"story_engine/story"
)

// Role tags a message sent to the model.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is one role-tagged block of a prompt.
type Message struct {
	Role    Role
	Content string
}

// Prompt is the system guidance plus the user content for one model call.
type Prompt struct {
	System string
	User   string
}

// Messages returns the ordered sequence sent to the model.
func (p Prompt) Messages() []Message {
	return []Message{
		{Role: RoleSystem, Content: p.System},
		{Role: RoleUser, Content: p.User},
	}
}

// DefaultRequest is used when the reader gives no story request.
const DefaultRequest = "Tell me a fun and imaginative story for a child."

// InspirationSites are the kid-lit collections named when the inspiration
// toggle is on.
var InspirationSites = []string{
	"https://www.storyberries.com",
	"https://www.sleepystories.net",
	"https://www.freechildrenstories.com",
	"https://www.bedtimestory.ai",
}

// PromptBuilder assembles storyteller and judge prompts.
type PromptBuilder struct {
	catalog     *story.Catalog
	inspiration bool
	sites       []string
	rng         story.RandomSource
}

// NewPromptBuilder creates a builder. When inspiration is true the prompts
// name InspirationSites as loose stylistic anchors.
func NewPromptBuilder(catalog *story.Catalog, inspiration bool, rng story.RandomSource) *PromptBuilder {
	if catalog == nil {
		catalog = story.Default()
	}
	if rng == nil {
		rng = story.DefaultRandom()
	}
	return &PromptBuilder{
		catalog:     catalog,
		inspiration: inspiration && len(InspirationSites) > 0,
		sites:       InspirationSites,
		rng:         rng,
	}
}

func (b *PromptBuilder) storytellerInspiration() string {
	if b.inspiration {
		return "Write a fresh, original story that is *inspired by* (never copies) kid-lit patterns you might see on: " +
			strings.Join(b.sites, ", ") + "."
	}
	return "Write a fresh, original story drawing on classic children's storytelling patterns (clear arcs, gentle stakes, " +
		"warmth, and reassuring endings) without referencing external sources."
}

func (b *PromptBuilder) judgeOriginality() string {
	if b.inspiration {
		return "Originality: phrasing must remain unique; you may draw *subtle* inspiration from kid-safe public story " +
			"collections like " + strings.Join(b.sites, ", ") + " without copying."
	}
	return "Originality: phrasing must remain unique; draw only on classic children's storytelling patterns (clear arcs, " +
		"gentle stakes, warmth) without referencing external sources."
}

// StorytellerPrompt builds the draft-pass prompt.
func (b *PromptBuilder) StorytellerPrompt(request, category string, age story.AgeBracket) Prompt {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are a veteran children's storyteller writing for ages 5-10 (age bracket: %s).\n", age))
	sb.WriteString(b.storytellerInspiration())
	sb.WriteString("\n\n### Creative brief\n")
	sb.WriteString(fmt.Sprintf("- Category/Style: %s\n", category))
	sb.WriteString(fmt.Sprintf("- Reader: a child in the %s bracket (keep language accessible; roughly Grade 2-4 reading ease).\n", age))
	sb.WriteString("- Length target: 600-900 words (never under 500 words). Prefer elaboration over brevity.\n")

	sb.WriteString("\n### Safety & tone\n")
	sb.WriteString("- Absolutely no gore, sexual content, bullying, or mature themes.\n")
	sb.WriteString("- Conflict is gentle and safe; end with warmth, reassurance, and hope.\n")

	sb.WriteString("\n### Story craft to apply\n")
	for _, name := range b.catalog.ChooseTechniques(category, b.rng) {
		if t, ok := b.catalog.Technique(name); ok {
			sb.WriteString(fmt.Sprintf("- %s\n", t.Instruction))
		} else {
			sb.WriteString(fmt.Sprintf("- %s\n", name))
		}
	}

	sb.WriteString("\n### Structural beats (keep them clear but graceful)\n")
	sb.WriteString("1) Beginning: cozy setup; who (kid-friendly names), where (grounding details), what they care about.\n")
	sb.WriteString("2) Middle: a small challenge or mystery; 2-3 light beats or tries; playful tension; show emotions via action and dialogue.\n")
	sb.WriteString("3) Ending: a kind resolution; a positive, natural moral without preaching.\n")

	sb.WriteString("\n### Language & style\n")
	sb.WriteString("- Prefer short sentences and lively verbs. Keep vocabulary simple; explain rare words in context.\n")
	sb.WriteString("- Use sensory details sparingly and clearly.\n")
	sb.WriteString("- Add short dialogue lines with clear attributions.\n")
	sb.WriteString("- Use light humor or surprise where appropriate to the category.\n")
	sb.WriteString("- Avoid repeated phrases and clichés.\n")

	sb.WriteString("\n### Output rules\n")
	sb.WriteString("- Do NOT include an outline or section headers; write a single continuous story.\n")
	sb.WriteString("- Do NOT reference external sources directly.\n")
	sb.WriteString("- Do NOT break character as a storyteller.\n")
	sb.WriteString("\nNow write the story that responds to the child's request below while honoring all guidance.")

	user := cleanRequest(request)
	if user == "" {
		user = DefaultRequest
	}
	return Prompt{System: sb.String(), User: user}
}

// JudgePrompt builds the editor prompt over storyText. A non-empty feedback
// is appended as an extra directive applied on top of the checklist.
func (b *PromptBuilder) JudgePrompt(storyText, feedback string) Prompt {
	var sb strings.Builder
	sb.WriteString("You are a careful children's story editor (ages 5-10). Revise the story to improve craft and safety.\n")
	sb.WriteString("Maintain originality; you may rewrite, expand, or trim lines to meet goals.\n")

	sb.WriteString("\n### Editing checklist (apply all as needed)\n")
	sb.WriteString("- Structure & pacing: clear beginning-middle-end; smooth transitions; 2-3 light middle beats.\n")
	sb.WriteString("- Length: aim 600-900 words. If <500, expand with action, dialogue, and sensory detail (not filler). If >950, tighten gently.\n")
	sb.WriteString("- Age-appropriate language: roughly Grade 2-4; explain rare words in-context.\n")
	sb.WriteString("- Dialogue: short, lively exchanges; clear speakers.\n")
	sb.WriteString("- Sensory details: light, concrete anchors (sound, color, texture, smell).\n")
	sb.WriteString("- Moral & warmth: gentle, positive takeaway woven naturally; no preaching.\n")
	sb.WriteString("- Category fidelity: keep style aligned with its category.\n")
	sb.WriteString("- Consistency: names/POV stable; remove contradictions.\n")
	sb.WriteString("- Repetition & clichés: replace with fresh lines.\n")
	sb.WriteString("- Safety: nothing too scary/mature; reassuring ending.\n")
	sb.WriteString(fmt.Sprintf("- %s\n", b.judgeOriginality()))

	sb.WriteString("\n### Output rules\n")
	sb.WriteString("- Return the **revised full story** only (no commentary).\n")
	sb.WriteString("- Preserve the child-friendly tone; never break the fourth wall.")

	if fb := strings.TrimSpace(feedback); fb != "" {
		sb.WriteString("\n\n### Additional user feedback to apply now\n")
		sb.WriteString(fmt.Sprintf("- %s\n", fb))
	}

	return Prompt{System: sb.String(), User: storyText}
}

// cleanRequest strips markdown header, quote and bullet markers from the
// start of each line so that structure only appears in the system message.
func cleanRequest(request string) string {
	lines := strings.Split(strings.TrimSpace(request), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = stripLineMarkers(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, " ")
}

// stripLineMarkers removes leading marker runs only when whitespace or the
// end of the line follows them, so "-5 degrees" and "+1 more" survive.
func stripLineMarkers(line string) string {
	for {
		line = strings.TrimSpace(line)
		rest := strings.TrimLeft(line, "#>*-•+")
		if rest == line {
			return line
		}
		if r, _ := utf8.DecodeRuneInString(rest); rest != "" && !unicode.IsSpace(r) {
			return line
		}
		line = rest
	}
}
