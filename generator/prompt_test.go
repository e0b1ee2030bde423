package generator

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"story_engine/story"
)

func newTestBuilder(inspiration bool, seed uint64) *PromptBuilder {
	return NewPromptBuilder(story.Default(), inspiration, rand.New(rand.NewPCG(seed, seed)))
}

func TestStorytellerPrompt(t *testing.T) {
	b := newTestBuilder(false, 1)
	p := b.StorytellerPrompt("A dragon who is afraid of the dark", "Magic Adventure", story.AgeYoung)

	msgs := p.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, RoleSystem, msgs[0].Role)
	assert.Equal(t, RoleUser, msgs[1].Role)
	assert.Equal(t, "A dragon who is afraid of the dark", msgs[1].Content)

	sys := p.System
	assert.Contains(t, sys, "veteran children's storyteller")
	assert.Contains(t, sys, "(age bracket: young)")
	assert.Contains(t, sys, "- Category/Style: Magic Adventure")
	assert.Contains(t, sys, "600-900 words (never under 500 words)")
	assert.Contains(t, sys, "no gore, sexual content, bullying, or mature themes")
	assert.Contains(t, sys, "1) Beginning")
	assert.Contains(t, sys, "2) Middle")
	assert.Contains(t, sys, "3) Ending")
	assert.Contains(t, sys, "Do NOT include an outline or section headers")
}

func TestStorytellerPrompt_TechniqueBullets(t *testing.T) {
	b := newTestBuilder(false, 5)
	sys := b.StorytellerPrompt("", "Mystery", story.AgeMiddle).System

	start := strings.Index(sys, "### Story craft to apply\n")
	end := strings.Index(sys, "\n### Structural beats")
	require.True(t, start >= 0 && end > start)
	section := strings.TrimSpace(sys[start+len("### Story craft to apply\n") : end])

	// Mystery has 7 techniques of its own plus 2 missing generics, capped at 7
	bullets := strings.Split(section, "\n")
	assert.Len(t, bullets, story.MaxTechniques)
	for _, line := range bullets {
		assert.True(t, strings.HasPrefix(line, "- "), line)
	}
}

func TestStorytellerPrompt_DefaultRequest(t *testing.T) {
	b := newTestBuilder(false, 1)
	assert.Equal(t, DefaultRequest, b.StorytellerPrompt("", "Funny", story.AgeMiddle).User)
	assert.Equal(t, DefaultRequest, b.StorytellerPrompt("  \n ", "Funny", story.AgeMiddle).User)
}

func TestStorytellerPrompt_UserMessageHasNoStructure(t *testing.T) {
	b := newTestBuilder(false, 1)
	p := b.StorytellerPrompt("### My request\n- a puppy\n* on the moon\n> please", "Furry Friends", story.AgeOlder)

	assert.Equal(t, "My request a puppy on the moon please", p.User)
	assert.NotContains(t, p.User, "#")
	assert.NotContains(t, p.User, "\n")
	assert.NotContains(t, p.User, "- ")
}

func TestStorytellerPrompt_KeepsSignsInRequest(t *testing.T) {
	b := newTestBuilder(false, 1)

	tests := []struct {
		request string
		want    string
	}{
		{"-5 degrees outside\n+1 more penguin", "-5 degrees outside +1 more penguin"},
		{"- -5 degrees outside", "-5 degrees outside"},
		{"#hashtag party", "#hashtag party"},
		{"> ## A snowy day\n---\n**Pip** the penguin", "A snowy day **Pip** the penguin"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, b.StorytellerPrompt(tt.request, "Funny", story.AgeMiddle).User, tt.request)
	}
}

func TestInspirationToggle(t *testing.T) {
	on := newTestBuilder(true, 1)
	off := newTestBuilder(false, 1)

	onStory := on.StorytellerPrompt("x", "Funny", story.AgeMiddle).System
	offStory := off.StorytellerPrompt("x", "Funny", story.AgeMiddle).System
	onJudge := on.JudgePrompt("story", "").System
	offJudge := off.JudgePrompt("story", "").System

	for _, site := range InspirationSites {
		assert.Contains(t, onStory, site)
		assert.Contains(t, onJudge, site)
		assert.NotContains(t, offStory, site)
		assert.NotContains(t, offJudge, site)
	}
	assert.Contains(t, offStory, "classic children's storytelling patterns")
	assert.Contains(t, offJudge, "classic children's storytelling patterns")
	assert.NotContains(t, onStory, "classic children's storytelling patterns")
	assert.NotContains(t, onJudge, "classic children's storytelling patterns")
}

func TestJudgePrompt(t *testing.T) {
	b := newTestBuilder(false, 1)
	p := b.JudgePrompt("Once upon a time.", "")

	assert.Equal(t, "Once upon a time.", p.User)
	assert.Contains(t, p.System, "careful children's story editor")
	assert.Contains(t, p.System, "If <500, expand")
	assert.Contains(t, p.System, "If >950, tighten gently")
	assert.Contains(t, p.System, "Return the **revised full story** only (no commentary)")
	assert.NotContains(t, p.System, "Additional user feedback")
}

func TestJudgePrompt_Feedback(t *testing.T) {
	b := newTestBuilder(false, 1)
	p := b.JudgePrompt("Once upon a time.", "  make it longer ")

	assert.True(t, strings.HasSuffix(p.System, "### Additional user feedback to apply now\n- make it longer\n"))
	base := b.JudgePrompt("Once upon a time.", "").System
	assert.True(t, strings.HasPrefix(p.System, base), "feedback is appended after the checklist")

	blank := b.JudgePrompt("Once upon a time.", "   ")
	assert.Equal(t, base, blank.System)
}

func TestJudgePrompt_Stable(t *testing.T) {
	b := newTestBuilder(true, 1)
	first := b.JudgePrompt("The same story.", "")
	second := b.JudgePrompt("The same story.", "")
	assert.Equal(t, first, second)

	other := newTestBuilder(true, 99)
	assert.Equal(t, first.System, other.JudgePrompt("The same story.", "").System)
}
