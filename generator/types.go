package generator

import "story_engine/story"

// StoryRequest describes a story to generate. AgeBracket is free text
// ("young", "Older", ...); Age is used only when AgeBracket is empty and
// Age is positive. An empty Category is detected from Prompt.
type StoryRequest struct {
	Prompt     string
	AgeBracket string
	Age        int
	Category   string
}

// Result is a polished story and what it was written for.
type Result struct {
	Story      string
	Category   string
	AgeBracket story.AgeBracket
	WordCount  int
}

func (r StoryRequest) bracket() story.AgeBracket {
	if r.AgeBracket == "" && r.Age > 0 {
		return story.AgeBracketForAge(r.Age)
	}
	return story.DetermineAgeBracket(r.AgeBracket)
}
