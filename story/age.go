package story

import "strings"

// AgeBracket is the coarse reading level a story is written for.
type AgeBracket string

const (
	AgeYoung  AgeBracket = "young"
	AgeMiddle AgeBracket = "middle"
	AgeOlder  AgeBracket = "older"
)

// DetermineAgeBracket normalizes a free-text bracket. Anything starting with
// "y" is young, with "o" older, and everything else (empty included) middle.
func DetermineAgeBracket(raw string) AgeBracket {
	ab := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.HasPrefix(ab, "y"):
		return AgeYoung
	case strings.HasPrefix(ab, "o"):
		return AgeOlder
	default:
		return AgeMiddle
	}
}

// AgeBracketForAge maps a child's age in years to a bracket.
func AgeBracketForAge(age int) AgeBracket {
	switch {
	case age <= 6:
		return AgeYoung
	case age <= 8:
		return AgeMiddle
	default:
		return AgeOlder
	}
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
