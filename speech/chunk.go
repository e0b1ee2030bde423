package speech

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxChunkChars is the longest text sent in one synthesis request. The
// OpenAI speech endpoint rejects input above 4096 characters.
const MaxChunkChars = 4000

// SplitText breaks text into chunks of at most limit bytes. Chunks end on
// paragraph breaks where possible, then on sentence ends, then on spaces.
func SplitText(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if limit <= 0 {
		limit = MaxChunkChars
	}

	var chunks []string
	var cur strings.Builder
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			chunks = append(chunks, s)
		}
		cur.Reset()
	}
	add := func(piece, sep string) {
		if cur.Len() > 0 && cur.Len()+len(sep)+len(piece) > limit {
			flush()
		}
		if cur.Len() > 0 {
			cur.WriteString(sep)
		}
		cur.WriteString(piece)
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if len(para) <= limit {
			add(para, "\n\n")
			continue
		}
		for _, sentence := range splitSentences(para) {
			if len(sentence) <= limit {
				add(sentence, " ")
				continue
			}
			for _, word := range strings.Fields(sentence) {
				for len(word) > limit {
					cut := runeCut(word, limit)
					add(word[:cut], " ")
					word = word[cut:]
				}
				add(word, " ")
			}
		}
	}
	flush()
	return chunks
}

// runeCut returns the largest cut point at or below limit that does not split
// a rune. A single rune wider than limit is kept whole.
func runeCut(s string, limit int) int {
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	if cut == 0 {
		_, cut = utf8.DecodeRuneInString(s)
	}
	return cut
}

func splitSentences(para string) []string {
	var out []string
	start := 0
	runes := []rune(para)
	for i, r := range runes {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			out = append(out, s)
		}
		start = i + 1
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		out = append(out, s)
	}
	return out
}
