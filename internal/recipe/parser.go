package recipe

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	fencedBlockRe = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)```")
	braceSpanRe   = regexp.MustCompile(`\{[\s\S]*\}`)
)

// ParseResponse extracts a recipe JSON object embedded in arbitrary model
// output and returns a fully-populated Draft. It never fails: when no usable
// JSON is found the raw text is preserved in a minimal draft instead.
func ParseResponse(text string) Draft {
	var candidate string
	if m := fencedBlockRe.FindStringSubmatch(text); m != nil {
		candidate = strings.TrimSpace(m[1])
	} else if m := braceSpanRe.FindString(text); m != "" {
		candidate = m
	} else {
		return fallbackDraft(text)
	}

	var partial partialDraft
	if err := json.Unmarshal([]byte(candidate), &partial); err != nil {
		return fallbackDraft(text)
	}
	return merge(partial)
}

// fallbackDraft wraps unparseable model output in a minimal draft so the
// caller still gets something usable.
func fallbackDraft(text string) Draft {
	d := defaults()
	d.Description = truncate(text, 200)
	d.Steps = []string{text}
	d.RawResponse = text
	return d
}

// truncate cuts s to at most n characters, never splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
