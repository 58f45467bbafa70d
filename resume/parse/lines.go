package parse

import (
	"regexp"
	"strings"
	"unicode"
)

var spacePattern = regexp.MustCompile(`\s+`)

// splitLines breaks raw text into trimmed, whitespace-collapsed, non-empty
// lines. Empty input yields an empty slice.
func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if cleaned := collapseSpace(line); cleaned != "" {
			lines = append(lines, cleaned)
		}
	}
	return lines
}

// collapseSpace trims and folds all internal whitespace runs to one space.
func collapseSpace(s string) string {
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}

// joinWrapped merges visually wrapped lines back into sentences: a line is
// appended to its predecessor when the predecessor ends mid-flow (alnum,
// comma, colon or bracket) and the line starts with a lowercase letter
// or "(".
func joinWrapped(lines []string) []string {
	var out []string
	for _, line := range lines {
		if len(out) > 0 && continuesLine(out[len(out)-1], line) {
			out[len(out)-1] = out[len(out)-1] + " " + line
			continue
		}
		out = append(out, line)
	}
	return out
}

func continuesLine(prev, next string) bool {
	if prev == "" || next == "" {
		return false
	}
	last := rune(prev[len(prev)-1])
	lastOK := unicode.IsLetter(last) || unicode.IsDigit(last) ||
		last == ',' || last == ':' || last == ')' || last == ']'
	if !lastOK {
		return false
	}
	first := rune(next[0])
	return unicode.IsLower(first) || first == '('
}

// truncate cuts s to at most max bytes, trimming a trailing space.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return strings.TrimSpace(s[:max])
}

// dedupStrings drops repeats while preserving first-seen order.
func dedupStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}

func isAllCapsBlock(line string) bool {
	hasLetter := false
	for _, r := range line {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
