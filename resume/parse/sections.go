package parse

import (
	"strings"
	"unicode"
)

// maxHeadingWords bounds the ad-hoc heading heuristic: longer all-caps lines
// are treated as content (e.g. shouted summary paragraphs).
const maxHeadingWords = 5

type sectionLines map[Section][]string

// classifySections assigns every line to a section bucket. Heading lines
// switch the active bucket and are not emitted into any bucket; everything
// else accumulates under the active section, starting at profile.
func (e *Engine) classifySections(lines []string) sectionLines {
	buckets := make(sectionLines)
	current := SectionProfile
	for _, line := range lines {
		if section, ok := e.headingSection(line); ok {
			current = section
			continue
		}
		buckets[current] = append(buckets[current], line)
	}
	return buckets
}

// headingSection reports the section a heading line selects, if any.
// A line containing a digit is never a heading: dated bullet lines such as
// "Experience 2020" must stay content.
func (e *Engine) headingSection(line string) (Section, bool) {
	if containsDigit(line) {
		return "", false
	}
	key := headingKey(line)
	if key == "" {
		return "", false
	}
	if section, ok := e.cfg.Headings[key]; ok {
		return section, true
	}
	if !isAdHocHeading(line) {
		return "", false
	}
	for _, hint := range e.cfg.HeadingHints {
		if strings.Contains(key, hint.Substring) {
			return hint.Section, true
		}
	}
	return "", false
}

// headingKey normalizes a heading candidate: letters and spaces only,
// collapsed and uppercased.
func headingKey(line string) string {
	var b strings.Builder
	for _, r := range line {
		switch {
		case unicode.IsLetter(r):
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return collapseSpace(b.String())
}

// isAdHocHeading recognizes short ALL-CAPS lines with limited punctuation as
// candidate headings even when they miss the exact keyword table.
func isAdHocHeading(line string) bool {
	if len(strings.Fields(line)) > maxHeadingWords {
		return false
	}
	hasLetter := false
	for _, r := range line {
		switch {
		case unicode.IsLetter(r):
			if unicode.IsLower(r) {
				return false
			}
			hasLetter = true
		case unicode.IsSpace(r):
		case r == ':' || r == '&' || r == '/' || r == '-':
		default:
			return false
		}
	}
	return hasLetter
}
