package parse

import "strings"

// Highlight candidate bounds: shorter lines are labels or noise, longer ones
// are unsplit paragraphs from a bad extraction.
const (
	minHighlightLen    = 8
	maxHighlightLen    = 260
	maxPendingLines    = 8
	maxFallbackEntries = 3
	maxSynthTitleLen   = 80
)

// expReducer folds the line sequence carrying the open entry explicitly, so
// each transition is testable on its own.
type expReducer struct {
	engine   *Engine
	open     *expDraft
	finished []Experience
}

type expDraft struct {
	title   string
	company string
	start   string
	end     string
	pending []string
}

// extractExperiences runs the primary pass over the work-priority candidate
// set, widens to all lines when it under-produces, and finally synthesizes
// entries from dated lines when structured extraction found nothing.
func (e *Engine) extractExperiences(lines []string, sections sectionLines) []Experience {
	entries := e.runExperiencePass(e.experienceCandidates(sections))
	if len(entries) < minPrimaryEntries {
		entries = append(entries, e.runExperiencePass(lines)...)
	}
	entries = dedupExperiences(entries)
	if len(entries) == 0 {
		entries = e.synthesizeExperiences(lines)
	}
	if len(entries) > maxExperiences {
		entries = entries[:maxExperiences]
	}
	return entries
}

// experienceCandidates picks the lines the primary pass walks: the work
// bucket with profile/summary as context, or profile/summary/skills when no
// work section was detected.
func (e *Engine) experienceCandidates(sections sectionLines) []string {
	var out []string
	if work := sections[SectionWork]; len(work) > 0 {
		out = append(out, work...)
		out = append(out, sections[SectionProfile]...)
		out = append(out, sections[SectionSummary]...)
		return out
	}
	out = append(out, sections[SectionProfile]...)
	out = append(out, sections[SectionSummary]...)
	out = append(out, sections[SectionSkills]...)
	return out
}

func (e *Engine) runExperiencePass(lines []string) []Experience {
	r := expReducer{engine: e}
	for _, line := range lines {
		r.step(line)
	}
	r.flush()
	return r.finished
}

// step applies one line to the reducer state.
func (r *expReducer) step(line string) {
	if title, company, ok := r.engine.splitRoleCompany(line); ok {
		r.flush()
		r.open = &expDraft{title: title, company: company}
		return
	}
	if m := dateRange.FindStringSubmatch(line); m != nil && r.open != nil {
		if r.open.start == "" {
			r.open.start = m[1]
		}
		if r.open.end == "" {
			r.open.end = m[2]
		}
		return
	}
	if _, isHeading := r.engine.headingSection(line); isHeading {
		r.flush()
		return
	}
	if r.open == nil {
		return
	}
	if len(line) < minHighlightLen || len(line) > maxHighlightLen {
		return
	}
	if isAllCapsBlock(line) || labelPattern.MatchString(line) {
		return
	}
	if len(r.open.pending) < maxPendingLines {
		r.open.pending = append(r.open.pending, line)
	}
}

// flush closes the open entry: pending lines are merged back into wrapped
// sentences, deduplicated and capped, with the first highlight doubling as
// the entry summary.
func (r *expReducer) flush() {
	if r.open == nil {
		return
	}
	highlights := dedupStrings(joinWrapped(r.open.pending))
	if len(highlights) > maxHighlights {
		highlights = highlights[:maxHighlights]
	}
	entry := Experience{
		Title:      r.open.title,
		Company:    r.open.company,
		Start:      r.open.start,
		End:        r.open.end,
		Highlights: highlights,
	}
	if len(highlights) > 0 {
		entry.Summary = highlights[0]
	}
	r.finished = append(r.finished, entry)
	r.open = nil
}

var roleSeparators = []string{" — ", " – ", " - "}

// splitRoleCompany recognizes "role — company" headers. The left side must
// carry a role-hint word, and the separator must not sit inside a date range
// ("Jan 2020 - Dec 2021" is a date line, not a header).
func (e *Engine) splitRoleCompany(line string) (title, company string, ok bool) {
	dateSpans := dateRange.FindAllStringIndex(line, -1)
	for _, sep := range roleSeparators {
		idx := strings.Index(line, sep)
		if idx <= 0 {
			continue
		}
		if insideSpan(idx, dateSpans) {
			continue
		}
		left := collapseSpace(line[:idx])
		right := collapseSpace(line[idx+len(sep):])
		if left == "" || right == "" {
			continue
		}
		if !e.hasRoleHint(left) {
			continue
		}
		right = collapseSpace(parenthetical.ReplaceAllString(right, ""))
		return left, right, true
	}
	return "", "", false
}

func (e *Engine) hasRoleHint(s string) bool {
	lower := strings.ToLower(s)
	for _, hint := range e.cfg.RoleHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

func insideSpan(idx int, spans [][]int) bool {
	for _, span := range spans {
		if idx >= span[0] && idx < span[1] {
			return true
		}
	}
	return false
}

// synthesizeExperiences is the last-resort pass: lines mentioning a year or
// a role hint become bare entries, with the first two years read as the
// start/end range.
func (e *Engine) synthesizeExperiences(lines []string) []Experience {
	var out []Experience
	for _, line := range lines {
		if len(out) >= maxFallbackEntries {
			break
		}
		years := yearPattern.FindAllString(line, 2)
		if len(years) == 0 && !e.hasRoleHint(line) {
			continue
		}
		entry := Experience{
			Title:      truncate(line, maxSynthTitleLen),
			Highlights: []string{},
		}
		if len(years) > 0 {
			entry.Start = years[0]
		}
		if len(years) > 1 {
			entry.End = years[1]
		}
		out = append(out, entry)
	}
	return out
}
