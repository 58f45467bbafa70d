package parse

import "strings"

// Description candidate bounds, distinct from highlight bounds: education
// blurbs skew longer than contact labels but shorter than pasted paragraphs.
const (
	minDescriptionLen  = 18
	maxDescriptionLen  = 220
	maxPendingDescribe = 4
)

type eduReducer struct {
	engine   *Engine
	open     *eduDraft
	finished []Education
}

type eduDraft struct {
	school  string
	degree  string
	gpa     string
	date    string
	pending []string
}

// extractEducation walks the education bucket (or all lines when no
// education heading was found) with the open/flush reducer.
func (e *Engine) extractEducation(lines []string, sections sectionLines) []Education {
	candidates := sections[SectionEducation]
	if len(candidates) == 0 {
		candidates = lines
	}
	r := eduReducer{engine: e}
	for _, line := range candidates {
		r.step(line)
	}
	r.flush()
	entries := dedupEducation(r.finished)
	if len(entries) > maxEducation {
		entries = entries[:maxEducation]
	}
	return entries
}

func (r *eduReducer) step(line string) {
	if _, isHeading := r.engine.headingSection(line); isHeading {
		r.flush()
		return
	}
	if r.engine.isSchoolLine(line) {
		r.flush()
		r.open = &eduDraft{school: line}
		return
	}
	if degreePattern.MatchString(line) {
		if r.open == nil {
			r.open = &eduDraft{degree: line}
			return
		}
		if r.open.degree == "" {
			r.open.degree = line
		}
		return
	}
	if r.open == nil {
		return
	}
	if m := dateRange.FindString(line); m != "" && r.open.date == "" {
		r.open.date = m
		return
	}
	if m := gpaPattern.FindStringSubmatch(line); m != nil && r.open.gpa == "" {
		r.open.gpa = m[1]
		return
	}
	if len(line) < minDescriptionLen || len(line) > maxDescriptionLen {
		return
	}
	if len(r.open.pending) < maxPendingDescribe {
		r.open.pending = append(r.open.pending, line)
	}
}

func (r *eduReducer) flush() {
	if r.open == nil {
		return
	}
	descriptions := dedupStrings(joinWrapped(r.open.pending))
	if len(descriptions) > maxDescriptions {
		descriptions = descriptions[:maxDescriptions]
	}
	r.finished = append(r.finished, Education{
		School:       r.open.school,
		Degree:       r.open.degree,
		GPA:          r.open.gpa,
		Date:         r.open.date,
		Descriptions: descriptions,
	})
	r.open = nil
}

// isSchoolLine reports whether a line names an institution: it must carry a
// school-type keyword and none of the work/project words that show up in
// employer blurbs.
func (e *Engine) isSchoolLine(line string) bool {
	lower := strings.ToLower(line)
	hit := false
	for _, kw := range e.cfg.SchoolKeywords {
		if strings.Contains(lower, kw) {
			hit = true
			break
		}
	}
	if !hit {
		return false
	}
	for _, kw := range nonSchoolKeywords {
		if strings.Contains(lower, kw) {
			return false
		}
	}
	return true
}
