package parse

import "strings"

// summaryFallbackLines bounds the summary fallback to the top of the résumé.
const summaryFallbackLines = 6

func (e *Engine) extractBasics(text string, lines []string, sections sectionLines) Basics {
	profileish := append(append([]string{}, sections[SectionProfile]...), sections[SectionSummary]...)
	if len(profileish) == 0 {
		profileish = lines
	}
	return Basics{
		Name:     e.extractName(profileish),
		Email:    emailPattern.FindString(text),
		Phone:    extractPhone(text),
		Location: extractLocation(lines),
		Link:     extractLink(text),
		Summary:  extractSummary(sections),
	}
}

// extractName returns the first short alphabetic line that does not look
// like contact data or a document title.
func (e *Engine) extractName(lines []string) string {
	for _, line := range lines {
		if !namePattern.MatchString(line) {
			continue
		}
		if strings.Contains(line, "@") || containsDigit(line) {
			continue
		}
		if strings.Contains(strings.ToLower(line), "resume") {
			continue
		}
		return line
	}
	return ""
}

// extractPhone returns the first permissive phone-shaped match carrying at
// least eight digits, filtering out date ranges and zip codes.
func extractPhone(text string) string {
	for _, candidate := range phonePattern.FindAllString(text, -1) {
		digits := 0
		for _, r := range candidate {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits >= 8 {
			return collapseSpace(candidate)
		}
	}
	return ""
}

// extractLocation pulls the text after an "Address:" label, stopping before
// a trailing Phone/Email label when contact data shares the line.
func extractLocation(lines []string) string {
	for _, line := range lines {
		m := addressPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		loc := m[1]
		if cut := contactCutoff.FindStringIndex(loc); cut != nil {
			loc = loc[:cut[0]]
		}
		return strings.TrimRight(collapseSpace(loc), ",;|")
	}
	return ""
}

// extractLink prefers full URLs, then www hosts, then bare GitHub paths;
// bare matches gain an https prefix.
func extractLink(text string) string {
	if m := urlPattern.FindString(text); m != "" {
		return strings.TrimRight(m, ".,;)")
	}
	if m := wwwPattern.FindString(text); m != "" {
		return "https://" + strings.TrimRight(m, ".,;)")
	}
	if m := githubPattern.FindString(text); m != "" {
		return "https://" + strings.TrimRight(m, ".,;)")
	}
	return ""
}

// extractSummary joins the summary bucket into one wrapped-line-merged blob,
// falling back to the first lines of the profile when no summary heading was
// found.
func extractSummary(sections sectionLines) string {
	source := sections[SectionSummary]
	if len(source) == 0 {
		profileish := append(append([]string{}, sections[SectionProfile]...), sections[SectionSummary]...)
		if len(profileish) > summaryFallbackLines {
			profileish = profileish[:summaryFallbackLines]
		}
		source = profileish
	}
	joined := strings.Join(joinWrapped(source), " ")
	return truncate(collapseSpace(joined), maxSummaryLen)
}
