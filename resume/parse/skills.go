package parse

import "strings"

// extractSkills keyword-matches the vocabulary against the lowercased full
// text. Output order follows vocabulary order, and the vocabulary itself is
// unique, so no dedup is needed.
func (e *Engine) extractSkills(text string) []string {
	lower := strings.ToLower(text)
	skills := make([]string, 0, 16)
	for _, skill := range e.cfg.SkillVocabulary {
		if len(skills) >= maxSkills {
			break
		}
		if skill == "" || len(skill) > maxSkillLen {
			continue
		}
		if strings.Contains(lower, strings.ToLower(skill)) {
			skills = append(skills, skill)
		}
	}
	return skills
}
