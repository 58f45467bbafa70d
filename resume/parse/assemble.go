package parse

import "strings"

// assemble produces the final record from the extractor outputs. It is pure
// and total: any combination of empty inputs yields a well-formed value with
// non-nil slices and every cap enforced.
func assemble(basics Basics, skills []string, experiences []Experience, education []Education) ResumeParsed {
	if skills == nil {
		skills = []string{}
	}
	if len(skills) > maxSkills {
		skills = skills[:maxSkills]
	}

	experiences = dedupExperiences(experiences)
	if len(experiences) > maxExperiences {
		experiences = experiences[:maxExperiences]
	}
	for i := range experiences {
		experiences[i] = clampExperience(experiences[i])
	}

	education = dedupEducation(education)
	if len(education) > maxEducation {
		education = education[:maxEducation]
	}
	for i := range education {
		education[i] = clampEducation(education[i])
	}

	return ResumeParsed{
		Basics:      clampBasics(basics),
		Skills:      skills,
		Experiences: experiences,
		Education:   education,
	}
}

// Normalize applies the same caps and deduplication to an externally
// produced record, so callers can trust its shape regardless of origin.
func Normalize(r ResumeParsed) ResumeParsed {
	return assemble(r.Basics, r.Skills, r.Experiences, r.Education)
}

func clampBasics(b Basics) Basics {
	b.Name = truncate(b.Name, maxBasicsLen)
	b.Email = truncate(b.Email, maxBasicsLen)
	b.Phone = truncate(b.Phone, maxBasicsLen)
	b.Location = truncate(b.Location, maxBasicsLen)
	b.Link = truncate(b.Link, maxBasicsLen)
	b.Summary = truncate(b.Summary, maxSummaryLen)
	return b
}

func clampExperience(exp Experience) Experience {
	if exp.Highlights == nil {
		exp.Highlights = []string{}
	}
	if len(exp.Highlights) > maxHighlights {
		exp.Highlights = exp.Highlights[:maxHighlights]
	}
	exp.Title = truncate(exp.Title, maxBasicsLen)
	exp.Company = truncate(exp.Company, maxBasicsLen)
	return exp
}

func clampEducation(edu Education) Education {
	if edu.Descriptions == nil {
		edu.Descriptions = []string{}
	}
	if len(edu.Descriptions) > maxDescriptions {
		edu.Descriptions = edu.Descriptions[:maxDescriptions]
	}
	edu.School = truncate(edu.School, maxBasicsLen)
	edu.Degree = truncate(edu.Degree, maxBasicsLen)
	return edu
}

// dedupExperiences collapses entries sharing a normalized
// (title, company, start, end) key, keeping the first occurrence.
func dedupExperiences(entries []Experience) []Experience {
	seen := make(map[string]struct{}, len(entries))
	out := make([]Experience, 0, len(entries))
	for _, entry := range entries {
		key := strings.ToLower(strings.Join([]string{entry.Title, entry.Company, entry.Start, entry.End}, "|"))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, entry)
	}
	return out
}

// dedupEducation collapses entries sharing a normalized
// (school, degree, date) key.
func dedupEducation(entries []Education) []Education {
	seen := make(map[string]struct{}, len(entries))
	out := make([]Education, 0, len(entries))
	for _, entry := range entries {
		key := strings.ToLower(strings.Join([]string{entry.School, entry.Degree, entry.Date}, "|"))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, entry)
	}
	return out
}
