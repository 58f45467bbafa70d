package parse

// Section names a bucket of résumé lines assigned by heading detection.
type Section string

// Section buckets. Lines before the first recognized heading land in
// SectionProfile.
const (
	SectionProfile    Section = "profile"
	SectionSummary    Section = "summary"
	SectionSkills     Section = "skills"
	SectionWork       Section = "work"
	SectionProjects   Section = "projects"
	SectionEducation  Section = "education"
	SectionReferences Section = "references"
)

// Config carries the immutable vocabularies the engine matches against.
// A zero-value field falls back to the corresponding default table, so tests
// can swap a single vocabulary (e.g. a localized skill list) without
// restating the rest.
type Config struct {
	// SkillVocabulary is matched case-insensitively as substrings of the
	// full text; output preserves vocabulary order.
	SkillVocabulary []string
	// Headings maps a normalized heading form (letters and spaces only,
	// uppercased) to its section bucket.
	Headings map[string]Section
	// HeadingHints are substring fallbacks for ad-hoc ALL-CAPS headings,
	// checked in order.
	HeadingHints []HeadingHint
	// RoleHints validate the left side of a "role — company" line.
	RoleHints []string
	// SchoolKeywords mark a line as opening an education entry.
	SchoolKeywords []string
}

// HeadingHint pairs a normalized-heading substring with its section.
type HeadingHint struct {
	Substring string
	Section   Section
}

// DefaultConfig returns the built-in vocabularies.
func DefaultConfig() Config {
	return Config{
		SkillVocabulary: defaultSkillVocabulary,
		Headings:        defaultHeadings,
		HeadingHints:    defaultHeadingHints,
		RoleHints:       defaultRoleHints,
		SchoolKeywords:  defaultSchoolKeywords,
	}
}

var defaultHeadings = map[string]Section{
	"SUMMARY":                 SectionSummary,
	"PROFILE":                 SectionSummary,
	"PROFESSIONAL SUMMARY":    SectionSummary,
	"OBJECTIVE":               SectionSummary,
	"ABOUT ME":                SectionSummary,
	"SKILLS":                  SectionSkills,
	"TECHNICAL SKILLS":        SectionSkills,
	"CORE COMPETENCIES":       SectionSkills,
	"TECHNOLOGIES":            SectionSkills,
	"WORK EXPERIENCE":         SectionWork,
	"EXPERIENCE":              SectionWork,
	"PROFESSIONAL EXPERIENCE": SectionWork,
	"EMPLOYMENT":              SectionWork,
	"EMPLOYMENT HISTORY":      SectionWork,
	"WORK HISTORY":            SectionWork,
	"PROJECTS":                SectionProjects,
	"PERSONAL PROJECTS":       SectionProjects,
	"EDUCATION":               SectionEducation,
	"ACADEMIC BACKGROUND":     SectionEducation,
	"REFERENCES":              SectionReferences,
}

// Checked in order; EXPERIENCE before PROJECT so "PROJECT EXPERIENCE"
// resolves to work.
var defaultHeadingHints = []HeadingHint{
	{"EXPERIENCE", SectionWork},
	{"EMPLOYMENT", SectionWork},
	{"SKILL", SectionSkills},
	{"PROJECT", SectionProjects},
	{"EDUCATION", SectionEducation},
	{"REFERENCE", SectionReferences},
	{"SUMMARY", SectionSummary},
	{"PROFILE", SectionSummary},
}

var defaultRoleHints = []string{
	"engineer",
	"developer",
	"programmer",
	"architect",
	"manager",
	"director",
	"analyst",
	"consultant",
	"designer",
	"scientist",
	"researcher",
	"administrator",
	"specialist",
	"coordinator",
	"technician",
	"intern",
	"lead",
	"head",
	"founder",
	"officer",
	"president",
	"accountant",
	"teacher",
}

var defaultSchoolKeywords = []string{
	"university",
	"college",
	"institute",
	"school",
	"education",
}

// Keywords a school line must not contain, so company blurbs mentioning an
// "engineering school" partner do not open education entries.
var nonSchoolKeywords = []string{
	"experience",
	"work",
	"project",
}

var defaultSkillVocabulary = []string{
	"javascript",
	"typescript",
	"python",
	"java",
	"golang",
	"rust",
	"ruby",
	"php",
	"scala",
	"kotlin",
	"swift",
	"c++",
	"c#",
	"html",
	"css",
	"sql",
	"react",
	"angular",
	"vue",
	"svelte",
	"next.js",
	"node",
	"express",
	"django",
	"flask",
	"spring",
	"rails",
	"laravel",
	"graphql",
	"grpc",
	"rest",
	"postgres",
	"mysql",
	"mongodb",
	"redis",
	"elasticsearch",
	"kafka",
	"rabbitmq",
	"docker",
	"kubernetes",
	"terraform",
	"ansible",
	"aws",
	"azure",
	"gcp",
	"linux",
	"git",
	"jenkins",
	"ci/cd",
	"pytorch",
	"tensorflow",
	"pandas",
	"numpy",
	"spark",
	"hadoop",
	"airflow",
	"snowflake",
	"tableau",
	"excel",
	"jira",
	"figma",
	"agile",
	"scrum",
}
