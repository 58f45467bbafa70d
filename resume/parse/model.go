package parse

// ResumeParsed is the structured record produced from raw résumé text.
// All string fields are trimmed and whitespace-collapsed; absent data is an
// empty string or empty slice, never an error.
type ResumeParsed struct {
	Basics      Basics       `json:"basics"`
	Skills      []string     `json:"skills"`
	Experiences []Experience `json:"experiences"`
	Education   []Education  `json:"education"`
}

// Basics holds contact and profile fields.
type Basics struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Link     string `json:"link,omitempty"`
	Summary  string `json:"summary,omitempty"`
}

// Experience is one work-history entry. Start and end are free-form
// date-like strings taken verbatim from the source text.
type Experience struct {
	Title      string   `json:"title,omitempty"`
	Company    string   `json:"company,omitempty"`
	Start      string   `json:"start,omitempty"`
	End        string   `json:"end,omitempty"`
	Summary    string   `json:"summary,omitempty"`
	Highlights []string `json:"highlights"`
}

// Education is one education entry.
type Education struct {
	School       string   `json:"school,omitempty"`
	Degree       string   `json:"degree,omitempty"`
	GPA          string   `json:"gpa,omitempty"`
	Date         string   `json:"date,omitempty"`
	Descriptions []string `json:"descriptions"`
}

// Hard caps enforced by the assembler.
const (
	maxSkills       = 40
	maxSkillLen     = 80
	maxExperiences  = 6
	maxEducation    = 4
	maxHighlights   = 4
	maxDescriptions = 4
	maxSummaryLen   = 650
	maxBasicsLen    = 200
)
