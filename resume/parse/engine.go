// Package parse converts raw, linearized résumé text into a structured
// ResumeParsed record using heuristic segmentation and pattern matching.
//
// The engine is the fallback of record for LLM-based structuring: it is
// deterministic, pure and total. Any input, including empty or binary-garbled
// text, produces a well-formed record with absent fields left empty — it
// never returns an error.
package parse

import "regexp"

// maxInputBytes guards against pathological inputs (e.g. a single
// megabyte-long line). Longer text is truncated, never rejected.
const maxInputBytes = 1 << 20

// minPrimaryEntries is the two-pass fallback threshold: when the primary
// experience pass yields fewer entries, a second pass runs over all lines.
const minPrimaryEntries = 2

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?\(?\d[\d\s().\-]{6,}\d`)

	urlPattern    = regexp.MustCompile(`https?://[^\s]+`)
	wwwPattern    = regexp.MustCompile(`\bwww\.[^\s]+`)
	githubPattern = regexp.MustCompile(`\bgithub\.com/[^\s]+`)

	addressPattern  = regexp.MustCompile(`(?i)^address\s*[:\-]?\s*(.+)$`)
	contactCutoff   = regexp.MustCompile(`(?i)\b(phone|email)\b`)
	namePattern     = regexp.MustCompile(`^[A-Za-z][A-Za-z.,'\- ]{1,48}$`)
	labelPattern    = regexp.MustCompile(`(?i)^(address|phone(\s+number)?|email|github)\b`)
	parenthetical   = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
	yearPattern     = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	gpaPattern      = regexp.MustCompile(`(?i)\bGPA\s*[:\s]\s*([0-4](?:\.\d{1,2})?)\b`)
	degreePattern   = regexp.MustCompile(`(?i)\b(bachelor|master|ph\.?d|doctorate|associate|b\.?sc?\.?|b\.?a\.?|m\.?sc?\.?|m\.?a\.?|mba|diploma|bachelors|masters)\b`)
	dateRangeSingle = `(?:(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{4}|\d{4})`
	dateRangeEnd    = dateRangeSingle + `|present|current|now`
	dateRange       = regexp.MustCompile(`(?i)(` + dateRangeSingle + `)(?:\s*[-–—]\s*|\s+to\s+)(` + dateRangeEnd + `)`)
)

// Engine structures résumé text against a fixed, immutable Config. It holds
// no per-call state, so one Engine is safe for concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine builds an engine, filling zero-value Config fields from
// DefaultConfig.
func NewEngine(cfg Config) *Engine {
	defaults := DefaultConfig()
	if cfg.SkillVocabulary == nil {
		cfg.SkillVocabulary = defaults.SkillVocabulary
	}
	if cfg.Headings == nil {
		cfg.Headings = defaults.Headings
	}
	if cfg.HeadingHints == nil {
		cfg.HeadingHints = defaults.HeadingHints
	}
	if cfg.RoleHints == nil {
		cfg.RoleHints = defaults.RoleHints
	}
	if cfg.SchoolKeywords == nil {
		cfg.SchoolKeywords = defaults.SchoolKeywords
	}
	return &Engine{cfg: cfg}
}

// NewDefaultEngine builds an engine with the built-in vocabularies.
func NewDefaultEngine() *Engine {
	return NewEngine(DefaultConfig())
}

// Parse structures raw résumé text. It never fails: unrecognizable input
// yields a sparsely populated, fully-formed record.
func (e *Engine) Parse(text string) ResumeParsed {
	text = truncate(text, maxInputBytes)
	lines := splitLines(text)
	sections := e.classifySections(lines)

	basics := e.extractBasics(text, lines, sections)
	experiences := e.extractExperiences(lines, sections)
	education := e.extractEducation(lines, sections)
	skills := e.extractSkills(text)

	return assemble(basics, skills, experiences, education)
}
