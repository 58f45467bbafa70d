package parse

import (
	"reflect"
	"testing"
)

func TestHeadingSection(t *testing.T) {
	engine := NewDefaultEngine()
	tests := []struct {
		line    string
		section Section
		ok      bool
	}{
		{"WORK EXPERIENCE", SectionWork, true},
		{"Work Experience", SectionWork, true}, // table match is case-insensitive via the key
		{"TECHNICAL SKILLS", SectionSkills, true},
		{"PROJECT EXPERIENCE", SectionWork, true}, // hint order: EXPERIENCE wins over PROJECT
		{"RELEVANT EXPERIENCE:", SectionWork, true},
		{"EDUCATION & TRAINING", SectionEducation, true},
		{"Experience 2020", "", false}, // digits disqualify
		{"I HAVE TEN YEARS OF EXPERIENCE IN SALES", "", false}, // too many words
		{"Built the ingestion service", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		section, ok := engine.headingSection(tt.line)
		if ok != tt.ok || section != tt.section {
			t.Errorf("headingSection(%q) = (%q, %v), want (%q, %v)", tt.line, section, ok, tt.section, tt.ok)
		}
	}
}

func TestClassifySectionsDropsHeadings(t *testing.T) {
	engine := NewDefaultEngine()
	got := engine.classifySections([]string{
		"Jane Doe",
		"SKILLS",
		"Go, SQL",
		"EDUCATION",
		"State College",
	})
	if !reflect.DeepEqual(got[SectionProfile], []string{"Jane Doe"}) {
		t.Errorf("profile = %v", got[SectionProfile])
	}
	if !reflect.DeepEqual(got[SectionSkills], []string{"Go, SQL"}) {
		t.Errorf("skills = %v", got[SectionSkills])
	}
	if !reflect.DeepEqual(got[SectionEducation], []string{"State College"}) {
		t.Errorf("education = %v", got[SectionEducation])
	}
}

func TestSplitRoleCompany(t *testing.T) {
	engine := NewDefaultEngine()
	tests := []struct {
		line    string
		title   string
		company string
		ok      bool
	}{
		{"Software Engineer — Acme Corp", "Software Engineer", "Acme Corp", true},
		{"Data Analyst - Initech (remote)", "Data Analyst", "Initech", true},
		{"Jan 2020 - Dec 2021", "", "", false},      // separator inside a date range
		{"Fluent in French - and German", "", "", false}, // left side has no role hint
		{"- leading dash", "", "", false},
	}
	for _, tt := range tests {
		title, company, ok := engine.splitRoleCompany(tt.line)
		if title != tt.title || company != tt.company || ok != tt.ok {
			t.Errorf("splitRoleCompany(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.line, title, company, ok, tt.title, tt.company, tt.ok)
		}
	}
}

func TestJoinWrapped(t *testing.T) {
	got := joinWrapped([]string{
		"Led the migration of the payment stack,",
		"including the ledger rewrite",
		"Owned on-call for the team",
	})
	want := []string{
		"Led the migration of the payment stack, including the ledger rewrite",
		"Owned on-call for the team",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("joinWrapped = %v, want %v", got, want)
	}
}

func TestDedupStrings(t *testing.T) {
	got := dedupStrings([]string{"Go", "go", "SQL", "Go"})
	if !reflect.DeepEqual(got, []string{"Go", "SQL"}) {
		t.Errorf("dedupStrings = %v", got)
	}
}

func TestCustomSkillVocabulary(t *testing.T) {
	engine := NewEngine(Config{SkillVocabulary: []string{"cobol", "fortran"}})
	got := engine.Parse("Maintains COBOL batch jobs and some Fortran models")
	if !reflect.DeepEqual(got.Skills, []string{"cobol", "fortran"}) {
		t.Errorf("skills = %v", got.Skills)
	}
}
