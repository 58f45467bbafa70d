package parses

import (
	"time"

	"resume-manager/resume/parse"
)

// ParseJob is one structuring run over a document's extracted text.
type ParseJob struct {
	ID            string              `json:"id"`
	UserID        string              `json:"userId"`
	DocumentID    string              `json:"documentId"`
	Status        string              `json:"status"`
	Source        string              `json:"source,omitempty"`
	ParserVersion string              `json:"parserVersion"`
	Result        *parse.ResumeParsed `json:"result,omitempty"`
	ErrorMessage  *string             `json:"errorMessage,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}
