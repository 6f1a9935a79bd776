package content

import (
	"strings"
	"time"
)

// Sample is one piece of user-submitted text entering the pipeline,
// together with the submission metadata kept for the audit trail.
type Sample struct {
	Text        string
	OriginIP    string
	ClientID    string
	SubmittedAt time.Time
}

// Normalized returns the text with surrounding whitespace removed; length
// validation and scoring both operate on this form.
func (s *Sample) Normalized() string {
	return strings.TrimSpace(s.Text)
}
