package casebase

import (
	"time"

	"github.com/google/uuid"
)

// Label is the human-confirmed ground truth attached to a case.
type Label string

const (
	LabelImmoral Label = "immoral"
	LabelSpam    Label = "spam"
	LabelClean   Label = "clean"
)

func (l Label) Valid() bool {
	switch l {
	case LabelImmoral, LabelSpam, LabelClean:
		return true
	default:
		return false
	}
}

type SourceType string

const (
	SourceLogConfirmation    SourceType = "log_confirmation"
	SourceReportConfirmation SourceType = "report_confirmation"
	SourceSeed               SourceType = "seed"
)

// Entry is one confirmed case in the durable case base. LogID is unique:
// re-confirming the same evaluated submission replaces the live case
// instead of accumulating a duplicate.
type Entry struct {
	ID    uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	LogID uuid.UUID `json:"log_id" gorm:"type:uuid;uniqueIndex"`

	Content      string  `json:"content" gorm:"type:text"`
	ImmoralScore float64 `json:"immoral_score"`
	SpamScore    float64 `json:"spam_score"`
	Confidence   float64 `json:"confidence"`

	ConfirmedLabel Label      `json:"confirmed_label" gorm:"type:varchar(16);index"`
	SourceType     SourceType `json:"source_type" gorm:"type:varchar(32)"`
	ConfirmedBy    string     `json:"confirmed_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"index"`
}

func (Entry) TableName() string {
	return "case_base_entries"
}
