package moderation

import (
	"time"

	"github.com/google/uuid"

	"github.com/textmod/modgate/pkg/domain/casebase"
	"github.com/textmod/modgate/pkg/domain/content"
)

// LogEntry is the persisted audit record for one evaluated submission. It
// carries every intermediate value of the pipeline, not just the verdict,
// so decisions stay explainable after the fact. It is created once and
// mutated only by the admin confirmation step.
type LogEntry struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Content  string    `json:"content" gorm:"type:text"`
	OriginIP string    `json:"origin_ip"`
	ClientID string    `json:"client_id"`

	FinalImmoralScore float64 `json:"final_immoral_score" gorm:"index"`
	ImmoralConfidence float64 `json:"immoral_confidence"`
	FinalSpamScore    float64 `json:"final_spam_score" gorm:"index"`
	SpamConfidence    float64 `json:"spam_confidence"`

	DetectedTypes []string                `json:"detected_types" gorm:"serializer:json;type:jsonb"`
	Details       content.ScoreComponents `json:"details" gorm:"serializer:json;type:jsonb"`
	Rag           CorrectionResult        `json:"rag" gorm:"serializer:json;type:jsonb"`
	AutoBlock     AutoBlockDecision       `json:"auto_block" gorm:"serializer:json;type:jsonb"`

	AutoBlocked bool   `json:"auto_blocked"`
	IsBlocked   bool   `json:"is_blocked" gorm:"index"`
	BlockReason string `json:"block_reason"`
	Degraded    bool   `json:"degraded"`
	DurationMs  int64  `json:"duration_ms"`

	Confirmed      bool           `json:"confirmed"`
	ConfirmedLabel casebase.Label `json:"confirmed_label,omitempty" gorm:"type:varchar(16)"`
	ConfirmedAt    *time.Time     `json:"confirmed_at,omitempty"`
	ConfirmedBy    string         `json:"confirmed_by,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (LogEntry) TableName() string {
	return "moderation_logs"
}
