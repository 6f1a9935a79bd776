package decision

import (
	"fmt"

	"github.com/textmod/modgate/pkg/config"
	"github.com/textmod/modgate/pkg/domain/moderation"
)

// Verdict is the explained block decision. BlockReason is always set when
// IsBlocked is true; a bare boolean verdict is never produced.
type Verdict struct {
	IsBlocked   bool
	BlockReason string
}

// Engine applies the externally configured threshold table to the
// (possibly corrected) final scores. It consumes each dimension's own
// reported confidence; auto-block verdicts carry the matched case's
// provenance instead.
type Engine struct {
	cfg config.DecisionConfig
}

func NewEngine(cfg config.DecisionConfig) *Engine {
	return &Engine{cfg: cfg}
}

func (e *Engine) Decide(
	immoralScore, immoralConfidence, spamScore, spamConfidence float64,
) Verdict {
	if immoralScore >= e.cfg.ImmoralBlockThreshold && immoralConfidence >= e.cfg.MinConfidence {
		return Verdict{
			IsBlocked: true,
			BlockReason: fmt.Sprintf(
				"immoral score %.1f at or above block threshold %.1f (confidence %.1f)",
				immoralScore, e.cfg.ImmoralBlockThreshold, immoralConfidence,
			),
		}
	}
	if spamScore >= e.cfg.SpamBlockThreshold && spamConfidence >= e.cfg.MinConfidence {
		return Verdict{
			IsBlocked: true,
			BlockReason: fmt.Sprintf(
				"spam score %.1f at or above block threshold %.1f (confidence %.1f)",
				spamScore, e.cfg.SpamBlockThreshold, spamConfidence,
			),
		}
	}
	return Verdict{}
}

// DecideAutoBlock explains a fired shortcut.
func (e *Engine) DecideAutoBlock(d *moderation.AutoBlockDecision) Verdict {
	return Verdict{
		IsBlocked: true,
		BlockReason: fmt.Sprintf(
			"near-duplicate of confirmed %s case (similarity %.1f%%, recorded score %.1f, confidence %.1f)",
			d.Dimension, d.Similarity, d.MatchedScore, d.Confidence,
		),
	}
}
