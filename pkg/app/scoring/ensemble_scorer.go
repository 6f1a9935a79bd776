package scoring

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/textmod/modgate/pkg/config"
	"github.com/textmod/modgate/pkg/domain/content"
	"github.com/textmod/modgate/pkg/infra/classifier"
	"github.com/textmod/modgate/pkg/infra/providers"
	providersFactory "github.com/textmod/modgate/pkg/infra/providers/factory"
	"github.com/textmod/modgate/pkg/infra/rules"
)

// ruleHeadConfidence is the fixed confidence attributed to the rule-based
// spam head; pattern matches are precise but cover little.
const ruleHeadConfidence = 60

//go:generate mockery --name=Scorer --dir=. --output=./mocks --filename=scorer_mock.go --case=underscore --with-expecter

type Scorer interface {
	Score(ctx context.Context, text string) (*content.ScoreComponents, error)
}

// EnsembleScorer combines the local classifier head, the hosted-model head
// and the rule engine into the two-dimensional breakdown. A hosted-model
// failure or timeout degrades the result to the local contribution instead
// of failing the evaluation.
type EnsembleScorer struct {
	classifier      classifier.Client
	providerLocator providersFactory.ProviderLocator
	rules           *rules.Matcher
	breaker         *gobreaker.CircuitBreaker
	providerCfg     config.ProviderConfig
	cfg             config.EnsembleConfig
	logger          *logrus.Logger
}

func NewEnsembleScorer(
	classifierClient classifier.Client,
	providerLocator providersFactory.ProviderLocator,
	ruleMatcher *rules.Matcher,
	providerCfg config.ProviderConfig,
	cfg config.EnsembleConfig,
	logger *logrus.Logger,
) *EnsembleScorer {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "hosted-model",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &EnsembleScorer{
		classifier:      classifierClient,
		providerLocator: providerLocator,
		rules:           ruleMatcher,
		breaker:         breaker,
		providerCfg:     providerCfg,
		cfg:             cfg,
		logger:          logger,
	}
}

func (s *EnsembleScorer) Score(ctx context.Context, text string) (*content.ScoreComponents, error) {
	comp := &content.ScoreComponents{
		Weights: content.Weights{
			Bert: s.cfg.BertWeight,
			LLM:  s.cfg.LLMWeight,
		},
		SpamWeights: content.SpamWeights{
			LLM:  s.cfg.SpamLLMWeight,
			Rule: s.cfg.SpamRuleWeight,
		},
	}

	prediction, bertErr := s.classifier.Predict(ctx, text)
	if bertErr != nil {
		s.logger.WithError(bertErr).Error("local classifier call failed")
	} else {
		comp.BertScore = content.Clamp(prediction.Score)
		comp.BertConfidence = content.Clamp(prediction.Confidence)
	}

	verdict, llmErr := s.askHostedModel(ctx, text)
	if llmErr != nil {
		s.logger.WithError(llmErr).Warn("hosted model unavailable, degrading to local classifier")
		comp.Degraded = true
	} else {
		comp.LLMScore = content.Clamp(verdict.ImmoralScore)
		comp.LLMConfidence = content.Clamp(verdict.Confidence)
		comp.LLMSpamScore = content.Clamp(verdict.SpamScore)
	}

	if bertErr != nil && llmErr != nil {
		return nil, fmt.Errorf("both scoring heads failed: %w", llmErr)
	}

	boost, _ := s.rules.ProfanityBoost(text)
	comp.ProfanityBoost = boost
	ruleSpam, _ := s.rules.SpamScore(text)
	comp.RuleSpamScore = ruleSpam

	s.combine(comp, bertErr != nil)

	var llmCategories []string
	if verdict != nil {
		llmCategories = verdict.Categories
	}
	comp.DetectedTypes = content.MergeCategories(s.rules.Categories(text), llmCategories)

	return comp, nil
}

// combine folds the head outputs into the final per-dimension scores. When
// a head is missing its weight is reassigned to the surviving head so the
// final score still reflects a full-weight estimate.
func (s *EnsembleScorer) combine(comp *content.ScoreComponents, bertFailed bool) {
	weights := comp.Weights
	switch {
	case comp.Degraded:
		weights = content.Weights{Bert: 1, LLM: 0}
	case bertFailed:
		weights = content.Weights{Bert: 0, LLM: 1}
	}

	comp.BaseScore = comp.BertScore*weights.Bert + comp.LLMScore*weights.LLM
	comp.FinalImmoral = content.Clamp(comp.BaseScore + comp.ProfanityBoost)

	spamWeights := comp.SpamWeights
	if comp.Degraded {
		spamWeights = content.SpamWeights{LLM: 0, Rule: 1}
	}
	comp.FinalSpam = content.Clamp(comp.LLMSpamScore*spamWeights.LLM + comp.RuleSpamScore*spamWeights.Rule)

	if comp.Degraded {
		comp.ImmoralConfidence = content.Clamp(comp.BertConfidence * s.cfg.DegradedConfidenceDiscount)
		comp.SpamConfidence = content.Clamp(ruleHeadConfidence * s.cfg.DegradedConfidenceDiscount)
		return
	}

	comp.ImmoralConfidence = content.Clamp(comp.BertConfidence*weights.Bert + comp.LLMConfidence*weights.LLM)
	comp.SpamConfidence = content.Clamp(comp.LLMConfidence*spamWeights.LLM + ruleHeadConfidence*spamWeights.Rule)
}

func (s *EnsembleScorer) askHostedModel(ctx context.Context, text string) (*llmVerdict, error) {
	provider, err := s.providerLocator.Get(s.providerCfg.Name)
	if err != nil {
		return nil, err
	}

	timeout := s.providerCfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := s.breaker.Execute(func() (interface{}, error) {
		return provider.Ask(ctx, &providers.Config{
			Credentials:  providers.Credentials{ApiKey: s.providerCfg.ApiKey},
			Model:        s.providerCfg.Model,
			MaxTokens:    256,
			SystemPrompt: moderationSystemPrompt,
		}, text)
	})
	if err != nil {
		return nil, err
	}

	completion, ok := result.(*providers.CompletionResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected completion type %T", result)
	}

	return parseLLMVerdict(completion.Response)
}
