package scoring

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/textmod/modgate/pkg/config"
	"github.com/textmod/modgate/pkg/infra/classifier"
	classifierMocks "github.com/textmod/modgate/pkg/infra/classifier/mocks"
	"github.com/textmod/modgate/pkg/infra/providers"
	locatorMocks "github.com/textmod/modgate/pkg/infra/providers/factory/mocks"
	providerMocks "github.com/textmod/modgate/pkg/infra/providers/mocks"
	"github.com/textmod/modgate/pkg/infra/rules"
)

func testEnsembleConfig() config.EnsembleConfig {
	return config.EnsembleConfig{
		BertWeight:                 0.4,
		LLMWeight:                  0.6,
		SpamLLMWeight:              0.7,
		SpamRuleWeight:             0.3,
		DegradedConfidenceDiscount: 0.7,
	}
}

func setupScorer(
	t *testing.T,
	classifierClient *classifierMocks.Client,
	provider *providerMocks.Client,
) *EnsembleScorer {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	matcher, err := rules.NewMatcher(config.RulesConfig{
		ProfanityWords:         []string{"idiot", "scum"},
		AdKeywords:             []string{"buy now"},
		ProfanityBoostPerMatch: 5,
		ProfanityBoostMax:      20,
	})
	require.NoError(t, err)

	locator := new(locatorMocks.ProviderLocator)
	locator.On("Get", "openai").Return(provider, nil)

	return NewEnsembleScorer(
		classifierClient,
		locator,
		matcher,
		config.ProviderConfig{Name: "openai", Model: "gpt-4o-mini"},
		testEnsembleConfig(),
		logger,
	)
}

func verdictResponse(body string) *providers.CompletionResponse {
	return &providers.CompletionResponse{Response: body}
}

func TestEnsembleScorer_BlendsBothHeads(t *testing.T) {
	classifierClient := new(classifierMocks.Client)
	provider := new(providerMocks.Client)
	scorer := setupScorer(t, classifierClient, provider)

	classifierClient.On("Predict", mock.Anything, "some neutral text").
		Return(&classifier.Prediction{Score: 50, Confidence: 80}, nil)
	provider.On("Ask", mock.Anything, mock.Anything, "some neutral text").
		Return(verdictResponse(`{"immoral_score": 70, "spam_score": 10, "confidence": 90, "categories": []}`), nil)

	comp, err := scorer.Score(context.Background(), "some neutral text")

	require.NoError(t, err)
	assert.InDelta(t, 50*0.4+70*0.6, comp.BaseScore, 0.001)
	assert.InDelta(t, comp.BaseScore, comp.FinalImmoral, 0.001)
	assert.InDelta(t, 80*0.4+90*0.6, comp.ImmoralConfidence, 0.001)
	assert.InDelta(t, 10*0.7, comp.FinalSpam, 0.001)
	assert.False(t, comp.Degraded)
	assert.Equal(t, []string{"none"}, comp.DetectedTypes)
}

func TestEnsembleScorer_ProfanityBoostIsAdditiveAndCapped(t *testing.T) {
	classifierClient := new(classifierMocks.Client)
	provider := new(providerMocks.Client)
	scorer := setupScorer(t, classifierClient, provider)

	text := "you idiot scum"
	classifierClient.On("Predict", mock.Anything, text).
		Return(&classifier.Prediction{Score: 60, Confidence: 80}, nil)
	provider.On("Ask", mock.Anything, mock.Anything, text).
		Return(verdictResponse(`{"immoral_score": 60, "spam_score": 0, "confidence": 90, "categories": []}`), nil)

	comp, err := scorer.Score(context.Background(), text)

	require.NoError(t, err)
	assert.Equal(t, 10.0, comp.ProfanityBoost) // two matches at 5 each
	assert.InDelta(t, comp.BaseScore+10, comp.FinalImmoral, 0.001)
	assert.Contains(t, comp.DetectedTypes, "abusive")
}

func TestEnsembleScorer_DegradesWhenHostedModelFails(t *testing.T) {
	classifierClient := new(classifierMocks.Client)
	provider := new(providerMocks.Client)
	scorer := setupScorer(t, classifierClient, provider)

	classifierClient.On("Predict", mock.Anything, "harmless").
		Return(&classifier.Prediction{Score: 30, Confidence: 80}, nil)
	provider.On("Ask", mock.Anything, mock.Anything, "harmless").
		Return(nil, errors.New("upstream timeout"))

	comp, err := scorer.Score(context.Background(), "harmless")

	require.NoError(t, err)
	assert.True(t, comp.Degraded)
	// The surviving head carries full weight and its confidence is
	// discounted.
	assert.InDelta(t, 30.0, comp.FinalImmoral, 0.001)
	assert.InDelta(t, 80*0.7, comp.ImmoralConfidence, 0.001)
	assert.InDelta(t, 60*0.7, comp.SpamConfidence, 0.001)
}

func TestEnsembleScorer_ReassignsWeightWhenClassifierFails(t *testing.T) {
	classifierClient := new(classifierMocks.Client)
	provider := new(providerMocks.Client)
	scorer := setupScorer(t, classifierClient, provider)

	classifierClient.On("Predict", mock.Anything, "text").
		Return(nil, errors.New("connection refused"))
	provider.On("Ask", mock.Anything, mock.Anything, "text").
		Return(verdictResponse(`{"immoral_score": 88, "spam_score": 5, "confidence": 75, "categories": []}`), nil)

	comp, err := scorer.Score(context.Background(), "text")

	require.NoError(t, err)
	assert.False(t, comp.Degraded)
	assert.InDelta(t, 88.0, comp.FinalImmoral, 0.001)
	assert.InDelta(t, 75.0, comp.ImmoralConfidence, 0.001)
}

func TestEnsembleScorer_FailsWhenBothHeadsFail(t *testing.T) {
	classifierClient := new(classifierMocks.Client)
	provider := new(providerMocks.Client)
	scorer := setupScorer(t, classifierClient, provider)

	classifierClient.On("Predict", mock.Anything, "text").
		Return(nil, errors.New("connection refused"))
	provider.On("Ask", mock.Anything, mock.Anything, "text").
		Return(nil, errors.New("upstream timeout"))

	_, err := scorer.Score(context.Background(), "text")

	assert.Error(t, err)
}

func TestEnsembleScorer_MergesRuleAndModelCategories(t *testing.T) {
	classifierClient := new(classifierMocks.Client)
	provider := new(providerMocks.Client)
	scorer := setupScorer(t, classifierClient, provider)

	text := "buy now you idiot"
	classifierClient.On("Predict", mock.Anything, text).
		Return(&classifier.Prediction{Score: 40, Confidence: 70}, nil)
	provider.On("Ask", mock.Anything, mock.Anything, text).
		Return(verdictResponse(`{"immoral_score": 50, "spam_score": 80, "confidence": 85, "categories": ["abusive_language"]}`), nil)

	comp, err := scorer.Score(context.Background(), text)

	require.NoError(t, err)
	assert.Contains(t, comp.DetectedTypes, "abusive")
	assert.Contains(t, comp.DetectedTypes, "advertising")
	assert.Contains(t, comp.DetectedTypes, "abusive_language")
	assert.NotContains(t, comp.DetectedTypes, "none")
}
