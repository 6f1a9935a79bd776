package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"

	"github.com/textmod/modgate/pkg/domain/embedding"
)

const (
	// VectorDimension is the dimension the case-base index is created
	// with; vectors of any other size cannot be stored or searched.
	VectorDimension = 1536

	embeddingsEndpoint = "https://api.openai.com/v1/embeddings"
	requestTimeout     = 30 * time.Second
)

type embeddingClient struct {
	client *fasthttp.Client
	logger *logrus.Logger
}

type embeddingsRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

func NewOpenAIEmbeddingService(client *fasthttp.Client, logger *logrus.Logger) embedding.Creator {
	return &embeddingClient{
		client: client,
		logger: logger,
	}
}

// Generate embeds text through the OpenAI embeddings API and returns a
// unit-normalized vector, so the index's cosine distance stays in [0, 2].
func (c *embeddingClient) Generate(
	ctx context.Context,
	text, model string,
	config *embedding.Config,
) (*embedding.Embedding, error) {
	if config.Credentials.ApiKey == "" {
		return nil, fmt.Errorf("embeddings API key not provided")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(embeddingsRequest{Model: model, Input: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embeddings request: %w", err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(embeddingsEndpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Authorization", "Bearer "+config.Credentials.ApiKey)
	req.SetBody(body)

	if err := c.doRequestWithContext(ctx, req, resp); err != nil {
		return nil, err
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.WithField("response", string(resp.Body())).Error("non-OK response from embeddings API")
		return nil, fmt.Errorf("%w: %d", embedding.ErrProviderNonOKResponse, resp.StatusCode())
	}

	var parsed embeddingsResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode embeddings response: %w", err)
	}
	if len(parsed.Data) == 0 || len(parsed.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("empty embeddings from API")
	}

	vector := parsed.Data[0].Embedding
	if len(vector) != VectorDimension {
		return nil, fmt.Errorf("embedding dimension %d does not match index dimension %d", len(vector), VectorDimension)
	}
	normalize(vector)

	return &embedding.Embedding{
		Value:     vector,
		CreatedAt: time.Now(),
	}, nil
}

func (c *embeddingClient) doRequestWithContext(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- c.client.DoTimeout(req, resp, requestTimeout)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		if err != nil {
			c.logger.WithError(err).Error("error performing HTTP request for embeddings")
		}
		return err
	}
}

func normalize(v []float64) {
	var sumSquares float64
	for _, val := range v {
		sumSquares += val * val
	}
	norm := math.Sqrt(sumSquares)
	if norm == 0 {
		return
	}
	for i := range v {
		v[i] /= norm
	}
}
