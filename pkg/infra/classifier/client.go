package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

//go:generate mockery --name=Client --dir=. --output=./mocks --filename=client_mock.go --case=underscore --with-expecter

// Client is the local classifier runtime: text in, calibrated score and
// confidence out, both on the 0-100 scale.
type Client interface {
	Predict(ctx context.Context, text string) (*Prediction, error)
}

type Prediction struct {
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
}

type httpClient struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	logger  *logrus.Logger
}

type predictRequest struct {
	Text string `json:"text"`
}

func NewHTTPClient(client *fasthttp.Client, baseURL string, timeout time.Duration, logger *logrus.Logger) Client {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &httpClient{
		client:  client,
		baseURL: baseURL,
		timeout: timeout,
		logger:  logger,
	}
}

func (c *httpClient) Predict(ctx context.Context, text string) (*Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(predictRequest{Text: text})
	if err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + "/predict")
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	if err := c.doRequestWithContext(ctx, req, resp); err != nil {
		return nil, err
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.WithField("response", string(resp.Body())).Error("non-OK response from classifier runtime")
		return nil, fmt.Errorf("classifier runtime returned status %d", resp.StatusCode())
	}

	var prediction Prediction
	if err := json.Unmarshal(resp.Body(), &prediction); err != nil {
		return nil, fmt.Errorf("failed to decode classifier response: %w", err)
	}

	return &prediction, nil
}

func (c *httpClient) doRequestWithContext(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- c.client.DoTimeout(req, resp, c.timeout)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		if err != nil {
			c.logger.WithError(err).Error("error performing HTTP request to classifier runtime")
		}
		return err
	}
}
