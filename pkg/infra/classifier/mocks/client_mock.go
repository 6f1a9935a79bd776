package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/textmod/modgate/pkg/infra/classifier"
)

type Client struct {
	mock.Mock
}

func (m *Client) Predict(ctx context.Context, text string) (*classifier.Prediction, error) {
	args := m.Called(ctx, text)
	prediction, _ := args.Get(0).(*classifier.Prediction)
	return prediction, args.Error(1)
}
