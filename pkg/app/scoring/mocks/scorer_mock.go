package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/textmod/modgate/pkg/domain/content"
)

type Scorer struct {
	mock.Mock
}

func (m *Scorer) Score(ctx context.Context, text string) (*content.ScoreComponents, error) {
	args := m.Called(ctx, text)
	comp, _ := args.Get(0).(*content.ScoreComponents)
	return comp, args.Error(1)
}
