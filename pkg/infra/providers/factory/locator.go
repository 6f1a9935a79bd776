package factory

import (
	"fmt"

	"github.com/textmod/modgate/pkg/infra/providers"
	"github.com/textmod/modgate/pkg/infra/providers/openai"
)

const (
	ProviderOpenAI = "openai"
)

//go:generate mockery --name=ProviderLocator --dir=. --output=./mocks --filename=provider_locator_mock.go --case=underscore --with-expecter

type ProviderLocator interface {
	Get(name string) (providers.Client, error)
}

type providerLocator struct{}

func NewProviderLocator() ProviderLocator {
	return &providerLocator{}
}

func (l *providerLocator) Get(name string) (providers.Client, error) {
	switch name {
	case ProviderOpenAI:
		return openai.NewOpenaiClient(), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
}
