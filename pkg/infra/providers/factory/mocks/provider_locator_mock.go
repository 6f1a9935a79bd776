package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/textmod/modgate/pkg/infra/providers"
)

type ProviderLocator struct {
	mock.Mock
}

func (m *ProviderLocator) Get(name string) (providers.Client, error) {
	args := m.Called(name)
	client, _ := args.Get(0).(providers.Client)
	return client, args.Error(1)
}
