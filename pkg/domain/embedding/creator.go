package embedding

import (
	"context"
)

//go:generate mockery --name=Creator --dir=. --output=./mocks --filename=embedding_creator_mock.go --case=underscore --with-expecter

type Creator interface {
	Generate(ctx context.Context, text, model string, config *Config) (*Embedding, error)
}

type Config struct {
	Provider    string      `json:"provider"`
	Model       string      `json:"model"`
	Credentials Credentials `json:"credentials"`
}

type Credentials struct {
	ApiKey string `json:"api_key"`
}
