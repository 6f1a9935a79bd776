package embedding

import "errors"

var (
	ErrProviderNonOKResponse = errors.New("non-OK response from embeddings provider")
	ErrIndexUnavailable      = errors.New("similarity index unavailable")
)
