package embedding

import (
	"time"
)

// Embedding is a unit-normalized vector for one piece of submitted
// content. Value length must match the dimension the vector index was
// created with.
type Embedding struct {
	Value     []float64 `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}
