package embedding

// SearchResult is one nearest-neighbor hit from the vector index.
// Score is a similarity in [0, 1] (1 is an exact match); Data carries
// the case document JSON stored beside the vector.
type SearchResult struct {
	Key   string
	Score float64
	Data  string
}
