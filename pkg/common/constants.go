package common

// CaseBaseIndexName is the RediSearch vector index holding confirmed-case
// embeddings.
const CaseBaseIndexName = "casebase"

type CacheConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	TLS      bool
}
