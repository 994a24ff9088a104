package types

import "fmt"

// RepositoryBackend selects the memory store implementation
type RepositoryBackend string

const (
	RepositoryBackendMemory    RepositoryBackend = "memory"
	RepositoryBackendFirestore RepositoryBackend = "firestore"
	RepositoryBackendPostgres  RepositoryBackend = "postgres"
	RepositoryBackendChromem   RepositoryBackend = "chromem"
)

// IsValid checks if the backend is supported
func (b RepositoryBackend) IsValid() bool {
	switch b {
	case RepositoryBackendMemory,
		RepositoryBackendFirestore,
		RepositoryBackendPostgres,
		RepositoryBackendChromem:
		return true
	default:
		return false
	}
}

func (b RepositoryBackend) String() string {
	return string(b)
}

// ParseRepositoryBackend parses a string into a RepositoryBackend
func ParseRepositoryBackend(s string) (RepositoryBackend, error) {
	v := RepositoryBackend(s)
	if !v.IsValid() {
		return "", fmt.Errorf("invalid repository backend: %s", s)
	}
	return v, nil
}

// ExtractionPolicy decides how a conversation turn becomes memory records
type ExtractionPolicy string

const (
	// ExtractionPolicyLLM asks the language model to distill facts from the turn
	ExtractionPolicyLLM ExtractionPolicy = "llm"
	// ExtractionPolicyVerbatim stores each non-system message as-is
	ExtractionPolicyVerbatim ExtractionPolicy = "verbatim"
)

// IsValid checks if the extraction policy is supported
func (p ExtractionPolicy) IsValid() bool {
	switch p {
	case ExtractionPolicyLLM, ExtractionPolicyVerbatim:
		return true
	default:
		return false
	}
}

func (p ExtractionPolicy) String() string {
	return string(p)
}

// ParseExtractionPolicy parses a string into an ExtractionPolicy
func ParseExtractionPolicy(s string) (ExtractionPolicy, error) {
	v := ExtractionPolicy(s)
	if !v.IsValid() {
		return "", fmt.Errorf("invalid extraction policy: %s", s)
	}
	return v, nil
}
