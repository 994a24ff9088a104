package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/nem0/pkg/domain/interfaces"
	"github.com/secmon-lab/nem0/pkg/domain/types"
	"github.com/secmon-lab/nem0/pkg/service/memory"
	"github.com/urfave/cli/v3"
)

// Memory holds CLI flags for the long-term memory service
type Memory struct {
	extraction string
	cacheSize  int64
}

// Flags returns CLI flags for memory service configuration
func (m *Memory) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "memory-extraction",
			Usage:       "How conversation turns become memories (llm, verbatim)",
			Category:    "Memory",
			Value:       types.ExtractionPolicyLLM.String(),
			Sources:     cli.EnvVars("NEM0_MEMORY_EXTRACTION"),
			Destination: &m.extraction,
		},
		&cli.Int64Flag{
			Name:        "embedding-cache-size",
			Usage:       "Number of query embeddings kept in memory. 0 disables the cache",
			Category:    "Memory",
			Value:       1024,
			Sources:     cli.EnvVars("NEM0_EMBEDDING_CACHE_SIZE"),
			Destination: &m.cacheSize,
		},
	}
}

func (m Memory) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("extraction", m.extraction),
		slog.Int64("embedding_cache_size", m.cacheSize),
	)
}

// Configure builds the memory service. Embeddings go through embedder and fact
// extraction through completion.
func (m *Memory) Configure(repo interfaces.MemoryRepository, embedder, completion gollem.LLMClient) (*memory.Service, error) {
	policy, err := types.ParseExtractionPolicy(m.extraction)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid memory extraction policy", goerr.V("policy", m.extraction))
	}
	if m.cacheSize < 0 {
		return nil, goerr.New("embedding-cache-size must not be negative", goerr.V("size", m.cacheSize))
	}

	svc, err := memory.New(repo, embedder,
		memory.WithExtractionPolicy(policy),
		memory.WithExtractionClient(completion),
		memory.WithEmbeddingCache(m.cacheSize),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create memory service")
	}
	return svc, nil
}
