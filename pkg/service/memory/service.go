package memory

import (
	"context"
	"fmt"

	"github.com/dgraph-io/ristretto"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/nem0/pkg/domain/interfaces"
	"github.com/secmon-lab/nem0/pkg/domain/model"
	"github.com/secmon-lab/nem0/pkg/domain/types"
	"github.com/secmon-lab/nem0/pkg/utils/logging"
)

const (
	opSearch    = "search"
	opAdd       = "add"
	opListAll   = "list_all"
	opDeleteAll = "delete_all"
)

// Service is the long-term memory gateway over a MemoryRepository and an
// embedding-capable LLM client.
type Service struct {
	repo      interfaces.MemoryRepository
	llmClient gollem.LLMClient
	extractor gollem.LLMClient
	policy    types.ExtractionPolicy
	cacheSize int64
	cache     *ristretto.Cache
}

var _ interfaces.MemoryService = &Service{}

// Option is a functional option for Service configuration
type Option func(*Service)

// WithExtractionPolicy selects how Add turns a conversation turn into records
func WithExtractionPolicy(policy types.ExtractionPolicy) Option {
	return func(s *Service) {
		s.policy = policy
	}
}

// WithExtractionClient runs fact extraction on client instead of the embedding client
func WithExtractionClient(client gollem.LLMClient) Option {
	return func(s *Service) {
		s.extractor = client
	}
}

// WithEmbeddingCache keeps up to size query embeddings in memory. Zero disables the cache.
func WithEmbeddingCache(size int64) Option {
	return func(s *Service) {
		s.cacheSize = size
	}
}

func New(repo interfaces.MemoryRepository, llmClient gollem.LLMClient, opts ...Option) (*Service, error) {
	if repo == nil {
		return nil, goerr.New("memory repository is required")
	}
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	s := &Service{
		repo:      repo,
		llmClient: llmClient,
		policy:    types.ExtractionPolicyLLM,
	}

	for _, opt := range opts {
		opt(s)
	}
	if s.extractor == nil {
		s.extractor = llmClient
	}

	if !s.policy.IsValid() {
		return nil, goerr.New("invalid extraction policy", goerr.V("policy", s.policy))
	}

	if s.cacheSize > 0 {
		cache, err := ristretto.NewCache(&ristretto.Config{
			NumCounters: s.cacheSize * 10,
			MaxCost:     s.cacheSize,
			BufferItems: 64,
		})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create embedding cache", goerr.V("size", s.cacheSize))
		}
		s.cache = cache
	}

	return s, nil
}

// wrapOpError marks err as a memory failure while keeping the upstream cause in the chain
func wrapOpError(err error, op string, msg string, opts ...goerr.Option) error {
	opts = append(opts, goerr.V(model.OperationKey, op))
	return goerr.Wrap(fmt.Errorf("%w: %w", model.ErrMemoryOperation, err), msg, opts...)
}

func (s *Service) Search(ctx context.Context, query string, userID model.UserID, limit int) ([]*model.Memory, error) {
	if query == "" || limit <= 0 {
		return []*model.Memory{}, nil
	}

	embedding, err := s.embedQuery(ctx, query)
	if err != nil {
		return nil, wrapOpError(err, opSearch, "failed to embed search query",
			goerr.V(model.UserIDKey, userID))
	}

	memories, err := s.repo.FindByEmbedding(ctx, userID, embedding, limit)
	if err != nil {
		return nil, wrapOpError(err, opSearch, "failed to search memories",
			goerr.V(model.UserIDKey, userID),
			goerr.V("limit", limit))
	}

	logging.From(ctx).Debug("memories searched",
		"user_id", userID,
		"limit", limit,
		"found", len(memories),
	)

	return memories, nil
}

func (s *Service) Add(ctx context.Context, turn model.Turn, userID model.UserID) error {
	var contents []string
	switch s.policy {
	case types.ExtractionPolicyVerbatim:
		contents = verbatimContents(turn)
	default:
		facts, err := s.extractFacts(ctx, turn)
		if err != nil {
			return wrapOpError(err, opAdd, "failed to extract facts from turn",
				goerr.V(model.UserIDKey, userID))
		}
		contents = facts
	}

	if len(contents) == 0 {
		logging.From(ctx).Debug("turn yielded no memories", "user_id", userID)
		return nil
	}

	embeddings, err := s.embed(ctx, contents)
	if err != nil {
		return wrapOpError(err, opAdd, "failed to embed memories",
			goerr.V(model.UserIDKey, userID),
			goerr.V("count", len(contents)))
	}

	memories := make([]*model.Memory, len(contents))
	for i, content := range contents {
		memories[i] = &model.Memory{
			Content:   content,
			Embedding: embeddings[i],
		}
	}
	if _, err := s.repo.CreateBatch(ctx, userID, memories); err != nil {
		return wrapOpError(err, opAdd, "failed to store memories",
			goerr.V(model.UserIDKey, userID),
			goerr.V("count", len(memories)))
	}

	logging.From(ctx).Debug("memories added",
		"user_id", userID,
		"policy", s.policy,
		"count", len(contents),
	)

	return nil
}

func (s *Service) ListAll(ctx context.Context, userID model.UserID) ([]*model.Memory, error) {
	memories, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, wrapOpError(err, opListAll, "failed to list memories",
			goerr.V(model.UserIDKey, userID))
	}
	return memories, nil
}

func (s *Service) DeleteAll(ctx context.Context, userID model.UserID) error {
	if err := s.repo.DeleteAll(ctx, userID); err != nil {
		return wrapOpError(err, opDeleteAll, "failed to delete memories",
			goerr.V(model.UserIDKey, userID))
	}
	return nil
}

func verbatimContents(turn model.Turn) []string {
	var contents []string
	for _, msg := range turn {
		if msg.Role == types.RoleSystem || msg.Content == "" {
			continue
		}
		contents = append(contents, msg.Content)
	}
	return contents
}
