package memory

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/nem0/pkg/domain/model"
)

// embedQuery returns the embedding of a search query, served from the cache when possible
func (s *Service) embedQuery(ctx context.Context, query string) ([]float32, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(query); ok {
			if cached, ok := v.([]float32); ok {
				return cached, nil
			}
		}
	}

	embeddings, err := s.embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(query, embeddings[0], 1)
		s.cache.Wait()
	}

	return embeddings[0], nil
}

// embed generates one embedding per text, converted to float32
func (s *Service) embed(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings, err := s.llmClient.GenerateEmbedding(ctx, model.EmbeddingDimension, texts)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate embedding")
	}

	if len(embeddings) != len(texts) {
		return nil, goerr.New("unexpected number of embeddings",
			goerr.V("expected", len(texts)),
			goerr.V("actual", len(embeddings)))
	}

	result := make([][]float32, len(embeddings))
	for i, emb := range embeddings {
		if len(emb) == 0 {
			return nil, goerr.New("empty embedding returned", goerr.V("index", i))
		}
		vec := make([]float32, len(emb))
		for j, v := range emb {
			vec[j] = float32(v)
		}
		result[i] = vec
	}

	return result, nil
}
