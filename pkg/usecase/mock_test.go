package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/nem0/pkg/domain/interfaces"
	"github.com/secmon-lab/nem0/pkg/domain/model"
	"github.com/secmon-lab/nem0/pkg/domain/types"
	repomem "github.com/secmon-lab/nem0/pkg/repository/memory"
	"github.com/secmon-lab/nem0/pkg/service/memory"
)

const testUserID = "5b0f3c1e-8f7a-4d8e-9a51-0c3f5e6b7a21"

// mockMemoryService records calls made by use cases
type mockMemoryService struct {
	searchFn func(ctx context.Context, query string, userID model.UserID, limit int) ([]*model.Memory, error)
	addFn    func(ctx context.Context, turn model.Turn, userID model.UserID) error

	searchQueries []string
	searchLimits  []int
	addedTurns    []model.Turn
}

var _ interfaces.MemoryService = &mockMemoryService{}

func (m *mockMemoryService) Search(ctx context.Context, query string, userID model.UserID, limit int) ([]*model.Memory, error) {
	m.searchQueries = append(m.searchQueries, query)
	m.searchLimits = append(m.searchLimits, limit)
	if m.searchFn != nil {
		return m.searchFn(ctx, query, userID, limit)
	}
	return []*model.Memory{}, nil
}

func (m *mockMemoryService) Add(ctx context.Context, turn model.Turn, userID model.UserID) error {
	m.addedTurns = append(m.addedTurns, turn)
	if m.addFn != nil {
		return m.addFn(ctx, turn, userID)
	}
	return nil
}

func (m *mockMemoryService) ListAll(ctx context.Context, userID model.UserID) ([]*model.Memory, error) {
	return []*model.Memory{}, nil
}

func (m *mockMemoryService) DeleteAll(ctx context.Context, userID model.UserID) error {
	return nil
}

func (m *mockMemoryService) calls() int {
	return len(m.searchQueries) + len(m.addedTurns)
}

// mockCompletionService records every prompt it receives
type mockCompletionService struct {
	completeFn func(ctx context.Context, messages []model.Message) (string, error)
	received   [][]model.Message
}

var _ interfaces.CompletionService = &mockCompletionService{}

func (m *mockCompletionService) Complete(ctx context.Context, messages []model.Message) (string, error) {
	m.received = append(m.received, messages)
	if m.completeFn != nil {
		return m.completeFn(ctx, messages)
	}
	return "Bundle slow movers with bestsellers.", nil
}

// embeddingLLM returns the same embedding for every text so any search matches every record
type embeddingLLM struct{}

func (embeddingLLM) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	return nil, nil
}

func (embeddingLLM) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	result := make([][]float64, len(input))
	for i := range input {
		vec := make([]float64, dimension)
		vec[0] = 1
		result[i] = vec
	}
	return result, nil
}

// newMemoryService builds the real memory service on the in-process repository
func newMemoryService(t *testing.T) *memory.Service {
	t.Helper()
	svc, err := memory.New(repomem.New().Memory(), embeddingLLM{},
		memory.WithExtractionPolicy(types.ExtractionPolicyVerbatim))
	gt.NoError(t, err).Required()
	return svc
}
