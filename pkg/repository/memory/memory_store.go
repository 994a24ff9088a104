package memory

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/secmon-lab/nem0/pkg/domain/model"
)

type memoryRepository struct {
	mu      sync.RWMutex
	entries map[model.UserID]map[model.MemoryID]*model.Memory
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		entries: make(map[model.UserID]map[model.MemoryID]*model.Memory),
	}
}

func copyMemory(m *model.Memory) *model.Memory {
	copied := &model.Memory{
		ID:        m.ID,
		UserID:    m.UserID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
	if m.Embedding != nil {
		copied.Embedding = make([]float32, len(m.Embedding))
		copy(copied.Embedding, m.Embedding)
	}
	return copied
}

func prepareMemory(userID model.UserID, mem *model.Memory) *model.Memory {
	created := copyMemory(mem)
	if created.ID == "" {
		created.ID = model.NewMemoryID()
	}
	created.UserID = userID
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}
	return created
}

func (r *memoryRepository) bucket(userID model.UserID) map[model.MemoryID]*model.Memory {
	bucket, exists := r.entries[userID]
	if !exists {
		bucket = make(map[model.MemoryID]*model.Memory)
		r.entries[userID] = bucket
	}
	return bucket
}

func (r *memoryRepository) Create(ctx context.Context, userID model.UserID, mem *model.Memory) (*model.Memory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := prepareMemory(userID, mem)
	r.bucket(userID)[created.ID] = created
	return copyMemory(created), nil
}

func (r *memoryRepository) CreateBatch(ctx context.Context, userID model.UserID, memories []*model.Memory) ([]*model.Memory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bucket := r.bucket(userID)
	result := make([]*model.Memory, len(memories))
	for i, mem := range memories {
		created := prepareMemory(userID, mem)
		bucket[created.ID] = created
		result[i] = copyMemory(created)
	}
	return result, nil
}

func (r *memoryRepository) List(ctx context.Context, userID model.UserID) ([]*model.Memory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket := r.entries[userID]
	result := make([]*model.Memory, 0, len(bucket))
	for _, m := range bucket {
		result = append(result, copyMemory(m))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

func (r *memoryRepository) FindByEmbedding(ctx context.Context, userID model.UserID, embedding []float32, limit int) ([]*model.Memory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket, exists := r.entries[userID]
	if !exists || limit <= 0 {
		return []*model.Memory{}, nil
	}

	type scored struct {
		memory *model.Memory
		score  float64
	}

	var candidates []scored
	for _, m := range bucket {
		if len(m.Embedding) == 0 {
			continue
		}
		s := cosineSimilarity(embedding, m.Embedding)
		candidates = append(candidates, scored{memory: copyMemory(m), score: s})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if limit > len(candidates) {
		limit = len(candidates)
	}

	result := make([]*model.Memory, limit)
	for i := 0; i < limit; i++ {
		result[i] = candidates[i].memory
	}

	return result, nil
}

func (r *memoryRepository) DeleteAll(ctx context.Context, userID model.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, userID)
	return nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}

	return dot / denom
}
