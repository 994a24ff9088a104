package interfaces

import (
	"context"

	"github.com/secmon-lab/nem0/pkg/domain/model"
)

// MemoryRepository defines the interface for Memory data persistence.
// Every method is scoped to a single user; implementations must never return
// another user's records.
type MemoryRepository interface {
	// Create stores a new memory entry. ID and CreatedAt are assigned when empty.
	Create(ctx context.Context, userID model.UserID, memory *model.Memory) (*model.Memory, error)

	// CreateBatch stores all given entries or none of them
	CreateBatch(ctx context.Context, userID model.UserID, memories []*model.Memory) ([]*model.Memory, error)

	// List retrieves all memory entries of the user, newest first
	List(ctx context.Context, userID model.UserID) ([]*model.Memory, error)

	// FindByEmbedding performs vector similarity search using cosine distance.
	// Returns up to limit Memory entries most similar to the given embedding.
	FindByEmbedding(ctx context.Context, userID model.UserID, embedding []float32, limit int) ([]*model.Memory, error)

	// DeleteAll irreversibly removes every memory entry of the user
	DeleteAll(ctx context.Context, userID model.UserID) error
}
