package model

import (
	"time"

	"github.com/google/uuid"
)

// EmbeddingDimension is the vector size requested from the embedding model
const EmbeddingDimension = 768

// MemoryID is a UUID-based identifier for Memory
type MemoryID string

// NewMemoryID generates a new UUID v4 MemoryID
func NewMemoryID() MemoryID {
	return MemoryID(uuid.New().String())
}

// Memory is one fact or conversational snippet remembered about a user.
// Records are never updated in place; the only removal is deleting every record of a user.
type Memory struct {
	ID        MemoryID
	UserID    UserID
	Content   string
	Embedding []float32 // Vector embedding for similarity search
	CreatedAt time.Time
}
