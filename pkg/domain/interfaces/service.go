package interfaces

import (
	"context"

	"github.com/secmon-lab/nem0/pkg/domain/model"
)

// MemoryService is the long-term memory gateway. Failures are wrapped with
// model.ErrMemoryOperation.
type MemoryService interface {
	// Search returns up to limit records of the user most relevant to query
	Search(ctx context.Context, query string, userID model.UserID, limit int) ([]*model.Memory, error)

	// Add ingests a conversation turn; the service decides which records it yields
	Add(ctx context.Context, turn model.Turn, userID model.UserID) error

	// ListAll returns every record of the user, newest first
	ListAll(ctx context.Context, userID model.UserID) ([]*model.Memory, error)

	// DeleteAll removes every record of the user
	DeleteAll(ctx context.Context, userID model.UserID) error
}

// CompletionService is the text generation gateway. Failures are wrapped with
// model.ErrCompletion.
type CompletionService interface {
	Complete(ctx context.Context, messages []model.Message) (string, error)
}
