package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/nem0/pkg/domain/interfaces"
	"github.com/secmon-lab/nem0/pkg/domain/model"
	"github.com/secmon-lab/nem0/pkg/utils/logging"
)

// MemoryUseCase exposes a user's stored memories for inspection and erasure
type MemoryUseCase struct {
	memory interfaces.MemoryService
}

func NewMemoryUseCase(memory interfaces.MemoryService) *MemoryUseCase {
	return &MemoryUseCase{memory: memory}
}

func (uc *MemoryUseCase) ListMemories(ctx context.Context, rawUserID string) ([]*model.Memory, model.UserID, error) {
	userID, err := parseUserID(rawUserID)
	if err != nil {
		return nil, "", err
	}

	memories, err := uc.memory.ListAll(ctx, userID)
	if err != nil {
		return nil, "", goerr.Wrap(err, "failed to list memories", goerr.V(model.UserIDKey, userID))
	}

	return memories, userID, nil
}

func (uc *MemoryUseCase) DeleteMemories(ctx context.Context, rawUserID string) (model.UserID, error) {
	userID, err := parseUserID(rawUserID)
	if err != nil {
		return "", err
	}

	if err := uc.memory.DeleteAll(ctx, userID); err != nil {
		return "", goerr.Wrap(err, "failed to delete memories", goerr.V(model.UserIDKey, userID))
	}

	logging.From(ctx).Info("memories deleted", "user_id", userID)
	return userID, nil
}
