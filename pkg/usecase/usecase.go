package usecase

import (
	"github.com/secmon-lab/nem0/pkg/domain/interfaces"
	"github.com/secmon-lab/nem0/pkg/domain/model/config"
)

type UseCases struct {
	memory     interfaces.MemoryService
	completion interfaces.CompletionService
	assistant  *config.AssistantConfig

	Chat           *ChatUseCase
	Recommendation *RecommendationUseCase
	Profile        *ProfileUseCase
	CheckIn        *CheckInUseCase
	Memory         *MemoryUseCase
}

type Option func(*UseCases)

// WithAssistantConfig overrides the assistant name and memory search parameters
func WithAssistantConfig(cfg *config.AssistantConfig) Option {
	return func(uc *UseCases) {
		uc.assistant = cfg
	}
}

func New(memory interfaces.MemoryService, completion interfaces.CompletionService, opts ...Option) *UseCases {
	uc := &UseCases{
		memory:     memory,
		completion: completion,
		assistant:  config.DefaultAssistantConfig(),
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Chat = NewChatUseCase(memory, completion, uc.assistant)
	uc.Recommendation = NewRecommendationUseCase(memory, completion, uc.assistant)
	uc.Profile = NewProfileUseCase(memory, uc.assistant)
	uc.CheckIn = NewCheckInUseCase(memory)
	uc.Memory = NewMemoryUseCase(memory)

	return uc
}
