package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/nem0/pkg/domain/interfaces"
	"github.com/secmon-lab/nem0/pkg/domain/model"
	"github.com/secmon-lab/nem0/pkg/domain/model/config"
	"github.com/secmon-lab/nem0/pkg/domain/types"
	"github.com/secmon-lab/nem0/pkg/utils/logging"
)

//go:embed prompt/recommendation.md
var recommendationPromptTmpl string

var recommendationPrompt = template.Must(template.New("recommendation").Parse(recommendationPromptTmpl))

// RecommendationUseCase produces weekly advice and records feedback on it
type RecommendationUseCase struct {
	memory     interfaces.MemoryService
	completion interfaces.CompletionService
	assistant  *config.AssistantConfig
}

func NewRecommendationUseCase(memory interfaces.MemoryService, completion interfaces.CompletionService, assistant *config.AssistantConfig) *RecommendationUseCase {
	return &RecommendationUseCase{
		memory:     memory,
		completion: completion,
		assistant:  assistant,
	}
}

func (uc *RecommendationUseCase) Recommend(ctx context.Context, rawUserID string) (*model.Recommendation, error) {
	userID, err := parseUserID(rawUserID)
	if err != nil {
		return nil, err
	}

	memories, err := uc.memory.Search(ctx, uc.assistant.RecommendationQuery, userID, uc.assistant.RecommendationMemoryLimit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to recall memories for recommendation", goerr.V(model.UserIDKey, userID))
	}

	prompt, err := uc.buildPrompt(memories)
	if err != nil {
		return nil, err
	}

	text, err := uc.completion.Complete(ctx, []model.Message{
		model.SystemMessage(fmt.Sprintf("You are %s, an AI Seller Copilot.", uc.assistant.Name)),
		model.UserMessage(prompt),
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate recommendation", goerr.V(model.UserIDKey, userID))
	}

	actions := model.ParseActions(text)
	if len(actions) < model.MaxRecommendedActions {
		logging.From(ctx).Warn("recommendation has fewer actions than requested",
			"user_id", userID,
			"actions", len(actions),
		)
	}

	return &model.Recommendation{
		UserID:  userID,
		Text:    text,
		Actions: actions,
	}, nil
}

// TrackAction records whether the seller implemented or skipped a recommended action
func (uc *RecommendationUseCase) TrackAction(ctx context.Context, rawUserID, rawActionText, rawStatus string) (model.UserID, error) {
	userID, err := parseUserID(rawUserID)
	if err != nil {
		return "", err
	}

	actionText, err := model.SanitizeText(rawActionText, FieldActionText, model.MaxActionTextLength)
	if err != nil {
		return "", err
	}

	status, err := types.ParseActionStatus(rawStatus)
	if err != nil {
		return "", invalidField(FieldStatus, rawStatus, err)
	}

	feedback := &model.ActionFeedback{
		ActionText: actionText,
		Status:     status,
	}
	if err := uc.memory.Add(ctx, feedback.Turn(), userID); err != nil {
		return "", goerr.Wrap(err, "failed to store action feedback", goerr.V(model.UserIDKey, userID))
	}

	logging.From(ctx).Info("action tracked", "user_id", userID, "status", status)
	return userID, nil
}

func (uc *RecommendationUseCase) buildPrompt(memories []*model.Memory) (string, error) {
	data := sellerPromptData{
		AssistantName: uc.assistant.Name,
		SellerContext: formatSellerContext(memories, noRecommendationContext),
	}

	var buf bytes.Buffer
	if err := recommendationPrompt.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to render recommendation prompt")
	}
	return strings.TrimSpace(buf.String()), nil
}
