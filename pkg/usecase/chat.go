package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/nem0/pkg/domain/interfaces"
	"github.com/secmon-lab/nem0/pkg/domain/model"
	"github.com/secmon-lab/nem0/pkg/domain/model/config"
	"github.com/secmon-lab/nem0/pkg/utils/logging"
)

//go:embed prompt/chat_system.md
var chatSystemPromptTmpl string

var chatSystemPrompt = template.Must(template.New("chat_system").Parse(chatSystemPromptTmpl))

// ChatUseCase answers seller messages with recalled memories injected into the prompt
type ChatUseCase struct {
	memory     interfaces.MemoryService
	completion interfaces.CompletionService
	assistant  *config.AssistantConfig
}

func NewChatUseCase(memory interfaces.MemoryService, completion interfaces.CompletionService, assistant *config.AssistantConfig) *ChatUseCase {
	return &ChatUseCase{
		memory:     memory,
		completion: completion,
		assistant:  assistant,
	}
}

// Chat validates the message, recalls related memories, generates a reply and
// writes the whole exchange back to memory.
func (uc *ChatUseCase) Chat(ctx context.Context, rawUserID, rawMessage string) (*model.ChatReply, error) {
	userID, err := parseUserID(rawUserID)
	if err != nil {
		return nil, err
	}

	message, err := model.SanitizeText(rawMessage, FieldMessage, model.MaxMessageLength)
	if err != nil {
		return nil, err
	}

	memories, err := uc.memory.Search(ctx, message, userID, uc.assistant.ChatMemoryLimit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to recall memories for chat", goerr.V(model.UserIDKey, userID))
	}

	systemPrompt, err := uc.buildSystemPrompt(memories)
	if err != nil {
		return nil, err
	}

	turn := model.Turn{
		model.SystemMessage(systemPrompt),
		model.UserMessage(message),
	}

	reply, err := uc.completion.Complete(ctx, turn)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate chat reply", goerr.V(model.UserIDKey, userID))
	}

	turn = append(turn, model.AssistantMessage(reply))
	if err := uc.memory.Add(ctx, turn, userID); err != nil {
		return nil, goerr.Wrap(err, "failed to store chat exchange", goerr.V(model.UserIDKey, userID))
	}

	logging.From(ctx).Info("chat reply generated",
		"user_id", userID,
		"memories_used", len(memories),
	)

	return &model.ChatReply{
		UserID:       userID,
		Reply:        reply,
		MemoriesUsed: len(memories),
	}, nil
}

func (uc *ChatUseCase) buildSystemPrompt(memories []*model.Memory) (string, error) {
	data := sellerPromptData{
		AssistantName: uc.assistant.Name,
		SellerContext: formatSellerContext(memories, noChatContext),
	}

	var buf bytes.Buffer
	if err := chatSystemPrompt.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to render chat system prompt")
	}
	return strings.TrimSpace(buf.String()), nil
}
