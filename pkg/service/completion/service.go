package completion

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/nem0/pkg/domain/interfaces"
	"github.com/secmon-lab/nem0/pkg/domain/model"
	"github.com/secmon-lab/nem0/pkg/domain/types"
	"github.com/secmon-lab/nem0/pkg/utils/logging"
)

// Service generates assistant replies through a gollem session. Each call opens
// a fresh session, so no conversation state survives between calls.
type Service struct {
	llmClient gollem.LLMClient
}

var _ interfaces.CompletionService = &Service{}

func New(llmClient gollem.LLMClient) (*Service, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}
	return &Service{llmClient: llmClient}, nil
}

func wrapCompletionError(err error, msg string, opts ...goerr.Option) error {
	return goerr.Wrap(fmt.Errorf("%w: %w", model.ErrCompletion, err), msg, opts...)
}

func (s *Service) Complete(ctx context.Context, messages []model.Message) (string, error) {
	systemPrompt, texts := buildPrompt(messages)
	if len(texts) == 0 {
		return "", goerr.Wrap(model.ErrCompletion, "no user message to complete",
			goerr.V("messages", len(messages)))
	}

	inputs := make([]gollem.Input, len(texts))
	for i, text := range texts {
		inputs[i] = gollem.Text(text)
	}

	var opts []gollem.SessionOption
	if systemPrompt != "" {
		opts = append(opts, gollem.WithSessionSystemPrompt(systemPrompt))
	}

	session, err := s.llmClient.NewSession(ctx, opts...)
	if err != nil {
		return "", wrapCompletionError(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, inputs...)
	if err != nil {
		return "", wrapCompletionError(err, "failed to generate content from LLM")
	}

	var reply string
	if resp != nil {
		reply = strings.TrimSpace(strings.Join(resp.Texts, ""))
	}
	if reply == "" {
		return "", goerr.Wrap(model.ErrCompletion, "LLM returned an empty response")
	}

	logging.From(ctx).Debug("completion generated",
		"messages", len(messages),
		"reply_length", len(reply),
	)

	return reply, nil
}

// buildPrompt returns the system prompt and the trailing user texts to send.
// System messages are joined into the prompt. User and assistant turns up to the
// last assistant message are appended to it as a labeled transcript.
func buildPrompt(messages []model.Message) (string, []string) {
	var (
		systemParts []string
		history     []model.Message
		pending     []string
	)

	for _, msg := range messages {
		switch msg.Role {
		case types.RoleSystem:
			systemParts = append(systemParts, msg.Content)
		case types.RoleUser:
			pending = append(pending, msg.Content)
		case types.RoleAssistant:
			for _, text := range pending {
				history = append(history, model.UserMessage(text))
			}
			history = append(history, msg)
			pending = nil
		}
	}

	if len(history) > 0 {
		systemParts = append(systemParts, formatTranscript(history))
	}
	return strings.Join(systemParts, "\n\n"), pending
}

func formatTranscript(history []model.Message) string {
	var b strings.Builder
	b.WriteString("Conversation so far:")
	for _, msg := range history {
		label := "User"
		if msg.Role == types.RoleAssistant {
			label = "Assistant"
		}
		b.WriteString("\n")
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(msg.Content)
	}
	return b.String()
}
