package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/claude"
	"github.com/m-mizutani/gollem/llm/openai"
	"github.com/urfave/cli/v3"
)

const (
	providerOpenAI = "openai"
	providerGemini = "gemini"
	providerClaude = "claude"
)

// LLM holds CLI flags for the completion and embedding clients
type LLM struct {
	provider          string
	model             string
	embeddingProvider string
	openaiAPIKey      string
	claudeAPIKey      string
	gemini            Gemini
}

// Flags returns CLI flags for LLM configuration
func (l *LLM) Flags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "llm-provider",
			Usage:       "LLM provider for completions (openai, gemini, claude)",
			Category:    "LLM",
			Value:       providerOpenAI,
			Sources:     cli.EnvVars("NEM0_LLM_PROVIDER"),
			Destination: &l.provider,
		},
		&cli.StringFlag{
			Name:        "llm-model",
			Usage:       "Model identifier for completions. Empty keeps the provider default",
			Category:    "LLM",
			Sources:     cli.EnvVars("NEM0_LLM_MODEL"),
			Destination: &l.model,
		},
		&cli.StringFlag{
			Name:        "embedding-provider",
			Usage:       "LLM provider for embeddings (openai, gemini). Defaults to --llm-provider",
			Category:    "LLM",
			Sources:     cli.EnvVars("NEM0_EMBEDDING_PROVIDER"),
			Destination: &l.embeddingProvider,
		},
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key",
			Category:    "LLM",
			Sources:     cli.EnvVars("NEM0_OPENAI_API_KEY", "OPENAI_API_KEY"),
			Destination: &l.openaiAPIKey,
		},
		&cli.StringFlag{
			Name:        "claude-api-key",
			Usage:       "Anthropic API key",
			Category:    "LLM",
			Sources:     cli.EnvVars("NEM0_CLAUDE_API_KEY"),
			Destination: &l.claudeAPIKey,
		},
	}
	return append(flags, l.gemini.Flags()...)
}

func (l LLM) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("provider", l.provider),
		slog.String("model", l.model),
		slog.String("embedding_provider", l.embeddingProviderName()),
		slog.Bool("openai_api_key", l.openaiAPIKey != ""),
		slog.Bool("claude_api_key", l.claudeAPIKey != ""),
	}
	if l.provider == providerGemini || l.embeddingProviderName() == providerGemini {
		attrs = append(attrs, slog.Any("gemini", slog.GroupValue(l.gemini.LogAttrs()...)))
	}
	return slog.GroupValue(attrs...)
}

func (l *LLM) embeddingProviderName() string {
	if l.embeddingProvider == "" {
		return l.provider
	}
	return l.embeddingProvider
}

// Configure builds the completion client and the embedding client. They are the same
// client when both roles use one provider.
func (l *LLM) Configure(ctx context.Context) (completion gollem.LLMClient, embedding gollem.LLMClient, err error) {
	embeddingProvider := l.embeddingProviderName()
	if embeddingProvider == providerClaude {
		return nil, nil, goerr.New("claude does not provide embeddings, set --embedding-provider to openai or gemini")
	}

	completion, err = l.newClient(ctx, l.provider, l.model)
	if err != nil {
		return nil, nil, err
	}

	if embeddingProvider == l.provider {
		return completion, completion, nil
	}

	embedding, err = l.newClient(ctx, embeddingProvider, "")
	if err != nil {
		return nil, nil, err
	}
	return completion, embedding, nil
}

func (l *LLM) newClient(ctx context.Context, provider, model string) (gollem.LLMClient, error) {
	switch provider {
	case providerOpenAI:
		if l.openaiAPIKey == "" {
			return nil, goerr.New("openai-api-key is required when using openai provider")
		}
		var opts []openai.Option
		if model != "" {
			opts = append(opts, openai.WithModel(model))
		}
		client, err := openai.New(ctx, l.openaiAPIKey, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create OpenAI client")
		}
		return client, nil

	case providerClaude:
		if l.claudeAPIKey == "" {
			return nil, goerr.New("claude-api-key is required when using claude provider")
		}
		var opts []claude.Option
		if model != "" {
			opts = append(opts, claude.WithModel(model))
		}
		client, err := claude.New(ctx, l.claudeAPIKey, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create Claude client")
		}
		return client, nil

	case providerGemini:
		return l.gemini.Configure(ctx, model)

	default:
		return nil, goerr.New("invalid LLM provider", goerr.V("provider", provider))
	}
}
