package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/nem0/pkg/cli/config"
	"github.com/secmon-lab/nem0/pkg/service/completion"
	"github.com/secmon-lab/nem0/pkg/usecase"
	"github.com/secmon-lab/nem0/pkg/utils/logging"
	"github.com/secmon-lab/nem0/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

// runtime gathers the flag groups needed to assemble the use cases
type runtime struct {
	app    config.App
	repo   config.Repository
	llm    config.LLM
	memory config.Memory
}

func (r *runtime) Flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, r.app.Flags()...)
	flags = append(flags, r.repo.Flags()...)
	flags = append(flags, r.llm.Flags()...)
	flags = append(flags, r.memory.Flags()...)
	return flags
}

// build constructs the process-scoped dependencies once. The returned closer releases the repository.
func (r *runtime) build(ctx context.Context) (*usecase.UseCases, func(), error) {
	logger := logging.From(ctx)
	logger.Info("Runtime configuration",
		"app", r.app,
		"repository", r.repo,
		"llm", r.llm,
		"memory", r.memory,
	)

	assistant, err := r.app.Configure()
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to load app configuration")
	}

	llmClient, embedder, err := r.llm.Configure(ctx)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to configure LLM clients")
	}

	repo, err := r.repo.Configure(ctx)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to initialize repository")
	}
	closer := func() { safe.Close(ctx, repo) }

	memorySvc, err := r.memory.Configure(repo.Memory(), embedder, llmClient)
	if err != nil {
		closer()
		return nil, nil, err
	}

	completionSvc, err := completion.New(llmClient)
	if err != nil {
		closer()
		return nil, nil, goerr.Wrap(err, "failed to create completion service")
	}

	return usecase.New(memorySvc, completionSvc, usecase.WithAssistantConfig(assistant)), closer, nil
}
