package cli

import (
	"context"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/nem0/pkg/domain/model"
	"github.com/secmon-lab/nem0/pkg/domain/types"
	"github.com/secmon-lab/nem0/pkg/repository/postgres"
	"github.com/secmon-lab/nem0/pkg/utils/logging"
	"github.com/secmon-lab/nem0/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdMigrate() *cli.Command {
	var backend string
	var projectID string
	var databaseID string
	var postgresDSN string
	var dryRun bool

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Prepare indexes and tables of the memory store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "repository-backend",
				Usage:       "Backend to migrate (firestore or postgres)",
				Value:       types.RepositoryBackendFirestore.String(),
				Sources:     cli.EnvVars("NEM0_REPOSITORY_BACKEND"),
				Destination: &backend,
			},
			&cli.StringFlag{
				Name:        "firestore-project-id",
				Usage:       "Firestore Project ID (required for firestore)",
				Sources:     cli.EnvVars("NEM0_FIRESTORE_PROJECT_ID"),
				Destination: &projectID,
			},
			&cli.StringFlag{
				Name:        "firestore-database-id",
				Usage:       "Firestore Database ID",
				Sources:     cli.EnvVars("NEM0_FIRESTORE_DATABASE_ID"),
				Destination: &databaseID,
			},
			&cli.StringFlag{
				Name:        "postgres-dsn",
				Usage:       "PostgreSQL DSN (required for postgres)",
				Sources:     cli.EnvVars("NEM0_POSTGRES_DSN"),
				Destination: &postgresDSN,
			},
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "Preview Firestore changes without applying",
				Destination: &dryRun,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			logger.Info("Migrate configuration",
				"backend", backend,
				"projectID", projectID,
				"databaseID", databaseID,
				"dryRun", dryRun)

			switch types.RepositoryBackend(backend) {
			case types.RepositoryBackendFirestore:
				if projectID == "" {
					return goerr.New("firestore-project-id is required when migrating firestore")
				}
				return migrateFirestore(ctx, projectID, databaseID, dryRun)

			case types.RepositoryBackendPostgres:
				if postgresDSN == "" {
					return goerr.New("postgres-dsn is required when migrating postgres")
				}
				return migratePostgres(ctx, postgresDSN)

			default:
				logger.Info("Backend needs no migration", "backend", backend)
				return nil
			}
		},
	}
}

func migrateFirestore(ctx context.Context, projectID, databaseID string, dryRun bool) error {
	logger := logging.Default()

	client, err := fireconf.NewClient(ctx, projectID, databaseID)
	if err != nil {
		return goerr.Wrap(err, "failed to create fireconf client")
	}
	defer safe.Close(ctx, client)

	indexConfig := getIndexConfig()

	if dryRun {
		logger.Info("Dry run mode - previewing changes")
		plan, err := client.GetMigrationPlan(ctx, indexConfig)
		if err != nil {
			return goerr.Wrap(err, "failed to create migration plan")
		}

		if len(plan.Steps) == 0 {
			logger.Info("No changes required")
			return nil
		}

		for _, step := range plan.Steps {
			logger.Info("Migration step",
				"collection", step.Collection,
				"operation", step.Operation,
				"description", step.Description,
				"destructive", step.Destructive)
		}
		return nil
	}

	logger.Info("Applying migrations")
	if err := client.Migrate(ctx, indexConfig); err != nil {
		return goerr.Wrap(err, "failed to apply migrations")
	}
	logger.Info("Migrations applied successfully")
	return nil
}

func migratePostgres(ctx context.Context, dsn string) error {
	repo, err := postgres.New(ctx, dsn)
	if err != nil {
		return goerr.Wrap(err, "failed to connect postgres")
	}
	defer safe.Close(ctx, repo)

	if err := repo.Migrate(ctx); err != nil {
		return goerr.Wrap(err, "failed to migrate postgres")
	}
	logging.Default().Info("Migrations applied successfully")
	return nil
}

// getIndexConfig returns the Firestore index configuration. Each user's records live in a
// "memories" subcollection, so the vector index is declared on that collection ID.
func getIndexConfig() *fireconf.Config {
	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				Name: "memories",
				Indexes: []fireconf.Index{
					// FindByEmbedding: nearest neighbours of Embedding
					{
						Fields: []fireconf.IndexField{
							{
								Path: "Embedding",
								Vector: &fireconf.VectorConfig{
									Dimension: model.EmbeddingDimension,
								},
							},
						},
					},
				},
			},
		},
	}
}
