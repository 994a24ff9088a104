package postgres

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/nem0/pkg/domain/interfaces"
	"github.com/secmon-lab/nem0/pkg/domain/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Postgres stores memories in PostgreSQL with the pgvector extension.
type Postgres struct {
	db     *gorm.DB
	memory *memoryRepository
}

var _ interfaces.Repository = &Postgres{}

type Option func(*gorm.Config)

// WithLogger replaces the gorm SQL logger. gorm logging is silent by default.
func WithLogger(l logger.Interface) Option {
	return func(cfg *gorm.Config) {
		cfg.Logger = l
	}
}

func New(ctx context.Context, dsn string, opts ...Option) (*Postgres, error) {
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	db, err := gorm.Open(postgres.Open(dsn), cfg)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open postgres connection")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get postgres connection pool")
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, goerr.Wrap(err, "failed to ping postgres")
	}

	return &Postgres{
		db:     db,
		memory: newMemoryRepository(db),
	}, nil
}

// Migrate enables pgvector and creates the memories table with its indexes.
func (p *Postgres) Migrate(ctx context.Context) error {
	db := p.db.WithContext(ctx)

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return goerr.Wrap(err, "failed to enable pgvector extension")
	}

	if err := db.AutoMigrate(&memoryRow{}); err != nil {
		return goerr.Wrap(err, "failed to migrate memories table")
	}

	indexSQL := fmt.Sprintf(
		"CREATE INDEX IF NOT EXISTS %s_embedding_idx ON %s USING hnsw (embedding vector_cosine_ops)",
		memoryTable, memoryTable,
	)
	if err := db.Exec(indexSQL).Error; err != nil {
		return goerr.Wrap(err, "failed to create embedding index",
			goerr.V("dimension", model.EmbeddingDimension),
		)
	}

	return nil
}

func (p *Postgres) Memory() interfaces.MemoryRepository {
	return p.memory
}

func (p *Postgres) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return goerr.Wrap(err, "failed to get postgres connection pool")
	}
	return sqlDB.Close()
}
