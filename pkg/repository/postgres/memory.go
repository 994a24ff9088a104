package postgres

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pgvector/pgvector-go"
	"github.com/secmon-lab/nem0/pkg/domain/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const memoryTable = "memories"

type memoryRow struct {
	ID        string           `gorm:"primaryKey;type:text"`
	UserID    string           `gorm:"type:text;not null;index"`
	Content   string           `gorm:"type:text;not null"`
	Embedding *pgvector.Vector `gorm:"type:vector(768)"`
	CreatedAt time.Time        `gorm:"not null;index"`
}

// TableName implements gorm.Tabler.
func (memoryRow) TableName() string { return memoryTable }

func toMemoryRow(m *model.Memory) *memoryRow {
	row := &memoryRow{
		ID:        string(m.ID),
		UserID:    m.UserID.String(),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
	if len(m.Embedding) > 0 {
		v := pgvector.NewVector(m.Embedding)
		row.Embedding = &v
	}
	return row
}

func (r *memoryRow) toModel() *model.Memory {
	m := &model.Memory{
		ID:        model.MemoryID(r.ID),
		UserID:    model.UserID(r.UserID),
		Content:   r.Content,
		CreatedAt: r.CreatedAt.UTC(),
	}
	if r.Embedding != nil {
		m.Embedding = r.Embedding.Slice()
	}
	return m
}

type memoryRepository struct {
	db *gorm.DB
}

func newMemoryRepository(db *gorm.DB) *memoryRepository {
	return &memoryRepository{db: db}
}

func prepareMemory(userID model.UserID, mem *model.Memory) *model.Memory {
	created := *mem
	if created.ID == "" {
		created.ID = model.NewMemoryID()
	}
	created.UserID = userID
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}
	return &created
}

func (r *memoryRepository) Create(ctx context.Context, userID model.UserID, mem *model.Memory) (*model.Memory, error) {
	created := prepareMemory(userID, mem)
	if err := r.db.WithContext(ctx).Create(toMemoryRow(created)).Error; err != nil {
		return nil, goerr.Wrap(err, "failed to create memory",
			goerr.V(model.UserIDKey, userID),
			goerr.V("memoryID", created.ID),
		)
	}

	return created, nil
}

func (r *memoryRepository) CreateBatch(ctx context.Context, userID model.UserID, memories []*model.Memory) ([]*model.Memory, error) {
	if len(memories) == 0 {
		return []*model.Memory{}, nil
	}

	created := make([]*model.Memory, len(memories))
	rows := make([]*memoryRow, len(memories))
	for i, mem := range memories {
		created[i] = prepareMemory(userID, mem)
		rows[i] = toMemoryRow(created[i])
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(rows).Error
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create memories",
			goerr.V(model.UserIDKey, userID),
			goerr.V("count", len(memories)),
		)
	}

	return created, nil
}

func (r *memoryRepository) List(ctx context.Context, userID model.UserID) ([]*model.Memory, error) {
	var rows []memoryRow
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID.String()).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list memories", goerr.V(model.UserIDKey, userID))
	}

	memories := make([]*model.Memory, 0, len(rows))
	for i := range rows {
		memories = append(memories, rows[i].toModel())
	}
	return memories, nil
}

func (r *memoryRepository) FindByEmbedding(ctx context.Context, userID model.UserID, embedding []float32, limit int) ([]*model.Memory, error) {
	if limit <= 0 {
		return []*model.Memory{}, nil
	}

	var rows []memoryRow
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND embedding IS NOT NULL", userID.String()).
		Clauses(clause.OrderBy{
			Expression: clause.Expr{
				SQL:                "embedding <=> ?",
				Vars:               []any{pgvector.NewVector(embedding)},
				WithoutParentheses: true,
			},
		}).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search memories by embedding", goerr.V(model.UserIDKey, userID))
	}

	memories := make([]*model.Memory, 0, len(rows))
	for i := range rows {
		memories = append(memories, rows[i].toModel())
	}
	return memories, nil
}

func (r *memoryRepository) DeleteAll(ctx context.Context, userID model.UserID) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID.String()).
		Delete(&memoryRow{}).Error
	if err != nil {
		return goerr.Wrap(err, "failed to delete memories", goerr.V(model.UserIDKey, userID))
	}
	return nil
}
