package chromem

import (
	"context"
	"sort"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/philippgille/chromem-go"
	"github.com/secmon-lab/nem0/pkg/domain/model"
)

const (
	metaUserID    = "user_id"
	metaCreatedAt = "created_at"
)

type memoryRepository struct {
	db *chromem.DB
}

func newMemoryRepository(db *chromem.DB) *memoryRepository {
	return &memoryRepository{db: db}
}

func (r *memoryRepository) collection(userID model.UserID) (*chromem.Collection, error) {
	col, err := r.db.GetOrCreateCollection(collectionName(userID), nil, rejectEmbedding)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open memory collection", goerr.V(model.UserIDKey, userID))
	}
	return col, nil
}

func toDocument(userID model.UserID, mem *model.Memory) (*model.Memory, chromem.Document, error) {
	if len(mem.Embedding) != model.EmbeddingDimension {
		return nil, chromem.Document{}, goerr.New("memory embedding has unexpected dimension",
			goerr.V("expected", model.EmbeddingDimension),
			goerr.V("actual", len(mem.Embedding)),
		)
	}

	created := *mem
	if created.ID == "" {
		created.ID = model.NewMemoryID()
	}
	created.UserID = userID
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	// chromem normalizes embeddings in place
	embedding := make([]float32, len(created.Embedding))
	copy(embedding, created.Embedding)

	doc := chromem.Document{
		ID:        string(created.ID),
		Content:   created.Content,
		Embedding: embedding,
		Metadata: map[string]string{
			metaUserID:    userID.String(),
			metaCreatedAt: created.CreatedAt.Format(time.RFC3339Nano),
		},
	}
	return &created, doc, nil
}

func (r *memoryRepository) Create(ctx context.Context, userID model.UserID, mem *model.Memory) (*model.Memory, error) {
	created, doc, err := toDocument(userID, mem)
	if err != nil {
		return nil, err
	}

	col, err := r.collection(userID)
	if err != nil {
		return nil, err
	}

	if err := col.AddDocument(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to add memory document",
			goerr.V(model.UserIDKey, userID),
			goerr.V("memoryID", created.ID),
		)
	}

	return created, nil
}

// CreateBatch validates every entry before the first document is added.
func (r *memoryRepository) CreateBatch(ctx context.Context, userID model.UserID, memories []*model.Memory) ([]*model.Memory, error) {
	if len(memories) == 0 {
		return []*model.Memory{}, nil
	}

	created := make([]*model.Memory, len(memories))
	docs := make([]chromem.Document, len(memories))
	for i, mem := range memories {
		m, doc, err := toDocument(userID, mem)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid memory in batch", goerr.V("index", i))
		}
		created[i] = m
		docs[i] = doc
	}

	col, err := r.collection(userID)
	if err != nil {
		return nil, err
	}

	if err := col.AddDocuments(ctx, docs, 1); err != nil {
		return nil, goerr.Wrap(err, "failed to add memory documents",
			goerr.V(model.UserIDKey, userID),
			goerr.V("count", len(docs)),
		)
	}

	return created, nil
}

func (r *memoryRepository) List(ctx context.Context, userID model.UserID) ([]*model.Memory, error) {
	col, err := r.collection(userID)
	if err != nil {
		return nil, err
	}

	count := col.Count()
	if count == 0 {
		return []*model.Memory{}, nil
	}

	// chromem has no scan API; a query for every document returns the whole collection
	anchor := make([]float32, model.EmbeddingDimension)
	anchor[0] = 1
	results, err := col.QueryEmbedding(ctx, anchor, count, nil, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list memory documents", goerr.V(model.UserIDKey, userID))
	}

	memories, err := fromResults(userID, results)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(memories, func(i, j int) bool {
		return memories[i].CreatedAt.After(memories[j].CreatedAt)
	})
	return memories, nil
}

func (r *memoryRepository) FindByEmbedding(ctx context.Context, userID model.UserID, embedding []float32, limit int) ([]*model.Memory, error) {
	if limit <= 0 {
		return []*model.Memory{}, nil
	}

	col, err := r.collection(userID)
	if err != nil {
		return nil, err
	}

	count := col.Count()
	if count == 0 {
		return []*model.Memory{}, nil
	}
	if limit > count {
		limit = count
	}

	query := make([]float32, len(embedding))
	copy(query, embedding)

	results, err := col.QueryEmbedding(ctx, query, limit, nil, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query memory documents", goerr.V(model.UserIDKey, userID))
	}

	return fromResults(userID, results)
}

func (r *memoryRepository) DeleteAll(ctx context.Context, userID model.UserID) error {
	if err := r.db.DeleteCollection(collectionName(userID)); err != nil {
		return goerr.Wrap(err, "failed to delete memory collection", goerr.V(model.UserIDKey, userID))
	}
	return nil
}

func fromResults(userID model.UserID, results []chromem.Result) ([]*model.Memory, error) {
	memories := make([]*model.Memory, 0, len(results))
	for _, res := range results {
		createdAt, err := time.Parse(time.RFC3339Nano, res.Metadata[metaCreatedAt])
		if err != nil {
			return nil, goerr.Wrap(err, "failed to parse memory timestamp",
				goerr.V(model.UserIDKey, userID),
				goerr.V("memoryID", res.ID),
			)
		}

		memories = append(memories, &model.Memory{
			ID:        model.MemoryID(res.ID),
			UserID:    userID,
			Content:   res.Content,
			Embedding: res.Embedding,
			CreatedAt: createdAt,
		})
	}
	return memories, nil
}
