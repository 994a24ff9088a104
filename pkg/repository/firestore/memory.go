package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/nem0/pkg/domain/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	usersCollection    = "users"
	memoriesCollection = "memories"

	deleteBatchSize = 200
)

// memoryDoc is the Firestore document representation of model.Memory.
// Embedding is stored as firestore.Vector32 for FindNearest vector search.
type memoryDoc struct {
	ID        model.MemoryID     `firestore:"ID"`
	UserID    model.UserID       `firestore:"UserID"`
	Content   string             `firestore:"Content"`
	Embedding firestore.Vector32 `firestore:"Embedding,omitempty"`
	CreatedAt time.Time          `firestore:"CreatedAt"`
}

func toMemoryDoc(m *model.Memory) *memoryDoc {
	doc := &memoryDoc{
		ID:        m.ID,
		UserID:    m.UserID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
	if len(m.Embedding) > 0 {
		doc.Embedding = firestore.Vector32(m.Embedding)
	}
	return doc
}

func fromMemoryDoc(d *memoryDoc) *model.Memory {
	m := &model.Memory{
		ID:        d.ID,
		UserID:    d.UserID,
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
	}
	if len(d.Embedding) > 0 {
		m.Embedding = []float32(d.Embedding)
	}
	return m
}

type memoryRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newMemoryRepository(client *firestore.Client) *memoryRepository {
	return &memoryRepository{client: client}
}

// memories returns the subcollection path: users/{userID}/memories
func (r *memoryRepository) memories(userID model.UserID) *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + usersCollection).
		Doc(userID.String()).
		Collection(memoriesCollection)
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

	docRef := r.memories(userID).Doc(string(created.ID))
	if _, err := docRef.Set(ctx, toMemoryDoc(created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create memory",
			goerr.V(model.UserIDKey, userID),
			goerr.V("memoryID", created.ID),
		)
	}

	return created, nil
}

// CreateBatch writes every document in one transaction. IDs are fixed before the
// transaction starts, so a retried attempt writes the same documents.
func (r *memoryRepository) CreateBatch(ctx context.Context, userID model.UserID, memories []*model.Memory) ([]*model.Memory, error) {
	if len(memories) == 0 {
		return []*model.Memory{}, nil
	}

	created := make([]*model.Memory, len(memories))
	for i, mem := range memories {
		created[i] = prepareMemory(userID, mem)
	}

	col := r.memories(userID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for _, m := range created {
			if err := tx.Set(col.Doc(string(m.ID)), toMemoryDoc(m)); err != nil {
				return err
			}
		}
		return nil
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
	iter := r.memories(userID).
		OrderBy("CreatedAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	memories := make([]*model.Memory, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate memories", goerr.V(model.UserIDKey, userID))
		}

		var d memoryDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal memory", goerr.V("docID", doc.Ref.ID))
		}

		memories = append(memories, fromMemoryDoc(&d))
	}

	return memories, nil
}

func (r *memoryRepository) FindByEmbedding(ctx context.Context, userID model.UserID, embedding []float32, limit int) ([]*model.Memory, error) {
	if limit <= 0 {
		return []*model.Memory{}, nil
	}

	vq := r.memories(userID).
		FindNearest("Embedding", firestore.Vector32(embedding), limit, firestore.DistanceMeasureCosine, nil)

	iter := vq.Documents(ctx)
	defer iter.Stop()

	memories := make([]*model.Memory, 0, limit)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			if status.Code(err) == codes.FailedPrecondition {
				return nil, goerr.Wrap(err, "vector index for memories is missing, run migrate",
					goerr.V(model.UserIDKey, userID),
					goerr.V("dimension", len(embedding)),
				)
			}
			return nil, goerr.Wrap(err, "failed to iterate memory vector search results", goerr.V(model.UserIDKey, userID))
		}

		var d memoryDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal memory from vector search", goerr.V("docID", doc.Ref.ID))
		}

		memories = append(memories, fromMemoryDoc(&d))
	}

	return memories, nil
}

func (r *memoryRepository) DeleteAll(ctx context.Context, userID model.UserID) error {
	col := r.memories(userID)

	for {
		refs, err := col.Limit(deleteBatchSize).Select().Documents(ctx).GetAll()
		if err != nil {
			return goerr.Wrap(err, "failed to list memories for deletion", goerr.V(model.UserIDKey, userID))
		}
		if len(refs) == 0 {
			return nil
		}

		bw := r.client.BulkWriter(ctx)
		jobs := make([]*firestore.BulkWriterJob, 0, len(refs))
		for _, doc := range refs {
			job, err := bw.Delete(doc.Ref)
			if err != nil {
				bw.End()
				return goerr.Wrap(err, "failed to enqueue memory deletion",
					goerr.V(model.UserIDKey, userID),
					goerr.V("docID", doc.Ref.ID),
				)
			}
			jobs = append(jobs, job)
		}
		bw.End()

		for _, job := range jobs {
			if _, err := job.Results(); err != nil {
				return goerr.Wrap(err, "failed to delete memory", goerr.V(model.UserIDKey, userID))
			}
		}

		if len(refs) < deleteBatchSize {
			return nil
		}
	}
}
