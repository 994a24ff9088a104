package chromem

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/philippgille/chromem-go"
	"github.com/secmon-lab/nem0/pkg/domain/interfaces"
	"github.com/secmon-lab/nem0/pkg/domain/model"
)

// Chromem is an embedded vector store. Each user gets an own collection.
// With a path the database is persisted to disk, otherwise it lives in memory.
type Chromem struct {
	db     *chromem.DB
	memory *memoryRepository
}

var _ interfaces.Repository = &Chromem{}

func New(path string) (*Chromem, error) {
	var (
		db  *chromem.DB
		err error
	)

	if path == "" {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(path, false)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open chromem database", goerr.V("path", path))
		}
	}

	return &Chromem{
		db:     db,
		memory: newMemoryRepository(db),
	}, nil
}

func (c *Chromem) Memory() interfaces.MemoryRepository {
	return c.memory
}

func (c *Chromem) Close() error {
	return nil
}

func collectionName(userID model.UserID) string {
	return fmt.Sprintf("memories_%s", userID)
}

// rejectEmbedding prevents chromem from calling its default remote embedder.
// Embeddings are always computed by the memory service.
func rejectEmbedding(_ context.Context, _ string) ([]float32, error) {
	return nil, goerr.New("memory has no embedding")
}
