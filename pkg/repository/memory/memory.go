package memory

import (
	"github.com/secmon-lab/nem0/pkg/domain/interfaces"
)

// Memory is an in-process repository used for development and tests
type Memory struct {
	memory *memoryRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		memory: newMemoryRepository(),
	}
}

func (m *Memory) Memory() interfaces.MemoryRepository {
	return m.memory
}

func (m *Memory) Close() error {
	return nil
}
