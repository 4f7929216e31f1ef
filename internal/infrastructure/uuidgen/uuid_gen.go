package uuidgen

import (
	"github.com/google/uuid"
	"github.com/mpikenya/mpi-backend/internal/domain/contract"
)

// Generator issues time-ordered (version 7) ids so new documents append to the _id index.
type Generator struct{}

var _ contract.IUUIDGenerator = (*Generator)(nil)

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) NewUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
