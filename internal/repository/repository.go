// Package repository declares the storage interfaces the service layer
// depends on. Implementations live in subpackages (sqlite).
package repository

import (
	"context"

	"github.com/devready/code-runner/internal/model"
)

// ListOptions controls pagination for list queries.
type ListOptions struct {
	Limit  int
	Offset int
}

// RunRepository stores the history of executions.
type RunRepository interface {
	Create(ctx context.Context, run *model.Run) error
	GetByID(ctx context.Context, id string) (*model.Run, error)
	List(ctx context.Context, opts ListOptions) ([]model.Run, error)
}
