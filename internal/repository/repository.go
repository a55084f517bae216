// Package repository declares the remote collection gateway the services
// depend on. internal/repository/sqlite is the implementation.
package repository

import (
	"context"

	"github.com/sakif/toolscope/internal/model"
)

// ToolRepository is the record service holding the tool collection.
//
// Every read returns normalized tools. GetByID returns an apperror NotFound
// when the id is absent; Update and Delete do the same. Create assigns the ID
// and timestamps on the passed tool.
type ToolRepository interface {
	GetAll(ctx context.Context) ([]model.Tool, error)
	GetByID(ctx context.Context, id string) (*model.Tool, error)
	GetByCategory(ctx context.Context, category model.Category) ([]model.Tool, error)
	GetByPricing(ctx context.Context, pricing model.Pricing) ([]model.Tool, error)
	Create(ctx context.Context, tool *model.Tool) error
	Update(ctx context.Context, tool *model.Tool) error
	Delete(ctx context.Context, id string) error
}
