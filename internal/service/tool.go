// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler / CLI (edge)     → parses requests or flags, writes responses
//	Service (business layer) → validates, shapes data, orchestrates
//	Repository (data layer)  → reads/writes the tool collection
//
// The shaping itself (filtering, sorting, facet counts, tags) lives in the
// pure internal/catalog package. Services fetch the collection through the
// gateway, run it through catalog, and decorate the result with the user's
// saved set.
//
// ERRORS:
// Services return apperror values only. Repository failures other than
// NotFound are wrapped with apperror.Gateway, which the HTTP layer turns into
// a retryable 503. Nothing here retries on its own.
//
// THE DEPENDENCY CHAIN:
//
//	main.go creates:  DB → Repository → Service → Handler
//	At runtime:       Handler calls Service calls Repository calls DB
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/sakif/toolscope/internal/apperror"
	"github.com/sakif/toolscope/internal/catalog"
	"github.com/sakif/toolscope/internal/model"
	"github.com/sakif/toolscope/internal/repository"
)

// ToolService handles reads and writes of catalog entries.
type ToolService struct {
	repo      repository.ToolRepository
	validator *Validator
	logger    *slog.Logger
}

// NewToolService creates a new ToolService.
func NewToolService(repo repository.ToolRepository, validator *Validator, logger *slog.Logger) *ToolService {
	return &ToolService{
		repo:      repo,
		validator: validator,
		logger:    logger,
	}
}

// gatewayError passes domain errors through unchanged and wraps everything
// else as a retryable gateway failure.
func (s *ToolService) gatewayError(op string, err error) error {
	if errors.Is(err, apperror.ErrNotFound) || errors.Is(err, apperror.ErrValidation) {
		return err
	}
	s.logger.Error("gateway call failed",
		slog.String("op", op),
		slog.String("error", err.Error()),
	)
	return apperror.Gateway(op, err)
}

// List returns the whole collection, normalized.
func (s *ToolService) List(ctx context.Context) ([]model.Tool, error) {
	tools, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, s.gatewayError("listing tools", err)
	}
	return tools, nil
}

// GetByID returns one tool. Returns apperror.ErrNotFound when it doesn't exist.
func (s *ToolService) GetByID(ctx context.Context, id string) (*model.Tool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "tool ID is required")
	}

	tool, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.gatewayError("loading tool", err)
	}
	return tool, nil
}

// ToolDetail is a tool with up to catalog.DefaultRelatedLimit tools of the
// same category.
type ToolDetail struct {
	Tool    model.Tool   `json:"tool"`
	Related []model.Tool `json:"related"`
}

// Detail loads a tool and its related tools.
func (s *ToolService) Detail(ctx context.Context, id string) (*ToolDetail, error) {
	tool, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sameCategory, err := s.repo.GetByCategory(ctx, tool.Category)
	if err != nil {
		return nil, s.gatewayError("loading related tools", err)
	}

	return &ToolDetail{
		Tool:    *tool,
		Related: catalog.Related(sameCategory, *tool, catalog.DefaultRelatedLimit),
	}, nil
}

// ByCategory returns the tools in the named category. The name is matched
// case-insensitively against the known categories; any other name is looked
// up verbatim and usually yields an empty list.
func (s *ToolService) ByCategory(ctx context.Context, name string) ([]model.Tool, error) {
	category, ok := model.ParseCategory(name)
	if !ok {
		category = model.Category(strings.TrimSpace(name))
	}

	tools, err := s.repo.GetByCategory(ctx, category)
	if err != nil {
		return nil, s.gatewayError("listing tools by category", err)
	}
	return tools, nil
}

// ByPricing returns the tools on the named pricing tier.
func (s *ToolService) ByPricing(ctx context.Context, name string) ([]model.Tool, error) {
	pricing, ok := model.ParsePricing(name)
	if !ok {
		pricing = model.Pricing(strings.TrimSpace(name))
	}

	tools, err := s.repo.GetByPricing(ctx, pricing)
	if err != nil {
		return nil, s.gatewayError("listing tools by pricing", err)
	}
	return tools, nil
}

// AllTags returns every distinct tag in the collection, sorted.
func (s *ToolService) AllTags(ctx context.Context) ([]string, error) {
	tools, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.AllTags(tools), nil
}

// Categories returns the known categories with counts recomputed from the
// live collection.
func (s *ToolService) Categories(ctx context.Context) ([]catalog.CategoryCount, error) {
	tools, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Categories(tools), nil
}

// Submit validates a form submission and creates the tool.
//
// Every invalid field is reported at once in an apperror.ValidationErrors;
// nothing is written unless the whole draft is valid.
func (s *ToolService) Submit(ctx context.Context, draft model.ToolDraft) (*model.Tool, error) {
	if err := s.validator.ValidateDraft(&draft); err != nil {
		return nil, err
	}

	tool := draft.Tool()
	if err := s.repo.Create(ctx, &tool); err != nil {
		return nil, s.gatewayError("submitting tool", err)
	}

	s.logger.Info("tool submitted",
		slog.String("id", tool.ID),
		slog.String("name", tool.Name),
	)
	return &tool, nil
}

// Import creates a tool from a raw record, as read from an import file.
//
// Only the name is required: imported records are trusted the way the record
// service trusts them, and anything else is normalized on the way in.
func (s *ToolService) Import(ctx context.Context, raw model.RawTool) (*model.Tool, error) {
	raw.Name = strings.TrimSpace(raw.Name)
	if raw.Name == "" {
		return nil, apperror.ValidationFailed("name", "Tool name is required")
	}

	tool := model.Normalize(raw)
	if category, ok := model.ParseCategory(string(tool.Category)); ok {
		tool.Category = category
	}
	if pricing, ok := model.ParsePricing(string(tool.Pricing)); ok {
		tool.Pricing = pricing
	}

	if err := s.repo.Create(ctx, &tool); err != nil {
		return nil, s.gatewayError("importing tool", err)
	}

	s.logger.Debug("tool imported",
		slog.String("id", tool.ID),
		slog.String("name", tool.Name),
	)
	return &tool, nil
}

// Update replaces a tool's fields with a validated draft.
//
// Fetch then update: the NotFound comes from GetByID, and the stored ID and
// CreatedAt are kept.
func (s *ToolService) Update(ctx context.Context, id string, draft model.ToolDraft) (*model.Tool, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateDraft(&draft); err != nil {
		return nil, err
	}

	tool := draft.Tool()
	tool.ID = existing.ID
	tool.CreatedAt = existing.CreatedAt

	if err := s.repo.Update(ctx, &tool); err != nil {
		return nil, s.gatewayError("updating tool", err)
	}

	s.logger.Info("tool updated",
		slog.String("id", tool.ID),
		slog.String("name", tool.Name),
	)
	return &tool, nil
}

// Delete removes a tool. Saved ids pointing at it become stale and are
// dropped from the saved view.
func (s *ToolService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "tool ID is required")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.gatewayError("deleting tool", err)
	}

	s.logger.Info("tool deleted", slog.String("id", id))
	return nil
}
