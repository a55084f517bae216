package service

import (
	"context"
	"log/slog"

	"github.com/sakif/toolscope/internal/catalog"
	"github.com/sakif/toolscope/internal/model"
)

// Recorder receives business events for metrics. metrics.Metrics implements
// it; NopRecorder discards everything.
type Recorder interface {
	BrowseServed(results int)
	SavedToggled(saved bool)
}

// NopRecorder is a Recorder that records nothing.
type NopRecorder struct{}

func (NopRecorder) BrowseServed(int)  {}
func (NopRecorder) SavedToggled(bool) {}

// ListedTool is a tool in a result list, flagged with whether the user saved it.
type ListedTool struct {
	model.Tool
	Saved bool `json:"saved"`
}

// BrowseResult is one page of the directory: the filtered, sorted tools plus
// the facet data computed over the full collection.
type BrowseResult struct {
	Tools          []ListedTool           `json:"tools"`
	Total          int                    `json:"total"`
	Count          int                    `json:"count"`
	CategoryCounts map[model.Category]int `json:"categoryCounts"`
	PricingCounts  map[model.Pricing]int  `json:"pricingCounts"`
	AvailableTags  []string               `json:"availableTags"`
}

// BrowseService serves the directory listing.
type BrowseService struct {
	tools    *ToolService
	saved    SavedSet
	recorder Recorder
	logger   *slog.Logger
}

// NewBrowseService creates a BrowseService. A nil recorder records nothing.
func NewBrowseService(tools *ToolService, saved SavedSet, recorder Recorder, logger *slog.Logger) *BrowseService {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &BrowseService{
		tools:    tools,
		saved:    saved,
		recorder: recorder,
		logger:   logger,
	}
}

// Browse fetches the collection and applies state.
//
// Total, the facet counts and the available tags describe the full
// collection, so an unselected facet still shows what selecting it would
// add. Count is the size of the filtered result.
func (s *BrowseService) Browse(ctx context.Context, state catalog.FilterState) (*BrowseResult, error) {
	all, err := s.tools.List(ctx)
	if err != nil {
		return nil, err
	}

	filtered := catalog.FilterAndSort(all, state)

	listed := make([]ListedTool, 0, len(filtered))
	for _, tool := range filtered {
		listed = append(listed, ListedTool{Tool: tool, Saved: s.saved.IsSaved(tool.ID)})
	}

	s.recorder.BrowseServed(len(listed))
	s.logger.Debug("browse served",
		slog.String("query", state.SearchQuery),
		slog.String("sort", string(state.SortKey)),
		slog.Int("total", len(all)),
		slog.Int("count", len(listed)),
	)

	return &BrowseResult{
		Tools:          listed,
		Total:          len(all),
		Count:          len(listed),
		CategoryCounts: catalog.CountByCategory(all),
		PricingCounts:  catalog.CountByPricing(all),
		AvailableTags:  catalog.AllTags(all),
	}, nil
}
