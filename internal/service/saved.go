package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/toolscope/internal/apperror"
	"github.com/sakif/toolscope/internal/catalog"
	"github.com/sakif/toolscope/internal/model"
)

// SavedSet is the saved-tools store as the services use it.
// *savedset.Store implements it.
type SavedSet interface {
	IsSaved(id string) bool
	Toggle(id string) bool
	ClearAll()
	ListIDs() []string
	Count() int
}

// ExportFilename is the suggested download name for an export made on day.
func ExportFilename(day time.Time) string {
	return fmt.Sprintf("toolscope-saved-tools-%s.json", day.Format("2006-01-02"))
}

// SavedService serves the saved-tools page and its export.
type SavedService struct {
	tools    *ToolService
	saved    SavedSet
	recorder Recorder
	logger   *slog.Logger
}

// NewSavedService creates a SavedService. A nil recorder records nothing.
func NewSavedService(tools *ToolService, saved SavedSet, recorder Recorder, logger *slog.Logger) *SavedService {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &SavedService{
		tools:    tools,
		saved:    saved,
		recorder: recorder,
		logger:   logger,
	}
}

// SavedTools returns the saved tools in collection order.
//
// With nothing saved it returns an empty list without calling the gateway.
// Ids whose tool no longer exists are skipped; they stay in the store.
func (s *SavedService) SavedTools(ctx context.Context) ([]model.Tool, error) {
	ids := s.saved.ListIDs()
	if len(ids) == 0 {
		return []model.Tool{}, nil
	}

	all, err := s.tools.List(ctx)
	if err != nil {
		return nil, err
	}

	tools := catalog.SelectByIDs(all, ids)
	if stale := len(ids) - len(tools); stale > 0 {
		s.logger.Debug("saved ids without a tool", slog.Int("stale", stale))
	}
	return tools, nil
}

// IsSaved reports whether id is saved.
func (s *SavedService) IsSaved(id string) bool {
	return s.saved.IsSaved(id)
}

// ToggleResult is the outcome of one toggle. ID is the id as stored,
// after trimming.
type ToggleResult struct {
	ID    string `json:"id"`
	Saved bool   `json:"saved"`
}

// Toggle flips id's membership and returns the new state.
func (s *SavedService) Toggle(id string) (ToggleResult, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return ToggleResult{}, apperror.ValidationFailed("id", "tool ID is required")
	}

	saved := s.saved.Toggle(id)
	s.recorder.SavedToggled(saved)
	s.logger.Info("saved tool toggled",
		slog.String("id", id),
		slog.Bool("saved", saved),
	)
	return ToggleResult{ID: id, Saved: saved}, nil
}

// Clear removes every saved id.
func (s *SavedService) Clear() {
	s.saved.ClearAll()
	s.logger.Info("saved tools cleared")
}

// Count is the number of saved ids, stale ones included.
func (s *SavedService) Count() int {
	return s.saved.Count()
}

// Export renders the saved tools as an indented JSON array of
// model.ExportedTool.
func (s *SavedService) Export(ctx context.Context) ([]byte, error) {
	tools, err := s.SavedTools(ctx)
	if err != nil {
		return nil, err
	}

	exported := make([]model.ExportedTool, 0, len(tools))
	for _, tool := range tools {
		exported = append(exported, tool.Export())
	}

	data, err := json.MarshalIndent(exported, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding export: %w", err)
	}
	return data, nil
}
