package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/sakif/toolscope/internal/apperror"
	"github.com/sakif/toolscope/internal/model"
)

// =========================================================================
// MOCK REPOSITORY
// =========================================================================
//
// mockToolRepo implements repository.ToolRepository in memory. failWith makes
// every call return that error, which is how the tests simulate the record
// service being down. calls counts gateway round trips.

type mockToolRepo struct {
	tools    map[string]*model.Tool
	nextID   int
	failWith error
	calls    int
}

func newMockRepo(tools ...model.Tool) *mockToolRepo {
	m := &mockToolRepo{tools: make(map[string]*model.Tool)}
	for _, tool := range tools {
		stored := tool
		m.tools[tool.ID] = &stored
	}
	return m
}

func (m *mockToolRepo) call() error {
	m.calls++
	return m.failWith
}

// sorted returns the tools ordered by name, the way the real gateway lists them.
func (m *mockToolRepo) sorted(keep func(model.Tool) bool) []model.Tool {
	result := make([]model.Tool, 0, len(m.tools))
	for _, tool := range m.tools {
		if keep(*tool) {
			result = append(result, *tool)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return strings.ToLower(result[i].Name) < strings.ToLower(result[j].Name)
	})
	return result
}

func (m *mockToolRepo) GetAll(_ context.Context) ([]model.Tool, error) {
	if err := m.call(); err != nil {
		return nil, err
	}
	return m.sorted(func(model.Tool) bool { return true }), nil
}

func (m *mockToolRepo) GetByID(_ context.Context, id string) (*model.Tool, error) {
	if err := m.call(); err != nil {
		return nil, err
	}
	tool, ok := m.tools[id]
	if !ok {
		return nil, apperror.NotFound("tool", id)
	}
	result := *tool
	return &result, nil
}

func (m *mockToolRepo) GetByCategory(_ context.Context, category model.Category) ([]model.Tool, error) {
	if err := m.call(); err != nil {
		return nil, err
	}
	return m.sorted(func(t model.Tool) bool { return t.Category == category }), nil
}

func (m *mockToolRepo) GetByPricing(_ context.Context, pricing model.Pricing) ([]model.Tool, error) {
	if err := m.call(); err != nil {
		return nil, err
	}
	return m.sorted(func(t model.Tool) bool { return t.Pricing == pricing }), nil
}

func (m *mockToolRepo) Create(_ context.Context, tool *model.Tool) error {
	if err := m.call(); err != nil {
		return err
	}
	m.nextID++
	tool.ID = fmt.Sprintf("mock-%d", m.nextID)
	stored := *tool
	m.tools[tool.ID] = &stored
	return nil
}

func (m *mockToolRepo) Update(_ context.Context, tool *model.Tool) error {
	if err := m.call(); err != nil {
		return err
	}
	if _, ok := m.tools[tool.ID]; !ok {
		return apperror.NotFound("tool", tool.ID)
	}
	stored := *tool
	m.tools[tool.ID] = &stored
	return nil
}

func (m *mockToolRepo) Delete(_ context.Context, id string) error {
	if err := m.call(); err != nil {
		return err
	}
	if _, ok := m.tools[id]; !ok {
		return apperror.NotFound("tool", id)
	}
	delete(m.tools, id)
	return nil
}

// =========================================================================
// MOCK SAVED SET AND RECORDER
// =========================================================================

type mockSavedSet struct {
	ids []string
}

func (m *mockSavedSet) IsSaved(id string) bool {
	for _, saved := range m.ids {
		if saved == id {
			return true
		}
	}
	return false
}

func (m *mockSavedSet) Toggle(id string) bool {
	for i, saved := range m.ids {
		if saved == id {
			m.ids = append(m.ids[:i], m.ids[i+1:]...)
			return false
		}
	}
	m.ids = append(m.ids, id)
	return true
}

func (m *mockSavedSet) ClearAll()         { m.ids = nil }
func (m *mockSavedSet) ListIDs() []string { return append([]string{}, m.ids...) }
func (m *mockSavedSet) Count() int        { return len(m.ids) }

type recordingRecorder struct {
	mu      sync.Mutex
	results []int
	toggles []bool
}

func (r *recordingRecorder) BrowseServed(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, n)
}

func (r *recordingRecorder) SavedToggled(saved bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toggles = append(r.toggles, saved)
}

// =========================================================================
// TEST HELPERS
// =========================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestToolService(t *testing.T, tools ...model.Tool) (*ToolService, *mockToolRepo) {
	t.Helper()
	repo := newMockRepo(tools...)
	return NewToolService(repo, NewValidator(), testLogger()), repo
}

func tool(id, name string, category model.Category, pricing model.Pricing, tags ...string) model.Tool {
	if tags == nil {
		tags = []string{}
	}
	return model.Tool{
		ID:          id,
		Name:        name,
		Description: name + " does things",
		Category:    category,
		Pricing:     pricing,
		Website:     "https://" + strings.ToLower(name) + ".example.com",
		Tags:        tags,
		Features:    []string{},
	}
}

func validDraft() model.ToolDraft {
	return model.ToolDraft{
		Name:        "  Quill  ",
		Description: "Quill rewrites paragraphs in any tone and checks grammar as you type.",
		Category:    "writing",
		Pricing:     "Freemium",
		Website:     "https://quill.example.com",
		Logo:        "https://quill.example.com/logo.PNG?v=2",
		Tags:        "ai, grammar ,ai,",
		Features:    "Tone rewrite\n\n Grammar check \n",
	}
}

func toolIDs(tools []model.Tool) []string {
	ids := make([]string, 0, len(tools))
	for _, t := range tools {
		ids = append(ids, t.ID)
	}
	return ids
}
