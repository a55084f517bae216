package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sakif/toolscope/internal/apperror"
	"github.com/sakif/toolscope/internal/model"
)

// newTestDB opens a fresh in-memory database that is dropped when the test ends.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestTool(t *testing.T, db *DB, name string, category model.Category, pricing model.Pricing, tags ...string) *model.Tool {
	t.Helper()
	tool := &model.Tool{
		Name:        name,
		Description: name + " description",
		Category:    category,
		Pricing:     pricing,
		Website:     "https://example.com/" + name,
		Logo:        "https://example.com/" + name + ".png",
		Tags:        tags,
		Features:    []string{"one", "two"},
	}
	if err := db.Create(context.Background(), tool); err != nil {
		t.Fatalf("failed to create test tool: %v", err)
	}
	return tool
}

// =========================================================================
// CREATE / GET
// =========================================================================

func TestCreate(t *testing.T) {
	db := newTestDB(t)

	tool := createTestTool(t, db, "Alpha", model.CategoryWriting, model.PricingFree, "ai", "text")

	if tool.ID == "" {
		t.Error("expected ID to be set after Create")
	}
	if tool.CreatedAt.IsZero() || tool.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set after Create")
	}
}

func TestCreate_VerifyPersistence(t *testing.T) {
	db := newTestDB(t)
	created := createTestTool(t, db, "Alpha", model.CategoryWriting, model.PricingFree, "ai", " text ", "ai")

	got, err := db.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if got.Name != "Alpha" {
		t.Errorf("Name = %q, want %q", got.Name, "Alpha")
	}
	if got.Category != model.CategoryWriting {
		t.Errorf("Category = %q, want %q", got.Category, model.CategoryWriting)
	}
	if got.Pricing != model.PricingFree {
		t.Errorf("Pricing = %q, want %q", got.Pricing, model.PricingFree)
	}
	if want := []string{"ai", "text"}; !reflect.DeepEqual(got.Tags, want) {
		t.Errorf("Tags = %v, want %v", got.Tags, want)
	}
	if want := []string{"one", "two"}; !reflect.DeepEqual(got.Features, want) {
		t.Errorf("Features = %v, want %v", got.Features, want)
	}
	if got.Logo != "https://example.com/Alpha.png" {
		t.Errorf("Logo = %q", got.Logo)
	}
}

func TestCreate_TagsWithCommasReadBackUnchanged(t *testing.T) {
	db := newTestDB(t)
	created := createTestTool(t, db, "Alpha", model.CategoryWriting, model.PricingFree, "a,b", "c")

	got, err := db.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(created.Tags, want) {
		t.Errorf("created Tags = %v, want %v", created.Tags, want)
	}
	if !reflect.DeepEqual(got.Tags, created.Tags) {
		t.Errorf("stored Tags = %v, created Tags = %v", got.Tags, created.Tags)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetByID(context.Background(), "nonexistent")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// A row written by something other than this package can hold tags as a
// messy comma string. Reads normalize it.
func TestGetByID_NormalizesStoredTags(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.insertRaw(ctx, "raw1", "Messy", "Code", "Paid", " x, y ,y,, ", "a\n\n b \n"); err != nil {
		t.Fatalf("insertRaw() error = %v", err)
	}

	got, err := db.GetByID(ctx, "raw1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if want := []string{"x", "y"}; !reflect.DeepEqual(got.Tags, want) {
		t.Errorf("Tags = %v, want %v", got.Tags, want)
	}
	if want := []string{"a", "b"}; !reflect.DeepEqual(got.Features, want) {
		t.Errorf("Features = %v, want %v", got.Features, want)
	}
}

func TestGetByID_EmptyTagsColumn(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.insertRaw(ctx, "raw2", "Bare", "Code", "Free", "", ""); err != nil {
		t.Fatalf("insertRaw() error = %v", err)
	}

	got, err := db.GetByID(ctx, "raw2")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Tags == nil || len(got.Tags) != 0 {
		t.Errorf("Tags = %#v, want empty non-nil slice", got.Tags)
	}
}

// =========================================================================
// LIST
// =========================================================================

func TestGetAll_Empty(t *testing.T) {
	db := newTestDB(t)

	tools, err := db.GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if tools == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(tools) != 0 {
		t.Errorf("expected 0 tools, got %d", len(tools))
	}
}

func TestGetAll_OrderedByName(t *testing.T) {
	db := newTestDB(t)
	createTestTool(t, db, "charlie", model.CategoryCode, model.PricingPaid)
	createTestTool(t, db, "Alpha", model.CategoryImage, model.PricingFree)
	createTestTool(t, db, "bravo", model.CategoryAudio, model.PricingFreemium)

	tools, err := db.GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}

	var names []string
	for _, tool := range tools {
		names = append(names, tool.Name)
	}
	if want := []string{"Alpha", "bravo", "charlie"}; !reflect.DeepEqual(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
}

func TestGetByCategory(t *testing.T) {
	db := newTestDB(t)
	createTestTool(t, db, "A", model.CategoryCode, model.PricingFree)
	createTestTool(t, db, "B", model.CategoryImage, model.PricingFree)
	createTestTool(t, db, "C", model.CategoryCode, model.PricingPaid)

	tools, err := db.GetByCategory(context.Background(), model.CategoryCode)
	if err != nil {
		t.Fatalf("GetByCategory() error = %v", err)
	}
	if len(tools) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(tools))
	}
	for _, tool := range tools {
		if tool.Category != model.CategoryCode {
			t.Errorf("unexpected category %q", tool.Category)
		}
	}
}

func TestGetByPricing(t *testing.T) {
	db := newTestDB(t)
	createTestTool(t, db, "A", model.CategoryCode, model.PricingFree)
	createTestTool(t, db, "B", model.CategoryImage, model.PricingEnterprise)

	tools, err := db.GetByPricing(context.Background(), model.PricingEnterprise)
	if err != nil {
		t.Fatalf("GetByPricing() error = %v", err)
	}
	if len(tools) != 1 || tools[0].Name != "B" {
		t.Errorf("got %v, want only B", tools)
	}

	none, err := db.GetByPricing(context.Background(), model.Pricing("Donationware"))
	if err != nil {
		t.Fatalf("GetByPricing() error = %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", none)
	}
}

// =========================================================================
// UPDATE / DELETE
// =========================================================================

func TestUpdate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	tool := createTestTool(t, db, "Old", model.CategoryCode, model.PricingFree, "a")
	createdAt := tool.CreatedAt

	tool.Name = "New"
	tool.Pricing = model.PricingPaid
	tool.Tags = []string{"b", "b", " c"}
	if err := db.Update(ctx, tool); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := db.GetByID(ctx, tool.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "New" || got.Pricing != model.PricingPaid {
		t.Errorf("got %+v, update not applied", got)
	}
	if want := []string{"b", "c"}; !reflect.DeepEqual(got.Tags, want) {
		t.Errorf("Tags = %v, want %v", got.Tags, want)
	}
	if !got.CreatedAt.Equal(createdAt) {
		t.Errorf("CreatedAt changed: %v -> %v", createdAt, got.CreatedAt)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.Update(context.Background(), &model.Tool{ID: "missing", Name: "x"})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	tool := createTestTool(t, db, "Doomed", model.CategoryCode, model.PricingFree)

	if err := db.Delete(ctx, tool.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err := db.GetByID(ctx, tool.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.Delete(context.Background(), "missing")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// =========================================================================
// FILE-BACKED
// =========================================================================

func TestNew_FileSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	ctx := context.Background()

	first, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	tool := createTestTool(t, first, "Kept", model.CategoryData, model.PricingFreemium, "sql")
	if err := first.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	second, err := New(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	t.Cleanup(func() { second.Close() })

	got, err := second.GetByID(ctx, tool.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "Kept" {
		t.Errorf("Name = %q, want Kept", got.Name)
	}
}

func TestMigrate_ToolsSchema(t *testing.T) {
	db := newTestDB(t)

	rows, err := db.conn.Query(`SELECT name FROM pragma_table_info('tools') ORDER BY cid`)
	if err != nil {
		t.Fatalf("pragma_table_info error = %v", err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("Scan() error = %v", err)
		}
		columns = append(columns, name)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("rows error = %v", err)
	}

	want := []string{"id", "name", "description", "category", "pricing", "website", "logo", "tags", "features", "created_at", "updated_at"}
	if !reflect.DeepEqual(columns, want) {
		t.Errorf("columns = %v, want %v", columns, want)
	}
}
