package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/toolscope/internal/apperror"
	"github.com/sakif/toolscope/internal/model"
	"github.com/sakif/toolscope/internal/repository"
)

// compile-time check that *DB implements repository.ToolRepository
var _ repository.ToolRepository = (*DB)(nil)

const toolColumns = `id, name, description, category, pricing, website, logo, tags, features, created_at, updated_at`

// rowScanner is satisfied by both *sql.Row and *sql.Rows, so one scan
// function serves GetByID and the list queries.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTool reads one row into a raw record and normalizes it.
func scanTool(row rowScanner) (model.Tool, error) {
	var (
		raw      model.RawTool
		tags     string
		features string
	)
	err := row.Scan(
		&raw.ID,
		&raw.Name,
		&raw.Description,
		&raw.Category,
		&raw.Pricing,
		&raw.Website,
		&raw.Logo,
		&tags,
		&features,
		&raw.CreatedAt,
		&raw.UpdatedAt,
	)
	if err != nil {
		return model.Tool{}, err
	}

	raw.Tags = model.CommaTags(tags)
	raw.Features = model.ParseFeatures(features)
	return model.Normalize(raw), nil
}

// queryTools runs a SELECT returning tool rows and scans them all.
func (db *DB) queryTools(ctx context.Context, what, query string, args ...any) ([]model.Tool, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: %s: %w", what, err)
	}
	defer rows.Close()

	tools := make([]model.Tool, 0)
	for rows.Next() {
		tool, err := scanTool(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning tool row: %w", err)
		}
		tools = append(tools, tool)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating tools: %w", err)
	}

	return tools, nil
}

// GetAll returns the whole collection ordered by name, like the record
// service's default listing.
func (db *DB) GetAll(ctx context.Context) ([]model.Tool, error) {
	return db.queryTools(ctx, "listing tools",
		`SELECT `+toolColumns+`
		 FROM tools
		 ORDER BY name COLLATE NOCASE ASC, created_at ASC`,
	)
}

// GetByCategory returns tools whose stored category equals category exactly.
func (db *DB) GetByCategory(ctx context.Context, category model.Category) ([]model.Tool, error) {
	return db.queryTools(ctx, "listing tools by category",
		`SELECT `+toolColumns+`
		 FROM tools
		 WHERE category = ?
		 ORDER BY name COLLATE NOCASE ASC, created_at ASC`,
		string(category),
	)
}

// GetByPricing returns tools whose stored pricing equals pricing exactly.
func (db *DB) GetByPricing(ctx context.Context, pricing model.Pricing) ([]model.Tool, error) {
	return db.queryTools(ctx, "listing tools by pricing",
		`SELECT `+toolColumns+`
		 FROM tools
		 WHERE pricing = ?
		 ORDER BY name COLLATE NOCASE ASC, created_at ASC`,
		string(pricing),
	)
}

// GetByID retrieves a single tool. sql.ErrNoRows becomes apperror.NotFound.
func (db *DB) GetByID(ctx context.Context, id string) (*model.Tool, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+toolColumns+` FROM tools WHERE id = ?`,
		id,
	)

	tool, err := scanTool(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("tool", id)
		}
		return nil, fmt.Errorf("sqlite: getting tool %s: %w", id, err)
	}

	return &tool, nil
}

// Create inserts a tool. It assigns an xid as the ID and sets both
// timestamps on the caller's struct.
func (db *DB) Create(ctx context.Context, tool *model.Tool) error {
	tool.ID = xid.New().String()
	now := time.Now().UTC()
	tool.CreatedAt = now
	tool.UpdatedAt = now
	tool.Tags = model.NormalizeTags(tool.Tags)

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO tools (`+toolColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tool.ID,
		tool.Name,
		tool.Description,
		string(tool.Category),
		string(tool.Pricing),
		tool.Website,
		tool.Logo,
		model.JoinTags(tool.Tags),
		model.JoinFeatures(tool.Features),
		tool.CreatedAt,
		tool.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating tool: %w", err)
	}

	return nil
}

// Update rewrites every mutable column. id and created_at never change.
func (db *DB) Update(ctx context.Context, tool *model.Tool) error {
	tool.UpdatedAt = time.Now().UTC()
	tool.Tags = model.NormalizeTags(tool.Tags)

	result, err := db.conn.ExecContext(ctx,
		`UPDATE tools
		 SET name = ?, description = ?, category = ?, pricing = ?, website = ?,
		     logo = ?, tags = ?, features = ?, updated_at = ?
		 WHERE id = ?`,
		tool.Name,
		tool.Description,
		string(tool.Category),
		string(tool.Pricing),
		tool.Website,
		tool.Logo,
		model.JoinTags(tool.Tags),
		model.JoinFeatures(tool.Features),
		tool.UpdatedAt,
		tool.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating tool %s: %w", tool.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("tool", tool.ID)
	}

	return nil
}

// Delete removes a tool by ID.
func (db *DB) Delete(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM tools WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting tool %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("tool", id)
	}

	return nil
}

// insertRaw writes a row exactly as given, bypassing normalization. Tests use
// it to plant the messy data a real record service can hold.
func (db *DB) insertRaw(ctx context.Context, id, name, category, pricing, tags, features string) error {
	now := time.Now().UTC()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO tools (id, name, category, pricing, tags, features, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, name, category, pricing, tags, features, now, now,
	)
	return err
}
