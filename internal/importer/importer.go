// Package importer bulk-loads tool records from a YAML or JSON file into the
// catalog, in batches with a pause between them so a remote record service
// isn't flooded.
package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sakif/toolscope/internal/model"
)

// Creator stores one record. *service.ToolService implements it.
type Creator interface {
	Import(ctx context.Context, raw model.RawTool) (*model.Tool, error)
}

// Options tunes a run. Zero values fall back to DefaultBatchSize and no pause.
type Options struct {
	BatchSize int
	Pause     time.Duration
}

// DefaultBatchSize is used when Options.BatchSize is not positive.
const DefaultBatchSize = 50

// Failure is one record that could not be imported.
type Failure struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// Report summarizes a run.
type Report struct {
	Total     int       `json:"total"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Failures  []Failure `json:"failures"`
}

// Importer feeds records to a Creator.
type Importer struct {
	creator Creator
	opts    Options
	logger  *slog.Logger
}

// New creates an Importer.
func New(creator Creator, opts Options, logger *slog.Logger) *Importer {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Pause < 0 {
		opts.Pause = 0
	}
	return &Importer{creator: creator, opts: opts, logger: logger}
}

// fileShape accepts either a bare list or {"tools": [...]}.
type fileShape struct {
	Tools []model.RawTool `json:"tools" yaml:"tools"`
}

// ReadFile decodes the records in path. Files ending in .json are read as
// JSON; everything else as YAML.
func ReadFile(path string) ([]model.RawTool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("importer: reading %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return decodeJSON(data)
	}
	return decodeYAML(data)
}

func decodeJSON(data []byte) ([]model.RawTool, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapped fileShape
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, fmt.Errorf("importer: decoding JSON: %w", err)
		}
		return nonNil(wrapped.Tools), nil
	}

	var records []model.RawTool
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("importer: decoding JSON: %w", err)
	}
	return nonNil(records), nil
}

func decodeYAML(data []byte) ([]model.RawTool, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("importer: decoding YAML: %w", err)
	}
	if len(root.Content) == 0 {
		return []model.RawTool{}, nil
	}

	doc := root.Content[0]
	if doc.Kind == yaml.MappingNode {
		var wrapped fileShape
		if err := doc.Decode(&wrapped); err != nil {
			return nil, fmt.Errorf("importer: decoding YAML: %w", err)
		}
		return nonNil(wrapped.Tools), nil
	}

	var records []model.RawTool
	if err := doc.Decode(&records); err != nil {
		return nil, fmt.Errorf("importer: decoding YAML: %w", err)
	}
	return nonNil(records), nil
}

func nonNil(records []model.RawTool) []model.RawTool {
	if records == nil {
		return []model.RawTool{}
	}
	return records
}

// Run imports records batch by batch and returns what happened.
//
// A failing record is counted and the run continues. Cancelling ctx stops the
// run between records; the partial report is returned with ctx.Err().
func (i *Importer) Run(ctx context.Context, records []model.RawTool) (*Report, error) {
	report := &Report{Total: len(records), Failures: []Failure{}}
	batches := (len(records) + i.opts.BatchSize - 1) / i.opts.BatchSize

	for b := 0; b < batches; b++ {
		start := b * i.opts.BatchSize
		end := min(start+i.opts.BatchSize, len(records))

		i.logger.Info("importing batch",
			slog.Int("batch", b+1),
			slog.Int("of", batches),
			slog.Int("size", end-start),
		)

		for _, raw := range records[start:end] {
			if err := ctx.Err(); err != nil {
				return report, err
			}

			if _, err := i.creator.Import(ctx, raw); err != nil {
				report.Failed++
				report.Failures = append(report.Failures, Failure{Name: raw.Name, Error: err.Error()})
				i.logger.Warn("import failed",
					slog.String("name", raw.Name),
					slog.String("error", err.Error()),
				)
				continue
			}
			report.Succeeded++
		}

		if b < batches-1 && i.opts.Pause > 0 {
			if err := sleep(ctx, i.opts.Pause); err != nil {
				return report, err
			}
		}
	}

	i.logger.Info("import finished",
		slog.Int("succeeded", report.Succeeded),
		slog.Int("failed", report.Failed),
	)
	return report, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
