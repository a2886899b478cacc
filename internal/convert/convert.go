// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns one notebook file into one reStructuredText file.
// The notebook is fully loaded and rendered before anything is written, and
// the output is written to a temporary file that is renamed into place, so a
// failed conversion never leaves partial output behind.
package convert

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/nbrst/internal/notebook"
	"github.com/pdiddy/nbrst/internal/rst"
	"github.com/pdiddy/nbrst/pkg/types"
)

// Converter renders the notebook at inPath. NotebookConverter is the
// production implementation; tests substitute fakes.
type Converter interface {
	Convert(inPath string) (Rendering, error)
}

// Rendering is the in-memory result of converting a notebook.
type Rendering struct {
	Lines []string
	Stats rst.Stats

	// Checksum is the hex SHA-256 of the notebook bytes.
	Checksum string
}

// Result describes a completed or failed ConvertFile call.
type Result struct {
	Input       string
	Output      string
	Status      types.ConversionStatus
	Checksum    string
	Stats       rst.Stats
	ConvertedAt time.Time
}

// Record converts r into a history entry. err is the error ConvertFile
// returned alongside r, if any.
func (r Result) Record(err error) types.ConversionRecord {
	rec := types.ConversionRecord{
		Input:         r.Input,
		Output:        r.Output,
		Checksum:      r.Checksum,
		Status:        r.Status,
		Lines:         r.Stats.Lines,
		CodeCells:     r.Stats.CodeCells,
		MarkdownCells: r.Stats.MarkdownCells,
		ConvertedAt:   r.ConvertedAt,
	}
	if err != nil {
		rec.Error = err.Error()
	}
	return rec
}

// NotebookConverter reads notebook JSON from disk and renders it with the
// rst package.
type NotebookConverter struct {
	opts rst.Options
}

// NewNotebookConverter creates a converter using cfg's rendering settings.
func NewNotebookConverter(cfg types.ConversionConfig) *NotebookConverter {
	return &NotebookConverter{opts: rst.Options{Language: cfg.Language}}
}

// Convert loads the notebook at inPath and renders it.
func (n *NotebookConverter) Convert(inPath string) (Rendering, error) {
	f, err := os.Open(inPath)
	if err != nil {
		return Rendering{}, fmt.Errorf("reading notebook %s: %w", inPath, err)
	}
	defer f.Close()

	h := sha256.New()
	doc, err := notebook.Decode(io.TeeReader(f, h))
	if err != nil {
		return Rendering{}, fmt.Errorf("parsing notebook %s: %w", inPath, err)
	}

	lines, stats := rst.TransformWithStats(doc, n.opts)
	return Rendering{Lines: lines, Stats: stats, Checksum: hex.EncodeToString(h.Sum(nil))}, nil
}

// ConvertFile renders inPath with c and writes the lines to outPath,
// creating outPath's directory if needed. On error no output file is
// created or modified, and the returned Result has status failed.
func ConvertFile(c Converter, inPath, outPath string, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	result := Result{
		Input:       inPath,
		Output:      outPath,
		Status:      types.ConversionFailed,
		ConvertedAt: time.Now().UTC(),
	}

	logger.Debug("converting notebook", "input", inPath, "output", outPath)

	r, err := c.Convert(inPath)
	if err != nil {
		logger.Error("conversion failed", "input", inPath, "error", err)
		return result, err
	}
	result.Checksum = r.Checksum
	result.Stats = r.Stats

	if err := writeAtomic(outPath, r.Lines); err != nil {
		logger.Error("writing output failed", "output", outPath, "error", err)
		return result, err
	}

	result.Status = types.ConversionDone
	logger.Info("converted notebook",
		"input", inPath,
		"output", outPath,
		"code_cells", r.Stats.CodeCells,
		"markdown_cells", r.Stats.MarkdownCells,
		"skipped_cells", r.Stats.Skipped,
		"lines", r.Stats.Lines,
	)
	return result, nil
}

// writeAtomic writes lines to a temporary file beside path and renames it
// over path once every line is on disk.
func writeAtomic(path string, lines []string) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary output in %s: %w", dir, err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			os.Remove(tmp)
		}
	}()

	if err := rst.Write(f, lines); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp, err)
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("renaming %s to %s: %w", tmp, path, err)
	}
	return nil
}
