// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ConversionStatus indicates the outcome of converting one notebook.
type ConversionStatus string

const (
	ConversionDone   ConversionStatus = "converted"
	ConversionFailed ConversionStatus = "failed"
)

// ConversionRecord is one entry of the conversion history.
type ConversionRecord struct {
	ID int64 `json:"id" yaml:"id"`

	// Input is the notebook path as given on the command line.
	Input string `json:"input" yaml:"input"`

	// Output is the reStructuredText path written.
	Output string `json:"output" yaml:"output"`

	// Checksum is the hex SHA-256 of the notebook bytes.
	Checksum string `json:"checksum" yaml:"checksum"`

	Status ConversionStatus `json:"status" yaml:"status"`

	// Lines is the number of lines written to Output.
	Lines int `json:"lines" yaml:"lines"`

	CodeCells     int `json:"code_cells" yaml:"code_cells"`
	MarkdownCells int `json:"markdown_cells" yaml:"markdown_cells"`

	// Error holds the failure message when Status is failed.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	ConvertedAt time.Time `json:"converted_at" yaml:"converted_at"`
}
