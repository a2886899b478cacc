// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notebook decodes notebook JSON into the types.Document tree.
// Both nbformat 3 (worksheets of cells) and nbformat 4 (a flat cell list)
// are accepted. A notebook missing a field this tool relies on is rejected
// with an error wrapping ErrMalformed; nothing is silently tolerated.
package notebook

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pdiddy/nbrst/pkg/types"
)

// ErrMalformed is wrapped by every error caused by the shape of the notebook
// rather than by I/O.
var ErrMalformed = errors.New("malformed notebook")

const mimeTextPlain = "text/plain"

type rawNotebook struct {
	NBFormat   int             `json:"nbformat"`
	Worksheets *[]rawWorksheet `json:"worksheets"`
	Cells      *[]rawCell      `json:"cells"`
}

type rawWorksheet struct {
	Cells *[]rawCell `json:"cells"`
}

type rawCell struct {
	CellType *string      `json:"cell_type"`
	Input    *types.Lines `json:"input"`
	Source   *types.Lines `json:"source"`
	Outputs  *[]rawOutput `json:"outputs"`
}

type rawOutput struct {
	OutputType string                     `json:"output_type"`
	Text       *types.Lines               `json:"text"`
	Traceback  *types.Lines               `json:"traceback"`
	Data       map[string]json.RawMessage `json:"data"`
}

// Load reads and decodes the notebook at path.
func Load(path string) (types.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.Document{}, fmt.Errorf("reading notebook %s: %w", path, err)
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return types.Document{}, fmt.Errorf("loading notebook %s: %w", path, err)
	}
	return doc, nil
}

// Decode reads r to EOF and decodes it as a notebook.
func Decode(r io.Reader) (types.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return types.Document{}, fmt.Errorf("reading notebook: %w", err)
	}
	return Parse(data)
}

// Parse decodes a notebook from its JSON bytes. The bytes must hold exactly
// one JSON value; anything after it is an error.
func Parse(data []byte) (types.Document, error) {
	var raw rawNotebook
	if err := json.Unmarshal(data, &raw); err != nil {
		return types.Document{}, fmt.Errorf("%w: decoding JSON: %v", ErrMalformed, err)
	}

	switch {
	case raw.Worksheets != nil:
		return fromWorksheets(raw)
	case raw.Cells != nil:
		return fromCells(raw)
	default:
		return types.Document{}, fmt.Errorf("%w: neither worksheets nor cells present", ErrMalformed)
	}
}

// fromWorksheets builds a document from the nbformat 3 layout, where code
// cells keep their source in "input".
func fromWorksheets(raw rawNotebook) (types.Document, error) {
	doc := types.Document{
		Format:     raw.NBFormat,
		Worksheets: make([]types.Worksheet, 0, len(*raw.Worksheets)),
	}
	for wi, rw := range *raw.Worksheets {
		if rw.Cells == nil {
			return types.Document{}, fmt.Errorf("%w: worksheet %d has no cells", ErrMalformed, wi)
		}
		ws, err := convertCells(*rw.Cells, wi, func(c rawCell) *types.Lines { return c.Input }, "input")
		if err != nil {
			return types.Document{}, err
		}
		doc.Worksheets = append(doc.Worksheets, ws)
	}
	return doc, nil
}

// fromCells builds a single-worksheet document from the nbformat 4 layout,
// where code cells keep their source in "source".
func fromCells(raw rawNotebook) (types.Document, error) {
	ws, err := convertCells(*raw.Cells, 0, func(c rawCell) *types.Lines { return c.Source }, "source")
	if err != nil {
		return types.Document{}, err
	}
	return types.Document{Format: raw.NBFormat, Worksheets: []types.Worksheet{ws}}, nil
}

func convertCells(raws []rawCell, wi int, codeSource func(rawCell) *types.Lines, sourceField string) (types.Worksheet, error) {
	ws := types.Worksheet{Cells: make([]types.Cell, 0, len(raws))}
	for ci, rc := range raws {
		if rc.CellType == nil {
			return types.Worksheet{}, fmt.Errorf("%w: worksheet %d cell %d: missing cell_type", ErrMalformed, wi, ci)
		}

		switch types.CellType(*rc.CellType) {
		case types.CellCode:
			src := codeSource(rc)
			if src == nil {
				return types.Worksheet{}, fmt.Errorf("%w: worksheet %d cell %d: code cell missing %q", ErrMalformed, wi, ci, sourceField)
			}
			if rc.Outputs == nil {
				return types.Worksheet{}, fmt.Errorf("%w: worksheet %d cell %d: code cell missing \"outputs\"", ErrMalformed, wi, ci)
			}
			outputs, err := convertOutputs(*rc.Outputs)
			if err != nil {
				return types.Worksheet{}, fmt.Errorf("worksheet %d cell %d: %w", wi, ci, err)
			}
			ws.Cells = append(ws.Cells, &types.CodeCell{Input: *src, Outputs: outputs})

		case types.CellMarkdown:
			if rc.Source == nil {
				return types.Worksheet{}, fmt.Errorf("%w: worksheet %d cell %d: markdown cell missing \"source\"", ErrMalformed, wi, ci)
			}
			ws.Cells = append(ws.Cells, &types.MarkdownCell{Source: *rc.Source})

		default:
			ws.Cells = append(ws.Cells, &types.OtherCell{Tag: types.CellType(*rc.CellType)})
		}
	}
	return ws, nil
}

// convertOutputs copies the text-bearing fields of each output. A
// "text/plain" entry under "data" stands in for a missing "text" field, which
// is how nbformat 4 stores execute_result and display_data values.
func convertOutputs(raws []rawOutput) ([]types.Output, error) {
	outputs := make([]types.Output, 0, len(raws))
	for oi, ro := range raws {
		out := types.Output{
			OutputType: ro.OutputType,
			Text:       ro.Text,
			Traceback:  ro.Traceback,
		}
		if out.Text == nil {
			if plain, ok := ro.Data[mimeTextPlain]; ok {
				var lines types.Lines
				if err := json.Unmarshal(plain, &lines); err != nil {
					return nil, fmt.Errorf("%w: output %d: %s: %v", ErrMalformed, oi, mimeTextPlain, err)
				}
				out.Text = &lines
			}
		}
		outputs = append(outputs, out)
	}
	return outputs, nil
}
