// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/nbrst/pkg/types"
)

const exportLimit = 100000

// Export is the on-disk form of an exported history.
type Export struct {
	ExportedAt  time.Time                `yaml:"exported_at"`
	Conversions []types.ConversionRecord `yaml:"conversions"`
}

// ExportYAML writes the history matching opts to path as YAML. The limit in
// opts is ignored; every matching entry is exported.
func (l *Ledger) ExportYAML(ctx context.Context, path string, opts QueryOptions) error {
	opts.Limit = exportLimit
	records, err := l.List(ctx, opts)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}

	data, err := yaml.Marshal(Export{ExportedAt: time.Now().UTC(), Conversions: records})
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
