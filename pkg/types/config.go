// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// DefaultLanguage is the code-block language used when none is configured.
const DefaultLanguage = "python"

// ConversionConfig holds settings for notebook-to-reStructuredText conversion.
type ConversionConfig struct {
	// Language is the highlight language named in each ".. code-block::"
	// directive (default "python").
	Language string `json:"language" yaml:"language" mapstructure:"language"`
}

// LedgerConfig holds settings for the optional conversion history database.
type LedgerConfig struct {
	// Enabled turns on recording of each conversion.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Dir is the directory holding nbrst.db (default ".nbrst").
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`
}

// Config groups all settings read from nbrst.yaml, the environment, and flags.
type Config struct {
	Conversion ConversionConfig `json:"conversion" yaml:"conversion" mapstructure:"conversion"`
	Ledger     LedgerConfig     `json:"ledger" yaml:"ledger" mapstructure:"ledger"`
}
