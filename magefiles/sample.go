//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	sampleNotebook = "testdata/sample.ipynb"
	sampleDir      = "build"
	sampleOutput   = "build/sample.rst"
)

// Sample builds the CLI and converts testdata/sample.ipynb into build/sample.rst.
func Sample() error {
	mg.Deps(Build)
	if err := os.MkdirAll(sampleDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", sampleDir, err)
	}
	return sh.RunV("bin/"+binName, "convert", "--verbose", sampleNotebook, sampleOutput)
}

// Clean removes build outputs.
func Clean() error {
	for _, dir := range []string{binDir, sampleDir} {
		if err := sh.Rm(dir); err != nil {
			return err
		}
	}
	return nil
}
