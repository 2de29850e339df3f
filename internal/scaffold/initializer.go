// Package scaffold writes a starter fleetid.yml.
package scaffold

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dyluth/fleetid/internal/config"
)

//go:embed templates/*
var templatesFS embed.FS

// Template returns the starter configuration.
func Template() ([]byte, error) {
	content, err := templatesFS.ReadFile("templates/fleetid.yml.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to read fleetid.yml template: %w", err)
	}
	return content, nil
}

// Initialize writes the starter configuration to path. An existing file is
// only replaced when force is true. The written file is loaded back through
// config.Load so a broken template can never be left on disk unnoticed.
func Initialize(path string, force bool) error {
	if !force {
		if err := CheckExisting(path); err != nil {
			return err
		}
	}

	content, err := Template()
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if _, err := config.Load(path); err != nil {
		return fmt.Errorf("created %s is invalid: %w", path, err)
	}

	return nil
}

// CheckExisting returns an error if a configuration already exists at path.
func CheckExisting(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists\n\nUse 'fleetid init --force' to overwrite it", path)
	}
	return nil
}
