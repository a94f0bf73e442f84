// Package converter turns GnuCash CSV exports into DATEV booking batches.
package converter

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shunichi-ikebuchi/gnucash-datev/pkg/datev"
)

// Presets carries the conversion defaults that rarely change between runs:
// chart of accounts, currency, author initials, and per-account BU keys.
type Presets struct {
	SKRNumber      string `yaml:"skr_number"`
	Currency       string `yaml:"currency"`
	AuthorInitials string `yaml:"author_initials"`
	// BUKeys maps a full GnuCash account name to the BU key stamped on
	// bookings posted to that account.
	BUKeys map[string]string `yaml:"bu_keys"`
}

// DefaultPresets returns the built-in defaults: SKR 04, EUR, no BU keys.
func DefaultPresets() *Presets {
	return &Presets{
		SKRNumber: datev.DefaultSKRNumber,
		Currency:  "EUR",
	}
}

// LoadPresets reads presets from a YAML file. Fields left empty in the file
// fall back to the built-in defaults.
func LoadPresets(path string) (*Presets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets file: %w", err)
	}

	presets := DefaultPresets()
	if err := yaml.Unmarshal(data, presets); err != nil {
		return nil, fmt.Errorf("failed to parse presets YAML: %w", err)
	}

	if presets.SKRNumber == "" {
		presets.SKRNumber = datev.DefaultSKRNumber
	}
	if presets.Currency == "" {
		presets.Currency = "EUR"
	}

	return presets, nil
}

// BUKey returns the BU key configured for an account, or "" when none is.
func (p *Presets) BUKey(fullAccountName string) string {
	return p.BUKeys[fullAccountName]
}
