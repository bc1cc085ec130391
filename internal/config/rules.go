package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/dgallion1/docoutline/internal/outline"
)

// LoadRules returns the default scoring rules with the keys present in
// the TOML file at path applied on top. An empty path yields the
// defaults. Unknown keys are an error so typos do not pass silently.
//
//	heading_threshold = 35
//	keywords = ["overview", "scope"]
func LoadRules(path string) (outline.Rules, error) {
	rules := outline.DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("read rules file: %w", err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rules); err != nil {
		return rules, fmt.Errorf("decode rules file %s: %w", path, err)
	}
	return rules, nil
}
