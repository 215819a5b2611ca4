// Package preset holds the built-in pattern parameter sets.
package preset

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"TurnipSentinel/internal/model"
)

// Default is the preset used when none is configured.
const Default = "acnl"

// ErrUnknownPreset is returned for a key with no built-in table.
var ErrUnknownPreset = errors.New("unknown preset")

//go:embed presets.yaml
var presetsYAML []byte

var presets map[string]model.Parameters

func init() {
	m, err := parse(presetsYAML)
	if err != nil {
		panic(fmt.Sprintf("preset: embedded tables: %v", err))
	}
	presets = m
}

func parse(data []byte) (map[string]model.Parameters, error) {
	m := make(map[string]model.Parameters)
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse presets: %w", err)
	}
	return m, nil
}

// Get returns a copy of the preset with the given key.
func Get(key string) (model.Parameters, error) {
	p, ok := presets[key]
	if !ok {
		return model.Parameters{}, fmt.Errorf("%w: %q", ErrUnknownPreset, key)
	}
	return p.Clone(), nil
}

// Keys lists the available presets in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(presets))
	for k := range presets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
