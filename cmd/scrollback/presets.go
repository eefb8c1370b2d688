package main

import (
	"fmt"
	"sort"

	"github.com/fwojciec/scrollback"
	"github.com/fwojciec/scrollback/yaml"
)

// Run executes the presets command.
func (c *PresetsCmd) Run(deps *Dependencies) error {
	presets := yaml.Presets{}
	if c.Presets != "" {
		var err error
		if presets, err = yaml.LoadPresets(c.Presets); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", errorMessage(err))
			return err
		}
	}

	if c.Name != "" {
		cfg, ok := presets.Lookup(c.Name)
		if !ok {
			fmt.Fprintf(deps.Stderr, "error: unknown preset %q\n", c.Name)
			return scrollback.Errorf(scrollback.ENOTFOUND, "unknown preset %q", c.Name)
		}
		return yaml.EncodePreset(deps.Stdout, c.Name, cfg)
	}

	names := scrollback.PresetNames()
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		seen[name] = true
	}
	for _, name := range presets.Names() {
		if !seen[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		source := "built-in"
		if _, ok := presets[name]; ok {
			source = c.Presets
		}
		fmt.Fprintf(deps.Stdout, "%-12s %s\n", name, source)
	}
	return nil
}
