// Package yaml loads extraction presets from YAML files.
//
// A preset file maps names to partial configurations. Each preset starts
// from a base, either a built-in preset or another preset in the same file,
// and overrides only the keys it sets:
//
//	presets:
//	  course-site:
//	    base: virtuoso
//	    root_selectors: ['[data-test-id="player-transcript"]']
//	    settle_delay: 400ms
//
// A preset without a base starts from the default configuration.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fwojciec/scrollback"
	yaml "gopkg.in/yaml.v3"
)

// presetFile is the strict shape of a preset file, used to reject unknown keys.
type presetFile struct {
	Presets map[string]preset `yaml:"presets"`
}

type preset struct {
	Base              string `yaml:"base"`
	scrollback.Config `yaml:",inline"`
}

// Presets holds named configurations loaded from a file.
type Presets map[string]scrollback.Config

// Names returns the preset names in sorted order.
func (p Presets) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the named preset, falling back to the built-in presets.
func (p Presets) Lookup(name string) (scrollback.Config, bool) {
	if cfg, ok := p[name]; ok {
		return cfg, true
	}
	return scrollback.Preset(name)
}

// LoadPresets reads and resolves the preset file at path.
func LoadPresets(path string) (Presets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, scrollback.Errorf(scrollback.ENOTFOUND, "preset file not found: %s", path)
		}
		return nil, fmt.Errorf("reading preset file: %w", err)
	}
	presets, err := ParsePresets(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return presets, nil
}

// ParsePresets decodes and resolves a preset document.
// Returns EINVALID for unknown keys, unknown or cyclic bases, and presets
// that fail validation.
func ParsePresets(r io.Reader) (Presets, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading presets: %w", err)
	}

	var strict presetFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&strict); err != nil && !errors.Is(err, io.EOF) {
		return nil, scrollback.Errorf(scrollback.EINVALID, "invalid preset file: %v", err)
	}

	var raw struct {
		Presets map[string]yaml.Node `yaml:"presets"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, scrollback.Errorf(scrollback.EINVALID, "invalid preset file: %v", err)
	}

	res := &resolver{
		nodes:    raw.Presets,
		bases:    make(map[string]string, len(strict.Presets)),
		resolved: make(Presets, len(raw.Presets)),
		visiting: make(map[string]bool),
	}
	for name, p := range strict.Presets {
		res.bases[name] = p.Base
	}

	for _, name := range sortedKeys(raw.Presets) {
		cfg, err := res.resolve(name)
		if err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, scrollback.Errorf(scrollback.EINVALID, "preset %q: %s", name, scrollback.ErrorMessage(err))
		}
	}
	return res.resolved, nil
}

// resolver overlays each preset on its base, resolving bases depth first.
type resolver struct {
	nodes    map[string]yaml.Node
	bases    map[string]string
	resolved Presets
	visiting map[string]bool
}

func (r *resolver) resolve(name string) (scrollback.Config, error) {
	if cfg, ok := r.resolved[name]; ok {
		return cfg, nil
	}
	if r.visiting[name] {
		return scrollback.Config{}, scrollback.Errorf(scrollback.EINVALID, "preset %q has a cyclic base", name)
	}
	r.visiting[name] = true
	defer delete(r.visiting, name)

	cfg, err := r.base(name)
	if err != nil {
		return scrollback.Config{}, err
	}

	node := r.nodes[name]
	if err := node.Decode(&cfg); err != nil {
		return scrollback.Config{}, scrollback.Errorf(scrollback.EINVALID, "preset %q: %v", name, err)
	}
	r.resolved[name] = cfg
	return cfg, nil
}

// base returns the configuration that preset name starts from.
func (r *resolver) base(name string) (scrollback.Config, error) {
	base := r.bases[name]
	switch {
	case base == "":
		return scrollback.DefaultConfig(), nil
	case base == name:
		// A file preset may refine the built-in preset it shadows.
		if cfg, ok := scrollback.Preset(base); ok {
			return cfg, nil
		}
	default:
		if _, ok := r.nodes[base]; ok {
			return r.resolve(base)
		}
		if cfg, ok := scrollback.Preset(base); ok {
			return cfg, nil
		}
	}
	return scrollback.Config{}, scrollback.Errorf(scrollback.EINVALID, "preset %q: unknown base %q", name, base)
}

func sortedKeys(m map[string]yaml.Node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// EncodePreset writes cfg as a single-preset file that ParsePresets reads back.
func EncodePreset(w io.Writer, name string, cfg scrollback.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	doc := map[string]map[string]scrollback.Config{"presets": {name: cfg}}
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding preset %q: %w", name, err)
	}
	return enc.Close()
}
