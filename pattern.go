package outparse

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

//go:embed assets/patterns.yaml
var presetPatterns []byte

// PatternConfig is one declarative classification rule as it appears
// in a pattern table. The order of rules in the table is the order of
// the passes and is load-bearing: earlier passes have priority.
type PatternConfig struct {
	Type    string `yaml:"type"`
	Subtype string `yaml:"subtype"`
	Name    string `yaml:"name"`
	Regex   string `yaml:"regex"`
}

// Factory constructs the element for one match of a pass. ids hands
// out session-unique element IDs, also for nested children.
type Factory func(ids *IDSeq, raw string, pos Position) (Element, error)

// Pass is one compiled classification rule.
type Pass struct {
	Type, Subtype, Name string

	rx      *regexp.Regexp
	factory Factory
}

// Extractors maps subtype tags to their value extractor. Rules without
// an entry produce elements whose ExtractData reports ErrNoData.
type Extractors map[string]ExtractFunc

// Settings is an immutable, ordered pattern configuration. Build one
// with SettingsForMode, ParseSettings or NewSettings and pass it
// explicitly into NewSession; there is no ambient default.
type Settings struct {
	mode   string
	passes []Pass
}

// Mode returns the preset name the settings were built from, or "" for
// custom settings.
func (s *Settings) Mode() string { return s.mode }

func (s *Settings) Passes() []Pass { return s.passes }

// NewSettings compiles an ordered pattern table. Any invalid rule is a
// configuration error: it is reported immediately and no settings are
// produced.
func NewSettings(table []PatternConfig, x Extractors) (*Settings, error) {
	if len(table) == 0 {
		return nil, fmt.Errorf("empty pattern table")
	}
	res := &Settings{passes: make([]Pass, 0, len(table))}
	for i, pc := range table {
		if pc.Type == "" || pc.Subtype == "" {
			return nil, fmt.Errorf("pattern %d: type and subtype are required", i)
		}
		rx, err := regexp.Compile(pc.Regex)
		if err != nil {
			return nil, fmt.Errorf("pattern %s/%s: %w", pc.Type, pc.Subtype, err)
		}
		name := pc.Name
		if name == "" {
			name = pc.Subtype
		}
		spec := BlockSpec{
			Type:    pc.Type,
			Subtype: pc.Subtype,
			Name:    name,
			Extract: x[pc.Subtype],
		}
		res.passes = append(res.passes, Pass{
			Type: pc.Type, Subtype: pc.Subtype, Name: name,
			rx:      rx,
			factory: BlockFactory(spec),
		})
	}
	return res, nil
}

// NewPass compiles a single classification rule with an explicit
// factory, e.g. a NestedFactory.
func NewPass(typ, subtype, name, regex string, f Factory) (Pass, error) {
	if typ == "" || subtype == "" {
		return Pass{}, fmt.Errorf("pass needs type and subtype")
	}
	rx, err := regexp.Compile(regex)
	if err != nil {
		return Pass{}, fmt.Errorf("pass %s/%s: %w", typ, subtype, err)
	}
	if name == "" {
		name = subtype
	}
	if f == nil {
		f = BlockFactory(BlockSpec{Type: typ, Subtype: subtype, Name: name})
	}
	return Pass{Type: typ, Subtype: subtype, Name: name, rx: rx, factory: f}, nil
}

// NewPassSettings wraps explicitly built passes into settings, keeping
// their declared order.
func NewPassSettings(passes ...Pass) (*Settings, error) {
	if len(passes) == 0 {
		return nil, fmt.Errorf("empty pattern table")
	}
	for _, p := range passes {
		if p.rx == nil || p.factory == nil {
			return nil, fmt.Errorf("pass %s/%s: not built with NewPass", p.Type, p.Subtype)
		}
	}
	return &Settings{passes: passes}, nil
}

// BlockFactory returns the default factory building a leaf Block with
// the given classification detail.
func BlockFactory(spec BlockSpec) Factory {
	return func(ids *IDSeq, raw string, pos Position) (Element, error) {
		return NewBlock(ids.Next(), raw, pos, spec), nil
	}
}

// NestedFactory returns a factory that sub-tokenizes every match with
// the inner passes. The children's spans are strict sub-ranges of the
// parent's span; unclaimed inner text becomes Unknown children, so the
// children always partition the parent exactly.
func NestedFactory(spec BlockSpec, inner []Pass) Factory {
	return func(ids *IDSeq, raw string, pos Position) (Element, error) {
		segs, err := tokenize(raw, pos, inner, ids, nil)
		if err != nil {
			return nil, err
		}
		kids := make([]Element, len(segs))
		for i, sg := range segs {
			kids[i] = sg.elem
		}
		spec := spec
		spec.Children = kids
		return NewBlock(ids.Next(), raw, pos, spec), nil
	}
}

// SettingsForMode returns the embedded preset pattern table for mode.
// Built-in modes are "orca" and "gpaw".
func SettingsForMode(mode string) (*Settings, error) {
	res, err := ParseSettings(presetPatterns, mode, builtinExtractors)
	if err != nil {
		return nil, err
	}
	res.mode = mode
	return res, nil
}

// ParseSettings builds settings from a YAML document mapping mode
// names to ordered pattern tables.
func ParseSettings(yml []byte, mode string, x Extractors) (*Settings, error) {
	var modes map[string][]PatternConfig
	if err := yaml.Unmarshal(yml, &modes); err != nil {
		return nil, fmt.Errorf("parse pattern config: %w", err)
	}
	table, ok := modes[mode]
	if !ok {
		return nil, fmt.Errorf("invalid mode %q: not in pattern config", mode)
	}
	return NewSettings(table, x)
}

// LoadSettingsFile reads a custom pattern configuration file. It has
// the same shape as the embedded presets: mode names mapping to
// ordered pattern tables.
func LoadSettingsFile(path, mode string, x Extractors) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pattern config %s: %w", path, err)
	}
	return ParseSettings(data, mode, x)
}
