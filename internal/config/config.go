// Package config implements the layered configuration store shared by model
// cores, test groups, test cases and steps.
//
// Configuration is written as HCL files made of flat blocks, one per section:
//
//	parallel {
//	  system         = "single_node"
//	  cores_per_node = 8
//	}
//
// Layers are merged with Merge: machine defaults first, then model-core and
// test-group defaults, then test-case overrides applied in Configure. Later
// layers override earlier ones key by key. After setup the merged result is
// serialized back to a single file next to the test case's run script, so a
// case can be re-run from its working directory alone.
package config

import (
	"fmt"
	"io"
	"sort"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Config is a layered (section, key) store of cty values. It is mutable while
// a test case is being configured and treated as read-only once Run begins.
// Config is not safe for concurrent mutation; step execution is serial so
// none happens.
type Config struct {
	sections map[string]map[string]cty.Value

	// insertion order of sections and of keys within each section, so that
	// serialization is deterministic and mirrors the source files.
	sectionOrder []string
	keyOrder     map[string][]string
}

// New returns an empty Config.
func New() *Config {
	return &Config{
		sections: make(map[string]map[string]cty.Value),
		keyOrder: make(map[string][]string),
	}
}

// Copy returns a deep copy of the store. cty values are immutable so only the
// maps are duplicated.
func (c *Config) Copy() *Config {
	out := New()
	out.sectionOrder = append(out.sectionOrder, c.sectionOrder...)
	for section, keys := range c.sections {
		out.sections[section] = make(map[string]cty.Value, len(keys))
		for k, v := range keys {
			out.sections[section][k] = v
		}
		out.keyOrder[section] = append([]string(nil), c.keyOrder[section]...)
	}
	return out
}

// Merge overlays another layer on top of this one: every (section, key) from
// other overrides the same key here, keys not present in other survive.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	for _, section := range other.sectionOrder {
		for _, key := range other.keyOrder[section] {
			c.Set(section, key, other.sections[section][key])
		}
	}
}

// Sections returns the section names in insertion order.
func (c *Config) Sections() []string {
	return append([]string(nil), c.sectionOrder...)
}

// Keys returns the keys of a section in insertion order.
func (c *Config) Keys(section string) []string {
	return append([]string(nil), c.keyOrder[section]...)
}

// Has reports whether the given section contains the given key.
func (c *Config) Has(section, key string) bool {
	keys, ok := c.sections[section]
	if !ok {
		return false
	}
	_, ok = keys[key]
	return ok
}

// Get returns the raw cty value for a key.
func (c *Config) Get(section, key string) (cty.Value, error) {
	keys, ok := c.sections[section]
	if !ok {
		return cty.NilVal, fmt.Errorf("config has no section %q", section)
	}
	val, ok := keys[key]
	if !ok {
		return cty.NilVal, fmt.Errorf("config section %q has no key %q", section, key)
	}
	return val, nil
}

// Set stores a value, creating the section if needed.
func (c *Config) Set(section, key string, value cty.Value) {
	keys, ok := c.sections[section]
	if !ok {
		keys = make(map[string]cty.Value)
		c.sections[section] = keys
		c.sectionOrder = append(c.sectionOrder, section)
	}
	if _, exists := keys[key]; !exists {
		c.keyOrder[section] = append(c.keyOrder[section], key)
	}
	keys[key] = value
}

// SetString stores a string value.
func (c *Config) SetString(section, key, value string) {
	c.Set(section, key, cty.StringVal(value))
}

// SetInt stores an integer value.
func (c *Config) SetInt(section, key string, value int) {
	c.Set(section, key, cty.NumberIntVal(int64(value)))
}

// SetFloat stores a float value.
func (c *Config) SetFloat(section, key string, value float64) {
	c.Set(section, key, cty.NumberFloatVal(value))
}

// SetBool stores a boolean value.
func (c *Config) SetBool(section, key string, value bool) {
	c.Set(section, key, cty.BoolVal(value))
}

// SetStringList stores a list of strings.
func (c *Config) SetStringList(section, key string, values []string) {
	if len(values) == 0 {
		c.Set(section, key, cty.ListValEmpty(cty.String))
		return
	}
	vals := make([]cty.Value, len(values))
	for i, v := range values {
		vals[i] = cty.StringVal(v)
	}
	c.Set(section, key, cty.ListVal(vals))
}

// GetString returns a key converted to a string.
func (c *Config) GetString(section, key string) (string, error) {
	var out string
	err := c.decode(section, key, cty.String, &out)
	return out, err
}

// GetInt returns a key converted to an int.
func (c *Config) GetInt(section, key string) (int, error) {
	var out int
	err := c.decode(section, key, cty.Number, &out)
	return out, err
}

// GetFloat returns a key converted to a float64.
func (c *Config) GetFloat(section, key string) (float64, error) {
	var out float64
	err := c.decode(section, key, cty.Number, &out)
	return out, err
}

// GetBool returns a key converted to a bool.
func (c *Config) GetBool(section, key string) (bool, error) {
	var out bool
	err := c.decode(section, key, cty.Bool, &out)
	return out, err
}

// GetStringList returns a key converted to a slice of strings.
func (c *Config) GetStringList(section, key string) ([]string, error) {
	val, err := c.Get(section, key)
	if err != nil {
		return nil, err
	}
	converted, err := convert.Convert(val, cty.List(cty.String))
	if err != nil {
		return nil, fmt.Errorf("config %s.%s: %w", section, key, err)
	}
	var out []string
	for it := converted.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		out = append(out, elem.AsString())
	}
	return out, nil
}

func (c *Config) decode(section, key string, want cty.Type, target any) error {
	val, err := c.Get(section, key)
	if err != nil {
		return err
	}
	converted, err := convert.Convert(val, want)
	if err != nil {
		return fmt.Errorf("config %s.%s: %w", section, key, err)
	}
	if err := gocty.FromCtyValue(converted, target); err != nil {
		return fmt.Errorf("config %s.%s: %w", section, key, err)
	}
	return nil
}

// LoadFile parses a single HCL config file into a Config.
func LoadFile(path string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing config file %s: %w", path, diags)
	}
	return fromBody(path, file.Body)
}

// LoadSource parses HCL config source, using filename only for diagnostics.
func LoadSource(filename string, src []byte) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing config %s: %w", filename, diags)
	}
	return fromBody(filename, file.Body)
}

func fromBody(filename string, body any) (*Config, error) {
	syntaxBody, ok := body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("config %s: unsupported HCL body type", filename)
	}

	cfg := New()
	if len(syntaxBody.Attributes) > 0 {
		return nil, fmt.Errorf(
			"config %s: top-level attributes are not allowed, wrap them in a section block",
			filename)
	}
	for _, block := range syntaxBody.Blocks {
		if len(block.Labels) > 0 {
			return nil, fmt.Errorf(
				"config %s: section %q must not have labels", filename, block.Type)
		}

		// hclsyntax attributes are a map; order them by source position so
		// the store keeps the file's key order.
		attrs := make([]*hclsyntax.Attribute, 0, len(block.Body.Attributes))
		for _, attr := range block.Body.Attributes {
			attrs = append(attrs, attr)
		}
		sort.Slice(attrs, func(i, j int) bool {
			return attrs[i].SrcRange.Start.Byte < attrs[j].SrcRange.Start.Byte
		})

		for _, attr := range attrs {
			val, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return nil, fmt.Errorf("config %s: evaluating %s.%s: %w",
					filename, block.Type, attr.Name, diags)
			}
			cfg.Set(block.Type, attr.Name, val)
		}
	}
	return cfg, nil
}

// Write serializes the store back to HCL, one block per section, in
// insertion order.
func (c *Config) Write(w io.Writer) error {
	file := hclwrite.NewEmptyFile()
	body := file.Body()
	for i, section := range c.sectionOrder {
		if i > 0 {
			body.AppendNewline()
		}
		block := body.AppendNewBlock(section, nil)
		for _, key := range c.keyOrder[section] {
			block.Body().SetAttributeValue(key, c.sections[section][key])
		}
	}
	if _, err := file.WriteTo(w); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
