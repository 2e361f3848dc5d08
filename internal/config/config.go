// Package config implements OpenABL's layered configuration source: an
// optional YAML defaults file overridden by repeatable `-P key=value` CLI
// flags, exposed as a small typed store — every key a backend reads is
// still just a string key with a documented meaning.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Config is a flat string-keyed value store. Values are parsed on read
// rather than on write, since a single key (e.g. a buffer size) may be
// read as either an int or a string depending on which backend consults
// it.
type Config struct {
	values map[string]string
}

// New returns an empty Config.
func New() *Config {
	return &Config{values: map[string]string{}}
}

// LoadYAML parses a YAML defaults file's flat key/value map into cfg.
// Keys that are already set are overwritten, so the last call wins; the
// CLI driver applies `-P` overrides after any LoadYAML call.
func (c *Config) LoadYAML(data []byte) error {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("config: parsing YAML: %w", err)
	}
	for k, v := range raw {
		c.values[k] = fmt.Sprintf("%v", v)
	}
	return nil
}

// SetParam applies one `-P key=value` override.
func (c *Config) SetParam(kv string) error {
	idx := strings.IndexByte(kv, '=')
	if idx < 0 {
		return fmt.Errorf("config: malformed -P value %q, expected key=value", kv)
	}
	c.values[kv[:idx]] = kv[idx+1:]
	return nil
}

// GetString returns key's raw string value, or def if unset.
func (c *Config) GetString(key, def string) string {
	if v, ok := c.values[key]; ok {
		return v
	}
	return def
}

// GetInt returns key's value parsed as an int, or def if unset or
// unparseable.
func (c *Config) GetInt(key string, def int) int {
	v, ok := c.values[key]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// GetFloat returns key's value parsed as a float64, or def if unset or
// unparseable.
func (c *Config) GetFloat(key string, def float64) float64 {
	v, ok := c.values[key]
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// GetBool returns key's value parsed as a bool, or def if unset or
// unparseable. Accepts the same spellings as strconv.ParseBool plus the
// bare "yes"/"no" spelling some config formats also accept.
func (c *Config) GetBool(key string, def bool) bool {
	v, ok := c.values[key]
	if !ok {
		return def
	}
	switch strings.ToLower(v) {
	case "yes":
		return true
	case "no":
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// Keys returns every key currently set, in no particular order.
func (c *Config) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	return keys
}
