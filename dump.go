package shellscript

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DumpOption configures dump behavior using the functional options pattern.
type DumpOption func(*dumpConfig)

type dumpFormat int

const (
	formatText dumpFormat = iota
	formatJSON
	formatYAML
	formatTOML
)

// dumpConfig holds options for DumpStore.
type dumpConfig struct {
	withSources bool       // Include source attribution for each key
	format      dumpFormat // Output format
	indent      string     // Indentation for JSON output (default: "  ")
}

// WithSources includes source attribution for each key in the output.
func WithSources() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.withSources = true
	}
}

// AsJSON outputs the store as JSON instead of text format.
func AsJSON() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.format = formatJSON
	}
}

// AsYAML outputs the store as YAML.
func AsYAML() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.format = formatYAML
	}
}

// AsTOML outputs the store as TOML.
func AsTOML() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.format = formatTOML
	}
}

// WithIndent sets the indentation for JSON output.
// Default is two spaces ("  ").
func WithIndent(indent string) DumpOption {
	return func(cfg *dumpConfig) {
		cfg.indent = indent
	}
}

// DumpStore writes a human-readable representation of the store.
// Text output lists keys in first-write order; structured formats sort keys.
// Returns an error if writing to the writer fails.
func DumpStore(w io.Writer, store *Store, opts ...DumpOption) error {
	if store == nil {
		return fmt.Errorf("store is nil")
	}

	config := dumpConfig{
		indent: "  ",
	}
	for _, opt := range opts {
		opt(&config)
	}

	switch config.format {
	case formatJSON:
		return dumpAsJSON(w, store, config)
	case formatYAML:
		return dumpEncoded(w, store, config, yaml.Marshal)
	case formatTOML:
		return dumpEncoded(w, store, config, toml.Marshal)
	default:
		return dumpAsText(w, store, config)
	}
}

// dumpAsText outputs the store in text format (key: value).
func dumpAsText(w io.Writer, store *Store, config dumpConfig) error {
	prov := store.Provenance()

	for _, key := range store.Keys() {
		v, _ := store.Get(key)
		line := fmt.Sprintf("%s: %s", key, formatValue(v))
		if config.withSources {
			if src, ok := prov.Last(key); ok {
				line += fmt.Sprintf(" (source: %s)", src)
			}
		}
		line += "\n"

		if _, err := io.WriteString(w, line); err != nil {
			return fmt.Errorf("write error: %w", err)
		}
	}

	return nil
}

// dumpAsJSON outputs the store as JSON.
func dumpAsJSON(w io.Writer, store *Store, config dumpConfig) error {
	result := structure(store, config)

	var data []byte
	var err error
	if config.indent != "" {
		data, err = json.MarshalIndent(result, "", config.indent)
	} else {
		data, err = json.Marshal(result)
	}
	if err != nil {
		return fmt.Errorf("json marshal error: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("write error: %w", err)
	}

	return nil
}

// dumpEncoded outputs the store through a marshal function (YAML, TOML).
func dumpEncoded(w io.Writer, store *Store, config dumpConfig, marshal func(any) ([]byte, error)) error {
	data, err := marshal(structure(store, config))
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	return nil
}

// structure builds the map handed to structured encoders.
// With sources, each key maps to {"value": ..., "sources": [...]}.
func structure(store *Store, config dumpConfig) map[string]any {
	values := store.Map()
	if !config.withSources {
		return values
	}

	prov := store.Provenance()
	result := make(map[string]any, len(values))
	for key, v := range values {
		entry := map[string]any{"value": v}
		if sources := prov.Sources(key); len(sources) > 0 {
			entry["sources"] = sources
		}
		result[key] = entry
	}
	return result
}

// formatValue formats a stored value for text output.
func formatValue(v Value) string {
	switch v.Kind {
	case ScalarValue:
		return fmt.Sprintf("%q", v.Scalar)
	case ListValue:
		quoted := make([]string, len(v.List))
		for i, s := range v.List {
			quoted[i] = fmt.Sprintf("%q", s)
		}
		return fmt.Sprintf("[%s]", strings.Join(quoted, ", "))
	case CountValue:
		return fmt.Sprintf("%d", v.Count)
	default:
		return "<nil>"
	}
}
