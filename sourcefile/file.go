package sourcefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	shellscript "github.com/paulrentschler/pwrentch.shellscript"
	"github.com/paulrentschler/pwrentch.shellscript/internal/normalize"
)

// Options configures structured file resolution.
type Options struct {
	// Format: "yaml", "json", or "toml". Auto-detected from extension if empty.
	Format string

	// Required: if true, a missing file returns a *shellscript.ConfigFileError
	// wrapping ErrConfigNotFound. Default: false (empty result, nil error).
	Required bool
}

// Parse reads path and applies every flattened key that matches a value
// option's file tag to store (the resolver's store when nil). Keys are applied
// in sorted order; unknown keys are reported in the result's Unresolved list.
func Parse(r *shellscript.Resolver, path string, opts Options, store *shellscript.Store) (*shellscript.ParseResult, error) {
	values, err := load(path, opts)
	if err != nil {
		var cfe *shellscript.ConfigFileError
		if errors.As(err, &cfe) && errors.Is(err, shellscript.ErrConfigNotFound) && !opts.Required {
			r.Debug(fmt.Sprintf("optional config file (%s) not found", path), 1)
			return &shellscript.ParseResult{Consumed: true}, nil
		}
		r.Debug(err.Error(), 0)
		return nil, err
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	name := filepath.Base(path)
	res := &shellscript.ParseResult{}
	for _, key := range keys {
		opt, ok := r.Schema().LookupFileTag(key)
		if !ok {
			r.Debug(fmt.Sprintf("key (%s) is not a valid file tag, ignoring it", key), 2)
			res.Unresolved = append(res.Unresolved, key)
			continue
		}
		if opt.Kind != shellscript.KindValue {
			r.Debug(fmt.Sprintf("key (%s) is not a value option, ignoring it", key), 2)
			continue
		}

		source := "file:" + name + "#" + key
		for _, raw := range scalars(values[key]) {
			applied, err := r.Apply(opt, raw, source, store)
			if err != nil {
				var rej *shellscript.RejectionError
				if errors.As(err, &rej) {
					res.Rejections = append(res.Rejections, rej)
				}
				continue
			}
			if applied {
				res.Applied++
			}
		}
	}

	return res, r.Finish(res)
}

// load reads and decodes path into flattened keys.
func load(path string, opts Options) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &shellscript.ConfigFileError{Path: path, Err: shellscript.ErrConfigNotFound}
		}
		return nil, &shellscript.ConfigFileError{Path: path, Err: shellscript.ErrConfigUnreadable, Cause: err}
	}

	format := opts.Format
	if format == "" {
		format = inferFormat(path)
	}

	var raw map[string]any
	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse YAML file %s: %w", path, err)
		}
	case "json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse JSON file %s: %w", path, err)
		}
	case "toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse TOML file %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: yaml, json, toml)", format)
	}

	flattened := make(map[string]any)
	flatten("", raw, flattened)
	return flattened, nil
}

// flatten recursively flattens nested maps to dot-separated, lower-cased keys.
func flatten(prefix string, value any, result map[string]any) {
	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			flatten(join(prefix, key), val, result)
		}
	case map[any]any:
		for key, val := range v {
			keyStr, ok := key.(string)
			if !ok {
				continue
			}
			flatten(join(prefix, keyStr), val, result)
		}
	default:
		if prefix != "" {
			result[prefix] = value
		}
	}
}

func join(prefix, key string) string {
	key = normalize.FileTag(key)
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// scalars turns a decoded value into the strings handed to the validator.
// Lists yield one string per element; nested lists and maps are skipped.
func scalars(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case []any:
		var out []string
		for _, item := range v {
			switch item.(type) {
			case nil, []any, map[string]any, map[any]any:
				continue
			}
			out = append(out, fmt.Sprint(item))
		}
		return out
	case string:
		return []string{strings.TrimSpace(v)}
	default:
		return []string{fmt.Sprint(v)}
	}
}

func inferFormat(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	default:
		return ""
	}
}
