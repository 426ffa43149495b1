package schemafile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	shellscript "github.com/paulrentschler/pwrentch.shellscript"
)

// Options configures schema file loading.
type Options struct {
	// Format: "yaml", "json", "toml", or "hcl". Auto-detected from extension if empty.
	Format string

	// NoDefaults: if true, LoadSchema starts from an empty schema instead of
	// one holding the -h/--help and -v options.
	NoDefaults bool
}

// document is the YAML/JSON/TOML layout of a schema file.
type document struct {
	Options []optionSpec `yaml:"options" json:"options" toml:"options"`
}

type optionSpec struct {
	Short       string `yaml:"short" json:"short" toml:"short"`
	Long        string `yaml:"long" json:"long" toml:"long"`
	File        string `yaml:"file" json:"file" toml:"file"`
	Key         string `yaml:"key" json:"key" toml:"key"`
	Kind        string `yaml:"kind" json:"kind" toml:"kind"`
	Validate    string `yaml:"validate" json:"validate" toml:"validate"`
	Combine     bool   `yaml:"combine" json:"combine" toml:"combine"`
	Placeholder string `yaml:"placeholder" json:"placeholder" toml:"placeholder"`
	Description string `yaml:"description" json:"description" toml:"description"`
}

// hclDocument is the HCL layout: one labeled block per option, label = key.
type hclDocument struct {
	Options []hclOption `hcl:"option,block"`
}

type hclOption struct {
	Key         string `hcl:"key,label"`
	Short       string `hcl:"short,optional"`
	Long        string `hcl:"long,optional"`
	File        string `hcl:"file,optional"`
	Kind        string `hcl:"kind"`
	Validate    string `hcl:"validate,optional"`
	Combine     bool   `hcl:"combine,optional"`
	Placeholder string `hcl:"placeholder,optional"`
	Description string `hcl:"description,optional"`
}

func (o hclOption) spec() optionSpec {
	return optionSpec{
		Short:       o.Short,
		Long:        o.Long,
		File:        o.File,
		Key:         o.Key,
		Kind:        o.Kind,
		Validate:    o.Validate,
		Combine:     o.Combine,
		Placeholder: o.Placeholder,
		Description: o.Description,
	}
}

// LoadSchema reads path and registers its options on a new schema.
func LoadSchema(path string, opts Options) (*shellscript.Schema, error) {
	options, err := Load(path, opts)
	if err != nil {
		return nil, err
	}

	schema := shellscript.NewSchema()
	if opts.NoDefaults {
		schema = shellscript.NewEmptySchema()
	}
	for _, opt := range options {
		if err := schema.Register(opt); err != nil {
			return nil, fmt.Errorf("schema file %s: %w", path, err)
		}
	}
	return schema, nil
}

// Load reads and parses path, returning its options in file order.
func Load(path string, opts Options) ([]shellscript.Option, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("schema file not found: %s: %w", path, err)
		}
		return nil, fmt.Errorf("read schema file %s: %w", path, err)
	}

	format := opts.Format
	if format == "" {
		format = inferFormat(path)
	}

	return Decode(filepath.Base(path), data, format)
}

// Decode parses schema data in the given format. name is used in error messages.
func Decode(name string, data []byte, format string) ([]shellscript.Option, error) {
	var specs []optionSpec

	switch format {
	case "yaml", "yml":
		var doc document
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse YAML file %s: %w", name, err)
		}
		specs = doc.Options
	case "json":
		var doc document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse JSON file %s: %w", name, err)
		}
		specs = doc.Options
	case "toml":
		var doc document
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse TOML file %s: %w", name, err)
		}
		specs = doc.Options
	case "hcl":
		var doc hclDocument
		// hclsimple picks the syntax from the file suffix.
		if err := hclsimple.Decode(hclName(name), data, nil, &doc); err != nil {
			return nil, fmt.Errorf("parse HCL file %s: %w", name, err)
		}
		for _, o := range doc.Options {
			specs = append(specs, o.spec())
		}
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: yaml, json, toml, hcl)", format)
	}

	options := make([]shellscript.Option, 0, len(specs))
	for i, s := range specs {
		opt, err := s.option()
		if err != nil {
			return nil, fmt.Errorf("%s: option %d: %w", name, i+1, err)
		}
		options = append(options, opt)
	}
	return options, nil
}

func (s optionSpec) option() (shellscript.Option, error) {
	kind, err := shellscript.ParseKind(s.Kind)
	if err != nil {
		return shellscript.Option{}, err
	}
	return shellscript.Option{
		Short:       s.Short,
		Long:        s.Long,
		FileTag:     s.File,
		Key:         s.Key,
		Kind:        kind,
		Validator:   s.Validate,
		Combine:     s.Combine,
		Placeholder: s.Placeholder,
		Description: s.Description,
	}, nil
}

func hclName(name string) string {
	if strings.HasSuffix(strings.ToLower(name), ".hcl") {
		return name
	}
	return name + ".hcl"
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
	case ".hcl":
		return "hcl"
	default:
		return ""
	}
}
