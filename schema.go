package shellscript

import (
	"fmt"
	"unicode/utf8"

	"github.com/paulrentschler/pwrentch.shellscript/internal/normalize"
)

// Default option keys registered by NewSchema.
const (
	HelpKey    = "help"
	VerboseKey = "verbose"
)

// Schema is the ordered set of options a script accepts.
// Build it once before parsing; it must not change while a parser runs.
// When two options share a tag, the later registration wins the lookup.
type Schema struct {
	options []Option
	byShort map[string]int
	byLong  map[string]int
	byFile  map[string]int
}

// NewSchema creates a schema with the two default options:
// -h/--help (switch, key "help") and -v (combinable switch, key "verbose").
func NewSchema() *Schema {
	s := NewEmptySchema()
	s.MustRegister(Option{
		Short:       "h",
		Long:        "help",
		Key:         HelpKey,
		Kind:        KindSwitch,
		Description: "Display this syntax help info",
	})
	s.MustRegister(Option{
		Short:       "v",
		Key:         VerboseKey,
		Kind:        KindSwitch,
		Combine:     true,
		Description: "Write debugging info to the debug log. Use multiple times to increase log verbosity.",
	})
	return s
}

// NewEmptySchema creates a schema with no options.
func NewEmptySchema() *Schema {
	return &Schema{
		byShort: make(map[string]int),
		byLong:  make(map[string]int),
		byFile:  make(map[string]int),
	}
}

// Register appends an option and updates the tag indices.
func (s *Schema) Register(opt Option) error {
	if opt.Key == "" {
		return fmt.Errorf("register option (short %q, long %q): %w", opt.Short, opt.Long, ErrMissingKey)
	}
	if opt.Kind != KindSwitch && opt.Kind != KindValue {
		return fmt.Errorf("register option %q: %w: %v", opt.Key, ErrInvalidKind, opt.Kind)
	}

	opt.Short = normalize.TrimDashes(opt.Short)
	opt.Long = normalize.TrimDashes(opt.Long)
	if utf8.RuneCountInString(opt.Short) > 1 {
		return fmt.Errorf("register option %q: %w: %q", opt.Key, ErrInvalidShortTag, opt.Short)
	}

	s.options = append(s.options, opt)
	s.index(len(s.options) - 1)
	return nil
}

// MustRegister is like Register but panics on error.
// Intended for schemas built from literals at program start.
func (s *Schema) MustRegister(opt Option) {
	if err := s.Register(opt); err != nil {
		panic(err)
	}
}

func (s *Schema) index(i int) {
	opt := s.options[i]
	if opt.Short != "" {
		s.byShort[opt.Short] = i
	}
	if opt.Long != "" {
		s.byLong[opt.Long] = i
	}
	if opt.FileTag != "" {
		s.byFile[normalize.FileTag(opt.FileTag)] = i
	}
}

// LookupShort finds the option registered for a short tag (without the dash).
func (s *Schema) LookupShort(tag string) (Option, bool) {
	return s.lookup(s.byShort, tag)
}

// LookupLong finds the option registered for a long tag (without the dashes).
func (s *Schema) LookupLong(tag string) (Option, bool) {
	return s.lookup(s.byLong, tag)
}

// LookupFileTag finds the option registered for a config file tag. Case-insensitive.
func (s *Schema) LookupFileTag(tag string) (Option, bool) {
	return s.lookup(s.byFile, normalize.FileTag(tag))
}

func (s *Schema) lookup(idx map[string]int, tag string) (Option, bool) {
	if tag == "" {
		return Option{}, false
	}
	i, ok := idx[tag]
	if !ok {
		return Option{}, false
	}
	return s.options[i], true
}

// Options returns a copy of the registered options in registration order.
func (s *Schema) Options() []Option {
	out := make([]Option, len(s.options))
	copy(out, s.options)
	return out
}

// Len returns the number of registered options.
func (s *Schema) Len() int {
	return len(s.options)
}
