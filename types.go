package shellscript

import (
	"fmt"
	"strings"
)

// Kind selects how an option consumes tokens.
type Kind int

const (
	// KindSwitch is a presence/count option that takes no value.
	KindSwitch Kind = iota + 1
	// KindValue is an option that requires an associated string value.
	KindValue
)

// String returns the schema name of the kind ("switch" or "value").
func (k Kind) String() string {
	switch k {
	case KindSwitch:
		return "switch"
	case KindValue:
		return "value"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind converts "switch" or "value" (any case) into a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "switch":
		return KindSwitch, nil
	case "value":
		return KindValue, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

// Option describes one configurable option of a script.
//
// Short and Long are command-line aliases stored without leading dashes.
// FileTag is the case-insensitive key used in config files. Key is the
// identity in the Store; options that share a Key alias each other.
type Option struct {
	Short       string // -o style tag (single character)
	Long        string // --option style tag
	FileTag     string // key=value tag in a config file
	Key         string // Store key (required)
	Kind        Kind   // KindSwitch or KindValue
	Validator   string // Registry name; empty accepts any non-empty value
	Combine     bool   // Switch only: repeated occurrences increment a counter
	Placeholder string // Usage display only
	Description string // Usage display only
}

// CommandLine reports whether the option can be reached from command-line tokens.
func (o Option) CommandLine() bool {
	return o.Short != "" || o.Long != ""
}

// File reports whether the option can be reached from a config file.
func (o Option) File() bool {
	return o.FileTag != ""
}

// Sink receives diagnostic messages from the engine.
// The engine calls Emit unconditionally; the sink decides whether to keep the message.
// Level 0 is error-class output, higher levels are progressively more detailed.
type Sink interface {
	Emit(message string, level int)
}

// SinkFunc is a function adapter for the Sink interface.
type SinkFunc func(message string, level int)

func (f SinkFunc) Emit(message string, level int) {
	f(message, level)
}

// NopSink discards every message.
type NopSink struct{}

func (NopSink) Emit(string, int) {}
