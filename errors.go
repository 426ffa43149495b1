package shellscript

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Match with errors.Is.
var (
	// ErrConfigNotFound is returned when a config file does not exist.
	ErrConfigNotFound = errors.New("shellscript: config file does not exist")

	// ErrConfigUnreadable is returned when a config file exists but cannot be read.
	ErrConfigUnreadable = errors.New("shellscript: config file could not be opened for reading")

	// ErrMissingKey is returned when registering an option without a Key.
	ErrMissingKey = errors.New("shellscript: option has no config key")

	// ErrInvalidKind is returned for option kinds other than switch and value.
	ErrInvalidKind = errors.New("shellscript: invalid option kind")

	// ErrInvalidShortTag is returned when a short tag is longer than one character.
	ErrInvalidShortTag = errors.New("shellscript: short tag must be a single character")

	// ErrUnknownValidator is returned when a validator name is not registered
	// and the registry rejects unknown names.
	ErrUnknownValidator = errors.New("shellscript: unknown validator")

	// ErrUnknownOption marks tokens or config lines that match no option (strict mode only).
	ErrUnknownOption = errors.New("shellscript: unknown option")
)

// Error codes used in FieldError.
const (
	ErrCodeRejected         = "rejected"
	ErrCodeUnknownOption    = "unknown_option"
	ErrCodeUnknownValidator = "unknown_validator"
)

// FatalError is returned by OutputError for errors that should end the script.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// ConfigFileError reports a config file that could not be processed.
// Err is ErrConfigNotFound or ErrConfigUnreadable.
type ConfigFileError struct {
	Path string
	Err  error
	// Cause is the underlying I/O error, if any.
	Cause error
}

func (e *ConfigFileError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %v", e.Err, e.Path, e.Cause)
	}
	return fmt.Sprintf("%s (%s)", e.Err, e.Path)
}

func (e *ConfigFileError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

// RejectionError describes a value refused by its validator.
type RejectionError struct {
	Key       string // Store key of the option
	Validator string // Registry name that rejected the value
	Value     string // Candidate value as supplied
	Source    string // Where the value came from (e.g. "cli:--name")
	Message   string // Validator's description of the problem
	Err       error  // Underlying error returned by the validator or registry
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s: value %q rejected by %s: %s", e.Key, e.Value, e.Validator, e.Message)
}

func (e *RejectionError) Unwrap() error {
	return e.Err
}

// code returns the FieldError code describing this rejection.
func (e *RejectionError) code() string {
	if errors.Is(e.Err, ErrUnknownValidator) {
		return ErrCodeUnknownValidator
	}
	return ErrCodeRejected
}

// ValidationError aggregates problems found while parsing in strict mode.
type ValidationError struct {
	FieldErrors []FieldError
}

// Error formats validation errors as a multi-line message.
func (e *ValidationError) Error() string {
	if len(e.FieldErrors) == 0 {
		return "option validation failed: no errors"
	}

	var b strings.Builder
	if len(e.FieldErrors) == 1 {
		b.WriteString("option validation failed: 1 error\n")
	} else {
		fmt.Fprintf(&b, "option validation failed: %d errors\n", len(e.FieldErrors))
	}

	for _, fe := range e.FieldErrors {
		fmt.Fprintf(&b, "  - %s: %s (%s)\n", fe.Key, fe.Code, fe.Message)
	}

	return strings.TrimRight(b.String(), "\n")
}

// Is lets errors.Is(err, ErrUnknownOption) match aggregates that contain unknown options.
func (e *ValidationError) Is(target error) bool {
	for _, fe := range e.FieldErrors {
		switch {
		case target == ErrUnknownOption && fe.Code == ErrCodeUnknownOption:
			return true
		case target == ErrUnknownValidator && fe.Code == ErrCodeUnknownValidator:
			return true
		}
	}
	return false
}

// FieldError represents a single failure.
type FieldError struct {
	Key     string // Store key, token, or config line the failure refers to
	Code    string // Error code (e.g., "rejected", "unknown_option")
	Message string // Human-readable description
}
