package shellscript

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

// Validator checks a candidate value. It returns the accepted value, which may be
// normalized (Path appends a trailing slash), or an error describing the rejection.
type Validator func(value string) (string, error)

// Built-in validator names.
const (
	ValidatorString             = "String"
	ValidatorAlphaString        = "AlphaString"
	ValidatorAlphaNumericString = "AlphaNumericString"
	ValidatorEmailAddress       = "EmailAddress"
	ValidatorDate               = "Date"
	ValidatorWebURL             = "WebUrl"
	ValidatorIPAddress          = "IPAddress"
	ValidatorFilename           = "Filename"
	ValidatorPath               = "Path"
	ValidatorLocalPath          = "LocalPath"
	ValidatorMySQLServer        = "MySQLServer"
	ValidatorMySQLDatabase      = "MySQLDatabase"
)

var (
	stringPattern        = regexp.MustCompile(`(?i)\A[a-z0-9 !\[\]{}()\\/@#$%^&*\-_+=:;'",.?]*\z`)
	alphaPattern         = regexp.MustCompile(`(?i)\A[a-z ]*\z`)
	alphaNumericPattern  = regexp.MustCompile(`(?i)\A[a-z0-9 ]*\z`)
	emailPattern         = regexp.MustCompile(`(?i)\A[^@\s<&>]+@([-a-z0-9]+\.)+[a-z]{2,}\z`)
	datePattern          = regexp.MustCompile(`\A\d{1,2}/\d{1,2}/\d{4}\z`)
	webURLPattern        = regexp.MustCompile(`\A[A-Za-z0-9%&/\-_+=:.#?]*\z`)
	filenamePattern      = regexp.MustCompile("(?i)\\A[a-z0-9 \\[\\]{}()/@#$%^&\\-_+=;',.`~]*\\z")
	mysqlServerPattern   = regexp.MustCompile(`\A[a-zA-Z0-9._-]*\z`)
	mysqlDatabasePattern = regexp.MustCompile(`\A[a-zA-Z0-9_-]*\z`)
)

// The third octet deliberately admits 256-299; the other three are bounded at 255.
var ipAddressPattern = regexp.MustCompile(`\A` +
	`(?:[01]?[0-9]?[0-9]|2[0-4][0-9]|25[0-5])\.` +
	`(?:[01]?[0-9]?[0-9]|2[0-4][0-9]|25[0-5])\.` +
	`(?:[0-2]?[0-9]?[0-9])\.` +
	`(?:[01]?[0-9]?[0-9]|2[0-4][0-9]|25[0-5])\z`)

func matching(pattern *regexp.Regexp, message string) Validator {
	return func(value string) (string, error) {
		if !pattern.MatchString(value) {
			return "", errors.New(message)
		}
		return value, nil
	}
}

// ValidateString accepts letters, digits, spaces and the symbols !@#$()[]{}\/%^&*-_+=:;'",.?
var ValidateString = matching(stringPattern,
	`the string contains one or more invalid characters; it can contain letters, numbers, spaces and the following symbols: !@#$()[]{}\/%^&*-_+=:;'",.?`)

// ValidateAlphaString accepts letters and spaces.
var ValidateAlphaString = matching(alphaPattern,
	"the string contains one or more invalid characters; it can contain only letters and spaces")

// ValidateAlphaNumericString accepts letters, digits and spaces.
var ValidateAlphaNumericString = matching(alphaNumericPattern,
	"the string contains one or more invalid characters; it can contain letters, numbers, and spaces")

// ValidateEmailAddress accepts addresses shaped like user+extra@domain.tld.
var ValidateEmailAddress = matching(emailPattern,
	"the e-mail address contains invalid characters or is not in the format username@domain.tld (example: jsmith@yahoo.com)")

// ValidateDate accepts m/d/yyyy. The calendar is not checked.
var ValidateDate = matching(datePattern,
	"the date contains invalid characters or is not in the format m/d/yyyy")

// ValidateWebURL accepts letters, digits and the symbols #%&-_+=:/.?
var ValidateWebURL = matching(webURLPattern,
	"the url contains one or more invalid characters; it can contain letters, numbers, and the following symbols: #%&-_+=:/.?")

// ValidateIPAddress accepts dotted-quad addresses such as 127.0.0.1.
var ValidateIPAddress = matching(ipAddressPattern,
	"the ip address is not in the format #.#.#.# where each # ranges from 0 to 255 (ex: 127.0.0.1)")

// ValidateFilename accepts letters, digits, spaces and the symbols []{}()/@#$%^&-_+=;',.`~
var ValidateFilename = matching(filenamePattern,
	"the filename contains one or more invalid characters")

// ValidateMySQLServer accepts letters, digits and the symbols .-_
var ValidateMySQLServer = matching(mysqlServerPattern,
	"the MySQL server name can contain only letters, numbers, and the following symbols: .-_")

// ValidateMySQLDatabase accepts letters, digits, dashes and underscores.
var ValidateMySQLDatabase = matching(mysqlDatabasePattern,
	"the MySQL database name can contain only letters, numbers, dashes, and underscores")

// ValidatePath applies the Filename rule and returns the path with a trailing slash.
func ValidatePath(value string) (string, error) {
	if _, err := ValidateFilename(value); err != nil {
		return "", errors.New("the path contains one or more invalid characters")
	}
	if !strings.HasSuffix(value, "/") {
		value += "/"
	}
	return value, nil
}

// ValidateLocalPath applies the Path rule and requires an existing local directory.
func ValidateLocalPath(value string) (string, error) {
	path, err := ValidatePath(value)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("the path specified (%s) does not exist", path)
	}
	return path, nil
}

// acceptNonEmpty is used for options without a validator.
func acceptNonEmpty(value string) (string, error) {
	if value == "" {
		return "", errors.New("a value is required")
	}
	return value, nil
}

// UnknownPolicy decides how a Registry resolves names it does not know.
type UnknownPolicy int

const (
	// UnknownAccept resolves unknown names to the accept-any validator.
	UnknownAccept UnknownPolicy = iota
	// UnknownReject makes unknown names fail with ErrUnknownValidator.
	UnknownReject
)

// Registry maps validator names to functions.
// Names match case-insensitively, with or without a "Validate" prefix.
type Registry struct {
	validators map[string]Validator
	names      map[string]string
	unknown    UnknownPolicy
}

// NewRegistry creates a registry holding the built-in validators.
func NewRegistry() *Registry {
	r := &Registry{
		validators: make(map[string]Validator),
		names:      make(map[string]string),
	}
	r.Register(ValidatorString, ValidateString)
	r.Register(ValidatorAlphaString, ValidateAlphaString)
	r.Register(ValidatorAlphaNumericString, ValidateAlphaNumericString)
	r.Register(ValidatorEmailAddress, ValidateEmailAddress)
	r.Register(ValidatorDate, ValidateDate)
	r.Register(ValidatorWebURL, ValidateWebURL)
	r.Register(ValidatorIPAddress, ValidateIPAddress)
	r.Register(ValidatorFilename, ValidateFilename)
	r.Register(ValidatorPath, ValidatePath)
	r.Register(ValidatorLocalPath, ValidateLocalPath)
	r.Register(ValidatorMySQLServer, ValidateMySQLServer)
	r.Register(ValidatorMySQLDatabase, ValidateMySQLDatabase)
	return r
}

// OnUnknown sets the policy for unknown validator names. Default: UnknownAccept.
func (r *Registry) OnUnknown(p UnknownPolicy) *Registry {
	r.unknown = p
	return r
}

// Register adds or replaces a validator.
func (r *Registry) Register(name string, v Validator) {
	id := canonicalName(name)
	r.validators[id] = v
	r.names[id] = name
}

// Lookup returns the validator registered under name.
func (r *Registry) Lookup(name string) (Validator, bool) {
	v, ok := r.validators[canonicalName(name)]
	return v, ok
}

// Resolve returns the validator to run for name.
// An empty name accepts any non-empty value. Unknown names follow the registry policy.
func (r *Registry) Resolve(name string) (Validator, error) {
	if name == "" {
		return acceptNonEmpty, nil
	}
	if v, ok := r.Lookup(name); ok {
		return v, nil
	}
	if r.unknown == UnknownReject {
		return nil, fmt.Errorf("%w: %q", ErrUnknownValidator, name)
	}
	return acceptNonEmpty, nil
}

// Validate resolves name and runs it against value.
func (r *Registry) Validate(name, value string) (string, error) {
	v, err := r.Resolve(name)
	if err != nil {
		return "", err
	}
	return v(value)
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.names))
	for _, n := range r.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func canonicalName(name string) string {
	id := strings.ToLower(strings.TrimSpace(name))
	if id != "validate" {
		id = strings.TrimPrefix(id, "validate")
	}
	return id
}
