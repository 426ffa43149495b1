package normalize

import (
	"strings"
)

// ToLowerDotPath normalizes an environment variable name to a lowercase tag.
// Double underscores (__) are treated as level separators and converted to dots.
// Single underscores within a level are preserved.
// Examples:
//   - "FOO__BAR" → "foo.bar"
//   - "DB_MAX_CONNECTIONS" → "db_max_connections"
//   - "API__RATE_LIMIT" → "api.rate_limit"
func ToLowerDotPath(key string) string {
	normalized := strings.ReplaceAll(key, "__", ".")
	return strings.ToLower(normalized)
}

// FileTag normalizes a config file tag for case-insensitive lookup.
// Examples:
//   - "Server" → "server"
//   - "  DB.Host " → "db.host"
func FileTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// TrimDashes removes the leading dashes of a command-line tag.
// Examples:
//   - "--name" → "name"
//   - "-v" → "v"
//   - "name" → "name"
func TrimDashes(tag string) string {
	return strings.TrimLeft(tag, "-")
}

// SplitInline splits a command-line tag from an inline value.
// '=' takes precedence over ':'; only the first occurrence splits.
// Examples:
//   - "name=Alice" → ("name", "Alice")
//   - "url=http://host:80" → ("url", "http://host:80")
//   - "name:Alice" → ("name", "Alice")
//   - "name" → ("name", "")
func SplitInline(s string) (tag, value string) {
	if i := strings.IndexByte(s, '='); i >= 0 {
		return s[:i], s[i+1:]
	}
	if i := strings.IndexByte(s, ':'); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}
