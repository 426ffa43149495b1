// Package sourcefile resolves option values from structured YAML, JSON, or TOML
// config files.
//
// Nested keys are flattened with dots and matched against option file tags, so
//
//	db:
//	  host: db01
//
// sets the option whose file tag is "db.host". A list sets the option once per
// element. Format is auto-detected from extension (.yaml, .yml, .json, .toml).
//
// Example:
//
//	res, err := sourcefile.Parse(resolver, "backup.yaml", sourcefile.Options{}, nil)
package sourcefile
