// Package schemafile loads option schemas from YAML, JSON, TOML, or HCL files.
//
// Format is auto-detected from extension (.yaml, .yml, .json, .toml, .hcl).
//
// YAML example:
//
//	options:
//	  - short: s
//	    long: server
//	    file: server
//	    key: server
//	    kind: value
//	    validate: MySQLServer
//
// HCL example:
//
//	option "server" {
//	  short    = "s"
//	  long     = "server"
//	  file     = "server"
//	  kind     = "value"
//	  validate = "MySQLServer"
//	}
package schemafile
