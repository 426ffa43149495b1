// Package sourceenv resolves option values from environment variables.
//
// A variable applies to the option whose file tag matches its name once the
// prefix is stripped and the name normalized: APP_SERVER → server,
// APP_DB__HOST → db.host.
//
// Example:
//
//	res := sourceenv.Parse(resolver, sourceenv.Options{Prefix: "APP_"}, nil)
package sourceenv
