package sourceenv

import (
	"errors"
	"os"
	"sort"
	"strings"

	shellscript "github.com/paulrentschler/pwrentch.shellscript"
	"github.com/paulrentschler/pwrentch.shellscript/internal/normalize"
)

// Options configures environment variable resolution.
type Options struct {
	// Prefix filters vars starting with prefix (stripped before normalization).
	// Empty = consider all vars.
	// Prefix matching behavior is controlled by CaseSensitive.
	Prefix string

	// CaseSensitive controls prefix matching (default: false).
	// When false, prefix matching is case-insensitive (APP_ matches app_, App_, etc.).
	// When true, prefix must match exactly.
	// Names are always normalized to lowercase after prefix stripping.
	CaseSensitive bool

	// Environ replaces os.Environ() as the list of KEY=value pairs.
	Environ []string
}

// Parse applies matching environment variables to store (the resolver's store
// when nil), using the same validation and merge rules as config files.
// Variables are applied in name order. Only value options are applied, and
// variables that match no file tag are skipped without being reported.
func Parse(r *shellscript.Resolver, opts Options, store *shellscript.Store) *shellscript.ParseResult {
	environ := opts.Environ
	if environ == nil {
		environ = os.Environ()
	}
	environ = append([]string(nil), environ...)
	sort.Strings(environ)

	res := &shellscript.ParseResult{}
	for _, env := range environ {
		name, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}

		tag, ok := stripPrefix(name, opts)
		if !ok || tag == "" {
			continue
		}

		opt, ok := r.Schema().LookupFileTag(normalize.ToLowerDotPath(tag))
		if !ok || opt.Kind != shellscript.KindValue {
			continue
		}

		applied, err := r.Apply(opt, strings.TrimSpace(value), "env:"+name, store)
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

	res.Consumed = true
	return res
}

func stripPrefix(name string, opts Options) (string, bool) {
	if opts.Prefix == "" {
		return name, true
	}

	var hasPrefix bool
	if opts.CaseSensitive {
		hasPrefix = strings.HasPrefix(name, opts.Prefix)
	} else {
		hasPrefix = strings.HasPrefix(strings.ToUpper(name), strings.ToUpper(opts.Prefix))
	}
	if !hasPrefix {
		return "", false
	}
	return name[len(opts.Prefix):], true
}
