package shellscript

import (
	"errors"
	"fmt"
	"strings"

	"github.com/paulrentschler/pwrentch.shellscript/internal/normalize"
)

// ParseCommandLine is ParseArgs for a full argv: argv[0], the program name, is skipped.
func (r *Resolver) ParseCommandLine(argv []string) (*ParseResult, error) {
	if len(argv) > 0 {
		argv = argv[1:]
	}
	return r.ParseArgs(argv)
}

// ParseArgs matches command-line tokens (program name excluded) against the
// schema and writes the results into the resolver's store.
//
// Tokens starting with "--" are long tags and tokens starting with "-" are
// short tags; anything else is ignored unless consumed as a value. A tag may
// carry an inline value after '=' or ':'. Without one, a value option takes the
// next token as its value when that token does not start with "-".
//
// Unknown tags, ignored tokens and rejected values never stop parsing. In strict
// mode they are also returned as a *ValidationError.
func (r *Resolver) ParseArgs(args []string) (*ParseResult, error) {
	r.Debug("ParseArgs() called", 1)
	r.Debug(fmt.Sprintf("arguments passed on the command line: %d", len(args)), 2)

	res := &ParseResult{}
	for i := 0; i < len(args); i++ {
		arg := args[i]

		var (
			opt    Option
			ok     bool
			tag    string
			inline string
			dashes string
		)
		switch {
		case strings.HasPrefix(arg, "--"):
			r.Debug(fmt.Sprintf("long tag (%s) detected", arg), 2)
			dashes = "--"
			tag, inline = normalize.SplitInline(arg[2:])
			opt, ok = r.schema.LookupLong(tag)
		case strings.HasPrefix(arg, "-"):
			r.Debug(fmt.Sprintf("short tag (%s) detected", arg), 2)
			dashes = "-"
			tag, inline = normalize.SplitInline(arg[1:])
			opt, ok = r.schema.LookupShort(tag)
		default:
			r.Debug(fmt.Sprintf("argument (%s) is not an option, ignoring it", arg), 2)
			res.Unresolved = append(res.Unresolved, arg)
			continue
		}

		if !ok {
			r.Debug(fmt.Sprintf("argument (%s) is not a valid option, ignoring it", arg), 2)
			res.Unresolved = append(res.Unresolved, arg)
			continue
		}

		source := "cli:" + dashes + tag
		switch opt.Kind {
		case KindSwitch:
			r.applySwitch(opt, source, res)

		case KindValue:
			value := inline
			if value == "" && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				r.Debug(fmt.Sprintf("next argument (%s) is the value of %s", args[i+1], tag), 2)
				value = args[i+1]
				i++
			}
			r.applyValue(opt, value, source, r.store, res)
		}
	}

	r.read = true
	r.Debug("all command line arguments processed", 2)
	r.Debug("ParseArgs() ended", 1)
	return res, r.Finish(res)
}

func (r *Resolver) applySwitch(opt Option, source string, res *ParseResult) {
	before := r.store.Count(opt.Key)
	existed := r.store.Has(opt.Key)

	n := r.store.IncrementFrom(opt.Key, opt.Combine, source)
	switch {
	case !existed:
		r.Debug(fmt.Sprintf("switch %s stored", opt.Key), 2)
		res.Applied++
	case opt.Combine && n > before:
		r.Debug(fmt.Sprintf("switch %s is combinable, now %d", opt.Key, n), 2)
		res.Applied++
	default:
		r.Debug(fmt.Sprintf("switch %s already set, ignoring repeat", opt.Key), 2)
	}
}

// applyValue runs Apply and records its outcome in res.
func (r *Resolver) applyValue(opt Option, value, source string, store *Store, res *ParseResult) {
	applied, err := r.Apply(opt, value, source, store)
	if err != nil {
		var rej *RejectionError
		if errors.As(err, &rej) {
			res.Rejections = append(res.Rejections, rej)
		}
		return
	}
	if applied {
		res.Applied++
	}
}
