package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	shellscript "github.com/paulrentschler/pwrentch.shellscript"
	"github.com/paulrentschler/pwrentch.shellscript/internal/usage"
	"github.com/paulrentschler/pwrentch.shellscript/schemafile"
	"github.com/paulrentschler/pwrentch.shellscript/sourceenv"
	"github.com/paulrentschler/pwrentch.shellscript/sourcefile"
)

// rootOptions holds the flag values of one invocation.
type rootOptions struct {
	schemaPath  string
	configPath  string
	dataPath    string
	envPrefix   string
	format      string
	debugLog    string
	name        string
	snapshot    string
	restore     string
	redact      []string
	description string
	describe    bool
	sources     bool
	strict      bool
	timing      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "shellscript [flags] -- [script options]",
		Short: "Resolve script options from the command line, a config file and the environment",
		Long: `shellscript matches script options against a schema, reads an optional
key=value config file and prefixed environment variables, and prints the
merged result.

Structured YAML, JSON or TOML files can be read with --data; nested keys are
matched as dotted file tags.

Everything after "--" is treated as the script's own command line.`,
		Example: `  shellscript --schema backup.yaml --config backup.conf -- -v --server db01
  shellscript --schema backup.hcl --describe
  shellscript --format json --env-prefix BACKUP_ -- --help`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.schemaPath, "schema", "s", "", "schema file (yaml, json, toml or hcl); default options only when empty")
	flags.StringVarP(&opts.configPath, "config", "c", "", "key=value config file to read after the command line")
	flags.StringVar(&opts.dataPath, "data", "", "structured YAML, JSON or TOML config file to read after --config")
	flags.StringVar(&opts.envPrefix, "env-prefix", "", "read environment variables starting with this prefix")
	flags.StringVarP(&opts.format, "format", "f", "text", "output format: text, json, yaml or toml")
	flags.StringVar(&opts.debugLog, "debug-log", "", `write diagnostics to this file ("-" for stderr)`)
	flags.StringVar(&opts.snapshot, "snapshot", "", "write the resolved store to this JSON file ({{timestamp}} is expanded)")
	flags.StringVar(&opts.restore, "restore", "", "start from a store saved with --snapshot")
	flags.StringSliceVar(&opts.redact, "redact", nil, "keys whose values are redacted in the snapshot")
	flags.StringVar(&opts.name, "name", "script", "script name shown in usage output")
	flags.StringVar(&opts.description, "description", "", "script description shown in usage output")
	flags.BoolVar(&opts.describe, "describe", false, "print the usage text of the schema and exit")
	flags.BoolVar(&opts.sources, "sources", false, "show where each value came from")
	flags.BoolVar(&opts.strict, "strict", false, "fail on unknown options and rejected values")
	flags.BoolVar(&opts.timing, "timing", false, "print how long resolution took")

	return cmd
}

func run(cmd *cobra.Command, opts *rootOptions, args []string) error {
	format, err := dumpFormat(opts.format)
	if err != nil {
		return err
	}

	schema := shellscript.NewSchema()
	if opts.schemaPath != "" {
		schema, err = schemafile.LoadSchema(opts.schemaPath, schemafile.Options{})
		if err != nil {
			return err
		}
	}

	if opts.describe {
		return usage.Render(cmd.OutOrStdout(), opts.name, opts.description, schema, usage.Options{})
	}

	r := shellscript.NewResolver(schema).Strict(opts.strict)
	r.StartTimer(shellscript.ScriptTimer)
	if opts.restore != "" {
		snap, err := shellscript.ReadSnapshot(opts.restore)
		if err != nil {
			return err
		}
		store, err := snap.Restore()
		if err != nil {
			return err
		}
		r.WithStore(store)
	}

	closeLog, err := attachDebugLog(cmd, r, opts)
	if err != nil {
		return err
	}
	defer closeLog()

	stderr := cmd.ErrOrStderr()
	var strictErrs []error

	res, err := r.ParseArgs(args)
	strictErrs = appendStrict(strictErrs, err)
	warnRejections(stderr, res)

	if opts.configPath != "" {
		res, err := r.ParseConfigFile(opts.configPath, nil)
		var cfe *shellscript.ConfigFileError
		switch {
		case errors.As(err, &cfe):
			_ = r.OutputError(stderr, cfe, false)
		default:
			strictErrs = appendStrict(strictErrs, err)
			warnRejections(stderr, res)
		}
	}

	if opts.dataPath != "" {
		res, err := sourcefile.Parse(r, opts.dataPath, sourcefile.Options{Required: true}, nil)
		var cfe *shellscript.ConfigFileError
		switch {
		case errors.As(err, &cfe):
			_ = r.OutputError(stderr, cfe, false)
		case err != nil && !isValidation(err):
			return &ExitError{Code: exitFatal, Err: r.OutputError(stderr, err, true)}
		default:
			strictErrs = appendStrict(strictErrs, err)
			warnRejections(stderr, res)
		}
	}

	if opts.envPrefix != "" {
		warnRejections(stderr, sourceenv.Parse(r, sourceenv.Options{Prefix: opts.envPrefix}, nil))
	}

	if r.Store().Count(shellscript.HelpKey) > 0 {
		return usage.Render(cmd.OutOrStdout(), opts.name, opts.description, schema, usage.Options{})
	}

	var dumpOpts []shellscript.DumpOption
	if format != nil {
		dumpOpts = append(dumpOpts, format)
	}
	if opts.sources {
		dumpOpts = append(dumpOpts, shellscript.WithSources())
	}
	if err := shellscript.DumpStore(cmd.OutOrStdout(), r.Store(), dumpOpts...); err != nil {
		return err
	}

	if opts.snapshot != "" {
		snap, err := shellscript.CreateSnapshot(r.Store(), shellscript.WithRedactKeys(opts.redact...))
		if err != nil {
			return err
		}
		path, err := shellscript.WriteSnapshot(snap, opts.snapshot)
		if err != nil {
			return err
		}
		fmt.Fprintln(stderr, mutedStyle.Render("snapshot written to "+path))
	}

	if opts.timing {
		r.StopTimer(shellscript.ScriptTimer)
		fmt.Fprintln(stderr, mutedStyle.Render("resolved in "+shellscript.FormatTime(r.Elapsed(shellscript.ScriptTimer))))
	}

	if len(strictErrs) > 0 {
		return &ExitError{Code: exitRejected, Err: errors.Join(strictErrs...)}
	}
	return nil
}

// dumpFormat maps --format to a DumpOption; text needs none.
func dumpFormat(name string) (shellscript.DumpOption, error) {
	switch strings.ToLower(name) {
	case "", "text":
		return nil, nil
	case "json":
		return shellscript.AsJSON(), nil
	case "yaml", "yml":
		return shellscript.AsYAML(), nil
	case "toml":
		return shellscript.AsTOML(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want text, json, yaml or toml)", name)
	}
}

// attachDebugLog wires a LogSink when --debug-log is set and returns its closer.
func attachDebugLog(cmd *cobra.Command, r *shellscript.Resolver, opts *rootOptions) (func(), error) {
	switch opts.debugLog {
	case "":
		return func() {}, nil
	case "-":
		r.WithSink(shellscript.NewLogSink(cmd.ErrOrStderr(), r.Store(), shellscript.LogSinkOptions{Prefix: opts.name}))
		return func() {}, nil
	}

	f, err := shellscript.OpenDebugLog(opts.debugLog)
	if err != nil {
		return nil, err
	}
	r.WithSink(shellscript.NewLogSink(f, r.Store(), shellscript.LogSinkOptions{Prefix: opts.name}))
	return func() { _ = f.Close() }, nil
}

func appendStrict(errs []error, err error) []error {
	var ve *shellscript.ValidationError
	if errors.As(err, &ve) {
		return append(errs, ve)
	}
	return errs
}

func isValidation(err error) bool {
	var ve *shellscript.ValidationError
	return errors.As(err, &ve)
}

func warnRejections(w io.Writer, res *shellscript.ParseResult) {
	if res == nil {
		return
	}
	for _, rej := range res.Rejections {
		warn(w, fmt.Sprintf("%s %s", rej.Error(), mutedStyle.Render("("+rej.Source+")")))
	}
}

func warn(w io.Writer, msg string) {
	fmt.Fprintln(w, warningStyle.Render("Warning: ")+msg)
}
