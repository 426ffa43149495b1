// Package shellscript resolves script options from command-line tokens and
// key=value config files into one merged store, validating values on the way.
//
// Quick Start:
//
//	schema := shellscript.NewSchema() // -h/--help and -v are pre-registered
//	schema.MustRegister(shellscript.Option{
//	    Short: "s", Long: "server", FileTag: "server", Key: "server",
//	    Kind: shellscript.KindValue, Validator: shellscript.ValidatorMySQLServer,
//	})
//
//	r := shellscript.NewResolver(schema)
//	if _, err := r.ParseConfigFile("script.conf", nil); err != nil && !errors.Is(err, shellscript.ErrConfigNotFound) {
//	    log.Fatal(err)
//	}
//	r.ParseArgs(os.Args[1:])
//	server := r.Store().String("server")
//
// Writing the same key twice with different values turns it into a list;
// repeated combinable switches count their occurrences.
//
// See example_test.go for detailed usage.
package shellscript
