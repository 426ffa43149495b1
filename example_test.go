package shellscript_test

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	shellscript "github.com/paulrentschler/pwrentch.shellscript"
)

// Example resolves options from a config file and the command line into one store.
func Example() {
	schema := shellscript.NewSchema()
	schema.MustRegister(shellscript.Option{
		Short:     "s",
		Long:      "server",
		FileTag:   "server",
		Key:       "server",
		Kind:      shellscript.KindValue,
		Validator: shellscript.ValidatorMySQLServer,
	})
	schema.MustRegister(shellscript.Option{
		Long:      "dir",
		FileTag:   "backup_dir",
		Key:       "dir",
		Kind:      shellscript.KindValue,
		Validator: shellscript.ValidatorPath,
	})

	dir, err := os.MkdirTemp("", "example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)
	conf := filepath.Join(dir, "backup.conf")
	if err := os.WriteFile(conf, []byte("# nightly\nserver=db01\nbackup_dir=/var/backups\n"), 0o644); err != nil {
		log.Fatal(err)
	}

	r := shellscript.NewResolver(schema)
	if _, err := r.ParseCommandLine([]string{"backup.sh", "-v", "-v", "--server", "db02"}); err != nil {
		log.Fatal(err)
	}
	if _, err := r.ParseConfigFile(conf, nil); err != nil {
		log.Fatal(err)
	}

	store := r.Store()
	fmt.Println("verbose:", store.Count(shellscript.VerboseKey))
	fmt.Println("servers:", strings.Join(store.Strings("server"), ","))
	fmt.Println("dir:", store.String("dir"))
	// Output:
	// verbose: 2
	// servers: db02,db01
	// dir: /var/backups/
}

// ExampleStore_Merge shows how repeated writes accumulate.
func ExampleStore_Merge() {
	s := shellscript.NewStore()
	s.Merge("host", "a")
	s.Merge("host", "a")
	fmt.Println(s.Strings("host"))
	s.Merge("host", "b")
	s.Merge("host", "a")
	fmt.Println(s.Strings("host"))
	// Output:
	// [a]
	// [a b a]
}

// ExampleDumpStore prints resolved options with their origins.
func ExampleDumpStore() {
	r := shellscript.NewResolver(nil)
	if _, err := r.ParseArgs([]string{"-v", "--help"}); err != nil {
		log.Fatal(err)
	}
	if err := shellscript.DumpStore(os.Stdout, r.Store(), shellscript.WithSources()); err != nil {
		log.Fatal(err)
	}
	// Output:
	// verbose: 1 (source: cli:-v)
	// help: 1 (source: cli:--help)
}

// ExampleResolver_Strict reports tokens that match no option.
func ExampleResolver_Strict() {
	r := shellscript.NewResolver(nil).Strict(true)
	_, err := r.ParseArgs([]string{"--colour", "red"})
	fmt.Println(err)
	// Output:
	// option validation failed: 2 errors
	//   - --colour: unknown_option (does not match any option (strict mode))
	//   - red: unknown_option (does not match any option (strict mode))
}
