package sourceenv

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	shellscript "github.com/paulrentschler/pwrentch.shellscript"
)

func testResolver(t *testing.T) *shellscript.Resolver {
	t.Helper()
	s := shellscript.NewSchema()
	for _, opt := range []shellscript.Option{
		{Long: "server", FileTag: "server", Key: "server", Kind: shellscript.KindValue, Validator: shellscript.ValidatorMySQLServer},
		{FileTag: "db.host", Key: "db_host", Kind: shellscript.KindValue},
		{FileTag: "max_connections", Key: "max", Kind: shellscript.KindValue},
		{FileTag: "quiet", Key: "quiet", Kind: shellscript.KindSwitch},
	} {
		if err := s.Register(opt); err != nil {
			t.Fatalf("Register() error = %v", err)
		}
	}
	return shellscript.NewResolver(s)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		expected map[string]any
	}{
		{
			name: "no prefix",
			opts: Options{Environ: []string{"SERVER=db01", "HOME=/root"}},
			expected: map[string]any{
				"server": "db01",
			},
		},
		{
			name: "double underscore as level separator",
			opts: Options{Environ: []string{"DB__HOST=db.example.com"}},
			expected: map[string]any{
				"db_host": "db.example.com",
			},
		},
		{
			name: "single underscore preserved",
			opts: Options{Environ: []string{"MAX_CONNECTIONS=100"}},
			expected: map[string]any{
				"max": "100",
			},
		},
		{
			name: "prefix filters and is stripped",
			opts: Options{
				Prefix:  "APP_",
				Environ: []string{"APP_SERVER=db01", "SERVER=ignored", "OTHER_SERVER=ignored"},
			},
			expected: map[string]any{
				"server": "db01",
			},
		},
		{
			name: "prefix is case-insensitive by default",
			opts: Options{
				Prefix:  "APP_",
				Environ: []string{"app_server=db01"},
			},
			expected: map[string]any{
				"server": "db01",
			},
		},
		{
			name: "case-sensitive prefix",
			opts: Options{
				Prefix:        "APP_",
				CaseSensitive: true,
				Environ:       []string{"app_server=db01", "APP_MAX_CONNECTIONS=5"},
			},
			expected: map[string]any{
				"max": "5",
			},
		},
		{
			name: "switches and empty values are skipped",
			opts: Options{Environ: []string{"QUIET=1", "SERVER=", "MALFORMED"}},
			expected: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := testResolver(t)
			res := Parse(r, tt.opts, nil)

			if !res.Consumed {
				t.Error("Consumed = false, want true")
			}
			if diff := cmp.Diff(tt.expected, r.Store().Map()); diff != "" {
				t.Errorf("store mismatch (-want +got):\n%s", diff)
			}
			if res.Applied != len(tt.expected) {
				t.Errorf("Applied = %d, want %d", res.Applied, len(tt.expected))
			}
		})
	}
}

func TestParse_Rejection(t *testing.T) {
	r := testResolver(t)
	res := Parse(r, Options{Environ: []string{"SERVER=db01:3306"}}, nil)

	if len(res.Rejections) != 1 {
		t.Fatalf("Rejections = %d, want 1", len(res.Rejections))
	}
	if got := res.Rejections[0].Source; got != "env:SERVER" {
		t.Errorf("Source = %q, want %q", got, "env:SERVER")
	}
	if r.Store().Has("server") {
		t.Error("rejected value was stored")
	}
}

func TestParse_OrderAndProvenance(t *testing.T) {
	r := testResolver(t)
	alt := shellscript.NewStore()
	Parse(r, Options{Prefix: "APP_", Environ: []string{"APP_SERVER=db02", "APP_DB__HOST=h"}}, alt)

	if r.Store().Len() != 0 {
		t.Error("resolver store written despite alternate store")
	}
	if diff := cmp.Diff([]string{"db_host", "server"}, alt.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if src, _ := alt.Provenance().Last("server"); src != "env:APP_SERVER" {
		t.Errorf("Last(server) = %q", src)
	}
}

func TestParse_MergesWithExisting(t *testing.T) {
	r := testResolver(t)
	if _, err := r.ParseArgs([]string{"--server", "db01"}); err != nil {
		t.Fatal(err)
	}
	Parse(r, Options{Environ: []string{"SERVER=db02"}}, nil)

	if diff := cmp.Diff([]string{"db01", "db02"}, r.Store().Strings("server")); diff != "" {
		t.Errorf("Strings(server) mismatch (-want +got):\n%s", diff)
	}
}
