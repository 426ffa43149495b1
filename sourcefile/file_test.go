package sourcefile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shellscript "github.com/paulrentschler/pwrentch.shellscript"
)

func testResolver(t *testing.T) *shellscript.Resolver {
	t.Helper()
	s := shellscript.NewSchema()
	for _, opt := range []shellscript.Option{
		{FileTag: "server", Key: "server", Kind: shellscript.KindValue, Validator: shellscript.ValidatorMySQLServer},
		{FileTag: "db.host", Key: "db_host", Kind: shellscript.KindValue},
		{FileTag: "db.port", Key: "db_port", Kind: shellscript.KindValue},
		{FileTag: "compress", Key: "compress", Kind: shellscript.KindSwitch},
	} {
		require.NoError(t, s.Register(opt))
	}
	return shellscript.NewResolver(s)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParse_YAML(t *testing.T) {
	path := writeFile(t, "backup.yaml", `
server:
  - db01
  - db02
db:
  host: localhost
  port: 5432
compress: true
extra: ignored
`)

	r := testResolver(t)
	res, err := Parse(r, path, Options{}, nil)
	require.NoError(t, err)

	store := r.Store()
	assert.Equal(t, []string{"db01", "db02"}, store.Strings("server"))
	assert.Equal(t, "localhost", store.String("db_host"))
	assert.Equal(t, "5432", store.String("db_port"))
	assert.False(t, store.Has("compress"), "switches are not read from files")

	assert.Equal(t, 4, res.Applied)
	assert.Equal(t, []string{"extra"}, res.Unresolved)
	assert.False(t, res.Consumed)

	src, _ := store.Provenance().Last("db_host")
	assert.Equal(t, "file:backup.yaml#db.host", src)
}

func TestParse_JSON(t *testing.T) {
	path := writeFile(t, "backup.json", `{"DB": {"Host": "db.example.com", "Port": 3306}, "server": "db01"}`)

	r := testResolver(t)
	res, err := Parse(r, path, Options{}, nil)
	require.NoError(t, err)

	assert.Equal(t, "db.example.com", r.Store().String("db_host"))
	assert.Equal(t, "3306", r.Store().String("db_port"))
	assert.Equal(t, "db01", r.Store().String("server"))
	assert.True(t, res.Consumed)
}

func TestParse_TOML(t *testing.T) {
	path := writeFile(t, "backup.toml", `
server = ["db01", "db01"]

[db]
host = "localhost"
port = 5432
`)

	r := testResolver(t)
	_, err := Parse(r, path, Options{}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"db01"}, r.Store().Strings("server"), "equal scalar merge is a no-op")
	assert.Equal(t, "5432", r.Store().String("db_port"))
}

func TestParse_ExplicitFormat(t *testing.T) {
	path := writeFile(t, "backup.conf", "server: db01\n")

	r := testResolver(t)
	_, err := Parse(r, path, Options{Format: "yaml"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "db01", r.Store().String("server"))
}

func TestParse_Rejection(t *testing.T) {
	path := writeFile(t, "backup.yaml", "server: db01:3306\n")

	r := testResolver(t)
	res, err := Parse(r, path, Options{}, nil)
	require.NoError(t, err)
	require.Len(t, res.Rejections, 1)
	assert.False(t, r.Store().Has("server"))
}

func TestParse_Strict(t *testing.T) {
	path := writeFile(t, "backup.yaml", "server: db01\nunknown: 1\n")

	r := testResolver(t).Strict(true)
	_, err := Parse(r, path, Options{}, nil)
	assert.True(t, errors.Is(err, shellscript.ErrUnknownOption))
	assert.Equal(t, "db01", r.Store().String("server"))
}

func TestParse_AlternateStore(t *testing.T) {
	path := writeFile(t, "backup.yaml", "server: db01\n")

	r := testResolver(t)
	alt := shellscript.NewStore()
	_, err := Parse(r, path, Options{}, alt)
	require.NoError(t, err)
	assert.Equal(t, "db01", alt.String("server"))
	assert.Equal(t, 0, r.Store().Len())
}

func TestParse_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	t.Run("not required", func(t *testing.T) {
		res, err := Parse(testResolver(t), path, Options{}, nil)
		require.NoError(t, err)
		assert.True(t, res.Consumed)
		assert.Zero(t, res.Applied)
	})

	t.Run("required", func(t *testing.T) {
		_, err := Parse(testResolver(t), path, Options{Required: true}, nil)
		assert.True(t, errors.Is(err, shellscript.ErrConfigNotFound))
	})
}

func TestParse_Unreadable(t *testing.T) {
	_, err := Parse(testResolver(t), t.TempDir(), Options{Format: "yaml"}, nil)
	assert.True(t, errors.Is(err, shellscript.ErrConfigUnreadable))
}

func TestParse_InvalidContent(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{"yaml", "bad.yaml", "server: [unclosed\n", "parse YAML file"},
		{"json", "bad.json", `{"server": `, "parse JSON file"},
		{"toml", "bad.toml", "server = \n", "parse TOML file"},
		{"unsupported", "bad.ini", "server=db01\n", "unsupported file format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			_, err := Parse(testResolver(t), path, Options{}, nil)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestParse_EmptyFile(t *testing.T) {
	path := writeFile(t, "empty.yaml", "")

	res, err := Parse(testResolver(t), path, Options{}, nil)
	require.NoError(t, err)
	assert.True(t, res.Consumed)
}

func TestScalars(t *testing.T) {
	assert.Nil(t, scalars(nil))
	assert.Equal(t, []string{"true"}, scalars(true))
	assert.Equal(t, []string{"1.5"}, scalars(1.5))
	assert.Equal(t, []string{"a"}, scalars("  a "))
	assert.Equal(t, []string{"a", "2"}, scalars([]any{"a", 2, nil, []any{"x"}}))
}
