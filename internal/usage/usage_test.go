package usage

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shellscript "github.com/paulrentschler/pwrentch.shellscript"
)

func testSchema(t *testing.T) *shellscript.Schema {
	t.Helper()
	schema := shellscript.NewSchema()
	require.NoError(t, schema.Register(shellscript.Option{
		Short:       "s",
		Long:        "server",
		Key:         "server",
		Kind:        shellscript.KindValue,
		Placeholder: "host",
		Description: "MySQL server to connect to",
	}))
	require.NoError(t, schema.Register(shellscript.Option{
		Long:        "database",
		Key:         "database",
		Kind:        shellscript.KindValue,
		Description: "Database name",
	}))
	return schema
}

func TestTag(t *testing.T) {
	value := shellscript.Option{Kind: shellscript.KindValue, Placeholder: "host"}
	noPlaceholder := shellscript.Option{Kind: shellscript.KindValue}
	sw := shellscript.Option{Kind: shellscript.KindSwitch}

	assert.Equal(t, "--server <host>", Tag(value, "--", "server"))
	assert.Equal(t, "-d <value>", Tag(noPlaceholder, "-", "d"))
	assert.Equal(t, "-v", Tag(sw, "-", "v"))
	assert.Equal(t, "", Tag(sw, "--", ""))
}

func TestEntries(t *testing.T) {
	entries := Entries(testSchema(t))

	want := []Entry{
		{Tag: "-h", Description: "Display this syntax help info"},
		{Tag: "--help", Description: "same as -h"},
		{Tag: "-v", Description: "Write debugging info to the debug log. Use multiple times to increase log verbosity."},
		{Tag: "-s <host>", Description: "MySQL server to connect to"},
		{Tag: "--server <host>", Description: "same as -s"},
		{Tag: "--database <value>", Description: "Database name"},
	}
	assert.Equal(t, want, entries)
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, "backup", "Backs up a database.", testSchema(t), Options{})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Backs up a database.")
	assert.Contains(t, out, "backup [options]")
	assert.Contains(t, out, "--server <host>")
	assert.Contains(t, out, "same as -s")
	assert.Contains(t, out, "NO WARRANTY")
	assert.True(t, strings.HasPrefix(out, strings.Repeat("-", DefaultWidth+1)+"\n"))
}

func TestRender_WrapsDescriptions(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, "backup", "", testSchema(t), Options{Width: 40, SuppressWarranty: true})
	require.NoError(t, err)

	out := buf.String()
	assert.NotContains(t, out, "NO WARRANTY")
	// descriptions get 40 minus the tag column (22) = 18 columns
	assert.Contains(t, out, "Write debugging\n")
	assert.NotContains(t, out, "Write debugging info")
}
