package normalize

import (
	"testing"
)

func TestToLowerDotPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "double underscore to dot",
			input:    "FOO__BAR",
			expected: "foo.bar",
		},
		{
			name:     "single underscore preserved",
			input:    "DB_MAX_CONNECTIONS",
			expected: "db_max_connections",
		},
		{
			name:     "mixed double and single underscores",
			input:    "API__RATE_LIMIT",
			expected: "api.rate_limit",
		},
		{
			name:     "already lowercase",
			input:    "simple",
			expected: "simple",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ToLowerDotPath(tt.input)
			if result != tt.expected {
				t.Errorf("ToLowerDotPath(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFileTag(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"server", "server"},
		{"Server", "server"},
		{"  DB.Host ", "db.host"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := FileTag(tt.input); got != tt.expected {
			t.Errorf("FileTag(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestTrimDashes(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"--name", "name"},
		{"-v", "v"},
		{"name", "name"},
		{"--", ""},
	}

	for _, tt := range tests {
		if got := TrimDashes(tt.input); got != tt.expected {
			t.Errorf("TrimDashes(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSplitInline(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantTag   string
		wantValue string
	}{
		{"no separator", "name", "name", ""},
		{"equals", "name=Alice", "name", "Alice"},
		{"colon", "name:Alice", "name", "Alice"},
		{"equals wins over earlier colon", "url:x=y", "url:x", "y"},
		{"equals keeps later colons", "url=http://host:80", "url", "http://host:80"},
		{"only first equals splits", "expr=a=b", "expr", "a=b"},
		{"empty inline value", "name=", "name", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, value := SplitInline(tt.input)
			if tag != tt.wantTag || value != tt.wantValue {
				t.Errorf("SplitInline(%q) = (%q, %q), want (%q, %q)", tt.input, tag, value, tt.wantTag, tt.wantValue)
			}
		})
	}
}
