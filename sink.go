package shellscript

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultDebugLog is the debug log file name used when none is given.
const DefaultDebugLog = "debug.log"

// debugTimeFormat matches the "[Y-m-d H:i:s]" stamp scripts have always written.
const debugTimeFormat = "2006-01-02 15:04:05"

var lineBreaks = strings.NewReplacer("\n", "", "\r", "")

// LogSinkOptions configures a LogSink.
type LogSinkOptions struct {
	// VerbosityKey is the store key whose count gates messages above level 0.
	// Default: "verbose".
	VerbosityKey string

	// Prefix is printed before every message.
	Prefix string
}

// LogSink writes diagnostics through a charmbracelet logger.
//
// Level 0 messages are always written. A message of level N > 0 is written only
// when the store holds a number >= N under the verbosity key.
type LogSink struct {
	logger *log.Logger
	store  *Store
	key    string
}

// NewLogSink creates a sink writing to w, gated by the verbosity count in store.
func NewLogSink(w io.Writer, store *Store, opts LogSinkOptions) *LogSink {
	key := opts.VerbosityKey
	if key == "" {
		key = VerboseKey
	}

	logger := log.NewWithOptions(w, log.Options{
		Prefix:          opts.Prefix,
		ReportTimestamp: true,
		TimeFormat:      debugTimeFormat,
		Level:           log.DebugLevel,
	})

	return &LogSink{
		logger: logger,
		store:  store,
		key:    key,
	}
}

// SetStore changes the store whose verbosity count gates messages.
func (s *LogSink) SetStore(store *Store) {
	s.store = store
}

// OpenDebugLog opens path for appending, creating it if needed.
// An empty path opens DefaultDebugLog in the working directory.
func OpenDebugLog(path string) (*os.File, error) {
	if path == "" {
		path = DefaultDebugLog
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open debug log %s: %w", path, err)
	}
	return f, nil
}

// Enabled reports whether a message of the given level would be written.
func (s *LogSink) Enabled(level int) bool {
	if level <= 0 {
		return true
	}
	return level <= s.threshold()
}

func (s *LogSink) threshold() int {
	if s.store == nil {
		return 0
	}
	v, ok := s.store.Get(s.key)
	if !ok {
		return 0
	}
	if v.Kind == CountValue {
		return v.Count
	}
	n, err := strconv.Atoi(strings.TrimSpace(v.String()))
	if err != nil {
		return 0
	}
	return n
}

// Emit writes message if its level passes the verbosity gate.
func (s *LogSink) Emit(message string, level int) {
	if !s.Enabled(level) {
		return
	}

	message = lineBreaks.Replace(message)
	if level > 1 {
		message = strings.Repeat("    ", level-1) + message
	}

	if level == 0 {
		s.logger.Error(message)
		return
	}
	s.logger.Debug(message)
}
