package shellscript

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// MaxSnapshotSize is the maximum allowed snapshot size (100MB).
const MaxSnapshotSize = 100 * 1024 * 1024

// SnapshotVersion is the current snapshot format version.
const SnapshotVersion = "1.0"

// Redacted replaces the value of redacted keys in a snapshot.
const Redacted = "***redacted***"

// Snapshot errors.
var (
	// ErrSnapshotTooLarge is returned when a snapshot exceeds MaxSnapshotSize.
	ErrSnapshotTooLarge = errors.New("shellscript: snapshot exceeds 100MB size limit")

	// ErrNilStore is returned when CreateSnapshot receives a nil store.
	ErrNilStore = errors.New("shellscript: store is nil")

	// ErrUnsupportedVersion is returned when reading a snapshot with unknown version.
	ErrUnsupportedVersion = errors.New("shellscript: unsupported snapshot version")
)

var supportedVersions = map[string]bool{
	"1.0": true,
}

// Snapshot is a point-in-time capture of a Store.
type Snapshot struct {
	// Version is the snapshot format version (currently "1.0")
	Version string `json:"version"`

	// Timestamp is when the snapshot was created
	Timestamp time.Time `json:"timestamp"`

	// Keys lists the captured keys in first-write order.
	Keys []string `json:"keys"`

	// Values holds plain values: string, []string, or a switch count.
	Values map[string]any `json:"values"`

	// Redacted lists keys whose values were replaced by Redacted.
	Redacted []string `json:"redacted,omitempty"`

	// Provenance tracks the source of each write.
	Provenance []FieldProvenance `json:"provenance"`
}

// SnapshotOption configures snapshot creation behavior.
type SnapshotOption func(*snapshotConfig)

type snapshotConfig struct {
	exclude map[string]bool
	redact  map[string]bool
}

// WithExcludeKeys leaves the given keys out of the snapshot.
func WithExcludeKeys(keys ...string) SnapshotOption {
	return func(cfg *snapshotConfig) {
		for _, k := range keys {
			cfg.exclude[k] = true
		}
	}
}

// WithRedactKeys keeps the given keys in the snapshot with their values replaced
// by Redacted (e.g. passwords).
func WithRedactKeys(keys ...string) SnapshotOption {
	return func(cfg *snapshotConfig) {
		for _, k := range keys {
			cfg.redact[k] = true
		}
	}
}

// CreateSnapshot captures the current state of store.
// The snapshot's Timestamp is captured at creation time.
func CreateSnapshot(store *Store, opts ...SnapshotOption) (*Snapshot, error) {
	if store == nil {
		return nil, ErrNilStore
	}

	cfg := &snapshotConfig{
		exclude: make(map[string]bool),
		redact:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	snap := &Snapshot{
		Version:   SnapshotVersion,
		Timestamp: time.Now().UTC(),
		Values:    make(map[string]any),
	}

	for _, key := range store.Keys() {
		if cfg.exclude[key] {
			continue
		}
		snap.Keys = append(snap.Keys, key)
		if cfg.redact[key] {
			snap.Values[key] = Redacted
			snap.Redacted = append(snap.Redacted, key)
			continue
		}
		v, _ := store.Get(key)
		snap.Values[key] = v.Interface()
	}

	for _, f := range store.Provenance().Fields {
		if !cfg.exclude[f.Key] {
			snap.Provenance = append(snap.Provenance, f)
		}
	}

	return snap, nil
}

// Restore rebuilds a Store holding the captured values in the captured order.
// Redacted keys are skipped and provenance is not replayed.
func (s *Snapshot) Restore() (*Store, error) {
	redacted := make(map[string]bool, len(s.Redacted))
	for _, k := range s.Redacted {
		redacted[k] = true
	}

	keys := append([]string(nil), s.Keys...)
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		seen[k] = true
	}
	var extra []string
	for k := range s.Values {
		if !seen[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	keys = append(keys, extra...)

	store := NewStore()
	for _, key := range keys {
		if redacted[key] {
			continue
		}
		raw, ok := s.Values[key]
		if !ok {
			continue
		}
		if err := restoreValue(store, key, raw); err != nil {
			return nil, err
		}
	}
	return store, nil
}

func restoreValue(store *Store, key string, raw any) error {
	switch v := raw.(type) {
	case string:
		store.set(key, Value{Kind: ScalarValue, Scalar: v})
	case []string:
		store.set(key, Value{Kind: ListValue, List: append([]string(nil), v...)})
	case []any:
		list := make([]string, len(v))
		for i, item := range v {
			str, ok := item.(string)
			if !ok {
				return fmt.Errorf("restore %s: list entry %v is not a string", key, item)
			}
			list[i] = str
		}
		store.set(key, Value{Kind: ListValue, List: list})
	case int:
		store.set(key, Value{Kind: CountValue, Count: v})
	case float64:
		if v != math.Trunc(v) || v < 0 {
			return fmt.Errorf("restore %s: count %v is not a whole number", key, v)
		}
		store.set(key, Value{Kind: CountValue, Count: int(v)})
	default:
		return fmt.Errorf("restore %s: unsupported value type %T", key, raw)
	}
	return nil
}

// ExpandPath expands template variables using current time.
// For consistency with snapshot metadata, prefer WriteSnapshot which
// uses the snapshot's internal timestamp for expansion.
func ExpandPath(template string) string {
	return ExpandPathWithTime(template, time.Now())
}

// ExpandPathWithTime replaces all {{timestamp}} occurrences with t formatted as 20060102-150405.
func ExpandPathWithTime(template string, t time.Time) string {
	timestamp := t.UTC().Format("20060102-150405")
	return strings.ReplaceAll(template, "{{timestamp}}", timestamp)
}

// WriteSnapshot persists a snapshot to disk with atomic write semantics and
// returns the expanded path. {{timestamp}} in pathTemplate uses snapshot.Timestamp
// so the file name matches the metadata.
func WriteSnapshot(snapshot *Snapshot, pathTemplate string) (string, error) {
	if snapshot == nil {
		return "", errors.New("shellscript: snapshot is nil")
	}

	targetPath := ExpandPathWithTime(pathTemplate, snapshot.Timestamp)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", err
	}
	if len(data) > MaxSnapshotSize {
		return "", ErrSnapshotTooLarge
	}

	dir := filepath.Dir(targetPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return "", err
		}
	}

	tempPath, err := tempFileName(targetPath)
	if err != nil {
		return "", err
	}

	var tempFileCreated bool
	defer func() {
		if tempFileCreated {
			_ = os.Remove(tempPath)
		}
	}()

	if err := os.WriteFile(tempPath, data, 0o600); err != nil {
		return "", err
	}
	tempFileCreated = true

	if err := os.Rename(tempPath, targetPath); err != nil {
		return "", err
	}
	tempFileCreated = false

	return targetPath, nil
}

// ReadSnapshot loads a snapshot written by WriteSnapshot.
func ReadSnapshot(path string) (*Snapshot, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	if info.Size() > MaxSnapshotSize {
		return nil, ErrSnapshotTooLarge
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	if !supportedVersions[snap.Version] {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVersion, snap.Version)
	}
	if snap.Values == nil {
		snap.Values = make(map[string]any)
	}
	return &snap, nil
}

// tempFileName returns targetPath + ".tmp." + 16 random hex chars, in the
// target's directory so the final rename stays on one filesystem.
func tempFileName(targetPath string) (string, error) {
	randomBytes := make([]byte, 8)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", err
	}
	return targetPath + ".tmp." + hex.EncodeToString(randomBytes), nil
}
