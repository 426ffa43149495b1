package shellscript

import (
	"strconv"
)

// ValueKind tells which form a stored Value holds.
type ValueKind int

const (
	// ScalarValue holds a single string.
	ScalarValue ValueKind = iota + 1
	// ListValue holds an ordered list of strings.
	ListValue
	// CountValue holds a switch occurrence counter.
	CountValue
)

// Value is one entry of a Store.
type Value struct {
	Kind   ValueKind
	Scalar string
	List   []string
	Count  int
}

// String returns the scalar, the last list entry, or the decimal count.
func (v Value) String() string {
	switch v.Kind {
	case ScalarValue:
		return v.Scalar
	case ListValue:
		if len(v.List) == 0 {
			return ""
		}
		return v.List[len(v.List)-1]
	case CountValue:
		return strconv.Itoa(v.Count)
	default:
		return ""
	}
}

// Strings returns every string held: a scalar becomes a one-element list.
func (v Value) Strings() []string {
	switch v.Kind {
	case ScalarValue:
		return []string{v.Scalar}
	case ListValue:
		out := make([]string, len(v.List))
		copy(out, v.List)
		return out
	case CountValue:
		return []string{strconv.Itoa(v.Count)}
	default:
		return nil
	}
}

// Interface returns the plain Go value: string, []string, or int.
func (v Value) Interface() any {
	switch v.Kind {
	case ScalarValue:
		return v.Scalar
	case ListValue:
		return v.Strings()
	case CountValue:
		return v.Count
	default:
		return nil
	}
}

// Store maps config keys to resolved values for one script invocation.
// Not safe for concurrent use.
type Store struct {
	values     map[string]Value
	order      []string
	provenance []FieldProvenance
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{values: make(map[string]Value)}
}

// Merge writes value under key following the merge law:
//   - absent key: stored as a scalar
//   - scalar equal to value: unchanged
//   - scalar different from value: promoted to [existing, value]
//   - list: value appended, duplicates included
//
// A count is treated as its decimal string.
// Merge reports whether the store changed.
func (s *Store) Merge(key, value string) bool {
	return s.merge(key, value, "")
}

// MergeFrom is Merge with a provenance label (e.g. "file:app.conf:3").
func (s *Store) MergeFrom(key, value, source string) bool {
	return s.merge(key, value, source)
}

func (s *Store) merge(key, value, source string) bool {
	existing, ok := s.values[key]
	if !ok {
		s.set(key, Value{Kind: ScalarValue, Scalar: value})
		s.record(key, source)
		return true
	}

	switch existing.Kind {
	case ListValue:
		existing.List = append(existing.List, value)
	default:
		current := existing.String()
		if current == value {
			return false
		}
		existing = Value{Kind: ListValue, List: []string{current, value}}
	}

	s.values[key] = existing
	s.record(key, source)
	return true
}

// Increment applies a switch occurrence to key and returns the resulting count.
// An absent key becomes 1. An existing count grows by one only when combine is true.
// Keys holding strings are left unchanged (the result is 0).
func (s *Store) Increment(key string, combine bool) int {
	return s.increment(key, combine, "")
}

// IncrementFrom is Increment with a provenance label.
func (s *Store) IncrementFrom(key string, combine bool, source string) int {
	return s.increment(key, combine, source)
}

func (s *Store) increment(key string, combine bool, source string) int {
	existing, ok := s.values[key]
	if !ok {
		s.set(key, Value{Kind: CountValue, Count: 1})
		s.record(key, source)
		return 1
	}
	if existing.Kind != CountValue {
		return 0
	}
	if combine {
		existing.Count++
		s.values[key] = existing
		s.record(key, source)
	}
	return existing.Count
}

func (s *Store) set(key string, v Value) {
	if _, ok := s.values[key]; !ok {
		s.order = append(s.order, key)
	}
	s.values[key] = v
}

func (s *Store) record(key, source string) {
	if source == "" {
		return
	}
	s.provenance = append(s.provenance, FieldProvenance{Key: key, SourceName: source})
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (Value, bool) {
	v, ok := s.values[key]
	if ok && v.Kind == ListValue {
		v.List = v.Strings()
	}
	return v, ok
}

// Has reports whether key has been written.
func (s *Store) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// String returns the scalar (or last list entry) stored under key, or "".
func (s *Store) String(key string) string {
	return s.values[key].String()
}

// Strings returns all strings stored under key, or nil.
func (s *Store) Strings(key string) []string {
	return s.values[key].Strings()
}

// Count returns the switch counter stored under key, or 0.
func (s *Store) Count(key string) int {
	v := s.values[key]
	if v.Kind != CountValue {
		return 0
	}
	return v.Count
}

// Keys returns the stored keys in first-write order.
func (s *Store) Keys() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	return len(s.values)
}

// Map returns the store as plain Go values (string, []string, int).
func (s *Store) Map() map[string]any {
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v.Interface()
	}
	return out
}
