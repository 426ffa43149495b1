package shellscript

// Provenance lists where each write to a Store came from, in write order.
type Provenance struct {
	Fields []FieldProvenance
}

// FieldProvenance describes one write to a store key.
type FieldProvenance struct {
	Key        string // Store key (e.g., "server")
	SourceName string // Source identifier (e.g., "cli:--server", "file:app.conf:3", "env:APP_SERVER")
}

// Provenance returns the recorded writes of the store.
// Writes made through Merge or Increment carry no label and are not recorded.
func (s *Store) Provenance() *Provenance {
	fields := make([]FieldProvenance, len(s.provenance))
	copy(fields, s.provenance)
	return &Provenance{Fields: fields}
}

// Sources returns the source labels recorded for key, oldest first.
func (p *Provenance) Sources(key string) []string {
	var out []string
	for _, f := range p.Fields {
		if f.Key == key {
			out = append(out, f.SourceName)
		}
	}
	return out
}

// Last returns the most recent source label recorded for key.
func (p *Provenance) Last(key string) (string, bool) {
	for i := len(p.Fields) - 1; i >= 0; i-- {
		if p.Fields[i].Key == key {
			return p.Fields[i].SourceName, true
		}
	}
	return "", false
}
