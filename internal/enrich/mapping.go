package enrich

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/cheeseinvert/tour-data-eda/internal/fileutil"
	"github.com/cheeseinvert/tour-data-eda/internal/lookupcache"
)

// Mapping is the persisted subject-to-value table that is the system's
// durable output. Entries are stored under the casing first observed, but
// membership tests fold case the same way cache keys do, so "Coldplay" and
// "coldplay" address one entry.
type Mapping[V any] struct {
	values map[string]V
	index  map[string]string // folded subject -> stored key
}

// NewMapping returns an empty mapping.
func NewMapping[V any]() *Mapping[V] {
	return &Mapping[V]{
		values: make(map[string]V),
		index:  make(map[string]string),
	}
}

// LoadMapping reads a mapping file. A missing file yields an empty mapping
// and exists=false; that is not an error. An unreadable or malformed file is.
func LoadMapping[V any](path string) (*Mapping[V], bool, error) {
	m := NewMapping[V]()

	raw := make(map[string]V)
	if err := fileutil.ReadJSON(path, &raw); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return m, false, nil
		}
		return nil, false, fmt.Errorf("read mapping file: %w", err)
	}
	for subject, value := range raw {
		m.Merge(subject, value)
	}

	return m, true, nil
}

// Len returns the number of entries.
func (m *Mapping[V]) Len() int {
	return len(m.values)
}

// Has reports whether subject is mapped, ignoring case.
func (m *Mapping[V]) Has(subject string) bool {
	_, ok := m.index[lookupcache.Fold(subject)]
	return ok
}

// Get returns the value for subject, ignoring case.
func (m *Mapping[V]) Get(subject string) (V, bool) {
	stored, ok := m.index[lookupcache.Fold(subject)]
	if !ok {
		var zero V
		return zero, false
	}
	return m.values[stored], true
}

// Merge adds subject if it is not already mapped. Existing entries are never
// overwritten; Merge reports whether the entry was added.
func (m *Mapping[V]) Merge(subject string, value V) bool {
	folded := lookupcache.Fold(subject)
	if _, exists := m.index[folded]; exists {
		return false
	}
	m.values[subject] = value
	m.index[folded] = subject
	return true
}

// Keys returns the stored subjects sorted lexicographically.
func (m *Mapping[V]) Keys() []string {
	keys := make([]string, 0, len(m.values))
	for key := range m.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Save rewrites the mapping file wholesale, pretty-printed with sorted keys.
// The write goes through a temp file and rename.
func (m *Mapping[V]) Save(path string) error {
	return fileutil.WriteJSONAtomic(path, m.values)
}
