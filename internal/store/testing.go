package store

import (
	"errors"
	"strings"
)

// ErrUnavailable is reported by MemStore when it is configured to fail.
var ErrUnavailable = errors.New("store unavailable")

// MemStore is an in-memory Store for tests. Headword matching mirrors the
// SQLite NOCASE collation: ASCII letters fold, everything else compares
// byte-for-byte.
type MemStore struct {
	Entries []Entry

	// Fail makes every call report ErrUnavailable.
	Fail bool
	// FailInsert makes Insert alone report ErrUnavailable.
	FailInsert bool
}

var _ Store = (*MemStore)(nil)

// foldASCII lowercases ASCII letters only, matching NOCASE.
func foldASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

func (m *MemStore) LookupRaw(word string) (string, bool, error) {
	if m.Fail {
		return "", false, ErrUnavailable
	}
	key := foldASCII(word)
	for _, e := range m.Entries {
		if foldASCII(e.Word) == key {
			return e.Definition, true, nil
		}
	}
	return "", false, nil
}

func (m *MemStore) ReverseCandidates(needle string, limit int) ([]Entry, error) {
	if m.Fail {
		return nil, ErrUnavailable
	}
	var out []Entry
	for _, e := range m.Entries {
		if len(out) >= limit {
			break
		}
		if strings.Contains(e.Definition, needle) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MemStore) Insert(word, definition string) error {
	if m.Fail || m.FailInsert {
		return ErrUnavailable
	}
	m.Entries = append(m.Entries, Entry{Word: word, Definition: definition})
	return nil
}

func (m *MemStore) Exists(word string) (bool, error) {
	if m.Fail {
		return false, ErrUnavailable
	}
	_, ok, err := m.LookupRaw(word)
	return ok, err
}

func (m *MemStore) Update(word, definition string) (bool, error) {
	if m.Fail {
		return false, ErrUnavailable
	}
	key := foldASCII(word)
	changed := false
	for i, e := range m.Entries {
		if foldASCII(e.Word) == key {
			m.Entries[i].Definition = definition
			changed = true
		}
	}
	return changed, nil
}

func (m *MemStore) Delete(word string) (bool, error) {
	if m.Fail {
		return false, ErrUnavailable
	}
	key := foldASCII(word)
	kept := m.Entries[:0]
	removed := false
	for _, e := range m.Entries {
		if foldASCII(e.Word) == key {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	m.Entries = kept
	return removed, nil
}

func (m *MemStore) Count() (int64, error) {
	if m.Fail {
		return 0, ErrUnavailable
	}
	return int64(len(m.Entries)), nil
}

func (m *MemStore) EntryAt(offset int64) (Entry, bool, error) {
	if m.Fail {
		return Entry{}, false, ErrUnavailable
	}
	if offset < 0 || offset >= int64(len(m.Entries)) {
		return Entry{}, false, nil
	}
	return m.Entries[offset], true, nil
}

func (m *MemStore) Close() error {
	return nil
}
