// Package store persists dictionary entries. The word table holds
// (headword, raw definition) rows; headwords are compared case-insensitively
// for exact lookups and are not required to be unique.
package store

// Entry is one row of the word table.
type Entry struct {
	Word       string `json:"word"`
	Definition string `json:"definition"`
}

// Store is the persistent word store. Implementations report not-found
// outcomes through their boolean results; an error means the store itself
// failed.
type Store interface {
	// LookupRaw returns the raw definition of the first entry whose
	// headword matches word case-insensitively.
	LookupRaw(word string) (string, bool, error)

	// ReverseCandidates returns up to limit entries whose raw definition
	// contains needle as a substring, in the store's natural order.
	ReverseCandidates(needle string, limit int) ([]Entry, error)

	// Insert adds an entry. Duplicate headwords are not rejected here.
	Insert(word, definition string) error

	Exists(word string) (bool, error)

	// Update rewrites the definition of every matching headword and
	// reports whether any row changed.
	Update(word, definition string) (bool, error)

	// Delete removes every matching headword and reports whether any row
	// was removed.
	Delete(word string) (bool, error)

	Count() (int64, error)

	// EntryAt returns the entry at the given offset under the store's
	// natural order.
	EntryAt(offset int64) (Entry, bool, error)

	Close() error
}
