// Package engine resolves dictionary queries against the persistent word
// store: forward headword lookup, redirect chain resolution, reverse
// whole-word matching and random entry selection.
package engine

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/slovnyk/slovnykd/internal/markup"
	"github.com/slovnyk/slovnykd/internal/observability"
	"github.com/slovnyk/slovnykd/internal/store"
)

// Sentinel response values, reproduced byte-for-byte on the wire.
const (
	DatabaseError    = "DATABASE_ERROR"
	NotFound         = "NOT_FOUND"
	EmptyDictionary  = "EMPTY_DICTIONARY"
	MaxRedirectDepth = "MAX_REDIRECT_DEPTH"
)

const (
	// reverseCandidateLimit caps how many substring-filtered rows the
	// reverse search inspects.
	reverseCandidateLimit = 100
	randomAttempts        = 5
	maxRedirectHops       = 2
)

var (
	ErrNotFound = errors.New("word not found")
	ErrStore    = errors.New("store failure")
)

type Engine struct {
	store store.Store
	log   *observability.Logger
	randN func(int64) int64
}

func New(st store.Store, log *observability.Logger) *Engine {
	return &Engine{store: st, log: log, randN: rand.Int64N}
}

// Search performs a forward lookup of query and falls back to a reverse
// (definition-side) whole-word search. It returns normalized display text, a
// "word|definition" pair for reverse hits, or one of the sentinels.
func (e *Engine) Search(query string) string {
	if e.store == nil {
		return DatabaseError
	}
	raw, found, err := e.store.LookupRaw(query)
	if err != nil {
		e.log.Error("headword lookup failed", "query", query, "error", err)
		return DatabaseError
	}
	if found {
		result := markup.Normalize(raw)
		if result != "" {
			if annotated, ok := e.resolveRedirect(query, raw); ok {
				return annotated
			}
			return result
		}
	}
	return e.reverseSearch(query)
}

// chainLookup is the exact headword lookup used while chasing a redirect
// chain. It returns the raw definition for inspection, "" on a miss, and the
// depth sentinel once the chain exceeds its bound.
func (e *Engine) chainLookup(word string, depth int) string {
	if depth > maxRedirectHops {
		e.log.Warn("max redirect depth reached", "word", word)
		return MaxRedirectDepth
	}
	raw, found, err := e.store.LookupRaw(word)
	if err != nil {
		return DatabaseError
	}
	if !found {
		return ""
	}
	return raw
}

func usable(raw string) bool {
	return raw != "" && raw != DatabaseError && raw != MaxRedirectDepth
}

// resolveRedirect chases a redirect chain for at most maxRedirectHops hops
// and returns the resolved text spliced with a "(See: target)" annotation.
// ok is false when raw is not a redirect or the first hop fails; the caller
// then falls back to the plain normalized text.
func (e *Engine) resolveRedirect(query, raw string) (string, bool) {
	if !isRedirect(raw) {
		return "", false
	}
	target := redirectTarget(raw)
	if target == "" || target == query {
		return "", false
	}

	var result, final string
	for depth := 1; depth <= maxRedirectHops; depth++ {
		next := e.chainLookup(target, depth)
		if !usable(next) {
			break
		}
		result = markup.Normalize(next)
		final = target
		if !isRedirect(next) {
			break
		}
		t := redirectTarget(next)
		if t == "" || t == target {
			break
		}
		target = t
	}
	if final == "" {
		return "", false
	}
	e.log.Debug("redirect resolved", "query", query, "target", final)
	return result + "\n\n(See: " + final + ")", true
}

// reverseSearch scans definitions for query as a whole word and returns the
// candidate with the earliest match position as "word|definition". Redirects
// and candidates whose definition normalizes to nothing are skipped.
func (e *Engine) reverseSearch(query string) string {
	candidates, err := e.store.ReverseCandidates(query, reverseCandidateLimit)
	if err != nil {
		e.log.Error("reverse search failed", "query", query, "error", err)
		return NotFound
	}

	best := -1
	var bestWord, bestDef string
	for _, c := range candidates {
		if isRedirect(c.Definition) {
			continue
		}
		pos := findWholeWord(c.Definition, query)
		if pos < 0 {
			continue
		}
		def := markup.Normalize(c.Definition)
		if def == "" {
			continue
		}
		if best < 0 || pos < best {
			best = pos
			bestWord = c.Word
			bestDef = def
			if pos == 0 {
				break
			}
		}
	}
	if best < 0 {
		return NotFound
	}
	return bestWord + "|" + bestDef
}

// Random picks a random usable entry, resolving pure redirects one hop.
func (e *Engine) Random() string {
	if e.store == nil {
		return DatabaseError
	}
	total, err := e.store.Count()
	if err != nil {
		e.log.Error("count failed", "error", err)
		return DatabaseError
	}
	if total == 0 {
		return EmptyDictionary
	}
	for attempt := 0; attempt < randomAttempts; attempt++ {
		offset := e.randN(total)
		entry, ok, err := e.store.EntryAt(offset)
		if err != nil {
			e.log.Error("random row fetch failed", "offset", offset, "error", err)
			return DatabaseError
		}
		if !ok {
			continue
		}
		if isRedirect(entry.Definition) {
			target := redirectTarget(entry.Definition)
			if target != "" {
				resolved := e.chainLookup(target, 1)
				if usable(resolved) && !isRedirect(resolved) {
					return entry.Word + "|" + markup.Normalize(resolved) + "\n\n(See: " + target + ")"
				}
			}
			continue
		}
		def := markup.Normalize(entry.Definition)
		if def == "" {
			continue
		}
		return entry.Word + "|" + def
	}
	return NotFound
}

func (e *Engine) Exists(word string) bool {
	if e.store == nil {
		return false
	}
	ok, err := e.store.Exists(word)
	if err != nil {
		e.log.Error("exists check failed", "word", word, "error", err)
		return false
	}
	return ok
}

// Add inserts the pair into the store. Duplicates are the caller's concern.
func (e *Engine) Add(word, definition string) error {
	if e.store == nil {
		return ErrStore
	}
	if err := e.store.Insert(word, definition); err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	return nil
}

func (e *Engine) Update(word, definition string) error {
	if e.store == nil {
		return ErrStore
	}
	exists, err := e.store.Exists(word)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	if !exists {
		return ErrNotFound
	}
	changed, err := e.store.Update(word, definition)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	if !changed {
		return ErrNotFound
	}
	return nil
}

func (e *Engine) Delete(word string) error {
	if e.store == nil {
		return ErrStore
	}
	exists, err := e.store.Exists(word)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	if !exists {
		return ErrNotFound
	}
	removed, err := e.store.Delete(word)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	if !removed {
		return ErrNotFound
	}
	return nil
}

func (e *Engine) Size() int64 {
	if e.store == nil {
		return 0
	}
	n, err := e.store.Count()
	if err != nil {
		e.log.Error("count failed", "error", err)
		return 0
	}
	return n
}
