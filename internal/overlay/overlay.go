// Package overlay holds the in-memory word→definition mapping that is
// consulted before the persistent store on write paths and mirrored to a
// durable line-oriented file.
package overlay

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// Cache is the file-backed overlay dictionary. The file format is one
// `word|definition` record per line; definitions must not contain a literal
// newline or they corrupt record boundaries on reload.
type Cache struct {
	mu    sync.Mutex
	path  string
	words map[string]string
}

func New(path string) *Cache {
	return &Cache{
		path:  path,
		words: make(map[string]string),
	}
}

// Load reads the overlay file into memory. A missing file is not an error;
// malformed lines (no separator) are skipped.
func (c *Cache) Load() error {
	f, err := os.Open(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	defer f.Close()

	c.mu.Lock()
	defer c.mu.Unlock()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		word, def, ok := strings.Cut(line, "|")
		if !ok {
			continue
		}
		c.words[word] = def
	}
	return scanner.Err()
}

func (c *Cache) Get(word string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	def, ok := c.words[word]
	return def, ok
}

func (c *Cache) Set(word, definition string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.words[word] = definition
}

// Delete removes word and reports whether it was present.
func (c *Cache) Delete(word string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.words[word]; !ok {
		return false
	}
	delete(c.words, word)
	return true
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.words)
}

// Save rewrites the whole overlay file: records are written to a temporary
// path which then atomically replaces the live file. On replace failure the
// temporary file is removed and the previous file stays intact. Records are
// sorted so re-running Save from the same state reproduces the same file.
func (c *Cache) Save() error {
	c.mu.Lock()
	words := make([]string, 0, len(c.words))
	for w := range c.words {
		words = append(words, w)
	}
	sort.Strings(words)
	var b strings.Builder
	for _, w := range words {
		b.WriteString(w)
		b.WriteByte('|')
		b.WriteString(c.words[w])
		b.WriteByte('\n')
	}
	c.mu.Unlock()

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", c.path, err)
	}
	return nil
}
