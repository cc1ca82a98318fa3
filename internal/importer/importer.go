// Package importer populates the word table from external dictionary
// files: delimited text, JSON entry arrays, and StarDict dictionaries.
package importer

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	std "github.com/ianlewis/go-stardict"
	"github.com/ianlewis/go-stardict/dict"
	"github.com/ianlewis/go-stardict/idx"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"github.com/slovnyk/slovnykd/internal/store"
)

// Stats reports what an import pass did.
type Stats struct {
	Inserted int
	Skipped  int
}

// FromDelimited reads word/definition pairs from a delimited text file.
// Blank lines and lines starting with "#" are ignored, as are lines with
// no delimiter or an empty field. Everything after the first delimiter is
// the definition. A non-empty encoding names a legacy charset to decode
// from (e.g. "windows-1251").
func FromDelimited(st store.Store, path, delimiter, encoding string) (Stats, error) {
	var stats Stats
	if delimiter == "" {
		delimiter = "\t"
	}
	file, err := os.Open(path)
	if err != nil {
		return stats, err
	}
	defer file.Close()

	var r io.Reader = file
	if encoding != "" {
		enc, err := htmlindex.Get(encoding)
		if err != nil {
			return stats, fmt.Errorf("unknown encoding %q: %w", encoding, err)
		}
		r = transform.NewReader(file, enc.NewDecoder())
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		word, def, ok := strings.Cut(line, delimiter)
		if !ok {
			stats.Skipped++
			continue
		}
		word = strings.TrimSpace(word)
		def = strings.TrimSpace(def)
		if word == "" || def == "" {
			stats.Skipped++
			continue
		}
		if err := st.Insert(word, def); err != nil {
			return stats, err
		}
		stats.Inserted++
	}
	if err := scanner.Err(); err != nil {
		return stats, err
	}
	return stats, nil
}

// FromJSON reads a JSON array of {"word","definition"} objects.
func FromJSON(st store.Store, path string) (Stats, error) {
	var stats Stats
	data, err := os.ReadFile(path)
	if err != nil {
		return stats, err
	}
	var entries []store.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return stats, err
	}
	for _, e := range entries {
		word := strings.TrimSpace(e.Word)
		def := strings.TrimSpace(e.Definition)
		if word == "" || def == "" {
			stats.Skipped++
			continue
		}
		if err := st.Insert(word, def); err != nil {
			return stats, err
		}
		stats.Inserted++
	}
	return stats, nil
}

// FromStarDict imports every entry of a StarDict dictionary. Definitions
// keep their markup; it is stripped at lookup time.
func FromStarDict(st store.Store, ifoPath string) (Stats, error) {
	var stats Stats
	sd, err := std.Open(ifoPath, nil)
	if err != nil {
		return stats, err
	}
	d, err := sd.Dict()
	if err != nil {
		return stats, err
	}
	sc, err := sd.IndexScanner()
	if err != nil {
		return stats, err
	}
	defer sc.Close()

	for sc.Scan() {
		w := sc.Word()
		headword := strings.TrimSpace(w.Word)
		if headword == "" {
			stats.Skipped++
			continue
		}
		word := idx.Word{Word: w.Word, Offset: w.Offset, Size: w.Size}
		art, err := d.Word(&word)
		if err != nil {
			stats.Skipped++
			continue
		}
		def := renderArticle(art.Data)
		if def == "" {
			stats.Skipped++
			continue
		}
		if err := st.Insert(headword, def); err != nil {
			return stats, err
		}
		stats.Inserted++
	}
	if err := sc.Err(); err != nil {
		return stats, err
	}
	return stats, nil
}

func renderArticle(data []*dict.Data) string {
	var b strings.Builder
	for _, d := range data {
		s := strings.TrimSpace(renderData(d))
		if s == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(s)
	}
	return strings.TrimSpace(b.String())
}

func renderData(d *dict.Data) string {
	switch d.Type {
	case dict.HTMLType, dict.XDXFType, dict.PangoTextType,
		dict.UTFTextType, dict.LocaleTextType, dict.PhoneticType,
		dict.MediaWikiType, dict.WordNetType:
		return string(d.Data)
	default:
		// Media and resource blocks carry no definition text.
		return ""
	}
}
