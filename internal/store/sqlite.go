package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLite is the Store implementation over a SQLite database file, using the
// pure-Go modernc.org/sqlite driver. Exact headword matching relies on the
// built-in NOCASE collation, which folds ASCII letters only; Cyrillic
// headwords compare byte-for-byte.
type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

// OpenSQLite opens (or creates) the database at path and ensures the word
// table exists.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS word (w TEXT NOT NULL, m TEXT NOT NULL)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init %s: %w", path, err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) LookupRaw(word string) (string, bool, error) {
	var m string
	err := s.db.QueryRow(`SELECT m FROM word WHERE w = ? COLLATE NOCASE LIMIT 1`, word).Scan(&m)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return m, true, nil
}

func (s *SQLite) ReverseCandidates(needle string, limit int) ([]Entry, error) {
	rows, err := s.db.Query(`SELECT w, m FROM word WHERE m LIKE ? LIMIT ?`, "%"+needle+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Word, &e.Definition); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLite) Insert(word, definition string) error {
	_, err := s.db.Exec(`INSERT INTO word (w, m) VALUES (?, ?)`, word, definition)
	return err
}

func (s *SQLite) Exists(word string) (bool, error) {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM word WHERE w = ? COLLATE NOCASE LIMIT 1`, word).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *SQLite) Update(word, definition string) (bool, error) {
	res, err := s.db.Exec(`UPDATE word SET m = ? WHERE w = ? COLLATE NOCASE`, definition, word)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLite) Delete(word string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM word WHERE w = ? COLLATE NOCASE`, word)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLite) Count() (int64, error) {
	var n int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM word`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *SQLite) EntryAt(offset int64) (Entry, bool, error) {
	var e Entry
	err := s.db.QueryRow(`SELECT w, m FROM word LIMIT 1 OFFSET ?`, offset).Scan(&e.Word, &e.Definition)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	return e, true, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
