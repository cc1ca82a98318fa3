package engine

import (
	"strings"
	"testing"

	"github.com/slovnyk/slovnykd/internal/observability"
	"github.com/slovnyk/slovnykd/internal/store"
)

func newTestEngine(entries ...store.Entry) (*Engine, *store.MemStore) {
	st := &store.MemStore{Entries: entries}
	return New(st, observability.New("error")), st
}

func TestSearchForward(t *testing.T) {
	e, _ := newTestEngine(store.Entry{Word: "cat", Definition: "a small domesticated feline [n]"})
	for _, q := range []string{"cat", "CAT", "Cat"} {
		if got := e.Search(q); got != "a small domesticated feline" {
			t.Errorf("Search(%q) = %q", q, got)
		}
	}
}

func TestSearchNotFound(t *testing.T) {
	e, _ := newTestEngine(store.Entry{Word: "cat", Definition: "кіт"})
	if got := e.Search("zebra"); got != NotFound {
		t.Errorf("Search(zebra) = %q, want %s", got, NotFound)
	}
}

func TestSearchStoreFailure(t *testing.T) {
	e, st := newTestEngine()
	st.Fail = true
	if got := e.Search("cat"); got != DatabaseError {
		t.Errorf("Search = %q, want %s", got, DatabaseError)
	}
}

func TestSearchRedirectOneHop(t *testing.T) {
	e, _ := newTestEngine(
		store.Entry{Word: "kitty", Definition: "див. <<cat>>"},
		store.Entry{Word: "cat", Definition: "a small domesticated feline"},
	)
	got := e.Search("kitty")
	want := "a small domesticated feline\n\n(See: cat)"
	if got != want {
		t.Errorf("Search(kitty) = %q, want %q", got, want)
	}
}

func TestSearchRedirectTwoHops(t *testing.T) {
	e, _ := newTestEngine(
		store.Entry{Word: "a", Definition: "див. <<b>>"},
		store.Entry{Word: "b", Definition: "див. <<c>>"},
		store.Entry{Word: "c", Definition: "кінцеве означення слова"},
	)
	got := e.Search("a")
	want := "кінцеве означення слова\n\n(See: c)"
	if got != want {
		t.Errorf("Search(a) = %q, want %q", got, want)
	}
}

func TestSearchRedirectChainTooLong(t *testing.T) {
	// a -> b -> c -> d: the chain stops after two hops and keeps c's text.
	// The depth sentinel never reaches the caller.
	e, _ := newTestEngine(
		store.Entry{Word: "a", Definition: "див. <<b>>"},
		store.Entry{Word: "b", Definition: "див. <<c>>"},
		store.Entry{Word: "c", Definition: "див. <<d>>"},
		store.Entry{Word: "d", Definition: "означення на дні ланцюга"},
	)
	got := e.Search("a")
	if strings.Contains(got, MaxRedirectDepth) {
		t.Fatalf("depth sentinel leaked to caller: %q", got)
	}
	// The tag stripper eats `<<c>` from c's raw text, so the kept text is
	// the normalized remainder of the second hop.
	want := "див. >\n\n(See: c)"
	if got != want {
		t.Errorf("Search(a) = %q, want %q", got, want)
	}
}

func TestSearchRedirectDanglingTarget(t *testing.T) {
	// The target does not exist: fall back to the un-redirected text.
	e, _ := newTestEngine(store.Entry{Word: "kitty", Definition: "див. <<ghost>>"})
	if got := e.Search("kitty"); got != "див. >" {
		t.Errorf("Search(kitty) = %q, want normalized fallback text", got)
	}
}

func TestSearchSelfRedirect(t *testing.T) {
	e, _ := newTestEngine(store.Entry{Word: "cat", Definition: "див. <<cat>>"})
	if got := e.Search("cat"); got != "див. >" {
		t.Errorf("Search(cat) = %q, want plain text", got)
	}
}

func TestReverseSearch(t *testing.T) {
	e, _ := newTestEngine(
		store.Entry{Word: "feline", Definition: "тварина родини котячих, кіт"},
		store.Entry{Word: "cat", Definition: "кіт"},
		store.Entry{Word: "tomcat", Definition: "кіт самець"},
	)
	// "cat" and "tomcat" both match at position 0; the earliest-seen wins.
	got := e.Search("кіт")
	if got != "cat|кіт" {
		t.Errorf("Search(кіт) = %q, want %q", got, "cat|кіт")
	}
}

func TestReverseSearchPrefersEarlierPosition(t *testing.T) {
	e, _ := newTestEngine(
		store.Entry{Word: "feline", Definition: "тварина, кіт"},
		store.Entry{Word: "cat", Definition: "кіт свійський"},
	)
	if got := e.Search("кіт"); got != "cat|кіт свійський" {
		t.Errorf("Search(кіт) = %q", got)
	}
}

func TestReverseSearchSkipsRedirects(t *testing.T) {
	e, _ := newTestEngine(
		store.Entry{Word: "kitty", Definition: "див. <<кіт>>"},
		store.Entry{Word: "cat", Definition: "свійський кіт"},
	)
	if got := e.Search("кіт"); got != "cat|свійський кіт" {
		t.Errorf("Search(кіт) = %q", got)
	}
}

func TestReverseSearchWholeWordOnly(t *testing.T) {
	e, _ := newTestEngine(
		store.Entry{Word: "whisker", Definition: "вуса кітка"},
	)
	if got := e.Search("кіт"); got != NotFound {
		t.Errorf("Search(кіт) = %q, want %s", got, NotFound)
	}
}

func TestReverseSearchSkipsEmptyNormalized(t *testing.T) {
	// The only content is the query itself inside a bracketed span, which
	// normalizes away entirely.
	e, _ := newTestEngine(
		store.Entry{Word: "whisker", Definition: "[кіт]"},
	)
	if got := e.Search("кіт"); got != NotFound {
		t.Errorf("Search(кіт) = %q, want %s", got, NotFound)
	}
}

func TestReverseSearchEmptyCandidateDoesNotShadowLater(t *testing.T) {
	e, _ := newTestEngine(
		store.Entry{Word: "whisker", Definition: "[кіт]"},
		store.Entry{Word: "cat", Definition: "пухнастий кіт"},
	)
	if got := e.Search("кіт"); got != "cat|пухнастий кіт" {
		t.Errorf("Search(кіт) = %q", got)
	}
}

func TestRandomEmpty(t *testing.T) {
	e, _ := newTestEngine()
	if got := e.Random(); got != EmptyDictionary {
		t.Errorf("Random = %q, want %s", got, EmptyDictionary)
	}
}

func TestRandomPlainEntry(t *testing.T) {
	e, _ := newTestEngine(store.Entry{Word: "cat", Definition: "кіт [зоол.]"})
	e.randN = func(int64) int64 { return 0 }
	if got := e.Random(); got != "cat|кіт" {
		t.Errorf("Random = %q", got)
	}
}

func TestRandomRedirectEntry(t *testing.T) {
	e, _ := newTestEngine(
		store.Entry{Word: "kitty", Definition: "див. <<cat>>"},
		store.Entry{Word: "cat", Definition: "a small domesticated feline"},
	)
	e.randN = func(int64) int64 { return 0 }
	got := e.Random()
	want := "kitty|a small domesticated feline\n\n(See: cat)"
	if got != want {
		t.Errorf("Random = %q, want %q", got, want)
	}
}

func TestRandomSkipsEmptyEntries(t *testing.T) {
	e, _ := newTestEngine(
		store.Entry{Word: "blank", Definition: "<i>[x]</i>"},
		store.Entry{Word: "cat", Definition: "кіт"},
	)
	calls := 0
	e.randN = func(int64) int64 {
		calls++
		if calls == 1 {
			return 0
		}
		return 1
	}
	if got := e.Random(); got != "cat|кіт" {
		t.Errorf("Random = %q", got)
	}
}

func TestRandomGivesUp(t *testing.T) {
	e, _ := newTestEngine(store.Entry{Word: "blank", Definition: "<i>[x]</i>"})
	e.randN = func(int64) int64 { return 0 }
	if got := e.Random(); got != NotFound {
		t.Errorf("Random = %q, want %s", got, NotFound)
	}
}

func TestMutations(t *testing.T) {
	e, st := newTestEngine(store.Entry{Word: "cat", Definition: "кіт"})

	if !e.Exists("CAT") {
		t.Error("Exists(CAT) = false")
	}
	if e.Exists("dog") {
		t.Error("Exists(dog) = true")
	}

	if err := e.Add("dog", "пес"); err != nil {
		t.Fatal(err)
	}
	if len(st.Entries) != 2 {
		t.Fatalf("entries = %d", len(st.Entries))
	}

	if err := e.Update("dog", "собака"); err != nil {
		t.Fatal(err)
	}
	if def, _, _ := st.LookupRaw("dog"); def != "собака" {
		t.Errorf("definition after update = %q", def)
	}
	if err := e.Update("ghost", "x"); err != ErrNotFound {
		t.Errorf("Update(ghost) = %v, want ErrNotFound", err)
	}

	if err := e.Delete("dog"); err != nil {
		t.Fatal(err)
	}
	if err := e.Delete("dog"); err != ErrNotFound {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}

	if n := e.Size(); n != 1 {
		t.Errorf("Size = %d", n)
	}
}

func TestMutationsStoreFailure(t *testing.T) {
	e, st := newTestEngine(store.Entry{Word: "cat", Definition: "кіт"})
	st.Fail = true

	if err := e.Add("dog", "пес"); err == nil || err == ErrNotFound {
		t.Errorf("Add = %v, want store error", err)
	}
	if err := e.Update("cat", "x"); err == nil || err == ErrNotFound {
		t.Errorf("Update = %v, want store error", err)
	}
	if err := e.Delete("cat"); err == nil || err == ErrNotFound {
		t.Errorf("Delete = %v, want store error", err)
	}
	if n := e.Size(); n != 0 {
		t.Errorf("Size under failure = %d, want 0", n)
	}
}
