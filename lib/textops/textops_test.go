package textops

import (
	"errors"
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	got := Tokenize("  Hello, WORLD!  (hello) \"quoted\" ... it's\n\tdone.")
	want := []string{"hello", "world", "hello", "quoted", "", "it's", "done"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestWordCount(t *testing.T) {
	tests := map[string]int{
		"A a a b":                2,
		"":                       0,
		"one. One! ONE? two":     2,
		"[x] {y} (z) x; y: z":    3,
		"... !!! word":           2,
		"multi\nline\ttext line": 3,
	}
	for text, want := range tests {
		if got := WordCount(text); got != want {
			t.Errorf("WordCount(%q): expected %d, got %d", text, want, got)
		}
	}
}

func TestWordSort(t *testing.T) {
	if got := WordSort("A a a b"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Expected [a b], got %v", got)
	}
	if got := WordSort("pear, Apple; banana apple"); !reflect.DeepEqual(got, []string{"apple", "banana", "pear"}) {
		t.Errorf("Expected sorted distinct words, got %v", got)
	}
	if got := WordSort(""); len(got) != 0 {
		t.Errorf("Expected no words, got %v", got)
	}
}

func TestPunctuationOnlyFields(t *testing.T) {
	if got := WordCount("hello ... world"); got != 3 {
		t.Errorf("Expected 3, got %d", got)
	}
	if got := WordSort("hello ... world"); !reflect.DeepEqual(got, []string{"", "hello", "world"}) {
		t.Errorf("Expected the empty word first, got %q", got)
	}
	if got := Search("hello ... world !!", []string{""}); !reflect.DeepEqual(got, []SearchHit{{Word: "", Count: 2}}) {
		t.Errorf("Expected two empty words, got %v", got)
	}
}

func TestSearch(t *testing.T) {
	hits := Search("A a a b", []string{"a", "b", "c"})
	if got := FormatSearch(hits); got != "a: 3\nb: 1\nc: 0" {
		t.Errorf("Expected %q, got %q", "a: 3\nb: 1\nc: 0", got)
	}

	// request order and case of the request are kept, duplicates collapse
	hits = Search("Go go GO, rust.", []string{"Rust", "GO", "Rust"})
	want := []SearchHit{{Word: "Rust", Count: 1}, {Word: "GO", Count: 3}}
	if !reflect.DeepEqual(hits, want) {
		t.Errorf("Expected %v, got %v", want, hits)
	}
}

func TestSplit(t *testing.T) {
	t.Run("DiscardEmptyFragments", func(t *testing.T) {
		got, err := Split("a-b--c", []string{"-"})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
			t.Errorf("Expected [a b c], got %v", got)
		}
	})

	t.Run("SequentialSeparators", func(t *testing.T) {
		got, err := Split("One and two; three and  ;four", []string{";", " and "})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		// separators are trimmed, so " and " splits on "and"; the whitespace-only
		// fragment behind the second "and" is discarded
		want := []string{"one ", " two", " three ", "four"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Expected %q, got %q", want, got)
		}
	})

	t.Run("WhitespaceOnlyDiscarded", func(t *testing.T) {
		got, _ := Split("x| |\n|y", []string{"|"})
		if !reflect.DeepEqual(got, []string{"x", "y"}) {
			t.Errorf("Expected [x y], got %q", got)
		}
	})

	t.Run("EmptySeparator", func(t *testing.T) {
		if _, err := Split("abc", []string{" "}); !errors.Is(err, ErrEmptySeparator) {
			t.Errorf("Expected ErrEmptySeparator, got %v", err)
		}
	})
}

func TestSplitFileName(t *testing.T) {
	if got := SplitFileName("notes.txt", 2); got != "notes.txt_split_2.txt" {
		t.Errorf("Expected notes.txt_split_2.txt, got %s", got)
	}
}
