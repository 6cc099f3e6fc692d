package common

import (
	"reflect"
	"testing"
)

func TestListingString(t *testing.T) {
	l := Listing{Path: "/docs", Dirs: []string{"a", "b"}, Files: []string{"x.txt"}}
	want := "Current Directory: /docs\nDirectories:\n-- a\n-- b\nFiles:\n-- x.txt"
	if l.String() != want {
		t.Errorf("Expected %q, got %q", want, l.String())
	}

	empty := Listing{Path: "/"}
	if empty.String() != "Current Directory: /\nDirectories:\nFiles:" {
		t.Errorf("Unexpected empty listing %q", empty.String())
	}
}

func TestParseListing(t *testing.T) {
	tests := []Listing{
		{Path: "/"},
		{Path: "/a/b", Dirs: []string{"c"}},
		{Path: "/x", Files: []string{"one file.txt", "two.txt"}},
		{Path: "/y", Dirs: []string{"d1", "d2"}, Files: []string{"f"}},
	}

	for _, want := range tests {
		got, ok := ParseListing([]byte(want.String()))
		if !ok {
			t.Fatalf("ParseListing(%q) failed", want.String())
		}
		if got.Path != want.Path || !reflect.DeepEqual(got.Dirs, want.Dirs) || !reflect.DeepEqual(got.Files, want.Files) {
			t.Errorf("Expected %+v, got %+v", want, got)
		}
	}
}

func TestIsListing(t *testing.T) {
	if !IsListing([]byte("Current Directory: /\nDirectories:\nFiles:")) {
		t.Errorf("Expected a listing")
	}
	for _, payload := range []string{"42", "Search Results:", "a\nb", ""} {
		if IsListing([]byte(payload)) {
			t.Errorf("Did not expect %q to be a listing", payload)
		}
		if _, ok := ParseListing([]byte(payload)); ok {
			t.Errorf("Did not expect %q to parse", payload)
		}
	}
	if _, ok := ParseListing([]byte("Current Directory: /\ngarbage")); ok {
		t.Errorf("Expected malformed listing to be rejected")
	}
}
