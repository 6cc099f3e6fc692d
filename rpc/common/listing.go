package common

import (
	"bytes"
	"strings"
)

const (
	listingHeader      = "Current Directory: "
	listingDirsHeader  = "Directories:"
	listingFilesHeader = "Files:"
	listingEntryPrefix = "-- "
)

// Listing is the directory state announced after every command
type Listing struct {
	Path  string
	Dirs  []string
	Files []string
}

// String renders the listing in its wire format:
//
//	Current Directory: /abs/path
//	Directories:
//	-- dir
//	Files:
//	-- file
func (l Listing) String() string {
	var sb strings.Builder
	sb.WriteString(listingHeader)
	sb.WriteString(l.Path)
	sb.WriteString("\n")
	sb.WriteString(listingDirsHeader)
	for _, dir := range l.Dirs {
		sb.WriteString("\n" + listingEntryPrefix + dir)
	}
	sb.WriteString("\n")
	sb.WriteString(listingFilesHeader)
	for _, file := range l.Files {
		sb.WriteString("\n" + listingEntryPrefix + file)
	}
	return sb.String()
}

// IsListing reports whether a frame payload is a directory listing
func IsListing(payload []byte) bool {
	return bytes.HasPrefix(payload, []byte(listingHeader))
}

// ParseListing parses a listing payload. The boolean is false if the payload is
// not a listing.
func ParseListing(payload []byte) (Listing, bool) {
	if !IsListing(payload) {
		return Listing{}, false
	}

	lines := strings.Split(string(payload), "\n")
	l := Listing{Path: strings.TrimPrefix(lines[0], listingHeader)}

	var section *[]string
	for _, line := range lines[1:] {
		switch {
		case line == listingDirsHeader:
			section = &l.Dirs
		case line == listingFilesHeader:
			section = &l.Files
		case strings.HasPrefix(line, listingEntryPrefix) && section != nil:
			*section = append(*section, strings.TrimPrefix(line, listingEntryPrefix))
		default:
			return Listing{}, false
		}
	}
	return l, true
}
