package textops

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Punctuation is stripped from both ends of every token
const Punctuation = ".,;:!?()[]{}\"'"

// ErrEmptySeparator is returned by Split for a separator that is empty after trimming
var ErrEmptySeparator = errors.New("textops: empty separator")

// SearchHit is the number of occurrences of one requested word
type SearchHit struct {
	Word  string
	Count int
}

func (h SearchHit) String() string {
	return fmt.Sprintf("%s: %d", h.Word, h.Count)
}

// --------------------------------------------------------------------------
// Tokenizer
// --------------------------------------------------------------------------

// Tokenize splits text on whitespace, strips surrounding punctuation and lowercases
// every token. A field made only of punctuation becomes the empty token, it is
// counted and sorted like any other word.
func Tokenize(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, len(fields))
	for i, field := range fields {
		tokens[i] = strings.ToLower(strings.Trim(field, Punctuation))
	}
	return tokens
}

// distinct returns the set of tokens
func distinct(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		set[token] = struct{}{}
	}
	return set
}

// --------------------------------------------------------------------------
// Operations
// --------------------------------------------------------------------------

// WordCount returns the number of distinct tokens in text
func WordCount(text string) int {
	return len(distinct(Tokenize(text)))
}

// WordSort returns the distinct tokens of text in ascending order
func WordSort(text string) []string {
	set := distinct(Tokenize(text))
	words := make([]string, 0, len(set))
	for word := range set {
		words = append(words, word)
	}
	sort.Strings(words)
	return words
}

// Search counts the case-insensitive occurrences of each requested word.
// Hits are returned in request order; a word requested twice is reported once.
func Search(text string, words []string) []SearchHit {
	counts := make(map[string]int)
	for _, token := range Tokenize(text) {
		counts[token]++
	}

	seen := make(map[string]bool, len(words))
	hits := make([]SearchHit, 0, len(words))
	for _, word := range words {
		if seen[word] {
			continue
		}
		seen[word] = true
		hits = append(hits, SearchHit{Word: word, Count: counts[strings.ToLower(word)]})
	}
	return hits
}

// FormatSearch renders hits as `word: count` lines
func FormatSearch(hits []SearchHit) string {
	lines := make([]string, len(hits))
	for i, hit := range hits {
		lines[i] = hit.String()
	}
	return strings.Join(lines, "\n")
}

// Split lowercases text and splits it by every separator in order. After each stage,
// fragments that are empty or whitespace-only are discarded.
func Split(text string, separators []string) ([]string, error) {
	fragments := []string{strings.ToLower(text)}
	for _, sep := range separators {
		sep = strings.TrimSpace(sep)
		if sep == "" {
			return nil, ErrEmptySeparator
		}

		next := make([]string, 0, len(fragments))
		for _, fragment := range fragments {
			for _, part := range strings.Split(fragment, sep) {
				if strings.TrimSpace(part) != "" {
					next = append(next, part)
				}
			}
		}
		fragments = next
	}
	return fragments, nil
}

// SplitFileName returns the name of the n-th (1-based) fragment file of name
func SplitFileName(name string, n int) string {
	return fmt.Sprintf("%s_split_%d.txt", name, n)
}
