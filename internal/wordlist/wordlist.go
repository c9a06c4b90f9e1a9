// Package wordlist wraps the fixed 2048-word BIP-39 English dictionary with
// the sorted-search helpers the Candidate Resolver and Combination
// Enumerator need: exact membership, index lookup, and prefix ranges.
package wordlist

import (
	"fmt"
	"sort"

	"github.com/tyler-smith/go-bip39/wordlists"
)

// Size is the fixed length of the BIP-39 English wordlist.
const Size = 2048

// sorted holds the English wordlist words in lexicographic order, alongside
// sortedIdx, the original (canonical, BIP-39-index) position of each entry.
// The canonical list from go-bip39 is already alphabetical, so both slices
// track together, but we never assume that invariant holds across versions
// of the dependency and sort defensively in init.
var (
	words     []string
	sorted    []string
	sortedIdx []int
)

func init() {
	words = wordlists.English
	if len(words) != Size {
		panic(fmt.Sprintf("bip39 english wordlist has %d entries, want %d", len(words), Size))
	}

	sortedIdx = make([]int, Size)
	for i := range sortedIdx {
		sortedIdx[i] = i
	}
	sort.Slice(sortedIdx, func(i, j int) bool {
		return words[sortedIdx[i]] < words[sortedIdx[j]]
	})
	sorted = make([]string, Size)
	for i, idx := range sortedIdx {
		sorted[i] = words[idx]
	}
}

// Word returns the canonical word at BIP-39 index i (0..2047).
func Word(i int) string {
	return words[i]
}

// Len returns the fixed wordlist size (2048).
func Len() int {
	return Size
}

// Contains reports whether w is a member of the wordlist.
func Contains(w string) bool {
	i := sort.SearchStrings(sorted, w)
	return i < len(sorted) && sorted[i] == w
}

// WithPrefix returns every wordlist entry starting with prefix, in
// canonical (BIP-39 index) order — the order the Combination Enumerator
// must iterate prefix candidates in, per spec.md §4.3.
func WithPrefix(prefix string) []string {
	if prefix == "" {
		out := make([]string, Size)
		copy(out, words)
		return out
	}

	lo := sort.SearchStrings(sorted, prefix)
	var matches []string
	for i := lo; i < len(sorted) && hasPrefix(sorted[i], prefix); i++ {
		matches = append(matches, sorted[i])
	}
	sort.Slice(matches, func(i, j int) bool {
		return Index(matches[i]) < Index(matches[j])
	})
	return matches
}

// Index returns the canonical BIP-39 index of w, or -1 if w is not a
// wordlist member.
func Index(w string) int {
	i := sort.SearchStrings(sorted, w)
	if i >= len(sorted) || sorted[i] != w {
		return -1
	}
	return sortedIdx[i]
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
