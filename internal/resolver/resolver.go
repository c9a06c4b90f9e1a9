// Package resolver implements the Candidate Resolver (spec.md §4.1): it
// turns a user-supplied partial mnemonic — literal words, prefixes, or the
// `*` sentinel — into an ordered sequence of word slots, and computes the
// upper bound on the number of combinations those slots represent
// (spec.md §4.2).
package resolver

import (
	"fmt"
	"math/big"

	"github.com/seedscan/seedscan/internal/wordlist"
)

// Kind identifies which of the three word-slot variants a phrase position
// resolved to.
type Kind int

const (
	// Fixed is a confirmed wordlist word; there is nothing to enumerate.
	Fixed Kind = iota
	// Prefix is a non-empty ordered list of wordlist words sharing a
	// user-supplied prefix (more than one dictionary entry matched).
	Prefix
	// Unknown has no information; the full wordlist applies.
	Unknown
)

// Slot is one position in the phrase.
type Slot struct {
	Kind Kind
	// Word is set only when Kind == Fixed.
	Word string
	// Candidates is set only when Kind == Prefix or Kind == Unknown, in
	// wordlist order. For Unknown it is the full 2048-word list.
	Candidates []string
}

// Cardinality returns the number of candidates a slot contributes, 1 for
// Fixed slots.
func (s Slot) Cardinality() int {
	if s.Kind == Fixed {
		return 1
	}
	return len(s.Candidates)
}

// InvalidWordError reports a user-supplied token that matched no wordlist
// entry, exactly nor as a prefix.
type InvalidWordError struct {
	Word string
}

func (e *InvalidWordError) Error() string {
	return fmt.Sprintf("invalid word: %q is not a BIP-39 wordlist entry or prefix", e.Word)
}

// ValidLengths are the legal BIP-39 mnemonic lengths.
var ValidLengths = map[int]bool{12: true, 15: true, 18: true, 21: true, 24: true}

// Resolved is the output of Resolve: the per-position slots plus counts
// the caller needs for reporting and the upper-bound calculation.
type Resolved struct {
	Slots           []Slot
	UnknownCount    int
	PrefixCount     int
	FixedCount      int
	UnknownPositions []int // phrase positions, in left-to-right order, that are Unknown or Prefix
}

// Resolve applies the rules of spec.md §4.1 to each token in order. A
// token equal to "*" resolves to Unknown. A token that is itself a
// wordlist member resolves to Fixed. A non-member token resolves to
// Fixed if exactly one wordlist word starts with it, to Prefix if more
// than one does, and fails with InvalidWordError if none does.
func Resolve(tokens []string) (*Resolved, error) {
	if !ValidLengths[len(tokens)] {
		return nil, fmt.Errorf("invalid phrase length %d: must be one of 12, 15, 18, 21, 24", len(tokens))
	}

	r := &Resolved{Slots: make([]Slot, len(tokens))}

	for i, tok := range tokens {
		switch {
		case tok == "*":
			r.Slots[i] = Slot{Kind: Unknown, Candidates: wordlist.WithPrefix("")}
			r.UnknownCount++
			r.UnknownPositions = append(r.UnknownPositions, i)

		case wordlist.Contains(tok):
			r.Slots[i] = Slot{Kind: Fixed, Word: tok}
			r.FixedCount++

		default:
			matches := wordlist.WithPrefix(tok)
			switch len(matches) {
			case 0:
				return nil, &InvalidWordError{Word: tok}
			case 1:
				r.Slots[i] = Slot{Kind: Fixed, Word: matches[0]}
				r.FixedCount++
			default:
				r.Slots[i] = Slot{Kind: Prefix, Candidates: matches}
				r.PrefixCount++
				r.UnknownPositions = append(r.UnknownPositions, i)
			}
		}
	}

	return r, nil
}

// Basis returns the mixed-radix basis (c_0, ..., c_{K-1}): the candidate
// count of each Unknown/Prefix position, in left-to-right phrase order.
func (r *Resolved) Basis() []int {
	basis := make([]int, 0, len(r.UnknownPositions))
	for _, pos := range r.UnknownPositions {
		basis = append(basis, r.Slots[pos].Cardinality())
	}
	return basis
}

// UpperBound computes N, the total combination count, per spec.md §4.2.
//
// With repetition allowed this is exact: N = W^U * prod(prefix cardinalities).
// Without repetition it is an exact count for the Unknown positions' draw
// against a shrinking pool of size (W - F - j), but — per spec.md's
// documented open question — does not subtract prefix-candidate
// cardinalities from that pool, so it is a tight upper bound rather than
// an exact count whenever a prefix candidate could coincide with an
// Unknown draw. This over-approximation is preserved deliberately (see
// DESIGN.md) and used only to drive progress percentages and ETA; the
// enumerator's own without-repetition pruning is exact.
func (r *Resolved) UpperBound(repeatingAllowed bool) *big.Int {
	n := big.NewInt(1)
	w := big.NewInt(int64(wordlist.Size))

	for _, pos := range r.UnknownPositions {
		slot := r.Slots[pos]
		if slot.Kind == Prefix {
			n.Mul(n, big.NewInt(int64(slot.Cardinality())))
		}
	}

	if repeatingAllowed {
		for range unknownOnly(r) {
			n.Mul(n, w)
		}
		return n
	}

	pool := wordlist.Size - r.FixedCount
	j := 0
	for range unknownOnly(r) {
		n.Mul(n, big.NewInt(int64(pool-j)))
		j++
	}
	return n
}

// unknownOnly returns the subset of UnknownPositions whose slot kind is
// Unknown (as opposed to Prefix), used when iterating just the free draws.
func unknownOnly(r *Resolved) []int {
	var out []int
	for _, pos := range r.UnknownPositions {
		if r.Slots[pos].Kind == Unknown {
			out = append(out, pos)
		}
	}
	return out
}

// Assemble reproduces the full phrase for a tuple of candidate words, one
// per UnknownPositions entry in order. It is the inverse companion to
// Resolve: Resolve(phrase) then Assemble(Resolve(phrase), tuple) must
// reproduce phrase exactly for any tuple consistent with the resolution.
func (r *Resolved) Assemble(tuple []string) []string {
	out := make([]string, len(r.Slots))
	ti := 0
	unknownSet := make(map[int]bool, len(r.UnknownPositions))
	for _, pos := range r.UnknownPositions {
		unknownSet[pos] = true
	}
	for i, slot := range r.Slots {
		if unknownSet[i] {
			out[i] = tuple[ti]
			ti++
		} else {
			out[i] = slot.Word
		}
	}
	return out
}
