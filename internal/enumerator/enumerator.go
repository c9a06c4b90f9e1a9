// Package enumerator implements the Combination Enumerator (spec.md §4.3):
// a lazy, chunked, seekable stream of word tuples filling the unknown
// positions of a partial mnemonic, in mixed-radix lexicographic order.
package enumerator

import (
	"context"
	"fmt"
	"math/big"
)

// Chunk is a contiguous, non-empty (except possibly the final chunk)
// slice of tuples together with the half-open global-index interval
// [Start, End) it occupies — the "fingerprint" of spec.md's GLOSSARY.
type Chunk struct {
	Tuples [][]string
	Start  *big.Int
	End    *big.Int
}

// Enumerator streams tuples of length K, one word per unknown phrase
// position, over the cartesian product of per-position candidate lists
// (the mixed-radix basis). In without-repetition mode it prunes any
// tuple that, combined with the Fixed words, would repeat a word
// anywhere in the assembled phrase.
type Enumerator struct {
	basis      []int
	candidates [][]string
	fixedWords map[string]bool
	repeating  bool
	chunkSize  int

	n *big.Int // product(basis); exact total only in repeating mode

	digits      []int
	initialized bool
	exhausted   bool
	emitted     *big.Int // count of tuples emitted so far (global index cursor)
}

// New constructs an Enumerator. basis and candidates must have the same
// length K (one entry per unknown/prefix phrase position, in left-to-right
// order); candidates[k] must be in wordlist order. fixedWords is the set
// of words already pinned by Fixed slots, consulted only when repeating
// is false. chunkSize must be positive.
func New(basis []int, candidates [][]string, fixedWords []string, repeating bool, chunkSize int) (*Enumerator, error) {
	if len(basis) != len(candidates) {
		return nil, fmt.Errorf("enumerator: basis has %d entries, candidates has %d", len(basis), len(candidates))
	}
	if chunkSize <= 0 {
		return nil, fmt.Errorf("enumerator: chunk size must be positive, got %d", chunkSize)
	}

	n := big.NewInt(1)
	for _, c := range basis {
		n.Mul(n, big.NewInt(int64(c)))
	}

	fixed := make(map[string]bool, len(fixedWords))
	for _, w := range fixedWords {
		fixed[w] = true
	}

	return &Enumerator{
		basis:      basis,
		candidates: candidates,
		fixedWords: fixed,
		repeating:  repeating,
		chunkSize:  chunkSize,
		n:          n,
		digits:     make([]int, len(basis)),
		emitted:    big.NewInt(0),
	}, nil
}

// TotalWithRepetition returns product(basis) — exact in repeating mode,
// and an upper bound on the without-repetition valid-tuple count (the
// latter never exceeds it, since pruning only removes tuples).
func (e *Enumerator) TotalWithRepetition() *big.Int {
	return new(big.Int).Set(e.n)
}

// Emitted returns the number of tuples emitted so far (the next global
// index to be assigned).
func (e *Enumerator) Emitted() *big.Int {
	return new(big.Int).Set(e.emitted)
}

// Exhausted reports whether the stream has yielded its final tuple.
func (e *Enumerator) Exhausted() bool {
	return e.exhausted
}

// Seek positions the enumerator so its next emission is the tuple at
// global index start. In repeating mode this decodes start directly into
// mixed-radix digits (O(K)). In without-repetition mode, per spec.md
// §4.3, direct indexing would land on a different tuple than discarding
// `start` valid tuples would (because invalid tuples are pruned from the
// index space) — so Seek restarts from zero and fast-forwards, discarding
// exactly `start` valid tuples. This is exact, not an approximation.
func (e *Enumerator) Seek(ctx context.Context, start *big.Int) error {
	if start.Sign() < 0 {
		return fmt.Errorf("enumerator: seek index must be non-negative, got %s", start)
	}

	if e.repeating {
		e.decodeDigits(start)
		e.exhausted = start.Cmp(e.n) >= 0
		e.emitted = new(big.Int).Set(start)
		return nil
	}

	e.resetDigits()
	e.exhausted = false
	e.emitted = big.NewInt(0)

	count := big.NewInt(0)
	one := big.NewInt(1)
	for count.Cmp(start) < 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if _, ok := e.advance(); !ok {
			break
		}
		count.Add(count, one)
	}
	e.emitted = count
	return nil
}

// NextChunk returns the next chunk of up to the configured chunk-size
// tuples, along with its [Start, End) global-index interval. ok is false
// once the stream is exhausted; an emitted chunk is always non-empty
// except possibly a final short chunk, per spec.md §4.3.
func (e *Enumerator) NextChunk(ctx context.Context) (Chunk, bool, error) {
	start := e.Emitted()
	tuples := make([][]string, 0, e.chunkSize)

	for len(tuples) < e.chunkSize {
		select {
		case <-ctx.Done():
			return Chunk{}, false, ctx.Err()
		default:
		}

		tuple, ok := e.advance()
		if !ok {
			break
		}
		tuples = append(tuples, tuple)
		e.emitted.Add(e.emitted, big.NewInt(1))
	}

	if len(tuples) == 0 {
		return Chunk{}, false, nil
	}
	return Chunk{Tuples: tuples, Start: start, End: e.Emitted()}, true, nil
}

// advance returns the next valid tuple (applying the without-repetition
// uniqueness prune) and steps the internal cursor past it, or (nil,
// false) if the stream is exhausted.
func (e *Enumerator) advance() ([]string, bool) {
	if e.exhausted {
		return nil, false
	}

	if !e.initialized {
		e.initialized = true
	} else if !e.stepDigits() {
		e.exhausted = true
		return nil, false
	}

	for {
		if e.isValid() {
			return e.currentTuple(), true
		}
		if !e.stepDigits() {
			e.exhausted = true
			return nil, false
		}
	}
}

// currentTuple materializes the tuple the digit vector currently points at.
func (e *Enumerator) currentTuple() []string {
	tuple := make([]string, len(e.digits))
	for k, d := range e.digits {
		tuple[k] = e.candidates[k][d]
	}
	return tuple
}

// isValid reports whether the current digit vector, combined with the
// Fixed words, assembles a phrase with no repeated word. Always true in
// repeating mode.
func (e *Enumerator) isValid() bool {
	if e.repeating {
		return true
	}

	seen := make(map[string]bool, len(e.fixedWords)+len(e.digits))
	for w := range e.fixedWords {
		seen[w] = true
	}
	for k, d := range e.digits {
		w := e.candidates[k][d]
		if seen[w] {
			return false
		}
		seen[w] = true
	}
	return true
}

// stepDigits advances the mixed-radix digit vector by one: position
// K-1 (last) varies fastest, carrying leftward into slower positions,
// mirroring an odometer. It returns false once every digit has wrapped
// back to zero, meaning the whole space has been visited (this also
// covers K == 0: the loop body never executes, so the lone empty tuple
// is immediately followed by exhaustion).
func (e *Enumerator) stepDigits() bool {
	for k := len(e.digits) - 1; k >= 0; k-- {
		e.digits[k]++
		if e.digits[k] < e.basis[k] {
			return true
		}
		e.digits[k] = 0
	}
	return false
}

func (e *Enumerator) resetDigits() {
	for k := range e.digits {
		e.digits[k] = 0
	}
	e.initialized = false
}

// decodeDigits sets the digit vector to the mixed-radix expansion of idx:
// position 0 is the most significant digit, position K-1 the least.
func (e *Enumerator) decodeDigits(idx *big.Int) {
	remaining := new(big.Int).Set(idx)
	for k := len(e.basis) - 1; k >= 0; k-- {
		base := big.NewInt(int64(e.basis[k]))
		if base.Sign() == 0 {
			e.digits[k] = 0
			continue
		}
		mod := new(big.Int)
		remaining.DivMod(remaining, base, mod)
		e.digits[k] = int(mod.Int64())
	}
	e.initialized = false
}
