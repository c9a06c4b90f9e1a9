package resolver

import (
	"math/big"
	"testing"
)

func twelveTokens(fill func(i int) string) []string {
	tokens := make([]string, 12)
	for i := range tokens {
		tokens[i] = fill(i)
	}
	return tokens
}

func TestResolveInvalidLength(t *testing.T) {
	_, err := Resolve([]string{"abandon", "abandon"})
	if err == nil {
		t.Fatal("expected error for invalid phrase length")
	}
}

func TestResolveAllFixed(t *testing.T) {
	tokens := []string{
		"abandon", "abandon", "abandon", "abandon", "abandon", "abandon",
		"abandon", "abandon", "abandon", "abandon", "abandon", "about",
	}
	r, err := Resolve(tokens)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r.FixedCount != 12 || r.UnknownCount != 0 || r.PrefixCount != 0 {
		t.Errorf("got Fixed=%d Unknown=%d Prefix=%d, want 12/0/0", r.FixedCount, r.UnknownCount, r.PrefixCount)
	}
	if len(r.Basis()) != 0 {
		t.Errorf("Basis() = %v, want empty for fully-fixed phrase", r.Basis())
	}
}

func TestResolveStar(t *testing.T) {
	tokens := twelveTokens(func(i int) string {
		if i == 3 {
			return "*"
		}
		return "abandon"
	})
	r, err := Resolve(tokens)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r.UnknownCount != 1 {
		t.Fatalf("UnknownCount = %d, want 1", r.UnknownCount)
	}
	if r.Slots[3].Kind != Unknown {
		t.Errorf("slot 3 kind = %v, want Unknown", r.Slots[3].Kind)
	}
	if len(r.Slots[3].Candidates) != 2048 {
		t.Errorf("unknown slot has %d candidates, want 2048", len(r.Slots[3].Candidates))
	}
}

func TestResolveAmbiguousPrefix(t *testing.T) {
	tokens := twelveTokens(func(i int) string {
		if i == 0 {
			return "ab" // matches many words: abandon, ability, able, about, above, ...
		}
		return "abandon"
	})
	r, err := Resolve(tokens)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r.Slots[0].Kind != Prefix {
		t.Fatalf("slot 0 kind = %v, want Prefix", r.Slots[0].Kind)
	}
	if len(r.Slots[0].Candidates) < 2 {
		t.Errorf("expected multiple prefix matches for \"ab\", got %v", r.Slots[0].Candidates)
	}
}

func TestResolveUnambiguousPrefixResolvesFixed(t *testing.T) {
	tokens := twelveTokens(func(i int) string {
		if i == 0 {
			return "zon" // not a wordlist word; only "zone" starts with it
		}
		return "abandon"
	})
	r, err := Resolve(tokens)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r.Slots[0].Kind != Fixed || r.Slots[0].Word != "zone" {
		t.Errorf("slot 0 = %+v, want Fixed \"zone\"", r.Slots[0])
	}
}

func TestResolveInvalidWord(t *testing.T) {
	tokens := twelveTokens(func(i int) string {
		if i == 0 {
			return "xyzzy123"
		}
		return "abandon"
	})
	_, err := Resolve(tokens)
	if err == nil {
		t.Fatal("expected InvalidWordError")
	}
	if _, ok := err.(*InvalidWordError); !ok {
		t.Errorf("err = %v (%T), want *InvalidWordError", err, err)
	}
}

func TestAssembleRoundTrip(t *testing.T) {
	tokens := []string{
		"abandon", "*", "abandon", "abandon", "abandon", "abandon",
		"abandon", "abandon", "abandon", "abandon", "abandon", "*",
	}
	r, err := Resolve(tokens)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(r.UnknownPositions) != 2 {
		t.Fatalf("UnknownPositions = %v, want 2 entries", r.UnknownPositions)
	}
	assembled := r.Assemble([]string{"ability", "about"})
	want := []string{
		"abandon", "ability", "abandon", "abandon", "abandon", "abandon",
		"abandon", "abandon", "abandon", "abandon", "abandon", "about",
	}
	for i := range want {
		if assembled[i] != want[i] {
			t.Errorf("assembled[%d] = %q, want %q", i, assembled[i], want[i])
		}
	}
}

func TestUpperBoundRepeating(t *testing.T) {
	tokens := twelveTokens(func(i int) string {
		if i < 2 {
			return "*"
		}
		return "abandon"
	})
	r, err := Resolve(tokens)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	got := r.UpperBound(true)
	want := new(big.Int).Mul(big.NewInt(2048), big.NewInt(2048))
	if got.Cmp(want) != 0 {
		t.Errorf("UpperBound(true) = %s, want %s", got, want)
	}
}

func TestUpperBoundWithoutRepetitionShrinksPool(t *testing.T) {
	tokens := twelveTokens(func(i int) string {
		if i < 2 {
			return "*"
		}
		return "abandon"
	})
	r, err := Resolve(tokens)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	got := r.UpperBound(false)
	// pool = 2048 - 10 fixed words; two draws without replacement.
	pool := big.NewInt(int64(2048 - 10))
	poolMinusOne := big.NewInt(int64(2048 - 10 - 1))
	want := new(big.Int).Mul(pool, poolMinusOne)
	if got.Cmp(want) != 0 {
		t.Errorf("UpperBound(false) = %s, want %s", got, want)
	}
}

func TestBasisMatchesUnknownPositions(t *testing.T) {
	tokens := twelveTokens(func(i int) string {
		if i == 0 || i == 5 {
			return "*"
		}
		return "abandon"
	})
	r, err := Resolve(tokens)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	basis := r.Basis()
	if len(basis) != 2 {
		t.Fatalf("Basis() = %v, want 2 entries", basis)
	}
	for _, c := range basis {
		if c != 2048 {
			t.Errorf("Basis() entry = %d, want 2048", c)
		}
	}
}
