package coordinator

import (
	"context"
	"testing"
	"time"

	"github.com/seedscan/seedscan/internal/chain"
	"github.com/seedscan/seedscan/internal/deriver"
	"github.com/seedscan/seedscan/internal/enumerator"
	"github.com/seedscan/seedscan/internal/progress"
)

// 12th-position candidates after eleven "abandon" words; only "about"
// yields a valid BIP-39 checksum, matching spec.md's S1 canonical test vector.
var twelfthWordCandidates = []string{"about", "zoo", "ability"}

func canonicalEnumerator(t *testing.T, chunkSize int) *enumerator.Enumerator {
	t.Helper()
	fixed := []string{"abandon", "abandon", "abandon", "abandon", "abandon", "abandon", "abandon", "abandon", "abandon", "abandon", "abandon"}
	basis := []int{len(twelfthWordCandidates)}
	e, err := enumerator.New(basis, [][]string{twelfthWordCandidates}, fixed, true, chunkSize)
	if err != nil {
		t.Fatalf("enumerator.New: %v", err)
	}
	return e
}

func assemble(tuple []string) []string {
	out := []string{"abandon", "abandon", "abandon", "abandon", "abandon", "abandon", "abandon", "abandon", "abandon", "abandon", "abandon"}
	return append(out, tuple[0])
}

func TestRunFindsTargetMatch(t *testing.T) {
	e := canonicalEnumerator(t, 2)
	tr := progress.New(t.TempDir() + "/progress.json")

	c := New(Config{
		Workers:              2,
		Chain:                chain.Bitcoin,
		BitcoinAddrType:      deriver.P2WPKH,
		TargetBitcoinAddress: "bc1qhgv6v7jgxxpf0cpzxd9zga52mx9tuvcdnknlhn",
		Assemble:             assemble,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := c.Run(ctx, e, tr)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result == nil {
		t.Fatal("expected a match, got nil")
	}
	if result.Kind != MatchFound {
		t.Errorf("Kind = %v, want MatchFound", result.Kind)
	}
	if result.Mnemonic[11] != "about" {
		t.Errorf("matched mnemonic's 12th word = %q, want \"about\"", result.Mnemonic[11])
	}
}

func TestRunExhaustsWithNoMatch(t *testing.T) {
	e := canonicalEnumerator(t, 2)
	tr := progress.New(t.TempDir() + "/progress.json")

	c := New(Config{
		Workers:              2,
		Chain:                chain.Bitcoin,
		BitcoinAddrType:      deriver.P2WPKH,
		TargetBitcoinAddress: "bc1qnonexistentnonexistentnonexistentnon",
		Assemble:             assemble,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := c.Run(ctx, e, tr)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result != nil {
		t.Errorf("expected no match, got %+v", result)
	}
}

func TestHasIndex(t *testing.T) {
	r := Result{Index: nil}
	if r.HasIndex() {
		t.Error("nil Index should report HasIndex() == false")
	}
}

// TestRunSkipsChunkOnDeriveErrorInsteadOfAborting forces a non-checksum
// derive error (an unrecognized BitcoinAddrType) on every checksum-valid
// candidate (here only "about"), which
// must surface as a logged, skipped ErrorResult chunk rather than
// terminating the whole run with an error.
func TestRunSkipsChunkOnDeriveErrorInsteadOfAborting(t *testing.T) {
	e := canonicalEnumerator(t, 2)
	tr := progress.New(t.TempDir() + "/progress.json")

	c := New(Config{
		Workers:              2,
		Chain:                chain.Bitcoin,
		BitcoinAddrType:      deriver.BitcoinAddressType(99),
		TargetBitcoinAddress: "bc1qhgv6v7jgxxpf0cpzxd9zga52mx9tuvcdnknlhn",
		Assemble:             assemble,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := c.Run(ctx, e, tr)
	if err != nil {
		t.Fatalf("Run: %v, want no error (derive errors are non-fatal)", err)
	}
	if result != nil {
		t.Errorf("expected no match with an unrecognized address type, got %+v", result)
	}
}
