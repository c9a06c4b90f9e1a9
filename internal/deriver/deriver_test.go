package deriver

import (
	"errors"
	"testing"

	"github.com/seedscan/seedscan/internal/chain"
)

// canonicalWords is the all-"abandon"-plus-"about" BIP-39 test vector
// (the 12th word makes the checksum valid), used as the canonical
// recovery test vector.
var canonicalWords = []string{
	"abandon", "abandon", "abandon", "abandon", "abandon", "abandon",
	"abandon", "abandon", "abandon", "abandon", "abandon", "about",
}

func TestDeriveBitcoinP2WPKH(t *testing.T) {
	res, err := Derive(canonicalWords, chain.Bitcoin, P2WPKH)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	const want = "bc1qhgv6v7jgxxpf0cpzxd9zga52mx9tuvcdnknlhn"
	if res.BitcoinAddress != want {
		t.Errorf("BitcoinAddress = %q, want %q", res.BitcoinAddress, want)
	}
}

func TestDeriveEthereum(t *testing.T) {
	res, err := Derive(canonicalWords, chain.EVM, P2WPKH)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	const want = "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"
	if res.EthereumAddress != want {
		t.Errorf("EthereumAddress = %q, want %q", res.EthereumAddress, want)
	}
}

func TestDeriveBoth(t *testing.T) {
	res, err := Derive(canonicalWords, chain.Both, P2WPKH)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if res.BitcoinAddress == "" || res.EthereumAddress == "" {
		t.Errorf("Derive(chain.Both) left an address empty: %+v", res)
	}
}

func TestDeriveInvalidChecksum(t *testing.T) {
	bad := append([]string{}, canonicalWords...)
	bad[11] = "abandon" // breaks the checksum word
	_, err := Derive(bad, chain.Bitcoin, P2WPKH)
	if !errors.Is(err, ErrInvalidMnemonic) {
		t.Errorf("Derive with bad checksum: err = %v, want ErrInvalidMnemonic", err)
	}
}

func TestDeriveBitcoinAddressTypesDiffer(t *testing.T) {
	types := []BitcoinAddressType{P2WPKH, Legacy, NestedSegWit, Taproot}
	seen := make(map[string]bool)
	for _, bt := range types {
		res, err := Derive(canonicalWords, chain.Bitcoin, bt)
		if err != nil {
			t.Fatalf("Derive(type=%d): %v", bt, err)
		}
		if res.BitcoinAddress == "" {
			t.Errorf("Derive(type=%d) produced an empty address", bt)
		}
		if seen[res.BitcoinAddress] {
			t.Errorf("Derive(type=%d) reused another type's address %q", bt, res.BitcoinAddress)
		}
		seen[res.BitcoinAddress] = true
	}
}

func TestBip32PathHardening(t *testing.T) {
	path := bip32Path(84, 0, 0, 0, 0)
	if len(path) != 5 {
		t.Fatalf("bip32Path returned %d components, want 5", len(path))
	}
	if path[0] != hardened+84 || path[1] != hardened+0 || path[2] != hardened+0 {
		t.Errorf("purpose/coin/account must be hardened, got %v", path[:3])
	}
	if path[3] != 0 || path[4] != 0 {
		t.Errorf("change/index must not be hardened, got %v", path[3:])
	}
}
