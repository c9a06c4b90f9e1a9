// Package deriver implements the Address Deriver (spec.md §4.4): it
// validates a candidate full mnemonic's BIP-39 checksum and, if valid,
// derives the Bitcoin and/or Ethereum address(es) the caller's chain
// selection asks for.
package deriver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/tyler-smith/go-bip39"

	"github.com/seedscan/seedscan/internal/chain"
)

// ErrInvalidMnemonic is returned when the assembled phrase fails the
// BIP-39 checksum. Per spec.md §4.4 and §7, this is an expected,
// per-candidate failure: callers must not treat it as fatal, and must not
// log it per-occurrence.
var ErrInvalidMnemonic = errors.New("invalid BIP-39 mnemonic checksum")

// BitcoinAddressType selects which Bitcoin address encoding to derive.
// P2WPKH is spec.md's mandatory BIP-84 native SegWit address; the others
// extend the REDESIGN FLAGS note in spec.md §9 about alternative Bitcoin
// derivation paths.
type BitcoinAddressType int

const (
	P2WPKH BitcoinAddressType = iota // BIP-84, m/84'/0'/0'/0/0, bech32 "bc1q..."
	Legacy                           // BIP-44, m/44'/0'/0'/0/0, base58 "1..."
	NestedSegWit                     // BIP-49, m/49'/0'/0'/0/0, base58 "3..."
	Taproot                          // BIP-86, m/86'/0'/0'/0/0, bech32m "bc1p..."
)

// Result holds whichever address(es) the chain selection requested.
type Result struct {
	BitcoinAddress  string
	EthereumAddress string
}

// Derive validates the BIP-39 checksum of words (space-joined to form the
// candidate phrase) and, if it passes, derives the address(es) the given
// chain targets. It returns ErrInvalidMnemonic — not wrapped further — on
// checksum failure so callers can use errors.Is.
func Derive(words []string, target chain.ID, btcType BitcoinAddressType) (Result, error) {
	phrase := strings.Join(words, " ")

	if !bip39.IsMnemonicValid(phrase) {
		return Result{}, ErrInvalidMnemonic
	}

	seed := bip39.NewSeed(phrase, "")

	master, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return Result{}, fmt.Errorf("deriver: master key: %w", err)
	}

	var res Result
	if target == chain.Bitcoin || target == chain.Both {
		addr, err := deriveBitcoinAddress(master, btcType)
		if err != nil {
			return Result{}, fmt.Errorf("deriver: bitcoin address: %w", err)
		}
		res.BitcoinAddress = addr
	}
	if target == chain.EVM || target == chain.Both {
		addr, err := deriveEthereumAddress(master)
		if err != nil {
			return Result{}, fmt.Errorf("deriver: ethereum address: %w", err)
		}
		res.EthereumAddress = addr
	}
	return res, nil
}

// deriveChild walks an extended key down a BIP-32 path of (possibly
// hardened) child indices.
func deriveChild(key *hdkeychain.ExtendedKey, path []uint32) (*hdkeychain.ExtendedKey, error) {
	cur := key
	for _, idx := range path {
		next, err := cur.Derive(idx)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

const hardened = hdkeychain.HardenedKeyStart

// bip32Path builds m/purpose'/coinType'/account'/change/index.
func bip32Path(purpose, coinType, account, change, index uint32) []uint32 {
	return []uint32{
		hardened + purpose,
		hardened + coinType,
		hardened + account,
		change,
		index,
	}
}
