package deriver

import (
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"golang.org/x/crypto/ripemd160" //lint:ignore SA1019 required for HASH160, no stdlib equivalent
)

// deriveBitcoinAddress walks the BIP-32 path for the requested address
// type and encodes the resulting public key, adapting the per-type
// derivation HexHunter's pkg/generator/bitcoin package uses for vanity
// search key pairs to mnemonic-derived HD keys instead.
func deriveBitcoinAddress(master *hdkeychain.ExtendedKey, addrType BitcoinAddressType) (string, error) {
	var path []uint32
	switch addrType {
	case P2WPKH:
		path = bip32Path(84, 0, 0, 0, 0)
	case Legacy:
		path = bip32Path(44, 0, 0, 0, 0)
	case NestedSegWit:
		path = bip32Path(49, 0, 0, 0, 0)
	case Taproot:
		path = bip32Path(86, 0, 0, 0, 0)
	default:
		return "", fmt.Errorf("unknown bitcoin address type %d", addrType)
	}

	child, err := deriveChild(master, path)
	if err != nil {
		return "", err
	}
	pubKey, err := child.ECPubKey()
	if err != nil {
		return "", err
	}

	switch addrType {
	case P2WPKH:
		return deriveP2WPKHAddress(pubKey), nil
	case Legacy:
		return deriveLegacyAddress(pubKey), nil
	case NestedSegWit:
		return deriveNestedSegWitAddress(pubKey), nil
	case Taproot:
		return deriveTaprootAddress(pubKey), nil
	default:
		return "", fmt.Errorf("unknown bitcoin address type %d", addrType)
	}
}

// deriveP2WPKHAddress creates a native SegWit (bc1q...) address using
// Bech32 encoding, per spec.md §4.4 step 4 (BIP-84): witness version 0
// over HASH160(compressed pubkey).
func deriveP2WPKHAddress(pubKey *btcec.PublicKey) string {
	pubKeyHash := hash160(pubKey.SerializeCompressed())

	data, err := bech32.ConvertBits(pubKeyHash, 8, 5, true)
	if err != nil {
		return ""
	}
	data = append([]byte{0x00}, data...) // witness version 0

	addr, err := bech32.Encode("bc", data)
	if err != nil {
		return ""
	}
	return addr
}

// deriveTaprootAddress creates a P2TR (bc1p...) address using Bech32m
// encoding. Taproot address = Bech32m(HRP="bc", version=1,
// tweaked_pubkey_x). BIP-341: the tweaked key is computed as
// P + hash(P||m)*G, where P is the even-Y point with the public key's
// x-coordinate and m is empty for key-path spend.
func deriveTaprootAddress(pubKey *btcec.PublicKey) string {
	xOnlyBytes := schnorr.SerializePubKey(pubKey)

	tweak := taprootTweak(xOnlyBytes, nil)

	var tweakScalar btcec.ModNScalar
	tweakScalar.SetBytes((*[32]byte)(tweak))

	var result btcec.JacobianPoint
	btcec.ScalarBaseMultNonConst(&tweakScalar, &result)

	internalKey, err := schnorr.ParsePubKey(xOnlyBytes)
	if err != nil {
		return ""
	}
	var pubKeyJacobian btcec.JacobianPoint
	internalKey.AsJacobian(&pubKeyJacobian)

	btcec.AddNonConst(&pubKeyJacobian, &result, &result)

	result.ToAffine()
	tweakedPubKey := btcec.NewPublicKey(&result.X, &result.Y)
	tweakedXOnly := schnorr.SerializePubKey(tweakedPubKey)

	data, err := bech32.ConvertBits(tweakedXOnly, 8, 5, true)
	if err != nil {
		return ""
	}
	data = append([]byte{0x01}, data...) // witness version 1

	addr, err := bech32.EncodeM("bc", data)
	if err != nil {
		return ""
	}
	return addr
}

// taprootTweak computes the BIP-341 tweak: TaggedHash("TapTweak",
// pubkey_x || merkle_root). For key-path only spend, merkle_root is empty.
func taprootTweak(pubKeyX, merkleRoot []byte) []byte {
	tagHash := sha256.Sum256([]byte("TapTweak"))

	h := sha256.New()
	h.Write(tagHash[:])
	h.Write(tagHash[:])
	h.Write(pubKeyX)
	if len(merkleRoot) > 0 {
		h.Write(merkleRoot)
	}
	return h.Sum(nil)
}

// deriveLegacyAddress creates a P2PKH (1...) address:
// Base58Check(0x00 + HASH160(compressed pubkey)).
func deriveLegacyAddress(pubKey *btcec.PublicKey) string {
	pubKeyHash := hash160(pubKey.SerializeCompressed())

	data := make([]byte, 21)
	data[0] = 0x00
	copy(data[1:], pubKeyHash)

	return base58CheckEncode(data)
}

// deriveNestedSegWitAddress creates a P2SH-P2WPKH (3...) address, wrapping
// a native SegWit program inside a P2SH script for compatibility:
// Base58Check(0x05 + HASH160(0x0014 + HASH160(pubkey))).
func deriveNestedSegWitAddress(pubKey *btcec.PublicKey) string {
	pubKeyHash := hash160(pubKey.SerializeCompressed())

	witnessProgram := make([]byte, 22)
	witnessProgram[0] = 0x00 // witness version 0
	witnessProgram[1] = 0x14 // push 20 bytes
	copy(witnessProgram[2:], pubKeyHash)

	scriptHash := hash160(witnessProgram)

	data := make([]byte, 21)
	data[0] = 0x05
	copy(data[1:], scriptHash)

	return base58CheckEncode(data)
}

// hash160 computes RIPEMD160(SHA256(data)).
func hash160(data []byte) []byte {
	sha := sha256.Sum256(data)
	r := ripemd160.New()
	r.Write(sha[:])
	return r.Sum(nil)
}

// base58CheckEncode encodes data with a 4-byte double-SHA256 checksum in
// Base58.
func base58CheckEncode(data []byte) string {
	first := sha256.Sum256(data)
	second := sha256.Sum256(first[:])

	full := append(append([]byte{}, data...), second[:4]...)
	return base58Encode(full)
}

const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// base58Encode encodes bytes to a Base58 string.
func base58Encode(data []byte) string {
	zeros := 0
	for _, b := range data {
		if b != 0 {
			break
		}
		zeros++
	}

	size := len(data)*138/100 + 1
	buf := make([]byte, size)
	for _, b := range data {
		carry := int(b)
		for i := size - 1; i >= 0; i-- {
			carry += 256 * int(buf[i])
			buf[i] = byte(carry % 58)
			carry /= 58
		}
	}

	i := 0
	for i < size && buf[i] == 0 {
		i++
	}

	result := make([]byte, zeros+size-i)
	for j := 0; j < zeros; j++ {
		result[j] = '1'
	}
	for j := zeros; i < size; i, j = i+1, j+1 {
		result[j] = base58Alphabet[buf[i]]
	}

	return string(result)
}
