package deriver

import (
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// deriveEthereumAddress walks m/44'/60'/0'/0/0 (BIP-44, Ethereum's
// standard coin type 60) and returns the EIP-55 checksummed hex address,
// adapting HexHunter's use of go-ethereum's crypto package for random
// vanity keys to mnemonic-derived HD keys instead.
func deriveEthereumAddress(master *hdkeychain.ExtendedKey) (string, error) {
	child, err := deriveChild(master, bip32Path(44, 60, 0, 0, 0))
	if err != nil {
		return "", err
	}

	privKey, err := child.ECPrivKey()
	if err != nil {
		return "", err
	}

	addr := gethcrypto.PubkeyToAddress(privKey.ToECDSA().PublicKey)
	return addr.Hex(), nil
}
