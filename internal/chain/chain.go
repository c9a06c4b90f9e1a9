// Package chain identifies the blockchains the Address Deriver and Balance
// Query Client target, and holds the small EVM chain registry (name -> RPC
// endpoint) that lets a single `--chain` flag reach any EVM-compatible
// network, per spec.md §6 ("Ethereum and EVM-compatible chains via
// JSON-RPC").
package chain

import "fmt"

// ID identifies which address(es) the Address Deriver should produce.
type ID int

const (
	// Bitcoin derives only a Bitcoin address.
	Bitcoin ID = iota
	// EVM derives only an Ethereum/EVM address (the specific network only
	// matters for the Balance Query Client's RPC endpoint choice).
	EVM
	// Both derives Bitcoin and Ethereum addresses from the same phrase.
	Both
)

// Spec describes one supported `--chain` value.
type Spec struct {
	Name string // as given by the --chain flag / CHAIN env var
	Kind ID
	// RPCURL is the default JSON-RPC endpoint for this network, used by
	// the Balance Query Client when deriving an EVM address. Empty for
	// chains that are not EVM-compatible.
	RPCURL string
}

// registry is the default chain table. RPC endpoints are public defaults
// and may be overridden per spec.md §6's "configurable per chain" note.
var registry = map[string]Spec{
	"bitcoin": {Name: "bitcoin", Kind: Bitcoin},
	"mainnet": {Name: "mainnet", Kind: EVM, RPCURL: "https://ethereum-rpc.publicnode.com"},
	"ethereum": {Name: "ethereum", Kind: EVM, RPCURL: "https://ethereum-rpc.publicnode.com"},
	"bsc":      {Name: "bsc", Kind: EVM, RPCURL: "https://bsc-dataseed.binance.org"},
	"polygon":  {Name: "polygon", Kind: EVM, RPCURL: "https://polygon-rpc.com"},
	"both":     {Name: "both", Kind: Both, RPCURL: "https://ethereum-rpc.publicnode.com"},
}

// Resolve looks up a chain identifier. It fails fast (spec.md §7,
// user-input errors) rather than silently defaulting.
func Resolve(name string) (Spec, error) {
	s, ok := registry[name]
	if !ok {
		return Spec{}, fmt.Errorf("unknown chain %q (known: bitcoin, mainnet, ethereum, bsc, polygon, both)", name)
	}
	return s, nil
}

// WithRPCURL returns a copy of s with its RPC endpoint overridden, for the
// `--rpc-url` flag.
func (s Spec) WithRPCURL(url string) Spec {
	if url != "" {
		s.RPCURL = url
	}
	return s
}
