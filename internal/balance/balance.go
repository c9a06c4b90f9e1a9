// Package balance implements the Balance Query Client (spec.md §4.5): it
// asks a network whether a derived address has ever held funds, for the
// optional "loaded wallet" match mode. Bitcoin goes through a
// blockstream-style REST API (grounded on mrde1v-crypto-finder and
// nchhillar2004-brute-bip39's getBTCBalance); EVM chains go through
// go-ethereum's JSON-RPC ethclient (grounded on the same
// nchhillar2004-brute-bip39 file and thirashapw-seed-pro).
package balance

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Client queries balances for Bitcoin and EVM addresses. A zero-value
// Client is not usable; construct one with New.
//
// Per spec.md §9's "no adaptive backoff required", Client does only a
// fixed minimum per-host interval, not retry/backoff.
type Client struct {
	httpClient  *http.Client
	minInterval time.Duration

	mu       sync.Mutex
	lastCall map[string]time.Time

	ethOnce    sync.Once
	ethClient  *ethclient.Client
	ethDialErr error
	ethRPCURL  string

	btcAPIBase string
}

const defaultBitcoinAPIBase = "https://blockstream.info/api"

// New constructs a Client targeting rpcURL for EVM balance queries.
// minInterval is the minimum spacing between two requests to the same
// host; zero disables throttling.
func New(rpcURL string, minInterval time.Duration) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		minInterval: minInterval,
		lastCall:    make(map[string]time.Time),
		ethRPCURL:   rpcURL,
		btcAPIBase:  defaultBitcoinAPIBase,
	}
}

// blockstreamStats mirrors the subset of blockstream.info's /address/<addr>
// response the spec needs, following the shape nordzlos-bitcoin-wallet-tool
// and mrde1v-crypto-finder decode.
type blockstreamStats struct {
	ChainStats struct {
		FundedTxoSum int64 `json:"funded_txo_sum"`
		SpentTxoSum  int64 `json:"spent_txo_sum"`
	} `json:"chain_stats"`
}

// BitcoinBalance returns the current confirmed balance, in satoshis, of a
// Bitcoin address. Per spec.md §4.5, any HTTP failure, non-200 status, or
// malformed JSON is treated as a zero balance rather than an error — a
// down balance API must not abort recovery.
func (c *Client) BitcoinBalance(ctx context.Context, address string) (*big.Int, error) {
	c.throttle(c.btcAPIBase)

	url := fmt.Sprintf("%s/address/%s", c.btcAPIBase, address)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return big.NewInt(0), nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return big.NewInt(0), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return big.NewInt(0), nil
	}

	var stats blockstreamStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return big.NewInt(0), nil
	}

	funded := big.NewInt(stats.ChainStats.FundedTxoSum)
	spent := big.NewInt(stats.ChainStats.SpentTxoSum)
	return funded.Sub(funded, spent), nil
}

// EthereumBalance returns the current balance, in wei, of an EVM address
// via eth_getBalance. Dial failures and query failures both collapse to a
// zero balance, for the same reason as BitcoinBalance.
func (c *Client) EthereumBalance(ctx context.Context, address string) (*big.Int, error) {
	client, err := c.dialEth()
	if err != nil {
		return big.NewInt(0), nil
	}

	c.throttle(c.ethRPCURL)

	balance, err := client.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return big.NewInt(0), nil
	}
	return balance, nil
}

func (c *Client) dialEth() (*ethclient.Client, error) {
	c.ethOnce.Do(func() {
		c.ethClient, c.ethDialErr = ethclient.Dial(c.ethRPCURL)
	})
	return c.ethClient, c.ethDialErr
}

// WithBitcoinAPIBase overrides the Bitcoin REST API base URL (default
// blockstream.info), for alternate explorers or tests.
func (c *Client) WithBitcoinAPIBase(base string) *Client {
	c.btcAPIBase = base
	return c
}

// Close releases the underlying EVM RPC connection, if one was dialed.
func (c *Client) Close() {
	if c.ethClient != nil {
		c.ethClient.Close()
	}
}

// throttle blocks until at least minInterval has passed since the last
// call to host.
func (c *Client) throttle(host string) {
	if c.minInterval <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if last, ok := c.lastCall[host]; ok {
		if wait := c.minInterval - time.Since(last); wait > 0 {
			time.Sleep(wait)
		}
	}
	c.lastCall[host] = time.Now()
}
