// Command seedscan recovers a BIP-39 mnemonic with missing or
// partially-known words by enumerating wordlist candidates for each gap
// and deriving/matching addresses from the reassembled phrase. Its
// signal-driven main loop (context cancellation on SIGINT/SIGTERM,
// ticker-driven progress rendering) is adapted from HexHunter's
// cmd/hexhunter/main.go.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/seedscan/seedscan/internal/balance"
	"github.com/seedscan/seedscan/internal/chain"
	"github.com/seedscan/seedscan/internal/config"
	"github.com/seedscan/seedscan/internal/coordinator"
	"github.com/seedscan/seedscan/internal/enumerator"
	"github.com/seedscan/seedscan/internal/progress"
	"github.com/seedscan/seedscan/internal/resolver"
	"github.com/seedscan/seedscan/internal/ui"
)

const version = "1.0.0"

const updateRate = 200 * time.Millisecond

func main() {
	v := viper.New()

	root := &cobra.Command{
		Use:   "seedscan",
		Short: "recover a partial BIP-39 mnemonic by candidate enumeration",
	}

	recoverCmd := &cobra.Command{
		Use:   "recover",
		Short: "enumerate candidates for a partial mnemonic and match an address",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecover(v)
		},
	}
	config.BindFlags(recoverCmd, v)
	root.AddCommand(recoverCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s✗ %v%s\n", ui.ColorRed, err, ui.ColorReset)
		os.Exit(1)
	}
}

func runRecover(v *viper.Viper) error {
	cfg, err := config.Resolve(v)
	if err != nil {
		return err
	}

	chainSpec, err := chain.Resolve(cfg.ChainName)
	if err != nil {
		return err
	}
	chainSpec = chainSpec.WithRPCURL(cfg.RPCURL)

	tokens := strings.Fields(cfg.Mnemonic)
	resolved, err := resolver.Resolve(tokens)
	if err != nil {
		return fmt.Errorf("resolving mnemonic: %w", err)
	}

	var fixedWords []string
	var candidates [][]string
	basis := resolved.Basis()
	for _, slot := range resolved.Slots {
		switch slot.Kind {
		case resolver.Fixed:
			fixedWords = append(fixedWords, slot.Word)
		default:
			candidates = append(candidates, slot.Candidates)
		}
	}

	enum, err := enumerator.New(basis, candidates, fixedWords, cfg.Repeating, cfg.ChunkSize)
	if err != nil {
		return fmt.Errorf("constructing enumerator: %w", err)
	}

	tracker := progress.New(cfg.ProgressFile)
	if cfg.Resume {
		state := tracker.Load()
		if idx := state.Index(); idx.Sign() > 0 {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := enum.Seek(ctx, idx); err != nil {
				return fmt.Errorf("resuming from progress file: %w", err)
			}
		}
	}
	tracker.Start()

	var balClient *balance.Client
	if cfg.QueryBalances {
		balClient = balance.New(chainSpec.RPCURL, 200*time.Millisecond)
		defer balClient.Close()
	}

	coordCfg := coordinator.Config{
		Workers:         cfg.Workers,
		Chain:           chainSpec.Kind,
		BitcoinAddrType: cfg.BitcoinType,
		CheckBalances:   cfg.QueryBalances,
		BalanceClient:   balClient,
		Assemble:        resolved.Assemble,
	}
	if !cfg.QueryBalances {
		switch chainSpec.Kind {
		case chain.Bitcoin:
			coordCfg.TargetBitcoinAddress = cfg.TargetAddress
		case chain.EVM:
			coordCfg.TargetEthereumAddress = cfg.TargetAddress
		case chain.Both:
			coordCfg.TargetBitcoinAddress = cfg.TargetAddress
			coordCfg.TargetEthereumAddress = cfg.TargetAddress
		}
	}
	coord := coordinator.New(coordCfg)

	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()
	defer signal.Stop(sigChan)

	ui.PrintBanner(version)
	total := resolved.UpperBound(cfg.Repeating)
	ui.PrintSearchInfo(chainSpec.Name, cfg.TargetAddress, total, cfg.Repeating)

	startTime := time.Now()
	ticker := time.NewTicker(updateRate)
	defer ticker.Stop()
	frame := 0
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				elapsed := time.Since(startTime)
				attempts := coord.Attempts()
				rate := float64(attempts) / elapsed.Seconds()
				ui.PrintProgress(enum.Emitted(), total, rate, elapsed, frame)
				frame++
			case <-done:
				return
			}
		}
	}()

	result, err := coord.Run(ctx, enum, tracker)
	close(done)
	ui.ClearLine()

	elapsed := time.Since(startTime)
	attempts := coord.Attempts()

	if err != nil {
		if ctx.Err() != nil {
			fmt.Printf("\n  %s⚠ cancelled%s │ attempts %s │ %s\n", ui.ColorYellow+ui.ColorBold, ui.ColorReset, ui.FormatNumber(attempts), ui.FormatDuration(elapsed))
			return nil
		}
		return err
	}

	if result == nil {
		ui.PrintExhausted(elapsed, attempts)
		return nil
	}

	ui.PrintMatch(result.Mnemonic, result.BitcoinAddress, result.EthereumAddress, elapsed, attempts)
	return nil
}
