// Package coordinator implements the Worker Pool Coordinator (spec.md
// §4.7): it drives the Combination Enumerator, fans its chunks out to a
// fixed pool of CPU workers that derive and match addresses, commits
// progress only over a contiguous processed prefix, and terminates early
// on the first match. The worker-pool shape (atomic attempt counter,
// sync.Once-guarded stop signal, one result channel fed by N workers) is
// grounded on HexHunter's generator.CPUGenerator; the chunk-dispatch loop
// and contiguous-prefix commit are new, since HexHunter's workers generate
// independent random keys rather than consume a shared ordered stream.
package coordinator

import (
	"context"
	"errors"
	"log"
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/seedscan/seedscan/internal/balance"
	"github.com/seedscan/seedscan/internal/chain"
	"github.com/seedscan/seedscan/internal/deriver"
	"github.com/seedscan/seedscan/internal/enumerator"
	"github.com/seedscan/seedscan/internal/progress"
)

// Kind closes the result-variant taxonomy spec.md §4.7 names: a worker
// result is exactly one of these four, never anything else.
type Kind int

const (
	ChunkComplete Kind = iota
	MatchFound
	LoadedWalletFound
	ErrorResult
)

// Result is the closed variant a worker reports. Only the fields relevant
// to Kind are populated.
type Result struct {
	Kind Kind

	// ChunkComplete
	ChunkStart *big.Int
	ChunkEnd   *big.Int

	// MatchFound / LoadedWalletFound
	Mnemonic        []string
	BitcoinAddress  string
	EthereumAddress string
	Index           *big.Int

	// ErrorResult
	Err error
}

// Config configures a Coordinator run.
type Config struct {
	Workers int

	Chain           chain.ID
	BitcoinAddrType deriver.BitcoinAddressType

	// TargetBitcoinAddress / TargetEthereumAddress, when non-empty, make a
	// MatchFound result trigger when a derived address equals the target
	// exactly. Empty means "not targeted on this chain".
	TargetBitcoinAddress  string
	TargetEthereumAddress string

	// CheckBalances, when true, queries BalanceClient for every candidate
	// whose mnemonic checksum is valid and reports LoadedWalletFound for
	// the first one with a nonzero balance.
	CheckBalances bool
	BalanceClient *balance.Client

	// Assemble reconstructs the full phrase (Fixed words interleaved with
	// a candidate tuple's words) from one enumerator tuple. Required: an
	// enumerator tuple by itself omits the Fixed words a valid BIP-39
	// checksum needs.
	Assemble func(tuple []string) []string
}

// Coordinator owns one enumerator and drives it to completion or to the
// first match.
type Coordinator struct {
	cfg Config

	attempts uint64 // atomic, total candidate tuples processed

	stopOnce sync.Once
	stop     chan struct{}
}

// New constructs a Coordinator.
func New(cfg Config) *Coordinator {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	return &Coordinator{
		cfg:  cfg,
		stop: make(chan struct{}),
	}
}

// Attempts returns the number of candidate tuples processed so far. Safe
// for concurrent use.
func (c *Coordinator) Attempts() uint64 {
	return atomic.LoadUint64(&c.attempts)
}

// Run dispatches chunks from enum to the worker pool until a match is
// found, the enumerator is exhausted, or ctx is cancelled. It commits
// progress to tracker only over the contiguous prefix of chunks completed
// so far (spec.md §4.7), so a crash never resumes past unprocessed work
// even when chunks finish out of order. It returns the first
// MatchFound/LoadedWalletFound result, or nil if the enumerator was
// exhausted with no match. A worker-local derivation error (ErrorResult)
// is non-fatal: it is logged, its chunk is committed like any other, and
// the scan continues (spec.md §4.7, §7: "Worker-local crashes" are
// absorbed into the scan, not propagated as a run-fatal error).
func (c *Coordinator) Run(ctx context.Context, enum *enumerator.Enumerator, tracker *progress.Tracker) (*Result, error) {
	chunks := make(chan enumerator.Chunk, c.cfg.Workers*2)
	results := make(chan Result, c.cfg.Workers*2)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	committer := newPrefixCommitter(tracker, enum.Emitted(), enum.TotalWithRepetition())

	var wg sync.WaitGroup
	for i := 0; i < c.cfg.Workers; i++ {
		wg.Add(1)
		go c.worker(runCtx, chunks, results, &wg)
	}

	go c.dispatch(runCtx, enum, chunks)

	go func() {
		wg.Wait()
		close(results)
	}()

	var final *Result
	for res := range results {
		switch res.Kind {
		case ChunkComplete:
			committer.complete(res.ChunkStart, res.ChunkEnd)
		case MatchFound, LoadedWalletFound:
			if final == nil {
				r := res
				final = &r
			}
			c.signalStop()
			cancel()
		case ErrorResult:
			log.Printf("coordinator: chunk [%s, %s) derivation error, skipping: %v", res.ChunkStart, res.ChunkEnd, res.Err)
			committer.complete(res.ChunkStart, res.ChunkEnd)
		}
	}

	if final != nil {
		_ = committer.finish(progress.StatusCompleted)
		return final, nil
	}
	if err := ctx.Err(); err != nil {
		_ = committer.finish(progress.StatusPaused)
		return nil, err
	}
	_ = committer.finish(progress.StatusCompleted)
	return nil, nil
}

func (c *Coordinator) signalStop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// dispatch pulls chunks from the (single-cursor, non-concurrent-safe)
// enumerator and feeds the shared work queue, stopping on exhaustion,
// cancellation, or an early-termination signal from a match.
func (c *Coordinator) dispatch(ctx context.Context, enum *enumerator.Enumerator, chunks chan<- enumerator.Chunk) {
	defer close(chunks)
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stop:
			return
		default:
		}

		chunk, ok, err := enum.NextChunk(ctx)
		if err != nil || !ok {
			return
		}

		select {
		case chunks <- chunk:
		case <-ctx.Done():
			return
		case <-c.stop:
			return
		}
	}
}

func (c *Coordinator) worker(ctx context.Context, chunks <-chan enumerator.Chunk, results chan<- Result, wg *sync.WaitGroup) {
	defer wg.Done()

	for chunk := range chunks {
		select {
		case <-ctx.Done():
			return
		case <-c.stop:
			return
		default:
		}

		out, ok := c.processChunk(ctx, chunk)
		atomic.AddUint64(&c.attempts, uint64(len(chunk.Tuples)))

		if ok {
			select {
			case results <- out:
			case <-ctx.Done():
				return
			}
			if out.Kind == MatchFound || out.Kind == LoadedWalletFound {
				return
			}
			continue
		}

		// processChunk also returns !ok when interrupted part-way; such a
		// chunk must not be reported complete.
		select {
		case <-ctx.Done():
			return
		case <-c.stop:
			return
		default:
		}

		select {
		case results <- Result{Kind: ChunkComplete, ChunkStart: chunk.Start, ChunkEnd: chunk.End}:
		case <-ctx.Done():
			return
		case <-c.stop:
			return
		}
	}
}

// processChunk derives and matches every tuple in chunk, returning the
// first match (if any) with its global index (chunk.Start plus its offset
// in the chunk) in Result.Index; see HasIndex for the index-0 case.
//
// An ErrInvalidMnemonic is the expected outcome for nearly every
// candidate (a bad checksum, not a failure) and is silently skipped
// (spec.md §4.4). Any other derive error is a worker-local failure
// (spec.md §4.4: "any other failure ... is fatal" to that candidate,
// which spec.md §7 maps to a non-fatal, logged, chunk-level Error) —
// the rest of this chunk's tuples are skipped and an ErrorResult is
// returned so the chunk is still committed and the scan continues.
func (c *Coordinator) processChunk(ctx context.Context, chunk enumerator.Chunk) (Result, bool) {
	idx := new(big.Int).Set(chunk.Start)
	one := big.NewInt(1)

	for _, tuple := range chunk.Tuples {
		select {
		case <-ctx.Done():
			return Result{}, false
		case <-c.stop:
			return Result{}, false
		default:
		}

		phrase := tuple
		if c.cfg.Assemble != nil {
			phrase = c.cfg.Assemble(tuple)
		}

		res, err := deriver.Derive(phrase, c.cfg.Chain, c.cfg.BitcoinAddrType)
		if err != nil {
			if errors.Is(err, deriver.ErrInvalidMnemonic) {
				idx.Add(idx, one)
				continue
			}
			return Result{Kind: ErrorResult, ChunkStart: chunk.Start, ChunkEnd: chunk.End, Err: err}, true
		}

		if m, ok := c.matchTarget(phrase, res, idx); ok {
			return m, true
		}
		if c.cfg.CheckBalances {
			if m, ok := c.matchBalance(ctx, phrase, res, idx); ok {
				return m, true
			}
		}

		idx.Add(idx, one)
	}
	return Result{}, false
}

func (c *Coordinator) matchTarget(phrase []string, res deriver.Result, idx *big.Int) (Result, bool) {
	if c.cfg.TargetBitcoinAddress != "" && res.BitcoinAddress == c.cfg.TargetBitcoinAddress {
		return c.newMatch(MatchFound, phrase, res, idx), true
	}
	if c.cfg.TargetEthereumAddress != "" && res.EthereumAddress == c.cfg.TargetEthereumAddress {
		return c.newMatch(MatchFound, phrase, res, idx), true
	}
	return Result{}, false
}

func (c *Coordinator) matchBalance(ctx context.Context, phrase []string, res deriver.Result, idx *big.Int) (Result, bool) {
	if res.BitcoinAddress != "" {
		bal, err := c.cfg.BalanceClient.BitcoinBalance(ctx, res.BitcoinAddress)
		if err == nil && bal.Sign() > 0 {
			return c.newMatch(LoadedWalletFound, phrase, res, idx), true
		}
	}
	if res.EthereumAddress != "" {
		bal, err := c.cfg.BalanceClient.EthereumBalance(ctx, res.EthereumAddress)
		if err == nil && bal.Sign() > 0 {
			return c.newMatch(LoadedWalletFound, phrase, res, idx), true
		}
	}
	return Result{}, false
}

func (c *Coordinator) newMatch(kind Kind, phrase []string, res deriver.Result, idx *big.Int) Result {
	return Result{
		Kind:            kind,
		Mnemonic:        append([]string{}, phrase...),
		BitcoinAddress:  res.BitcoinAddress,
		EthereumAddress: res.EthereumAddress,
		Index:           new(big.Int).Set(idx),
	}
}

// HasIndex reports whether r carries a valid match index. Earlier code
// checked Index != nil with a plain sign comparison that treated index 0
// (a match on the very first candidate in a chunk) as absent; an explicit
// >= 0 check on a non-nil Index is required so a match at global index 0
// is never silently dropped.
func (r Result) HasIndex() bool {
	return r.Index != nil && r.Index.Sign() >= 0
}

// prefixCommitter tracks completed [start,end) chunk intervals and advances
// the persisted progress index only as far as the contiguous run from the
// run's starting index (zero, or the resumed index) extends, per spec.md §4.7: a later chunk finishing before an earlier one
// must never be recorded as committed, since a crash must be able to
// resume from the true unprocessed boundary.
type prefixCommitter struct {
	tracker   *progress.Tracker
	total     *big.Int
	committed *big.Int
	pending   map[string]*big.Int // start.String() -> end
	chunks    int64
	mu        sync.Mutex
}

func newPrefixCommitter(tracker *progress.Tracker, start, total *big.Int) *prefixCommitter {
	return &prefixCommitter{
		tracker:   tracker,
		total:     total,
		committed: new(big.Int).Set(start),
		pending:   make(map[string]*big.Int),
	}
}

func (p *prefixCommitter) complete(start, end *big.Int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.pending[start.String()] = end
	p.chunks++

	for {
		next, ok := p.pending[p.committed.String()]
		if !ok {
			break
		}
		delete(p.pending, p.committed.String())
		p.committed = next
	}

	if p.tracker != nil {
		_ = p.tracker.Save(p.committed, p.total, p.chunks, progress.StatusRunning, nil)
	}
}

func (p *prefixCommitter) finish(status progress.Status) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tracker == nil {
		return nil
	}
	return p.tracker.Save(p.committed, p.total, p.chunks, status, nil)
}
