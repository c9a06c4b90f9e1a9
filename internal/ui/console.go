// Package ui renders recovery-run progress to the terminal, adapting
// HexHunter's internal/ui console (ANSI colors, spinner, formatted
// counters) from a vanity-search progress bar to a chunked recovery
// progress line driven by big.Int combination counts instead of a
// uint64 attempt counter.
package ui

import (
	"fmt"
	"math/big"
	"strings"
	"time"
)

// ANSI color codes.
const (
	ColorReset  = "\033[0m"
	ColorCyan   = "\033[36m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorRed    = "\033[31m"
	ColorPurple = "\033[35m"
	ColorBold   = "\033[1m"
	ColorDim    = "\033[2m"
)

// PrintBanner shows the startup banner.
func PrintBanner(version string) {
	fmt.Printf("\n%s%sseedscan%s %sv%s%s\n\n", ColorCyan, ColorBold, ColorReset, ColorDim, version, ColorReset)
}

// PrintSearchInfo displays the resolved recovery configuration before a run
// starts.
func PrintSearchInfo(chainName, target string, total *big.Int, repeating bool) {
	mode := "target address"
	if target == "" {
		mode = "loaded wallet"
	}
	fmt.Printf("  %s%srecovering%s  chain=%s%s%s mode=%s%s%s repeating=%v\n",
		ColorGreen, ColorBold, ColorReset,
		ColorCyan, chainName, ColorReset,
		ColorCyan, mode, ColorReset,
		repeating)
	fmt.Printf("  %scombinations to search: %s%s\n\n", ColorDim, FormatBigNumber(total), ColorReset)
}

// PrintProgress renders a one-line, in-place progress bar for the given
// processed/total counts and rate, identified by an animation frame
// index (the caller increments frame each tick).
func PrintProgress(processed, total *big.Int, rate float64, elapsed time.Duration, frame int) {
	spinners := []string{"◐", "◓", "◑", "◒"}
	spinner := spinners[frame%len(spinners)]

	ratio := 0.0
	if total.Sign() > 0 {
		f := new(big.Float).Quo(new(big.Float).SetInt(processed), new(big.Float).SetInt(total))
		ratio, _ = f.Float64()
	}

	barWidth := 40
	filled := int(ratio * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("▓", filled) + strings.Repeat("░", barWidth-filled)

	fmt.Printf("\r  %s%s%s %s%s%s %s%s%s │ %s%s%s / %s │ %s",
		ColorCyan, spinner, ColorReset,
		ColorDim, bar, ColorReset,
		ColorGreen+ColorBold, FormatRate(rate), ColorReset,
		ColorYellow, FormatBigNumber(processed), ColorReset,
		FormatBigNumber(total),
		FormatDuration(elapsed))
}

// FormatRate formats a tuples-per-second rate.
func FormatRate(rate float64) string {
	if rate >= 1_000_000 {
		return fmt.Sprintf("%.1fM/s", rate/1_000_000)
	}
	if rate >= 1_000 {
		return fmt.Sprintf("%.1fK/s", rate/1_000)
	}
	return fmt.Sprintf("%.0f/s", rate)
}

// PrintMatch announces a match, showing the recovered mnemonic and
// whichever address(es) matched.
func PrintMatch(mnemonic []string, bitcoinAddr, ethereumAddr string, elapsed time.Duration, attempts uint64) {
	fmt.Printf("\n\n  %s%s✓ MATCH FOUND%s\n\n", ColorGreen, ColorBold, ColorReset)
	fmt.Printf("    %smnemonic%s  %s%s%s\n", ColorDim, ColorReset, ColorCyan+ColorBold, strings.Join(mnemonic, " "), ColorReset)
	if bitcoinAddr != "" {
		fmt.Printf("    %sbitcoin%s   %s\n", ColorDim, ColorReset, bitcoinAddr)
	}
	if ethereumAddr != "" {
		fmt.Printf("    %sethereum%s  %s\n", ColorDim, ColorReset, ethereumAddr)
	}
	fmt.Printf("\n    %selapsed %s │ attempts %s%s\n", ColorDim, FormatDuration(elapsed), FormatNumber(attempts), ColorReset)
}

// PrintExhausted reports that the search space was fully enumerated with
// no match.
func PrintExhausted(elapsed time.Duration, attempts uint64) {
	fmt.Printf("\n\n  %s%sno match found%s — search space exhausted\n", ColorYellow, ColorBold, ColorReset)
	fmt.Printf("    %selapsed %s │ attempts %s%s\n", ColorDim, FormatDuration(elapsed), FormatNumber(attempts), ColorReset)
}

// ClearLine clears the current terminal line.
func ClearLine() {
	fmt.Print("\r                                                                                \r")
}

// FormatNumber adds thousands separators to n.
func FormatNumber(n uint64) string {
	return FormatBigNumber(new(big.Int).SetUint64(n))
}

// FormatBigNumber adds thousands separators to an arbitrary-precision n.
func FormatBigNumber(n *big.Int) string {
	s := n.String()
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	result := make([]byte, 0, len(s)+(len(s)-1)/3+1)
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}
	if neg {
		return "-" + string(result)
	}
	return string(result)
}

// FormatDuration formats d in a human-readable way.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", h, m)
}
