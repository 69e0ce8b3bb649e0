package keyrecovery

import "sync/atomic"

// CancelFlag is a cooperative, process-wide cancellation flag. The zero
// value is clear. It is safe for concurrent use: the driver (or a signal
// handler) calls Set from outside the search, while the search polls
// IsSet from inside its loops.
type CancelFlag struct {
	flag atomic.Bool
}

// Set requests cancellation. Enclosing search loops return promptly,
// preserving any keys already found; worst-case latency is one semi-state
// iteration.
func (c *CancelFlag) Set() {
	if c != nil {
		c.flag.Store(true)
	}
}

// Clear resets the flag so the CancelFlag can be reused for another run.
func (c *CancelFlag) Clear() {
	if c != nil {
		c.flag.Store(false)
	}
}

// IsSet reports whether cancellation has been requested. A nil CancelFlag
// is never set, so callers may pass nil to mean "never cancel".
func (c *CancelFlag) IsSet() bool {
	return c != nil && c.flag.Load()
}

// ProgressFunc is invoked from the enumerator's outer semi-state loop and
// at the end of each meet-in-the-middle MSB round. nonceIndex and
// nonceTotal describe the driver's position in the record sequence (both 0
// when called outside of Driver.Run); msbRound and msbTotal describe
// progress through the 256/MSB_LIMIT MSB rounds (each covering MSB_LIMIT
// top-byte buckets) for the current record; innerFraction is the fraction
// of the current round's semi-state sweep that has completed, in [0,1]. A
// nil ProgressFunc disables the callback.
type ProgressFunc func(nonceIndex, nonceTotal, msbRound, msbTotal int, innerFraction float64)

func (p ProgressFunc) report(nonceIndex, nonceTotal, msbRound, msbTotal int, innerFraction float64) {
	if p != nil {
		p(nonceIndex, nonceTotal, msbRound, msbTotal, innerFraction)
	}
}
