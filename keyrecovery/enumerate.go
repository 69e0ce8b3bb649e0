package keyrecovery

import (
	"math/bits"

	"github.com/ericlagergren/mfkey1/crypto1"
)

// Buffer capacities lifted verbatim from the reference implementation
// (spec.md §9): enlarging them is safe, shrinking them is not without
// independent proof of sufficiency.
const (
	stateBufferSize = 1024
	msbBucketSize   = 768
	scratchSize     = 1280
	msbLimit        = 16
)

// MsbBucket is a fixed-capacity container of partial half-states sharing
// the same top byte (MSB) of their 32-bit bookkeeping word.
type MsbBucket struct {
	tail   int
	states [msbBucketSize]uint32
}

// add appends state to the bucket unless it is already present (a linear
// scan, matching the reference implementation's dedup strategy — buckets
// hold at most a few hundred entries in practice).
func (b *MsbBucket) add(state uint32) {
	for i := 0; i < b.tail; i++ {
		if b.states[i] == state {
			return
		}
	}
	b.states[b.tail] = state
	b.tail++
}

// updateContribution refreshes the top-byte bookkeeping of buf[i]: the top
// byte tracks a 2-bit "future keystream contribution" (parity of the state
// against m1 and m2) on top of its previous 6 bits, used later by the
// meet-in-the-middle join to test odd/even compatibility.
func updateContribution(buf []uint32, i int, m1, m2 uint32) {
	p := buf[i] >> 25
	p = p<<1 | uint32(bits.OnesCount32(buf[i]&m1)&1)
	p = p<<1 | uint32(bits.OnesCount32(buf[i]&m2)&1)
	buf[i] = p<<24 | (buf[i] & 0xffffff)
}

// enumerateHalfStates enumerates all 24-bit half-states consistent with the
// 12-bit keystream slice xks, given the bookkeeping masks m1/m2 and (from
// round 5 onward) plaintext folding controlled by in/andVal. buf must have
// capacity stateBufferSize and buf[0] must hold the 21-bit semi-state seed;
// it returns the final tail index into buf.
//
// This is the reference implementation's state_loop: for 12 rounds, each
// live candidate is shifted left by one bit, then classified by whether the
// new low bit is forced (filter differs for both choices), ambiguous (both
// choices match the observed keystream bit — fork), or dead (neither
// matches — drop by swapping in the last live entry).
func enumerateHalfStates(buf []uint32, xks int, m1, m2 uint32, in uint32, andVal uint32) int {
	tail := 0
	var roundIn uint32

	for round := 1; round <= 12; round++ {
		xksBit := uint32((xks >> uint(round)) & 1)
		if round > 4 {
			roundIn = ((in >> uint(2*(round-4))) & andVal) << 24
		}

		for s := 0; s <= tail; s++ {
			buf[s] <<= 1
			f0 := uint32(crypto1.Filter(buf[s]))
			f1 := uint32(crypto1.Filter(buf[s] | 1))

			switch {
			case f0^f1 != 0:
				buf[s] |= f0 ^ xksBit
				if round > 4 {
					updateContribution(buf, s, m1, m2)
					buf[s] ^= roundIn
				}
			case f0 == xksBit:
				if round > 4 {
					tail++
					buf[tail] = buf[s+1]
					buf[s+1] = buf[s] | 1
					updateContribution(buf, s, m1, m2)
					buf[s] ^= roundIn
					s++
					updateContribution(buf, s, m1, m2)
					buf[s] ^= roundIn
				} else {
					tail++
					buf[tail] = buf[s+1]
					s++
					buf[s] = buf[s-1] | 1
				}
			default:
				buf[s] = buf[tail]
				tail--
				s--
			}
		}
	}

	return tail
}
