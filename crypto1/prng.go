package crypto1

import "math/bits"

// Successor advances the 16-bit card-nonce PRNG n times and returns the
// resulting nonce. It is pure: driver code uses it to precompute keystream
// offsets such as p64 = Successor(nt0, 64) for the mfkey32 attack.
func Successor(x uint32, n int) uint32 {
	x = bits.ReverseBytes32(x)
	for ; n > 0; n-- {
		x = x>>1 | ((x>>16)^(x>>18)^(x>>19)^(x>>21))<<31
	}
	return bits.ReverseBytes32(x)
}
