package crypto1

// State is the Crypto-1 cipher's internal state: a 48-bit LFSR split into
// two interleaved 24-bit halves. Odd holds bits at odd positions of the
// LFSR, Even holds bits at even positions. Outside of HalfState enumeration
// (see package keyrecovery), the upper 8 bits of both fields are zero.
type State struct {
	Odd, Even uint32
}

// CryptBit advances the cipher by one round, optionally folding encrypted
// ciphertext (enc=true) or plaintext (enc=false) feedback into the LFSR tap,
// and returns the filter's output keystream bit.
func (s *State) CryptBit(in uint8, enc bool) uint8 {
	ret := Filter(s.Odd)

	var feedin uint32
	if enc {
		feedin = uint32(ret)
	}
	if in != 0 {
		feedin ^= 1
	}
	feedin ^= LFPolyOdd & s.Odd
	feedin ^= LFPolyEven & s.Even

	s.Even = s.Even<<1 | uint32(evenParity32(feedin))
	s.Odd, s.Even = s.Even, s.Odd
	return ret
}

// CryptWord runs 32 rounds with no feedback (in=0, enc=false) and returns
// the 32-bit keystream, MSB-first via the byte-swapped bit order used
// throughout this package.
func (s *State) CryptWord() uint32 {
	return s.CryptWordRet(0, false)
}

// CryptWordNoRet runs 32 rounds folding in, discarding the keystream.
func (s *State) CryptWordNoRet(in uint32, enc bool) {
	for i := uint(0); i < 32; i++ {
		s.CryptBit(bebit(in, i), enc)
	}
}

// CryptWordRet runs 32 rounds folding in and returns the keystream word.
func (s *State) CryptWordRet(in uint32, enc bool) uint32 {
	var ret uint32
	for i := uint(0); i < 32; i++ {
		b := s.CryptBit(bebit(in, i), enc)
		ret |= uint32(b) << (24 ^ i)
	}
	return ret
}

// CryptWordPar runs 32 rounds folding in and additionally returns one
// parity-keystream bit per byte boundary, each bit XORing the filter output
// with the even parity of the corresponding byte of ntPlain. Used to check
// a state against an observed MIFARE parity-bit capture.
func (s *State) CryptWordPar(in uint32, enc bool, ntPlain uint32) (ks uint32, parityKS uint8) {
	for i := uint(0); i < 32; i++ {
		b := s.CryptBit(bebit(in, i), enc)
		ks |= uint32(b) << (24 ^ i)
		if (i+1)%8 == 0 {
			byteIdx := i / 8
			parityKS |= (Filter(s.Odd) ^ evenParity8(nthByte(ntPlain, byteIdx))) << (3 - byteIdx)
		}
	}
	return ks, parityKS
}

// RollbackBit inverts CryptBit: given the original in/fb arguments, it
// returns the keystream bit that CryptBit would have returned and restores
// the state to what it was one round earlier.
func (s *State) RollbackBit(in uint8, fb bool) uint8 {
	s.Odd &= 0xffffff
	s.Odd, s.Even = s.Even, s.Odd

	out := s.Even & 1
	s.Even >>= 1
	out ^= LFPolyEven & s.Even
	out ^= LFPolyOdd & s.Odd
	if in != 0 {
		out ^= 1
	}

	ret := Filter(s.Odd)
	if fb {
		out ^= uint32(ret)
	}

	s.Even |= uint32(evenParity32(out)) << 23
	return ret
}

// RollbackWord inverts CryptWordRet, returning the original keystream word.
func (s *State) RollbackWord(in uint32, fb bool) uint32 {
	var ret uint32
	for i := 31; i >= 0; i-- {
		b := s.RollbackBit(bebit(in, uint(i)), fb)
		ret |= uint32(b) << (uint(i) ^ 24)
	}
	return ret
}

// RollbackWordNoRet inverts CryptWordRet, discarding the recovered
// keystream.
func (s *State) RollbackWordNoRet(in uint32, fb bool) {
	for i := 31; i >= 0; i-- {
		s.RollbackBit(bebit(in, uint(i)), fb)
	}
}

// Key interleaves Odd and Even to reproduce the 48-bit initial LFSR
// contents, emitted as six bytes MSB-first.
func (s *State) Key() [6]byte {
	var lfsr uint64
	for i := 23; i >= 0; i-- {
		lfsr = lfsr<<1 | uint64(bit(s.Odd, uint(i)^3))
		lfsr = lfsr<<1 | uint64(bit(s.Even, uint(i)^3))
	}
	var key [6]byte
	for i := 0; i < 6; i++ {
		key[i] = byte(lfsr >> uint((5-i)*8))
	}
	return key
}

// nthByte returns byte n (0=most significant) of a 32-bit value, or 0 if n
// is out of range.
func nthByte(v uint32, n uint) uint8 {
	if n > 3 {
		return 0
	}
	return uint8(v >> (8 * (3 - n)))
}
