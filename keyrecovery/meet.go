package keyrecovery

import (
	"math/bits"
	"sort"

	"github.com/ericlagergren/mfkey1/crypto1"
)

// Bookkeeping masks for the odd and even half-state enumerations,
// respectively used to seed and extend the two independent 24-bit searches
// that meet in the middle on their shared top byte.
const (
	constM1Odd  = crypto1.LFPolyEven<<1 | 1
	constM2Odd  = crypto1.LFPolyOdd << 1
	constM1Even = crypto1.LFPolyOdd
	constM2Even = crypto1.LFPolyEven<<1 | 1
)

func bebit(w uint32, n uint) uint8 {
	return uint8((w >> (n ^ 24)) & 1)
}

// search threads the nonce record being checked and the eventually-found
// key through the oldRecover join recursion.
type search struct {
	rec   *NonceRecord
	found Key
}

// Recover runs the meet-in-the-middle search for one nonce record against
// one (ks2, in) input pair, returning the first key confirmed by Verify, if
// any. ks2 is the 32-bit observed keystream word; in is the plaintext word
// folded into the even half's extension. nonceIndex/nonceTotal are only
// used to label progress callbacks; pass 0,0 outside of Driver.Run.
func Recover(rec *NonceRecord, ks2, in uint32, cancel *CancelFlag, progress ProgressFunc, nonceIndex, nonceTotal int) (Key, bool) {
	var oks, eks int
	for i := 31; i >= 0; i -= 2 {
		oks = oks<<1 | int(bebit(ks2, uint(i)))
	}
	for i := 30; i >= 0; i -= 2 {
		eks = eks<<1 | int(bebit(ks2, uint(i)))
	}

	buf := make([]uint32, stateBufferSize)
	oddMsbs := make([]MsbBucket, msbLimit)
	evenMsbs := make([]MsbBucket, msbLimit)
	tempOdd := make([]uint32, scratchSize)
	tempEven := make([]uint32, scratchSize)

	totalRounds := 256 / msbLimit
	for round := 0; round < totalRounds; round++ {
		if cancel.IsSet() {
			break
		}
		key, ok := searchMsbRound(
			oks, eks, round, rec,
			buf, oddMsbs, evenMsbs, tempOdd, tempEven,
			in, cancel, progress, nonceIndex, nonceTotal,
		)
		if ok {
			return key, true
		}
		if cancel.IsSet() {
			break
		}
		progress.report(nonceIndex, nonceTotal, round+1, totalRounds, 1.0)
	}
	return Key{}, false
}

// searchMsbRound is the reference implementation's calculate_msb_tables: it
// sweeps every 21-bit semi-state, buckets the surviving odd/even half-states
// by their top byte within [msbRound*msbLimit, (msbRound+1)*msbLimit), and
// then, per bucket, extends and joins the two lists via oldRecover.
func searchMsbRound(
	oks, eks int,
	msbRound int,
	rec *NonceRecord,
	buf []uint32,
	oddMsbs, evenMsbs []MsbBucket,
	tempOdd, tempEven []uint32,
	in uint32,
	cancel *CancelFlag,
	progress ProgressFunc,
	nonceIndex, nonceTotal int,
) (Key, bool) {
	msbHead := uint32(msbLimit * msbRound)
	msbTail := uint32(msbLimit * (msbRound + 1))
	in = ((in>>16&0xff)|(in<<16)|(in&0xff00))<<1

	for i := range oddMsbs {
		oddMsbs[i] = MsbBucket{}
		evenMsbs[i] = MsbBucket{}
	}

	const sweep = 1 << 20
	totalRounds := 256 / msbLimit
	for semiState := sweep; semiState >= 0; semiState-- {
		if cancel.IsSet() {
			return Key{}, false
		}
		if semiState%65536 == 0 {
			frac := float64(sweep-semiState) / float64(sweep)
			progress.report(nonceIndex, nonceTotal, msbRound+1, totalRounds, frac)
		}

		if crypto1.Filter(uint32(semiState)) == uint8(oks&1) {
			buf[0] = uint32(semiState)
			tail := enumerateHalfStates(buf, oks, constM1Odd, constM2Odd, 0, 0)
			for i := tail; i >= 0; i-- {
				msb := buf[i] >> 24
				if msb >= msbHead && msb < msbTail {
					oddMsbs[msb-msbHead].add(buf[i])
				}
			}
		}

		if crypto1.Filter(uint32(semiState)) == uint8(eks&1) {
			buf[0] = uint32(semiState)
			tail := enumerateHalfStates(buf, eks, constM1Even, constM2Even, in, 3)
			for i := 0; i <= tail; i++ {
				msb := buf[i] >> 24
				if msb >= msbHead && msb < msbTail {
					evenMsbs[msb-msbHead].add(buf[i])
				}
			}
		}
	}

	oks >>= 12
	eks >>= 12

	for i := 0; i < msbLimit; i++ {
		if cancel.IsSet() {
			return Key{}, false
		}

		for j := range tempOdd {
			tempOdd[j] = 0
		}
		for j := range tempEven {
			tempEven[j] = 0
		}
		copy(tempOdd, oddMsbs[i].states[:oddMsbs[i].tail])
		copy(tempEven, evenMsbs[i].states[:evenMsbs[i].tail])

		sr := &search{rec: rec}
		s := oldRecover(
			tempOdd, 0, oddMsbs[i].tail, oks,
			tempEven, 0, evenMsbs[i].tail, eks,
			3, 0, sr, in>>16, true,
		)
		if s == -1 {
			return sr.found, true
		}
	}

	return Key{}, false
}

// extendTable grows the live candidates in data[tbl..end] by one more round
// of filter-consistency classification against bit, folding in plaintext
// bits via in. It is oldRecover's per-round workhorse, identical in
// structure to enumerateHalfStates but operating on a dynamic [tbl,end]
// window instead of a fixed [0,tail] one.
func extendTable(data []uint32, tbl, end int, bit uint32, m1, m2 uint32, in uint32) int {
	in <<= 24
	for tbl <= end {
		data[tbl] <<= 1
		f0 := uint32(crypto1.Filter(data[tbl]))
		f1 := uint32(crypto1.Filter(data[tbl] | 1))

		switch {
		case f0^f1 != 0:
			data[tbl] |= f0 ^ bit
			updateContribution(data, tbl, m1, m2)
			data[tbl] ^= in
		case f0 == bit:
			end++
			data[end] = data[tbl+1]
			data[tbl+1] = data[tbl] | 1
			updateContribution(data, tbl, m1, m2)
			data[tbl] ^= in
			tbl++
			updateContribution(data, tbl, m1, m2)
			data[tbl] ^= in
		default:
			data[tbl] = data[end]
			tbl--
			end--
		}
		tbl++
	}
	return end
}

// sortRange sorts data[low:high+1] ascending by unsigned value in place.
func sortRange(data []uint32, low, high int) {
	if low >= high {
		return
	}
	sub := data[low : high+1]
	sort.Slice(sub, func(i, j int) bool { return sub[i] < sub[j] })
}

// binsearch returns the leftmost index in [start,stop] whose top byte
// equals that of data[stop]. data[start:stop+1] must be sorted ascending.
func binsearch(data []uint32, start, stop int) int {
	val := data[stop] & 0xff000000
	for start != stop {
		mid := (stop - start) >> 1
		if data[start+mid] > val {
			stop = start + mid
		} else {
			start += mid + 1
		}
	}
	return start
}

// oldRecover is the meet-in-the-middle join: it extends the odd/even
// half-state lists by 4-bit batches (gated by rem, see DESIGN.md for the
// preserved off-by-one in how rem is threaded across recursion levels),
// then repeatedly sorts both lists and walks them from the largest top
// byte down, recursing into matching top-byte runs until rem reaches -1,
// at which point each matched (odd,even) pair is joined into a full
// Crypto1State and handed to Verify. Returns -1 the instant Verify
// succeeds, which unwinds every enclosing recursion level and bucket loop.
func oldRecover(
	odd []uint32, oHead, oTail, oks int,
	even []uint32, eHead, eTail, eks int,
	rem, s int,
	sr *search,
	in uint32,
	firstRun bool,
) int {
	if rem == -1 {
		for e := eHead; e <= eTail; e++ {
			even[e] = (even[e] << 1) ^ uint32(bits.OnesCount32(even[e]&crypto1.LFPolyEven)&1)
			if in&4 != 0 {
				even[e] ^= 1
			}
			for o := oHead; o <= oTail; o, s = o+1, s+1 {
				temp := crypto1.State{
					Even: odd[o],
					Odd:  even[e] ^ uint32(bits.OnesCount32(odd[o]&crypto1.LFPolyOdd)&1),
				}
				if key, ok := Verify(&temp, sr.rec); ok {
					sr.found = key
					return -1
				}
			}
		}
		return s
	}

	if !firstRun {
		for i := 0; i < 4; i++ {
			old := rem
			rem--
			if old == 0 {
				break
			}
			oks >>= 1
			eks >>= 1
			in >>= 2
			oTail = extendTable(odd, oHead, oTail, uint32(oks&1), constM1Odd, constM2Odd, 0)
			if oHead > oTail {
				return s
			}
			eTail = extendTable(even, eHead, eTail, uint32(eks&1), constM1Even, constM2Even, in&3)
			if eHead > eTail {
				return s
			}
		}
	}
	firstRun = false

	sortRange(odd, oHead, oTail)
	sortRange(even, eHead, eTail)

	for oTail >= oHead && eTail >= eHead {
		if (odd[oTail]^even[eTail])>>24 == 0 {
			o := binsearch(odd, oHead, oTail)
			e := binsearch(even, eHead, eTail)
			oldOTail, oldETail := oTail, eTail
			s = oldRecover(odd, o, oldOTail, oks, even, e, oldETail, eks, rem, s, sr, in, firstRun)
			oTail = o - 1
			eTail = e - 1
			if s == -1 {
				break
			}
		} else if odd[oTail] > even[eTail] {
			oTail = binsearch(odd, oHead, oTail) - 1
		} else {
			eTail = binsearch(even, eHead, eTail) - 1
		}
	}
	return s
}
