// Package keyrecovery implements the Crypto-1 key-recovery search: the
// per-attack verification predicates, the meet-in-the-middle half-state
// enumerator, and the driver that ties them to a sequence of captured
// nonce records.
package keyrecovery

import "github.com/ericlagergren/mfkey1/crypto1"

// AttackKind identifies which captured exchange shape a NonceRecord holds,
// mirroring the reference implementation's MfClassicNonce union tag.
type AttackKind int

const (
	// Mfkey32 records two full reader/card sessions with known nr/ar.
	Mfkey32 AttackKind = iota
	// StaticNested records two static-nonce keystreams for one sector.
	StaticNested
	// StaticEncrypted records a single static-nonce keystream plus its
	// observed 4-bit parity keystream.
	StaticEncrypted
)

func (a AttackKind) String() string {
	switch a {
	case Mfkey32:
		return "mfkey32"
	case StaticNested:
		return "static_nested"
	case StaticEncrypted:
		return "static_encrypted"
	default:
		return "unknown"
	}
}

// Mfkey32Fields holds the two-session payload used by the Mfkey32 attack.
type Mfkey32Fields struct {
	P64, P64b      uint32
	Nr0Enc, Ar0Enc uint32
	Nr1Enc, Ar1Enc uint32
}

// StaticFields holds the observed-keystream payload shared by StaticNested
// and StaticEncrypted. Par2/Ks1_2Enc are parsed but unused by Verify for
// StaticNested, matching the reference implementation exactly (see
// DESIGN.md).
type StaticFields struct {
	Ks1_1Enc, Ks1_2Enc uint32
	Par1, Par2         uint8
}

// NonceRecord is one authentication trace: the fields common to every
// attack kind, plus the payload for whichever kind Attack names.
type NonceRecord struct {
	Attack AttackKind

	UID uint32
	Nt0 uint32
	Nt1 uint32

	// UIDxorNt0 and UIDxorNt1 are precomputed as UID^Nt0 and UID^Nt1.
	UIDxorNt0 uint32
	UIDxorNt1 uint32

	Mfkey32 Mfkey32Fields
	Static  StaticFields
}

// NewMfkey32Record builds a NonceRecord for the mfkey32 attack, precomputing
// the PRNG-advanced keystream offsets p64/p64b via crypto1.Successor.
func NewMfkey32Record(uid, nt0, nt1, nr0Enc, ar0Enc, nr1Enc, ar1Enc uint32) NonceRecord {
	return NonceRecord{
		Attack:    Mfkey32,
		UID:       uid,
		Nt0:       nt0,
		Nt1:       nt1,
		UIDxorNt0: uid ^ nt0,
		UIDxorNt1: uid ^ nt1,
		Mfkey32: Mfkey32Fields{
			P64:    crypto1.Successor(nt0, 64),
			P64b:   crypto1.Successor(nt1, 64),
			Nr0Enc: nr0Enc,
			Ar0Enc: ar0Enc,
			Nr1Enc: nr1Enc,
			Ar1Enc: ar1Enc,
		},
	}
}
