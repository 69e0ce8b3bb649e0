package keyrecovery

import "github.com/ericlagergren/mfkey1/crypto1"

// Verify is the reference implementation's check_state: given a joined
// candidate Crypto1State and the record it was joined against, it replays
// the recorded exchange through the state to confirm the candidate is the
// actual cipher state at the start of the session, and if so extracts the
// 48-bit key. t is consumed: its fields are mutated by the rollback/crypt
// calls below, mirroring the reference implementation exactly.
func Verify(t *crypto1.State, rec *NonceRecord) (Key, bool) {
	if t.Odd == 0 && t.Even == 0 {
		return Key{}, false
	}

	switch rec.Attack {
	case Mfkey32:
		return verifyMfkey32(t, rec)
	case StaticNested:
		return verifyStaticNested(t, rec)
	case StaticEncrypted:
		return verifyStaticEncrypted(t, rec)
	default:
		return Key{}, false
	}
}

// verifyMfkey32 rolls t back one word and checks the recovered ar0 against
// the observed value, then rolls back across the first session's nr0 and
// uid^nt0, snapshots that state (temp), and replays forward across the
// second session to confirm ar1. The key is extracted from temp, not from
// t's final, further-advanced state.
func verifyMfkey32(t *crypto1.State, rec *NonceRecord) (Key, bool) {
	rb := t.RollbackWord(0, false) ^ rec.Mfkey32.P64
	if rb != rec.Mfkey32.Ar0Enc {
		return Key{}, false
	}

	t.RollbackWordNoRet(rec.Mfkey32.Nr0Enc, true)
	t.RollbackWordNoRet(rec.UIDxorNt0, false)
	temp := crypto1.State{Odd: t.Odd, Even: t.Even}

	t.CryptWordNoRet(rec.UIDxorNt1, false)
	t.CryptWordNoRet(rec.Mfkey32.Nr1Enc, true)
	if rec.Mfkey32.Ar1Enc != t.CryptWord()^rec.Mfkey32.P64b {
		return Key{}, false
	}
	return Key(temp.Key()), true
}

// verifyStaticNested rolls t back across uid^nt1, replays it forward across
// the first session's uid^nt0 to confirm the first observed keystream word,
// then rolls a pristine copy of the original t back across uid^nt1 to land
// on the key state.
func verifyStaticNested(t *crypto1.State, rec *NonceRecord) (Key, bool) {
	temp := crypto1.State{Odd: t.Odd, Even: t.Even}
	t.RollbackWordNoRet(rec.UIDxorNt1, false)
	if rec.Static.Ks1_1Enc != t.CryptWordRet(rec.UIDxorNt0, false) {
		return Key{}, false
	}
	temp.RollbackWordNoRet(rec.UIDxorNt1, false)
	return Key(temp.Key()), true
}

// verifyStaticEncrypted confirms the observed keystream word via rollback,
// then re-derives it with parity via CryptWordPar to additionally check
// the observed parity bits before extracting the key from t directly.
func verifyStaticEncrypted(t *crypto1.State, rec *NonceRecord) (Key, bool) {
	if rec.Static.Ks1_1Enc != t.RollbackWord(rec.UIDxorNt0, false) {
		return Key{}, false
	}

	temp := crypto1.State{Odd: t.Odd, Even: t.Even}
	ks, parity := temp.CryptWordPar(rec.UIDxorNt0, false, rec.Nt0)
	if ks == rec.Static.Ks1_1Enc && parity == rec.Static.Par1 {
		return Key(t.Key()), true
	}
	return Key{}, false
}
