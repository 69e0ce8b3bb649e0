package keyrecovery

// recoverInput picks the (ks2, in) pair fed to Recover's meet-in-the-middle
// search for rec, mirroring the reference implementation's main() dispatch
// for StaticNested/StaticEncrypted. Mfkey32 has no equivalent dispatch in
// the reference tool — it is only ever reached through check_state, never
// through recover() — so its (ks2, in) pair is derived here from the same
// arithmetic check_state itself uses to validate an mfkey32 candidate
// (ar0Enc, rolled back with feedback 0, equals the candidate's keystream
// XORed with p64): treating ar0Enc^p64 as the observed encrypted keystream
// word with no plaintext folded in reproduces that check inside the search
// instead of only at verification time (see DESIGN.md).
func recoverInput(rec *NonceRecord) (ks2, in uint32) {
	switch rec.Attack {
	case StaticNested:
		return rec.Static.Ks1_2Enc, rec.UIDxorNt1
	case StaticEncrypted:
		return rec.Static.Ks1_1Enc, rec.UIDxorNt0
	case Mfkey32:
		return rec.Mfkey32.Ar0Enc ^ rec.Mfkey32.P64, 0
	default:
		return 0, 0
	}
}

// RecoverRecord runs the meet-in-the-middle search for a single record,
// returning the key Verify confirmed, if any. A record of an unrecognized
// attack kind is not searched.
func RecoverRecord(rec *NonceRecord, cancel *CancelFlag, progress ProgressFunc, nonceIndex, nonceTotal int) (Key, bool) {
	switch rec.Attack {
	case Mfkey32, StaticNested, StaticEncrypted:
	default:
		return Key{}, false
	}
	ks2, in := recoverInput(rec)
	return Recover(rec, ks2, in, cancel, progress, nonceIndex, nonceTotal)
}

// Driver runs the search across a sequence of nonce records, accumulating
// distinct recovered keys and stopping early if Cancel is set.
type Driver struct {
	Cancel   *CancelFlag
	Progress ProgressFunc
}

// Run recovers keys for every record in recs, in order: a record that
// yields no key, or whose attack kind is unrecognized and so is skipped,
// simply contributes nothing to the result.
// It returns as soon as Cancel is set, keeping whatever keys were already
// found.
func (d *Driver) Run(recs []NonceRecord) KeySet {
	var keys KeySet
	total := len(recs)
	for i := range recs {
		if d.Cancel.IsSet() {
			break
		}
		if key, ok := RecoverRecord(&recs[i], d.Cancel, d.Progress, i, total); ok {
			keys.Add(key)
		}
	}
	return keys
}
