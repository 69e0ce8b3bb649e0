//go:build fuzz

package crypto1

import (
	"testing"
	"testing/quick"

	"github.com/ericlagergren/saferand"
)

// TestFuzzRoundTrip re-runs the CryptWordRet/RollbackWord round-trip
// property under quick.Check seeded from a CSPRNG instead of the default
// math/rand source that grain/generic_test.go's quick-check-based property
// tests for the sibling Grain128-AEAD cipher use.
func TestFuzzRoundTrip(t *testing.T) {
	f := func(odd, even, in uint32, enc bool) bool {
		orig := State{Odd: odd & 0xffffff, Even: even & 0xffffff}

		fwd := orig
		ks := fwd.CryptWordRet(in, enc)

		back := fwd
		gotKS := back.RollbackWord(in, enc)

		return back == orig && gotKS == ks
	}
	cfg := &quick.Config{
		MaxCount: 20000,
		Rand:     saferand.New(),
	}
	if err := quick.Check(f, cfg); err != nil {
		t.Fatal(err)
	}
}
