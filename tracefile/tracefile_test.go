package tracefile

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ericlagergren/mfkey1/keyrecovery"
)

const staticEncryptedLine = `Sec 1 key A cuid 12345678 nt0 87654321 ks0 aabbccdd par0 1010 dist 0`

const staticNestedLine = `Sec 1 key A cuid 12345678 nt0 87654321 ks0 aabbccdd par0 1010 ` +
	`nt1 11223344 ks1 55667788 par1 0101 dist 0`

func TestParseStaticEncrypted(t *testing.T) {
	recs, err := Parse(strings.NewReader(staticEncryptedLine))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	r := recs[0]
	if r.Attack != keyrecovery.StaticEncrypted {
		t.Fatalf("attack = %v, want static_encrypted", r.Attack)
	}
	if r.UID != 0x12345678 || r.Nt0 != 0x87654321 {
		t.Fatalf("uid/nt0 = %x/%x, want 12345678/87654321", r.UID, r.Nt0)
	}
	if r.Static.Ks1_1Enc != 0xaabbccdd {
		t.Fatalf("ks1_1_enc = %x, want aabbccdd", r.Static.Ks1_1Enc)
	}
	if r.Static.Par1 != 0b1010 {
		t.Fatalf("par1 = %04b, want 1010", r.Static.Par1)
	}
}

func TestParseStaticNested(t *testing.T) {
	recs, err := Parse(strings.NewReader(staticNestedLine))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	r := recs[0]
	if r.Attack != keyrecovery.StaticNested {
		t.Fatalf("attack = %v, want static_nested", r.Attack)
	}
	if r.Nt1 != 0x11223344 {
		t.Fatalf("nt1 = %x, want 11223344", r.Nt1)
	}
	if r.Static.Ks1_2Enc != 0x55667788 {
		t.Fatalf("ks1_2_enc = %x, want 55667788", r.Static.Ks1_2Enc)
	}
	if r.Static.Par2 != 0b0101 {
		t.Fatalf("par2 = %04b, want 0101", r.Static.Par2)
	}
}

func TestParseSkipsLinesMissingDistZero(t *testing.T) {
	line := strings.TrimSuffix(staticEncryptedLine, "dist 0") + "dist 3"
	recs, err := Parse(strings.NewReader(line))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("got %d records, want 0", len(recs))
	}
}

func TestParseSkipsMalformedLines(t *testing.T) {
	input := "this is not a trace line at all, dist 0\n" + staticEncryptedLine
	recs, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
}

func TestParseMultipleLines(t *testing.T) {
	input := staticEncryptedLine + "\n" + staticNestedLine + "\n"
	recs, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
}

func TestWriteKeys(t *testing.T) {
	keys := []keyrecovery.Key{
		{0x00, 0x11, 0x22, 0x33, 0x44, 0x55},
		{0xFF, 0xEE, 0xDD, 0xCC, 0xBB, 0xAA},
	}
	var buf bytes.Buffer
	if err := WriteKeys(&buf, keys); err != nil {
		t.Fatalf("WriteKeys: %v", err)
	}
	want := "001122334455\nFFEEDDCCBBAA\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}
}
