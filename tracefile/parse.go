// Package tracefile reads the line-oriented "Sec ... dist 0" nested-auth
// trace format into keyrecovery.NonceRecord values, and writes recovered
// keys back out as plain hex.
package tracefile

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/ericlagergren/mfkey1/keyrecovery"
)

// traceLine matches one "Sec <d> key <c> cuid <hex32> nt0 <hex32> ks0
// <hex32> par0 <bin4> [nt1 <hex32> ks1 <hex32> par1 <bin4>]" record. The
// trailing nt1/ks1/par1 group is optional: its absence yields a
// static_encrypted record, its presence a static_nested one, matching the
// reference parser's sscanf-return-count dispatch. regexp.MustCompile for a
// fixed line grammar is grounded on
// markkurossi-ephemelier/cmd/esmcdoc/main.go's reAssign/reDefine patterns.
var traceLine = regexp.MustCompile(
	`Sec\s+\S+\s+key\s+\S+\s+cuid\s+([0-9A-Fa-f]+)\s+nt0\s+([0-9A-Fa-f]+)\s+ks0\s+([0-9A-Fa-f]+)\s+par0\s+(\S{4})` +
		`(?:\s+nt1\s+([0-9A-Fa-f]+)\s+ks1\s+([0-9A-Fa-f]+)\s+par1\s+(\S{4}))?`)

// Parse reads a nested-auth trace from r, returning one NonceRecord per
// line containing "dist 0" that matches the Sec/cuid/nt0/ks0/par0 grammar.
// Lines without "dist 0", or that fail to match, are silently skipped —
// this is a capture log, not a validated wire format, and malformed or
// unrelated lines are routine.
func Parse(r io.Reader) ([]keyrecovery.NonceRecord, error) {
	var records []keyrecovery.NonceRecord
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, "dist 0") {
			continue
		}
		rec, ok := parseLine(line)
		if ok {
			records = append(records, rec)
		}
	}
	if err := scanner.Err(); err != nil {
		return records, err
	}
	return records, nil
}

func parseLine(line string) (keyrecovery.NonceRecord, bool) {
	m := traceLine.FindStringSubmatch(line)
	if m == nil {
		return keyrecovery.NonceRecord{}, false
	}

	uid, ok1 := parseHex32(m[1])
	nt0, ok2 := parseHex32(m[2])
	ks1Enc, ok3 := parseHex32(m[3])
	if !ok1 || !ok2 || !ok3 {
		return keyrecovery.NonceRecord{}, false
	}

	rec := keyrecovery.NonceRecord{
		Attack:    keyrecovery.StaticEncrypted,
		UID:       uid,
		Nt0:       nt0,
		UIDxorNt0: uid ^ nt0,
		Static: keyrecovery.StaticFields{
			Ks1_1Enc: ks1Enc,
			Par1:     binaryStringToParity(m[4]),
		},
	}

	if m[5] == "" {
		// Only the first nonce is present (parsed == 4 in the reference
		// parser): static_encrypted with no second session.
		return rec, true
	}

	nt1, ok4 := parseHex32(m[5])
	ks2Enc, ok5 := parseHex32(m[6])
	if !ok4 || !ok5 {
		return rec, true
	}

	rec.Attack = keyrecovery.StaticNested
	rec.Nt1 = nt1
	rec.UIDxorNt1 = uid ^ nt1
	rec.Static.Ks1_2Enc = ks2Enc
	rec.Static.Par2 = binaryStringToParity(m[7])
	return rec, true
}

func parseHex32(s string) (uint32, bool) {
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}

// binaryStringToParity converts a '0'/'1' string (MSB first) to its
// integer value, matching the reference implementation's
// binaryStringToInt. Non-'1' characters (including a malformed or short
// capture) are treated as 0 bits.
func binaryStringToParity(s string) uint8 {
	var v uint8
	for _, c := range s {
		v <<= 1
		if c == '1' {
			v |= 1
		}
	}
	return v
}
