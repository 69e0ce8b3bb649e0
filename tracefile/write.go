package tracefile

import (
	"fmt"
	"io"

	"github.com/ericlagergren/mfkey1/keyrecovery"
)

// WriteKeys writes one uppercase 12-digit hex key per line, matching the
// reference implementation's save_keys_to_file output (no header, no
// separators).
func WriteKeys(w io.Writer, keys []keyrecovery.Key) error {
	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "%02X%02X%02X%02X%02X%02X\n", k[0], k[1], k[2], k[3], k[4], k[5]); err != nil {
			return err
		}
	}
	return nil
}
