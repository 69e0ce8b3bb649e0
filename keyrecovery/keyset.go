package keyrecovery

// Key is a recovered 48-bit MIFARE Classic key, MSB-first.
type Key [6]byte

// KeySet is an insertion-ordered, byte-wise-deduplicated set of recovered
// keys. The zero value is ready to use.
type KeySet struct {
	keys []Key
}

// Add inserts key if it is not already present, returning true if it was
// newly added. First occurrence wins: re-adding an equal key is a no-op.
func (s *KeySet) Add(key Key) bool {
	for _, k := range s.keys {
		if k == key {
			return false
		}
	}
	s.keys = append(s.keys, key)
	return true
}

// Keys returns the keys in insertion order. The returned slice must not be
// mutated by the caller.
func (s *KeySet) Keys() []Key {
	return s.keys
}

// Len returns the number of distinct keys in the set.
func (s *KeySet) Len() int {
	return len(s.keys)
}
