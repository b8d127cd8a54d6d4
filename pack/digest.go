package pack

import "github.com/zeebo/blake3"

// Digest returns the blake3 hash of v's canonical encoding. Because
// canonical output is byte-identical for logically equal values, the
// digest is a stable content address usable for deduplication of
// encoded payloads.
func Digest(v Value) ([32]byte, error) {
	b, err := EncodeOptions{Canonical: true}.Encode(v)
	if err != nil {
		return [32]byte{}, err
	}
	return blake3.Sum256(b), nil
}
