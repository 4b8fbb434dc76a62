package driver

import (
	"crypto/sha256"
	"encoding/binary"
)

// Digest identifies one cached lowering outcome.
type Digest [32]byte

// combineDigest: H(schema || content || maxRepairs || fixers). Everything that
// can change the outcome for the same bytes goes into the key.
func combineDigest(content [32]byte, maxRepairs, fixers int) Digest {
	var hdr [2 + 8 + 8]byte
	binary.LittleEndian.PutUint16(hdr[0:], cacheSchemaVersion)
	binary.LittleEndian.PutUint64(hdr[2:], uint64(int64(maxRepairs)))
	binary.LittleEndian.PutUint64(hdr[10:], uint64(int64(fixers)))

	h := sha256.New()
	_, _ = h.Write(hdr[:2])
	_, _ = h.Write(content[:])
	_, _ = h.Write(hdr[2:])
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func cacheKey(src []byte, opts Options) Digest {
	fixers := 0
	if opts.Fixers != nil {
		fixers = opts.Fixers.Len()
	}
	return combineDigest(sha256.Sum256(src), opts.maxRepairs(), fixers)
}
