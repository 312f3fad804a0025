// Package hasher fingerprints payloads and cover files with xxHash64.
package hasher

import (
	"encoding/binary"
	"encoding/hex"
	"io"

	"github.com/cespare/xxhash/v2"
)

// DigestLen is the hex length used for payload digests in receipts.
const DigestLen = 16

// ContentHash computes the xxHash64 of data and returns a hex string
// truncated to hexLen characters (0 = full 16).
func ContentHash(data []byte, hexLen int) string {
	return format(xxhash.Sum64(data), hexLen)
}

// ContentHashReader computes xxHash64 from a reader, streaming.
func ContentHashReader(r io.Reader, hexLen int) (string, error) {
	h := xxhash.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return format(h.Sum64(), hexLen), nil
}

// Match reports whether data hashes to digest. digest may be a truncated
// hex prefix as produced by ContentHash.
func Match(data []byte, digest string) bool {
	if digest == "" {
		return false
	}
	return ContentHash(data, len(digest)) == digest
}

func format(sum uint64, hexLen int) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], sum)
	full := hex.EncodeToString(b[:])
	if hexLen > 0 && hexLen < len(full) {
		return full[:hexLen]
	}
	return full
}
