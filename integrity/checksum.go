/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package integrity

import (
	"fmt"
	"hash/crc32"
	"unicode/utf16"

	"github.com/nautilus-one/synckit/syncdata"
)

// Algorithm defines possible checksum algorithms.
type Algorithm string

// Checksum algorithms.
const (
	// AlgorithmSimple is a 32-bit rolling hash: hash = hash*31 + c over UTF-16 code units with wraparound.
	AlgorithmSimple Algorithm = "simple"

	// AlgorithmCRC32 is the IEEE CRC-32 over UTF-8 bytes.
	AlgorithmCRC32 Algorithm = "crc32"
)

// GenerateChecksum returns an 8-digit lowercase hex fingerprint of v.
// v is serialized with syncdata.Marshal, so object key order never affects the result.
// Unknown algorithms fall back to AlgorithmSimple.
func GenerateChecksum(v syncdata.Value, alg Algorithm) string {
	data := syncdata.MustMarshal(v)
	var sum uint32
	switch alg {
	case AlgorithmCRC32:
		sum = crc32.ChecksumIEEE(data)
	default:
		sum = simpleHash(string(data))
	}
	return fmt.Sprintf("%08x", sum)
}

func simpleHash(s string) uint32 {
	var h int32
	for _, cu := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(cu)
	}
	return uint32(h)
}
