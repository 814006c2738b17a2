// Package marker partitions a ring into fixed-size chunks delimited by
// a sentinel code and stamps the ring with a content digest. The
// sentinel is chosen strictly above every value in the ring, so
// filtering it back out is lossless by construction.
package marker

import (
	"errors"
	"fmt"
)

// ErrNoDigest indicates metadata without a stored digest, so integrity
// cannot be verified at all.
var ErrNoDigest = errors.New("marker: no stored digest to verify against")

// IntegrityError reports a digest mismatch between the stored and the
// recomputed value.
type IntegrityError struct {
	Want string
	Got  string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("marker: integrity check failed: digest mismatch (stored %s, computed %s)", e.Want, e.Got)
}

// Metadata describes a marked stream well enough to strip the markers
// and verify the payload. Field names follow the established record
// layout so serialized metadata stays interchangeable.
type Metadata struct {
	Sentinel                 uint32 `json:"sl_marker_code"`
	ChunkSize                int    `json:"chunk_size"`
	OriginalLength           int    `json:"original_length"`
	Positions                []int  `json:"marker_positions"`
	Digest                   string `json:"data_hash"`
	OriginalCompressedLength int    `json:"original_compressed_length"`
}

// Mark inserts a sentinel before every chunkSize-sized chunk of the
// ring and records the digest, the sentinel value and each sentinel's
// output position. The sentinel is max(ring)+1, incremented until it is
// absent from the ring (a single increment always suffices, the loop
// is the guarantee). An empty ring yields an empty stream and zeroed
// metadata.
func Mark(rng []uint32, chunkSize int, alg Algorithm) ([]uint32, Metadata) {
	if len(rng) == 0 {
		return []uint32{}, Metadata{ChunkSize: chunkSize, Positions: []int{}}
	}
	if chunkSize <= 0 {
		chunkSize = len(rng)
	}

	maxValue := rng[0]
	present := make(map[uint32]struct{}, len(rng))
	for _, v := range rng {
		present[v] = struct{}{}
		if v > maxValue {
			maxValue = v
		}
	}
	sentinel := maxValue + 1
	for {
		if _, ok := present[sentinel]; !ok {
			break
		}
		sentinel++
	}

	chunks := (len(rng) + chunkSize - 1) / chunkSize
	marked := make([]uint32, 0, len(rng)+chunks)
	positions := make([]int, 0, chunks)
	for i := 0; i < len(rng); i += chunkSize {
		positions = append(positions, len(marked))
		marked = append(marked, sentinel)
		end := i + chunkSize
		if end > len(rng) {
			end = len(rng)
		}
		marked = append(marked, rng[i:end]...)
	}

	return marked, Metadata{
		Sentinel:                 sentinel,
		ChunkSize:                chunkSize,
		OriginalLength:           len(rng),
		Positions:                positions,
		Digest:                   Digest(rng, alg),
		OriginalCompressedLength: len(rng),
	}
}

// Unmark filters every occurrence of the sentinel out of the stream.
// Lossless because Mark guarantees the sentinel never appears as data.
func Unmark(stream []uint32, sentinel uint32) []uint32 {
	out := make([]uint32, 0, len(stream))
	for _, v := range stream {
		if v != sentinel {
			out = append(out, v)
		}
	}
	return out
}

// Verify recomputes the ring's digest and compares it to the stored
// value. It returns nil on a match, ErrNoDigest when no digest was
// stored, and an *IntegrityError on a mismatch. Strict/lenient policy
// belongs to the caller.
func Verify(rng []uint32, want string, alg Algorithm) error {
	if want == "" {
		return ErrNoDigest
	}
	got := Digest(rng, alg)
	if got != want {
		return &IntegrityError{Want: want, Got: got}
	}
	return nil
}
