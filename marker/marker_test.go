package marker

import (
	"errors"
	"slices"
	"testing"
)

func TestMarkEmpty(t *testing.T) {
	marked, meta := Mark(nil, 1000, SHA256)
	if len(marked) != 0 {
		t.Errorf("expected empty marked stream, got %v", marked)
	}
	if meta.Sentinel != 0 || meta.OriginalLength != 0 || meta.Digest != "" || len(meta.Positions) != 0 {
		t.Errorf("expected zeroed metadata, got %+v", meta)
	}
	if meta.ChunkSize != 1000 {
		t.Errorf("chunk size should carry through, got %d", meta.ChunkSize)
	}
}

func TestMarkSentinelCollisionFree(t *testing.T) {
	rings := [][]uint32{
		{0},
		{0, 0, 0},
		{1, 2, 3, 4, 5},
		{100, 50, 100, 0},
		{65535, 0, 1},
	}
	for _, rng := range rings {
		_, meta := Mark(rng, 2, SHA256)
		if slices.Contains(rng, meta.Sentinel) {
			t.Errorf("sentinel %d collides with ring %v", meta.Sentinel, rng)
		}
		if meta.Sentinel != slices.Max(rng)+1 {
			t.Errorf("sentinel %d, expected max+1 = %d", meta.Sentinel, slices.Max(rng)+1)
		}
	}
}

func TestMarkChunking(t *testing.T) {
	rng := []uint32{1, 2, 3, 4, 5, 6, 7}
	marked, meta := Mark(rng, 3, SHA256)

	want := []uint32{8, 1, 2, 3, 8, 4, 5, 6, 8, 7}
	if !slices.Equal(marked, want) {
		t.Fatalf("marked stream %v, want %v", marked, want)
	}
	if !slices.Equal(meta.Positions, []int{0, 4, 8}) {
		t.Errorf("positions %v, want [0 4 8]", meta.Positions)
	}
	if meta.OriginalLength != len(rng) || meta.OriginalCompressedLength != len(rng) {
		t.Errorf("length metadata wrong: %+v", meta)
	}
	for _, pos := range meta.Positions {
		if marked[pos] != meta.Sentinel {
			t.Errorf("position %d does not hold the sentinel", pos)
		}
	}
}

func TestMarkNonPositiveChunkSize(t *testing.T) {
	rng := []uint32{1, 2, 3}
	marked, meta := Mark(rng, 0, SHA256)
	if len(meta.Positions) != 1 {
		t.Errorf("expected a single chunk, got positions %v", meta.Positions)
	}
	if !slices.Equal(Unmark(marked, meta.Sentinel), rng) {
		t.Error("unmark mismatch for single-chunk stream")
	}
}

func TestMarkUnmarkRoundTrip(t *testing.T) {
	rng := make([]uint32, 2500)
	for i := range rng {
		rng[i] = uint32(i % 97)
	}
	marked, meta := Mark(rng, 1000, SHA256)
	if !slices.Equal(Unmark(marked, meta.Sentinel), rng) {
		t.Error("unmark did not recover the ring")
	}
}

func TestDigestDeterministic(t *testing.T) {
	rng := []uint32{5, 10, 15, 20}
	for _, alg := range []Algorithm{SHA256, XXH64} {
		a := Digest(rng, alg)
		b := Digest(slices.Clone(rng), alg)
		if a != b {
			t.Errorf("%v: identical rings produced different digests", alg)
		}
	}
}

func TestDigestSensitivity(t *testing.T) {
	rng := []uint32{5, 10, 15, 20}
	for _, alg := range []Algorithm{SHA256, XXH64} {
		base := Digest(rng, alg)
		for i := range rng {
			mutated := slices.Clone(rng)
			mutated[i]++
			if Digest(mutated, alg) == base {
				t.Errorf("%v: mutation at %d left digest unchanged", alg, i)
			}
		}
	}
}

func TestDigestWidth(t *testing.T) {
	rng := []uint32{1, 2, 3}
	if d := Digest(rng, SHA256); len(d) != 8 {
		t.Errorf("sha256 digest %q, want 8 hex chars", d)
	}
	if d := Digest(rng, XXH64); len(d) != 16 {
		t.Errorf("xxh64 digest %q, want 16 hex chars", d)
	}
	if Digest(nil, SHA256) != "" {
		t.Error("empty stream should have empty digest")
	}
}

func TestVerify(t *testing.T) {
	rng := []uint32{9, 8, 7}
	good := Digest(rng, SHA256)

	if err := Verify(rng, good, SHA256); err != nil {
		t.Errorf("expected match, got %v", err)
	}

	err := Verify(rng, "deadbeef", SHA256)
	var integrity *IntegrityError
	if !errors.As(err, &integrity) {
		t.Fatalf("expected *IntegrityError, got %v", err)
	}
	if integrity.Want != "deadbeef" || integrity.Got != good {
		t.Errorf("error fields wrong: %+v", integrity)
	}

	if err := Verify(rng, "", SHA256); !errors.Is(err, ErrNoDigest) {
		t.Errorf("expected ErrNoDigest, got %v", err)
	}
}
