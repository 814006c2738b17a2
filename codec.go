package ccc

import (
	"errors"

	"github.com/helixstore/ccc/dna"
	"github.com/helixstore/ccc/lzw"
	"github.com/helixstore/ccc/marker"
	"github.com/helixstore/ccc/ring"
)

// CompressCore runs the core layer: symbol mapping followed by
// dictionary compression. The returned metadata carries everything the
// inverse needs to restore the exact byte buffer.
func (c *Codec) CompressCore(data []byte) ([]uint32, CoreMetadata, error) {
	if len(data) == 0 {
		if c.config.Strict {
			return nil, CoreMetadata{}, ErrMissingInput
		}
		c.logger.Warn("empty input, returning empty core result")
		return []uint32{}, CoreMetadata{}, nil
	}

	seq, bitLen := dna.Encode(data)
	codes := lzw.Compress(seq)
	c.logger.Debug("core compression",
		"bytes", len(data), "bases", len(seq), "codes", len(codes))

	return codes, CoreMetadata{
		DNALength:    len(seq),
		OriginalSize: len(data),
		OriginalBits: bitLen,
	}, nil
}

// Encapsulate runs the encapsulation layer: ring construction followed
// by integrity marking. The pre-ring code count is recorded so
// Decapsulate can strip the zero padding exactly.
func (c *Codec) Encapsulate(codes []uint32) ([]uint32, EncapsulationMetadata, error) {
	if len(codes) == 0 {
		if c.config.Strict {
			return nil, EncapsulationMetadata{}, ErrMissingInput
		}
		c.logger.Warn("empty code stream, returning empty encapsulation result")
		return []uint32{}, EncapsulationMetadata{
			Markers: marker.Metadata{ChunkSize: c.config.ChunkSize, Positions: []int{}},
		}, nil
	}

	rng := ring.Encapsulate(codes)
	marked, markerMeta := marker.Mark(rng, c.config.ChunkSize, c.config.Digest)
	markerMeta.OriginalCompressedLength = len(codes)
	c.logger.Debug("encapsulation",
		"codes", len(codes), "ring", len(rng), "marked", len(marked),
		"sentinel", markerMeta.Sentinel, "digest", markerMeta.Digest)

	return marked, EncapsulationMetadata{
		CircularLength: len(rng),
		Markers:        markerMeta,
	}, nil
}

// Compress runs the full pipeline and returns the marked stream with
// layered metadata. The compression ratio is len(stream)/len(data),
// 0 for empty input.
func (c *Codec) Compress(data []byte) ([]uint32, *Metadata, error) {
	if len(data) == 0 {
		if c.config.Strict {
			return nil, nil, ErrMissingInput
		}
		c.logger.Warn("empty input, returning empty compression result")
		return []uint32{}, &Metadata{Layered: &LayeredMetadata{
			Encapsulation: EncapsulationMetadata{
				Markers: marker.Metadata{ChunkSize: c.config.ChunkSize, Positions: []int{}},
			},
		}}, nil
	}

	codes, coreMeta, err := c.CompressCore(data)
	if err != nil {
		return nil, nil, err
	}
	marked, encapMeta, err := c.Encapsulate(codes)
	if err != nil {
		return nil, nil, err
	}

	return marked, &Metadata{Layered: &LayeredMetadata{
		Core:             coreMeta,
		Encapsulation:    encapMeta,
		CompressionRatio: float64(len(marked)) / float64(len(data)),
	}}, nil
}

// Decapsulate reverses the encapsulation layer: sentinel markers are
// filtered out, the payload digest is verified, and bridge plus zero
// padding are removed, recovering the pre-ring code stream.
func (c *Codec) Decapsulate(stream []uint32, meta EncapsulationMetadata) ([]uint32, error) {
	if len(stream) == 0 {
		if c.config.Strict {
			return nil, ErrMissingInput
		}
		return []uint32{}, nil
	}
	return c.decapsulate(stream, meta.Markers, true)
}

func (c *Codec) decapsulate(stream []uint32, m marker.Metadata, verify bool) ([]uint32, error) {
	filtered := marker.Unmark(stream, m.Sentinel)

	ringLen := m.OriginalLength
	if ringLen <= 0 {
		ringLen = len(filtered)
	}
	compressedLen := m.OriginalCompressedLength
	if compressedLen <= 0 {
		compressedLen = ringLen
	}

	if ringLen > len(filtered) {
		// Metadata promises more data than survived the filter.
		c.logger.Warn("ring length inconsistency during decapsulation",
			"expected", ringLen, "actual", len(filtered))
		return filtered[:min(compressedLen, len(filtered))], nil
	}

	rng := filtered[:ringLen]
	if verify {
		if err := c.verifyIntegrity(rng, m.Digest); err != nil {
			return nil, err
		}
	}

	codes, err := ring.Decapsulate(rng, min(compressedLen, ringLen), ringLen)
	if err != nil {
		return nil, err
	}
	return codes, nil
}

// verifyIntegrity applies the strict/lenient policy to digest
// verification. A missing stored digest is only ever a warning: there
// is nothing to compare against, so decode proceeds unverified.
func (c *Codec) verifyIntegrity(rng []uint32, digest string) error {
	err := marker.Verify(rng, digest, c.config.Digest)
	switch {
	case err == nil:
		c.logger.Debug("data integrity verified", "digest", digest)
		return nil
	case errors.Is(err, marker.ErrNoDigest):
		c.logger.Warn("no digest available, integrity not verified")
		return nil
	default:
		if c.config.Strict {
			return err
		}
		c.logger.Warn("integrity check failed, continuing with unverified data", "error", err)
		return nil
	}
}

// DecompressCore reverses the core layer: dictionary decompression
// followed by symbol decoding. The output length is forced to the
// recorded original size: surplus bytes are truncated and any deficit
// is zero-padded.
func (c *Codec) DecompressCore(codes []uint32, meta CoreMetadata) ([]byte, error) {
	if len(codes) == 0 {
		if c.config.Strict {
			return nil, ErrMissingInput
		}
		return []byte{}, nil
	}

	var seq string
	if c.config.Strict {
		var err error
		seq, err = lzw.Decompress(codes)
		if err != nil {
			return nil, err
		}
	} else {
		var skipped []uint32
		seq, skipped = lzw.DecompressLax(codes)
		if len(skipped) > 0 {
			c.logger.Warn("skipped invalid codes during decompression", "count", len(skipped))
		}
	}

	bitLen := meta.OriginalBits
	if !c.config.Strict {
		clean, dropped := dna.Filter(seq)
		if dropped > 0 {
			c.logger.Warn("filtered invalid symbols", "count", dropped)
			seq = clean
			// Dropped symbols shift the bit stream; fall back to
			// whole-byte truncation.
			bitLen = 0
		}
	}
	data, err := dna.Decode(seq, bitLen)
	if err != nil {
		return nil, err
	}

	if meta.OriginalSize > 0 {
		if len(data) > meta.OriginalSize {
			data = data[:meta.OriginalSize]
		} else if len(data) < meta.OriginalSize {
			padded := make([]byte, meta.OriginalSize)
			copy(padded, data)
			data = padded
		}
	}
	return data, nil
}

// Decompress reverses the full pipeline. The metadata variant is
// resolved once at entry: layered records run decapsulation with
// digest verification, legacy flat records use the historical path,
// which carries no symbol bit count and no digest contract.
func (c *Codec) Decompress(stream []uint32, meta *Metadata) ([]byte, error) {
	if len(stream) == 0 || meta == nil {
		if c.config.Strict {
			return nil, ErrMissingInput
		}
		c.logger.Warn("empty stream or missing metadata, returning empty result")
		return []byte{}, nil
	}

	r, err := meta.resolve()
	if err != nil {
		if c.config.Strict {
			return nil, ErrMissingInput
		}
		c.logger.Warn("unresolvable metadata, returning empty result")
		return []byte{}, nil
	}

	codes, err := c.decapsulate(stream, r.encap.Markers, !r.legacy)
	if err != nil {
		return nil, err
	}
	return c.DecompressCore(codes, r.core)
}
