package ccc

import (
	"encoding/json"
	"errors"

	"github.com/helixstore/ccc/marker"
)

// CoreMetadata describes the core compression layer: everything needed
// to reverse the symbol mapping exactly. OriginalBits is the
// pre-padding bit count reported by the symbol encoder; it travels in
// the metadata rather than on the codec so decode never depends on a
// prior encode call.
type CoreMetadata struct {
	DNALength    int `json:"dna_length"`
	OriginalSize int `json:"original_size"`
	OriginalBits int `json:"original_bits_length"`
}

// EncapsulationMetadata describes the encapsulation layer: ring length
// plus the marker record (sentinel, chunking, digest, positions).
type EncapsulationMetadata struct {
	CircularLength int             `json:"circular_length"`
	Markers        marker.Metadata `json:"trans_splicing"`
}

// LayeredMetadata is the current metadata shape, one record per layer.
type LayeredMetadata struct {
	Core             CoreMetadata          `json:"core"`
	Encapsulation    EncapsulationMetadata `json:"encapsulation"`
	CompressionRatio float64               `json:"compression_ratio"`
}

// LegacyMetadata is the historical flat shape: marker record and
// original size at the top level, no per-layer nesting and no symbol
// bit count. It is accepted on decode for compatibility; the
// dictionary codec is self-reconstructing, so no dictionary field ever
// existed.
type LegacyMetadata struct {
	Markers      marker.Metadata `json:"trans_splicing"`
	OriginalSize int             `json:"original_size"`
}

// Metadata is the union of the two metadata shapes. Exactly one of
// Layered or Legacy is non-nil; Decompress resolves the variant once
// at entry. Compress always emits the layered shape.
type Metadata struct {
	Layered *LayeredMetadata
	Legacy  *LegacyMetadata
}

var errEmptyMetadata = errors.New("ccc: metadata has no variant set")

// MarshalJSON emits the variant's original field layout, so records
// written by either shape's producers remain interchangeable.
func (m Metadata) MarshalJSON() ([]byte, error) {
	switch {
	case m.Layered != nil:
		return json.Marshal(m.Layered)
	case m.Legacy != nil:
		return json.Marshal(m.Legacy)
	default:
		return nil, errEmptyMetadata
	}
}

// UnmarshalJSON resolves the variant by key presence: a record with
// both "core" and "encapsulation" keys is layered, anything else is
// interpreted as the legacy flat shape.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	var probe struct {
		Core          json.RawMessage `json:"core"`
		Encapsulation json.RawMessage `json:"encapsulation"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	if probe.Core != nil && probe.Encapsulation != nil {
		var layered LayeredMetadata
		if err := json.Unmarshal(data, &layered); err != nil {
			return err
		}
		*m = Metadata{Layered: &layered}
		return nil
	}

	var legacy LegacyMetadata
	if err := json.Unmarshal(data, &legacy); err != nil {
		return err
	}
	*m = Metadata{Legacy: &legacy}
	return nil
}

// resolved is the decode-time view common to both variants.
type resolved struct {
	core   CoreMetadata
	encap  EncapsulationMetadata
	legacy bool
}

// resolve flattens the union into the fields decode needs. The legacy
// shape has no symbol bit count and no ring digest contract, so the
// legacy view carries OriginalBits 0 (decode truncates to whole bytes)
// and is flagged so digest verification is skipped.
func (m *Metadata) resolve() (resolved, error) {
	switch {
	case m == nil:
		return resolved{}, errEmptyMetadata
	case m.Layered != nil:
		return resolved{core: m.Layered.Core, encap: m.Layered.Encapsulation}, nil
	case m.Legacy != nil:
		return resolved{
			core: CoreMetadata{OriginalSize: m.Legacy.OriginalSize},
			encap: EncapsulationMetadata{
				CircularLength: m.Legacy.Markers.OriginalLength,
				Markers:        m.Legacy.Markers,
			},
			legacy: true,
		}, nil
	default:
		return resolved{}, errEmptyMetadata
	}
}
