// Package entropy provides empirical Shannon-entropy analysis of codec
// inputs and outputs. It is read-only instrumentation: nothing here
// affects codec correctness.
package entropy

import (
	"math"
	"math/bits"
)

// Shannon returns the empirical Shannon entropy of data in bits per
// byte: H = -Σ p·log2(p) over the byte-value frequencies. Empty data
// has entropy 0.
func Shannon(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}
	var freq [256]int
	for _, b := range data {
		freq[b]++
	}
	total := float64(len(data))
	h := 0.0
	for _, n := range freq {
		if n == 0 {
			continue
		}
		p := float64(n) / total
		h -= p * math.Log2(p)
	}
	return h
}

// Stats is the compression statistics record.
type Stats struct {
	OriginalSizeBytes   int     `json:"original_size_bytes"`
	CompressedSizeBytes int     `json:"compressed_size_bytes"`
	CompressionRatio    float64 `json:"compression_ratio"`
	SpaceSavingsPercent float64 `json:"space_savings_percent"`
	BitsPerBase         float64 `json:"bits_per_base"`
	BitsPerCode         int     `json:"bits_per_code"`
	TotalCodes          int     `json:"total_codes"`
	MaxCodeValue        uint32  `json:"max_code_value"`

	OriginalEntropy          float64 `json:"original_entropy"`
	CompressedEntropy        float64 `json:"compressed_entropy"`
	EntropyReduction         float64 `json:"entropy_reduction"`
	TheoreticalMinimumSize   float64 `json:"theoretical_minimum_size"`
	ShannonEfficiency        float64 `json:"shannon_efficiency"`
	CompressionEffectiveness float64 `json:"compression_effectiveness"`
}

// Analyze computes the Stats record for an original buffer and the code
// stream it compressed to. The compressed byte size assumes a uniform
// code width: the bit length of the largest code rounded up to a byte
// boundary, never below 16 bits.
func Analyze(original []byte, codes []uint32) Stats {
	originalSize := len(original)

	bitsPerCode := 16
	var maxCode uint32
	compressedSize := 0
	if len(codes) > 0 {
		for _, c := range codes {
			if c > maxCode {
				maxCode = c
			}
		}
		if w := (bits.Len32(maxCode) + 7) / 8 * 8; w > bitsPerCode {
			bitsPerCode = w
		}
		compressedSize = len(codes) * bitsPerCode / 8
	}

	// 2 bits per base: one byte spans 4 bases.
	dnaLength := originalSize * 4

	originalEntropy := Shannon(original)
	compressedEntropy := 0.0
	if len(codes) > 0 {
		compressedEntropy = Shannon(codeBytes(codes))
	}

	theoreticalMin := 0.0
	if originalSize > 0 {
		theoreticalMin = originalEntropy * float64(originalSize) / 8
	}

	actualRatio := 0.0
	spaceSavings := 0.0
	if originalSize > 0 {
		actualRatio = float64(compressedSize) / float64(originalSize)
		spaceSavings = (1 - actualRatio) * 100
	}
	shannonRatio := 0.0
	if originalSize > 0 {
		shannonRatio = theoreticalMin / float64(originalSize)
	}

	shannonEfficiency := 0.0
	if compressedSize > 0 {
		shannonEfficiency = theoreticalMin / float64(compressedSize)
	}

	effectiveness := 0.0
	switch {
	case shannonRatio > 0 && actualRatio > shannonRatio:
		effectiveness = shannonRatio / actualRatio
	case shannonRatio > 0:
		// At or below the theoretical minimum.
		effectiveness = 1.0
	}

	bitsPerBase := 0.0
	if dnaLength > 0 {
		bitsPerBase = float64(compressedSize*8) / float64(dnaLength)
	}

	return Stats{
		OriginalSizeBytes:        originalSize,
		CompressedSizeBytes:      compressedSize,
		CompressionRatio:         actualRatio,
		SpaceSavingsPercent:      spaceSavings,
		BitsPerBase:              bitsPerBase,
		BitsPerCode:              bitsPerCode,
		TotalCodes:               len(codes),
		MaxCodeValue:             maxCode,
		OriginalEntropy:          originalEntropy,
		CompressedEntropy:        compressedEntropy,
		EntropyReduction:         originalEntropy - compressedEntropy,
		TheoreticalMinimumSize:   theoreticalMin,
		ShannonEfficiency:        clamp01(shannonEfficiency),
		CompressionEffectiveness: clamp01(effectiveness),
	}
}

// codeBytes renders each code as its minimal little-endian byte
// sequence (at least one byte) for entropy measurement.
func codeBytes(codes []uint32) []byte {
	out := make([]byte, 0, len(codes)*2)
	for _, c := range codes {
		n := (bits.Len32(c) + 7) / 8
		if n == 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			out = append(out, byte(c>>(8*i)))
		}
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
