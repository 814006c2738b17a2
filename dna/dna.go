// Package dna maps raw bytes onto the 4-letter nucleotide alphabet.
//
// Each byte expands to 8 bits and every 2-bit group becomes one base:
// A=00, C=01, G=10, T=11. The mapping is the innermost layer of the
// codec pipeline and must be exactly invertible, so Encode reports the
// pre-padding bit count and Decode consumes it to strip any pad bit.
package dna

import (
	"fmt"
	"strings"
)

// Bases is the ordered alphabet. The index of a base is its 2-bit code.
const Bases = "ACGT"

// baseCode maps an input character to its 2-bit code. Lowercase is
// accepted; everything else is -1.
var baseCode = func() [256]int8 {
	var t [256]int8
	for i := range t {
		t[i] = -1
	}
	for code, b := range []byte(Bases) {
		t[b] = int8(code)
		t[b|0x20] = int8(code) // lowercase
	}
	return t
}()

// InvalidSymbolError reports a character outside the alphabet.
type InvalidSymbolError struct {
	Symbol byte
	Pos    int
}

func (e *InvalidSymbolError) Error() string {
	return fmt.Sprintf("dna: invalid symbol %q at position %d", e.Symbol, e.Pos)
}

// Encode converts data to a base sequence and returns the sequence
// together with the original bit count. The bit count of whole bytes is
// always even, but a trailing odd bit would be padded with 0 and the
// returned bitLen lets Decode discard it.
func Encode(data []byte) (string, int) {
	if len(data) == 0 {
		return "", 0
	}

	bitLen := len(data) * 8
	var sb strings.Builder
	sb.Grow(len(data) * 4)
	for _, b := range data {
		sb.WriteByte(Bases[b>>6&3])
		sb.WriteByte(Bases[b>>4&3])
		sb.WriteByte(Bases[b>>2&3])
		sb.WriteByte(Bases[b&3])
	}
	return sb.String(), bitLen
}

// Decode converts a base sequence back to bytes. bitLen is the original
// bit count reported by Encode; the decoded bit stream is truncated to
// it before regrouping. bitLen <= 0 means the count is unknown and the
// stream is truncated to a whole number of bytes instead. A trailing
// group shorter than 8 bits is right-padded with zero bits.
func Decode(seq string, bitLen int) ([]byte, error) {
	if len(seq) == 0 {
		return []byte{}, nil
	}

	totalBits := len(seq) * 2
	if bitLen > 0 && bitLen < totalBits {
		totalBits = bitLen
	} else if bitLen <= 0 {
		totalBits -= totalBits % 8
	}
	if totalBits == 0 {
		return []byte{}, nil
	}

	out := make([]byte, 0, (totalBits+7)/8)
	var acc uint16
	accBits := 0
	consumed := 0
	for i := 0; i < len(seq) && consumed < totalBits; i++ {
		code := baseCode[seq[i]]
		if code < 0 {
			return nil, &InvalidSymbolError{Symbol: seq[i], Pos: i}
		}
		take := 2
		if totalBits-consumed < 2 {
			take = totalBits - consumed
			acc = acc<<uint(take) | uint16(code)>>uint(2-take)
		} else {
			acc = acc<<2 | uint16(code)
		}
		accBits += take
		consumed += take
		if accBits == 8 {
			out = append(out, byte(acc))
			acc, accBits = 0, 0
		}
	}
	if accBits > 0 {
		// Incomplete trailing byte: pad with zero bits on the right.
		out = append(out, byte(acc<<uint(8-accBits)))
	}
	return out, nil
}

// Filter removes characters outside the alphabet and reports how many
// were dropped. It backs the lenient decode path; the caller is
// expected to log the drop count.
func Filter(seq string) (string, int) {
	dropped := 0
	var sb strings.Builder
	for i := 0; i < len(seq); i++ {
		if baseCode[seq[i]] < 0 {
			dropped++
			continue
		}
		sb.WriteByte(seq[i])
	}
	if dropped == 0 {
		return seq, 0
	}
	return sb.String(), dropped
}

// Validate reports whether seq is entirely over the alphabet
// (case-insensitive). The empty sequence is valid.
func Validate(seq string) bool {
	for i := 0; i < len(seq); i++ {
		if baseCode[seq[i]] < 0 {
			return false
		}
	}
	return true
}
