// Package lzw implements the adaptive dictionary codec for nucleotide
// sequences.
//
// It is classic LZW over the 4-symbol alphabet with one deliberate
// property: the table is never transmitted. The decoder reconstructs
// the encoder's table by replaying the identical growth rule on the
// code stream, including the self-reference case where a code refers
// to the entry the encoder defined on the same step. Both sides stop
// growing the table at MaxTableSize and keep using the frozen table;
// there is no reset code.
package lzw

import (
	"fmt"
	"strings"

	"github.com/helixstore/ccc/dna"
)

// MaxTableSize caps the dictionary. Codes are therefore always below
// MaxTableSize on the wire.
const MaxTableSize = 65536

const alphabetSize = 4

// InvalidCodeError reports a code with no resolvable table entry.
type InvalidCodeError struct {
	Code  uint32
	Index int
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("lzw: invalid code %d at index %d", e.Code, e.Index)
}

// grow inserts entry under nextCode unless the table is saturated and
// returns the updated next free code. Compression and decompression
// both funnel table growth through here so the two tables can never
// diverge.
func grow(insert func(uint32), nextCode uint32) uint32 {
	if nextCode >= MaxTableSize {
		return nextCode
	}
	insert(nextCode)
	return nextCode + 1
}

// Compress encodes a base sequence as a stream of dictionary codes.
// The output is never longer than the input sequence.
func Compress(seq string) []uint32 {
	if len(seq) == 0 {
		return []uint32{}
	}

	table := make(map[string]uint32, 1024)
	for i := 0; i < alphabetSize; i++ {
		table[dna.Bases[i:i+1]] = uint32(i)
	}
	nextCode := uint32(alphabetSize)

	result := make([]uint32, 0, len(seq)/4+1)
	current := ""
	for i := 0; i < len(seq); i++ {
		combined := current + seq[i:i+1]
		if _, ok := table[combined]; ok {
			current = combined
			continue
		}
		if current != "" {
			result = append(result, table[current])
		}
		nextCode = grow(func(code uint32) { table[combined] = code }, nextCode)
		current = seq[i : i+1]
	}
	if current != "" {
		result = append(result, table[current])
	}
	return result
}

// Decompress rebuilds the base sequence from a code stream. A code
// equal to the next free table slot resolves as prev+prev[0] (the
// encoder defined exactly that entry on the emitting step); any other
// unknown code is an *InvalidCodeError.
func Decompress(codes []uint32) (string, error) {
	seq, _, err := decompress(codes, true)
	return seq, err
}

// DecompressLax is the lenient variant: unresolvable codes are skipped
// and returned so the caller can log them.
func DecompressLax(codes []uint32) (string, []uint32) {
	seq, skipped, _ := decompress(codes, false)
	return seq, skipped
}

func decompress(codes []uint32, strict bool) (string, []uint32, error) {
	if len(codes) == 0 {
		return "", nil, nil
	}

	table := make([]string, alphabetSize, 1024)
	for i := 0; i < alphabetSize; i++ {
		table[i] = dna.Bases[i : i+1]
	}
	nextCode := uint32(alphabetSize)

	var skipped []uint32
	first := codes[0]
	if first >= uint32(len(table)) {
		// The first code can only be a single-symbol entry.
		if strict {
			return "", nil, &InvalidCodeError{Code: first, Index: 0}
		}
		skipped = append(skipped, first)
		rest, moreSkipped := DecompressLax(codes[1:])
		return rest, append(skipped, moreSkipped...), nil
	}

	prev := table[first]
	var sb strings.Builder
	sb.WriteString(prev)

	for i, code := range codes[1:] {
		var entry string
		switch {
		case code < uint32(len(table)):
			entry = table[code]
		case code == nextCode:
			entry = prev + prev[:1]
		default:
			if strict {
				return "", nil, &InvalidCodeError{Code: code, Index: i + 1}
			}
			skipped = append(skipped, code)
			continue
		}
		sb.WriteString(entry)
		nextCode = grow(func(uint32) { table = append(table, prev+entry[:1]) }, nextCode)
		prev = entry
	}
	return sb.String(), skipped, nil
}
