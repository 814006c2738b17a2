package marker

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Algorithm selects the content digest used for integrity marking.
type Algorithm int

const (
	// SHA256 is the default: SHA-256 over the serialized stream,
	// truncated to 8 hex characters.
	SHA256 Algorithm = iota
	// XXH64 is the fast non-cryptographic alternative: the full
	// 64-bit xxHash as 16 hex characters.
	XXH64
)

func (a Algorithm) String() string {
	switch a {
	case XXH64:
		return "xxh64"
	default:
		return "sha256"
	}
}

// serialize renders a code stream in its stable digest form: decimal
// values joined by commas. Two streams serialize identically iff they
// are element-wise equal.
func serialize(codes []uint32) []byte {
	buf := make([]byte, 0, len(codes)*6)
	for i, c := range codes {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendUint(buf, uint64(c), 10)
	}
	return buf
}

// Digest computes the content digest of a code stream under the given
// algorithm. The empty stream has the empty digest.
func Digest(codes []uint32, alg Algorithm) string {
	if len(codes) == 0 {
		return ""
	}
	data := serialize(codes)
	switch alg {
	case XXH64:
		return fmt.Sprintf("%016x", xxhash.Sum64(data))
	default:
		sum := sha256.Sum256(data)
		return hex.EncodeToString(sum[:])[:8]
	}
}
