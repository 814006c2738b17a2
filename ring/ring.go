// Package ring wraps a code stream in a fixed-topology circular
// structure: the stream is zero-padded to a prime length and a short
// bridge (a copy of the stream's head) is appended so the structure is
// self-continuous under cyclic traversal. Prime lengths avoid periodic
// alignment artifacts; the bridge is pure overhead for linear decode
// and is always discarded by Decapsulate.
package ring

import (
	"fmt"
	"math"
)

// maxBridge caps the bridge segment.
const maxBridge = 10

// IsPrime reports primality by trial division up to the square root.
func IsPrime(n int) bool {
	if n < 2 {
		return false
	}
	if n == 2 {
		return true
	}
	if n%2 == 0 {
		return false
	}
	for i := 3; i*i <= n; i += 2 {
		if n%i == 0 {
			return false
		}
	}
	return true
}

// NextPrime returns the smallest prime >= n. Inputs below 2 map to 2.
func NextPrime(n int) int {
	if n < 2 {
		return 2
	}
	for !IsPrime(n) {
		n++
	}
	return n
}

// BridgeLength returns the bridge size for a ring of primeLen elements:
// floor(sqrt(primeLen)), capped at 10.
func BridgeLength(primeLen int) int {
	b := int(math.Sqrt(float64(primeLen)))
	if b > maxBridge {
		b = maxBridge
	}
	return b
}

// Encapsulate pads codes with zeros to the next prime length and
// appends the bridge. The first len(codes) elements of the result
// always equal codes exactly. An empty stream builds no ring.
func Encapsulate(codes []uint32) []uint32 {
	if len(codes) == 0 {
		return []uint32{}
	}

	primeLen := NextPrime(len(codes))
	bridgeLen := BridgeLength(primeLen)

	rng := make([]uint32, primeLen, primeLen+bridgeLen)
	copy(rng, codes)
	rng = append(rng, rng[:bridgeLen]...)
	return rng
}

// Decapsulate recovers the pre-ring code stream: the first ringLen
// elements drop the bridge, the first compressedLen of those drop the
// zero padding. The lengths come from the metadata written at encode
// time.
func Decapsulate(rng []uint32, compressedLen, ringLen int) ([]uint32, error) {
	if compressedLen < 0 || ringLen < 0 {
		return nil, fmt.Errorf("ring: negative length (compressed %d, ring %d)", compressedLen, ringLen)
	}
	if ringLen > len(rng) {
		return nil, fmt.Errorf("ring: ring length %d exceeds stream length %d", ringLen, len(rng))
	}
	if compressedLen > ringLen {
		return nil, fmt.Errorf("ring: compressed length %d exceeds ring length %d", compressedLen, ringLen)
	}
	out := make([]uint32, compressedLen)
	copy(out, rng[:compressedLen])
	return out, nil
}
