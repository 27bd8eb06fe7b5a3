package embedding

import (
	"context"
	"encoding/binary"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// HashProvider is the deterministic local fallback named in spec.md §1/§4.9:
// same text and dimension always produce the same vector, with no network
// dependency. It accumulates a bag-of-tokens vector by hashing each
// whitespace-separated token with blake2b and scattering the digest bytes
// across the output dimension; the caller (the index layer) L2-normalizes
// on insert, so only the direction of this vector needs to be stable.
type HashProvider struct{}

// NewHashProvider creates a HashProvider. It holds no state.
func NewHashProvider() *HashProvider {
	return &HashProvider{}
}

// Embed deterministically maps text to a vector of length dimension.
func (p *HashProvider) Embed(_ context.Context, text string, dimension int) ([]float64, error) {
	vec := make([]float64, dimension)
	if dimension == 0 {
		return vec, nil
	}
	for _, token := range strings.Fields(text) {
		sum := blake2b.Sum256([]byte(token))
		for i := 0; i+8 <= len(sum); i += 8 {
			bits := binary.LittleEndian.Uint64(sum[i : i+8])
			slot := int(bits % uint64(dimension))
			sign := 1.0
			if bits&1 == 1 {
				sign = -1.0
			}
			vec[slot] += sign
		}
	}
	return vec, nil
}
