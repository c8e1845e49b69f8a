package gameid

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Base32 alphabet used by TypeID (Crockford's base32)
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Generate creates a new game ID: a UUIDv7 encoded as a 26-character base32 string.
func Generate() string {
	return encodeBase32(uuid.Must(uuid.NewV7()))
}

// GenerateFrom creates a game ID drawing its random bits from r. Passing a
// reader over a seeded generator gives reproducible ids in tests, apart
// from the millisecond timestamp prefix.
func GenerateFrom(r io.Reader) (string, error) {
	id, err := uuid.NewV7FromReader(r)
	if err != nil {
		return "", fmt.Errorf("generate game id: %w", err)
	}
	return encodeBase32(id), nil
}

// Parse decodes a game ID back into its UUID.
func Parse(id string) (uuid.UUID, error) {
	if err := Validate(id); err != nil {
		return uuid.Nil, err
	}
	var out uuid.UUID
	for i := range 26 {
		value := strings.IndexByte(alphabet, id[i])
		// first character carries only 3 bits: 26*5 = 130 = 128 + 2 padding
		bitOffset := i*5 - 2
		for b := 4; b >= 0; b-- {
			bit := bitOffset + (4 - b)
			if bit < 0 || value&(1<<b) == 0 {
				continue
			}
			out[bit/8] |= 1 << (7 - bit%8)
		}
	}
	return out, nil
}

// encodeBase32 encodes a 128-bit UUID as a 26-character base32 string,
// treating it as a 130-bit big-endian number with two leading zero bits.
func encodeBase32(data uuid.UUID) string {
	result := make([]byte, 26)
	for i := range 26 {
		var value byte
		for b := range 5 {
			bit := i*5 - 2 + b
			value <<= 1
			if bit >= 0 && data[bit/8]&(1<<(7-bit%8)) != 0 {
				value |= 1
			}
		}
		result[i] = alphabet[value]
	}
	return string(result)
}

// Validate checks if a game ID is valid (26 characters, valid base32)
func Validate(id string) error {
	if len(id) != 26 {
		return fmt.Errorf("game ID must be exactly 26 characters, got %d", len(id))
	}

	// Check first character doesn't exceed 7 (to ensure it represents ≤ 128 bits)
	if id[0] > '7' {
		return fmt.Errorf("game ID first character must be 0-7, got %c", id[0])
	}

	for i := range len(id) {
		if strings.IndexByte(alphabet, id[i]) < 0 {
			return fmt.Errorf("invalid character %c at position %d", id[i], i)
		}
	}

	return nil
}
