package randutil

import (
	crand "crypto/rand"
	"encoding/binary"
	rand "math/rand/v2"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// The helper centralises how we derive the two 64-bit seeds required by rand/v2
// so that all call sites get reproducible sequences.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// NewSecure returns a *rand.Rand backed by crypto/rand. It is the default
// whenever no explicit generator is supplied.
func NewSecure() *rand.Rand {
	return rand.New(secureSource{})
}

type secureSource struct{}

func (secureSource) Uint64() uint64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		panic("randutil: crypto/rand failed: " + err.Error())
	}
	return binary.LittleEndian.Uint64(b[:])
}

// Reader adapts a generator into an io.Reader, for APIs such as UUID
// generation that draw entropy from a reader.
type Reader struct {
	rng *rand.Rand
}

// NewReader wraps rng as an io.Reader.
func NewReader(rng *rand.Rand) *Reader {
	return &Reader{rng: rng}
}

func (r *Reader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.rng.Uint32())
	}
	return len(p), nil
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
