package dice

import (
	"crypto/rand"
	"encoding/binary"
	"math"
	mrand "math/rand/v2"
	"sync"
)

// Source is the randomness provider shared by battles and dice rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// intn derives a value in [0, n) from a Float64 draw.
func intn(f float64, n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	v := int(math.Floor(f * float64(n)))
	return min(max(v, 0), n-1)
}

// cryptoSource implements Source using crypto/rand.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand. It cannot be replayed.
func NewCryptoSource() Source {
	return cryptoSource{}
}

// Float64 returns 53 crypto-random bits scaled into [0, 1).
//
// Panics with "dice: crypto/rand failure: <err>" if crypto/rand fails.
func (cryptoSource) Float64() float64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return float64(binary.LittleEndian.Uint64(b[:])>>11) / (1 << 53)
}

// Intn returns a crypto-random int in [0, n).
func (c cryptoSource) Intn(n int) int {
	return intn(c.Float64(), n)
}

// seededSource is a PCG generator guarded by a mutex.
type seededSource struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewSeededSource returns a deterministic Source. Two sources built from the
// same seed produce the same sequence.
func NewSeededSource(seed uint64) Source {
	return &seededSource{rng: mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *seededSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func (s *seededSource) Intn(n int) int {
	return intn(s.Float64(), n)
}

// replaySource cycles through a fixed list of draws.
type replaySource struct {
	mu   sync.Mutex
	vals []float64
	next int
}

// NewReplaySource returns a Source that returns vals in order and starts over
// when they run out.
//
// Precondition: len(vals) > 0.
func NewReplaySource(vals ...float64) Source {
	if len(vals) == 0 {
		panic("dice: NewReplaySource requires at least one value")
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	return &replaySource{vals: cp}
}

func (r *replaySource) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := r.vals[r.next%len(r.vals)]
	r.next++
	return v
}

func (r *replaySource) Intn(n int) int {
	return intn(r.Float64(), n)
}
