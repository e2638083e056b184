package battle

import (
	"encoding/binary"
	"math/rand"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// StreamRNG is a single named draw source. Production code uses
// *seededStream (math/rand, thread-confined to one battle); tests use
// *SequenceRNG to play back pre-recorded floats so traces are
// bit-reproducible (spec §4.1, §8 S6).
type StreamRNG interface {
	// Float64 returns a value in [0,1). Every call MUST be consumed even
	// when the caller already knows the outcome (spec determinism
	// discipline) — callers never skip a draw to "save" randomness.
	Float64() float64
}

type seededStream struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (s *seededStream) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// SequenceRNG plays back a fixed list of floats, looping is not allowed.
// Once exhausted it returns a fixed fallback value instead (spec §4.1:
// variance streams default to 1.0, all others to 0.0) rather than
// panicking, so a test that under-records draws degrades to the spec's
// documented default instead of crashing mid-battle.
type SequenceRNG struct {
	mu      sync.Mutex
	values  []float64
	pos     int
	onEmpty float64
}

// NewSequenceRNG builds a playback stream from pre-recorded draws that
// falls back to 0.0 once exhausted (the hit/gate/crit default).
func NewSequenceRNG(values ...float64) *SequenceRNG {
	return &SequenceRNG{values: values, onEmpty: 0.0}
}

// NewVarianceSequenceRNG builds a playback stream for the variance
// stream specifically, falling back to 1.0 (no variance adjustment)
// once exhausted, per spec §4.1.
func NewVarianceSequenceRNG(values ...float64) *SequenceRNG {
	return &SequenceRNG{values: values, onEmpty: 1.0}
}

func (s *SequenceRNG) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos >= len(s.values) {
		return s.onEmpty
	}
	v := s.values[s.pos]
	s.pos++
	return v
}

// RNGStreams holds the four independent draw sources consumed, in a
// fixed order per check, by the hit/gate/variance/crit pipelines.
type RNGStreams struct {
	Hit      StreamRNG
	Gate     StreamRNG
	Variance StreamRNG
	Crit     StreamRNG
}

// NewRNGStreams derives four independent math/rand sources from one
// master battle seed via blake2b-keyed hashing of per-stream labels, so
// that "reproducible from a seed" (spec §1) is an auditable one-liner
// rather than four unrelated seeds the caller must remember to pin
// together.
func NewRNGStreams(masterSeed int64) *RNGStreams {
	return &RNGStreams{
		Hit:      &seededStream{rng: rand.New(rand.NewSource(deriveStreamSeed(masterSeed, "hit")))},
		Gate:     &seededStream{rng: rand.New(rand.NewSource(deriveStreamSeed(masterSeed, "gate")))},
		Variance: &seededStream{rng: rand.New(rand.NewSource(deriveStreamSeed(masterSeed, "variance")))},
		Crit:     &seededStream{rng: rand.New(rand.NewSource(deriveStreamSeed(masterSeed, "crit")))},
	}
}

func deriveStreamSeed(masterSeed int64, label string) int64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(masterSeed))
	h, err := blake2b.New512([]byte(label))
	if err != nil {
		// blake2b.New512 only errors on an over-long key; our labels are
		// short literals, so this can't happen in practice.
		panic(err)
	}
	h.Write(buf[:])
	sum := h.Sum(nil)
	return int64(binary.LittleEndian.Uint64(sum[:8]))
}

// NewSequenceRNGStreams wires the same playback stream into all four
// slots when a test wants a single flat list of recorded draws, or
// distinct streams when isolating one pipeline's behavior.
func NewSequenceRNGStreams(hit, gate, variance, crit StreamRNG) *RNGStreams {
	return &RNGStreams{Hit: hit, Gate: gate, Variance: variance, Crit: crit}
}
