// Package util provides the sampling primitives and identifier generators
// shared by every stage of exam generation.
package util

import (
	"encoding/binary"
	"math/rand/v2"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// Stream is the single deterministic random source of a generation run.
//
// Every sampling operation in the pipeline draws from the same Stream, in a
// fixed order, so a run is fully reproducible from its seed. Stream also
// implements io.Reader for consumers that need raw random bytes.
type Stream struct {
	*rand.Rand
	src   *rand.PCG
	seed  int64
	faker *gofakeit.Faker
}

// NewStream creates a stream seeded with seed. A nil seed picks one from the
// wall clock; Seed reports it so the run can be replayed.
func NewStream(seed *int64) *Stream {
	var s int64
	if seed != nil {
		s = *seed
	} else {
		s = time.Now().UnixNano()
	}
	src := rand.NewPCG(uint64(s), uint64(s))
	return &Stream{
		Rand: rand.New(src),
		src:  src,
		seed: s,
	}
}

// Seed returns the seed the stream was created with.
func (s *Stream) Seed() int64 {
	return s.seed
}

// Read fills p with pseudo-random bytes drawn from the stream.
func (s *Stream) Read(p []byte) (int, error) {
	var buf [8]byte
	for i := 0; i < len(p); i += 8 {
		binary.LittleEndian.PutUint64(buf[:], s.Uint64())
		copy(p[i:], buf[:])
	}
	return len(p), nil
}

// Faker returns a gofakeit generator backed by the stream's own source.
func (s *Stream) Faker() *gofakeit.Faker {
	if s.faker == nil {
		s.faker = gofakeit.NewFaker(s.src, false)
	}
	return s.faker
}

// Pick returns a uniformly chosen element of items, or fallback when items is
// empty. Nothing is drawn from the stream for an empty list.
func Pick[T any](s *Stream, items []T, fallback T) T {
	if len(items) == 0 {
		return fallback
	}
	return items[s.IntN(len(items))]
}
