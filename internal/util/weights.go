package util

import "fmt"

// Bucket is one named outcome of a weighted draw.
type Bucket struct {
	Name   string
	Weight int
}

// WeightedBuckets chooses among named outcomes in proportion to their
// integer weights.
type WeightedBuckets struct {
	buckets  []Bucket
	total    int
	fallback string
}

// NewWeightedBuckets builds a selector over buckets, in the given order.
// A negative weight is an error. When every weight is zero, Choose always
// returns fallback.
func NewWeightedBuckets(fallback string, buckets ...Bucket) (*WeightedBuckets, error) {
	total := 0
	for _, b := range buckets {
		if b.Weight < 0 {
			return nil, fmt.Errorf("bucket %q: weight must be >= 0, got %d", b.Name, b.Weight)
		}
		total += b.Weight
	}
	return &WeightedBuckets{buckets: buckets, total: total, fallback: fallback}, nil
}

// Total returns the sum of all weights.
func (w *WeightedBuckets) Total() int {
	return w.total
}

// Choose draws u in [0, total) and returns the bucket whose cumulative range
// contains it. A zero total consumes one draw from [0, 1) and returns the
// fallback, so the stream advances the same way regardless of weights.
func (w *WeightedBuckets) Choose(s *Stream) string {
	if w.total == 0 {
		_ = s.IntN(1)
		return w.fallback
	}

	u := s.IntN(w.total)
	for _, b := range w.buckets {
		if u < b.Weight {
			return b.Name
		}
		u -= b.Weight
	}
	return w.fallback
}
