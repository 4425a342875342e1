package dicom

import (
	"fmt"

	"github.com/mrsinham/examforge/internal/dicom/modalities"
	"github.com/mrsinham/examforge/internal/util"
)

// Exam mix bucket names.
const (
	BucketPairA = "pair_a"
	BucketPairB = "pair_b"
	BucketMixed = "mixed"
)

// ModalityPair is a named two-modality exam, e.g. PET/CT.
type ModalityPair [2]modalities.Modality

func (p ModalityPair) String() string {
	return string(p[0]) + "+" + string(p[1])
}

// ExamMix picks the modality set of each exam: one of two weighted named
// pairs, or a uniform draw from the pool.
type ExamMix struct {
	pool    []modalities.Modality
	pairs   map[string]ModalityPair
	buckets *util.WeightedBuckets
}

// NewExamMix validates the weights and pool. Duplicate pool entries are
// dropped, keeping the first occurrence.
func NewExamMix(pool []modalities.Modality, pairA, pairB ModalityPair, weightA, weightB, weightMixed int) (*ExamMix, error) {
	var distinct []modalities.Modality
	seen := map[modalities.Modality]bool{}
	for _, m := range pool {
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		distinct = append(distinct, m)
	}
	if len(distinct) == 0 {
		return nil, fmt.Errorf("%w: modality pool is empty", ErrMissingArgument)
	}

	buckets, err := util.NewWeightedBuckets(BucketMixed,
		util.Bucket{Name: BucketPairA, Weight: weightA},
		util.Bucket{Name: BucketPairB, Weight: weightB},
		util.Bucket{Name: BucketMixed, Weight: weightMixed},
	)
	if err != nil {
		return nil, fmt.Errorf("exam mix: %w", err)
	}

	return &ExamMix{
		pool:    distinct,
		pairs:   map[string]ModalityPair{BucketPairA: pairA, BucketPairB: pairB},
		buckets: buckets,
	}, nil
}

// Pool returns the distinct modality pool.
func (m *ExamMix) Pool() []modalities.Modality {
	return append([]modalities.Modality(nil), m.pool...)
}

// Select returns the modalities of one exam that asked for k modalities,
// and the bucket that produced them. A named pair only applies when k is 2
// and both of its modalities are in the pool; otherwise the mixed policy is
// used and reported.
func (m *ExamMix) Select(s *util.Stream, k int) ([]modalities.Modality, string) {
	bucket := m.buckets.Choose(s)
	if pair, ok := m.pairs[bucket]; ok {
		if k == 2 && m.inPool(pair[0]) && m.inPool(pair[1]) && pair[0] != pair[1] {
			return []modalities.Modality{pair[0], pair[1]}, bucket
		}
	}
	return m.mixed(s, k), BucketMixed
}

// mixed shuffles a copy of the pool (Fisher-Yates) and keeps the first k,
// with k clamped to [1, len(pool)].
func (m *ExamMix) mixed(s *util.Stream, k int) []modalities.Modality {
	k = max(1, min(k, len(m.pool)))
	shuffled := m.Pool()
	for i := len(shuffled) - 1; i > 0; i-- {
		j := s.IntN(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled[:k]
}

func (m *ExamMix) inPool(mod modalities.Modality) bool {
	for _, p := range m.pool {
		if p == mod {
			return true
		}
	}
	return false
}
