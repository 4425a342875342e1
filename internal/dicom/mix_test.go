package dicom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrsinham/examforge/internal/dicom/modalities"
)

var (
	petCT = ModalityPair{modalities.PT, modalities.CT}
	nmCT  = ModalityPair{modalities.NM, modalities.CT}
)

func pairOf(mods []modalities.Modality) (ModalityPair, bool) {
	if len(mods) != 2 {
		return ModalityPair{}, false
	}
	return ModalityPair{mods[0], mods[1]}, true
}

func TestExamMix_Convergence(t *testing.T) {
	mix, err := DefaultExamMix(DefaultModalityPool)
	require.NoError(t, err)
	s := testStream(2024)

	const n = 20000
	buckets := map[string]int{}
	exact := map[ModalityPair]int{}
	for i := 0; i < n; i++ {
		mods, bucket := mix.Select(s, 2)
		buckets[bucket]++
		require.Len(t, mods, 2)
		require.NotEqual(t, mods[0], mods[1])
		if bucket != BucketMixed {
			p, _ := pairOf(mods)
			exact[p]++
		}
	}

	assert.InDelta(t, 0.70, float64(buckets[BucketPairA])/n, 0.015)
	assert.InDelta(t, 0.10, float64(buckets[BucketPairB])/n, 0.015)
	assert.InDelta(t, 0.20, float64(buckets[BucketMixed])/n, 0.015)
	assert.Equal(t, buckets[BucketPairA], exact[petCT])
	assert.Equal(t, buckets[BucketPairB], exact[nmCT])
}

func TestExamMix_PairFallsBackToMixed(t *testing.T) {
	onlyA, err := NewExamMix(DefaultModalityPool, petCT, nmCT, 1, 0, 0)
	require.NoError(t, err)
	s := testStream(3)

	for k := 1; k <= 4; k++ {
		mods, bucket := onlyA.Select(s, k)
		if k == 2 {
			assert.Equal(t, BucketPairA, bucket)
			assert.Equal(t, []modalities.Modality{modalities.PT, modalities.CT}, mods)
			continue
		}
		assert.Equal(t, BucketMixed, bucket, "k=%d", k)
		assert.Len(t, mods, k)
	}

	noPT, err := NewExamMix([]modalities.Modality{modalities.CT, modalities.MR}, petCT, nmCT, 1, 0, 0)
	require.NoError(t, err)
	mods, bucket := noPT.Select(s, 2)
	assert.Equal(t, BucketMixed, bucket)
	assert.ElementsMatch(t, []modalities.Modality{modalities.CT, modalities.MR}, mods)
}

func TestExamMix_ZeroWeightsUseMixed(t *testing.T) {
	mix, err := NewExamMix(DefaultModalityPool, petCT, nmCT, 0, 0, 0)
	require.NoError(t, err)
	s := testStream(9)

	for i := 0; i < 100; i++ {
		_, bucket := mix.Select(s, 2)
		require.Equal(t, BucketMixed, bucket)
	}
}

func TestExamMix_MixedClampsK(t *testing.T) {
	mix, err := NewExamMix([]modalities.Modality{modalities.CT, modalities.MR, modalities.CT}, petCT, nmCT, 0, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, []modalities.Modality{modalities.CT, modalities.MR}, mix.Pool())
	s := testStream(4)

	mods, _ := mix.Select(s, 0)
	assert.Len(t, mods, 1)
	mods, _ = mix.Select(s, 10)
	assert.ElementsMatch(t, []modalities.Modality{modalities.CT, modalities.MR}, mods)
}

func TestExamMix_MixedIsUniform(t *testing.T) {
	mix, err := NewExamMix(DefaultModalityPool, petCT, nmCT, 0, 0, 1)
	require.NoError(t, err)
	s := testStream(77)

	const n = 12000
	first := map[modalities.Modality]int{}
	for i := 0; i < n; i++ {
		mods, _ := mix.Select(s, 1)
		first[mods[0]]++
	}
	for _, m := range DefaultModalityPool {
		assert.InDelta(t, 0.25, float64(first[m])/n, 0.02, "modality %s", m)
	}
}

func TestNewExamMix_Invalid(t *testing.T) {
	_, err := NewExamMix(nil, petCT, nmCT, 70, 10, 20)
	assert.ErrorIs(t, err, ErrMissingArgument)

	_, err = NewExamMix(DefaultModalityPool, petCT, nmCT, -1, 10, 20)
	assert.Error(t, err)
}
