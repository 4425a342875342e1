package dicom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrsinham/examforge/internal/util"
)

func TestPartitionSeriesCounts_Property(t *testing.T) {
	s := testStream(17)

	for total := 1; total <= 40; total++ {
		for count := 1; count <= 45; count++ {
			parts, err := PartitionSeriesCounts(s, total, count)
			require.NoError(t, err)

			require.Len(t, parts, min(count, total), "total=%d count=%d", total, count)
			sum := 0
			for _, p := range parts {
				require.Positive(t, p, "total=%d count=%d parts=%v", total, count, parts)
				sum += p
			}
			require.Equal(t, total, sum, "total=%d count=%d parts=%v", total, count, parts)
		}
	}
}

func TestPartitionSeriesCounts_Degenerate(t *testing.T) {
	s := testStream(1)

	parts, err := PartitionSeriesCounts(s, 7, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{7}, parts)

	parts, err = PartitionSeriesCounts(s, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{5}, parts, "series count is clamped up to 1")

	parts, err = PartitionSeriesCounts(s, 3, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 1}, parts)

	_, err = PartitionSeriesCounts(s, 0, 2)
	assert.ErrorIs(t, err, util.ErrInvalidRange)
}

func TestPartitionSeriesCounts_Deterministic(t *testing.T) {
	a, err := PartitionSeriesCounts(testStream(5), 100, 6)
	require.NoError(t, err)
	b, err := PartitionSeriesCounts(testStream(5), 100, 6)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEqualSeriesCounts(t *testing.T) {
	parts, err := EqualSeriesCounts(4, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 4, 4}, parts)

	_, err = EqualSeriesCounts(0, 3)
	assert.ErrorIs(t, err, util.ErrInvalidRange)
}

func TestFileCountPolicy(t *testing.T) {
	p, err := ParseFileCountPolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyPartition, p)

	p, err = ParseFileCountPolicy(" Equal ")
	require.NoError(t, err)
	assert.Equal(t, PolicyEqual, p)

	_, err = ParseFileCountPolicy("random")
	assert.Error(t, err)

	parts, err := PolicyEqual.Split(testStream(1), 5, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 5}, parts)

	parts, err = PolicyPartition.Split(testStream(1), 5, 2)
	require.NoError(t, err)
	assert.Len(t, parts, 2)
	assert.Equal(t, 5, parts[0]+parts[1])
}

// testStream returns a stream seeded with seed.
func testStream(seed int64) *util.Stream {
	return util.NewStream(&seed)
}
