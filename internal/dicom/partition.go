package dicom

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mrsinham/examforge/internal/util"
)

// FileCountPolicy decides how a study's file count is spread over its series.
type FileCountPolicy string

const (
	// PolicyPartition splits one sampled total across the series at random
	// cut points.
	PolicyPartition FileCountPolicy = "partition"
	// PolicyEqual gives every series the sampled count.
	PolicyEqual FileCountPolicy = "equal"
)

// ParseFileCountPolicy parses a policy name; empty means partition.
func ParseFileCountPolicy(s string) (FileCountPolicy, error) {
	switch p := FileCountPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PolicyPartition, nil
	case PolicyPartition, PolicyEqual:
		return p, nil
	default:
		return "", fmt.Errorf("unknown file count policy %q (valid: partition, equal)", s)
	}
}

// Split returns the per-series instance counts for count series.
func (p FileCountPolicy) Split(s *util.Stream, n, count int) ([]int, error) {
	if p == PolicyEqual {
		return EqualSeriesCounts(n, count)
	}
	return PartitionSeriesCounts(s, n, count)
}

// PartitionSeriesCounts splits total into min(seriesCount, total) positive
// parts that sum exactly to total. seriesCount is clamped to [1, total].
func PartitionSeriesCounts(s *util.Stream, total, seriesCount int) ([]int, error) {
	if total < 1 {
		return nil, fmt.Errorf("%w: total instance count must be >= 1, got %d", util.ErrInvalidRange, total)
	}
	seriesCount = max(1, min(seriesCount, total))
	if seriesCount == 1 {
		return []int{total}, nil
	}

	seen := make(map[int]struct{}, seriesCount-1)
	cuts := make([]int, 0, seriesCount-1)
	for len(cuts) < seriesCount-1 {
		c := 1 + s.IntN(total-1)
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		cuts = append(cuts, c)
	}
	sort.Ints(cuts)

	parts := make([]int, 0, seriesCount)
	prev := 0
	for _, c := range cuts {
		parts = append(parts, c-prev)
		prev = c
	}
	return append(parts, total-prev), nil
}

// EqualSeriesCounts gives each of seriesCount series n instances.
func EqualSeriesCounts(n, seriesCount int) ([]int, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: instance count must be >= 1, got %d", util.ErrInvalidRange, n)
	}
	seriesCount = max(1, seriesCount)
	parts := make([]int, seriesCount)
	for i := range parts {
		parts[i] = n
	}
	return parts, nil
}
