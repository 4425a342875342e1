package util

import (
	"fmt"
	"strings"
)

// Priority is the requested procedure priority of an exam.
type Priority int

const (
	PriorityRoutine Priority = iota
	PriorityHigh
	PriorityLow
	PriorityStat
)

// String returns the DICOM code string for the priority.
func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "HIGH"
	case PriorityLow:
		return "LOW"
	case PriorityStat:
		return "STAT"
	default:
		return "ROUTINE"
	}
}

// ParsePriority parses a case-insensitive priority code.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "HIGH":
		return PriorityHigh, nil
	case "ROUTINE":
		return PriorityRoutine, nil
	case "LOW":
		return PriorityLow, nil
	case "STAT":
		return PriorityStat, nil
	default:
		return PriorityRoutine, fmt.Errorf("invalid priority: %s (valid: STAT, HIGH, ROUTINE, LOW)", s)
	}
}

// priorityBuckets weights the exam priorities: 70% routine, 18% high,
// 10% low, 2% stat.
var priorityBuckets = []Bucket{
	{Name: "ROUTINE", Weight: 70},
	{Name: "HIGH", Weight: 18},
	{Name: "LOW", Weight: 10},
	{Name: "STAT", Weight: 2},
}

// GeneratePriority draws one exam priority from s.
func GeneratePriority(s *Stream) Priority {
	w, _ := NewWeightedBuckets("ROUTINE", priorityBuckets...)
	p, _ := ParsePriority(w.Choose(s))
	return p
}
