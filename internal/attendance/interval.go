// Package attendance computes how long two participants were simultaneously
// present within the bounds of a lesson. Presence is recorded as a flat list
// of unix-second timestamps (start1, end1, start2, end2, ...).
package attendance

import (
	"fmt"
	"sort"
)

// Interval is a half-open [Start, End) span in unix seconds.
type Interval struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// Len returns the duration of the interval in seconds.
func (iv Interval) Len() int64 {
	if iv.End <= iv.Start {
		return 0
	}
	return iv.End - iv.Start
}

// Normalize pairs a flat timestamp list into intervals, clamps each pair to
// bounds, drops empty spans, sorts, and merges overlapping spans. The result
// is sorted, pairwise disjoint, and contained in bounds.
func Normalize(raw []int64, bounds Interval) ([]Interval, error) {
	if len(raw)%2 != 0 {
		return nil, fmt.Errorf("odd timestamp count %d: intervals must come in start/end pairs", len(raw))
	}

	clamped := make([]Interval, 0, len(raw)/2)
	for i := 0; i < len(raw); i += 2 {
		start := max(raw[i], bounds.Start)
		end := min(raw[i+1], bounds.End)
		if start < end {
			clamped = append(clamped, Interval{Start: start, End: end})
		}
	}

	sort.Slice(clamped, func(i, j int) bool {
		if clamped[i].Start != clamped[j].Start {
			return clamped[i].Start < clamped[j].Start
		}
		return clamped[i].End < clamped[j].End
	})

	merged := clamped[:0]
	for _, iv := range clamped {
		if n := len(merged); n > 0 && merged[n-1].End >= iv.Start {
			if iv.End > merged[n-1].End {
				merged[n-1].End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged, nil
}

// Overlap sums the intersection length of two normalized interval lists
// using a two-pointer sweep. Both inputs must be sorted and disjoint, as
// produced by Normalize.
func Overlap(a, b []Interval) int64 {
	var total int64
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		start := max(a[i].Start, b[j].Start)
		end := min(a[i].End, b[j].End)
		if start < end {
			total += end - start
		}
		if a[i].End < b[j].End {
			i++
		} else {
			j++
		}
	}
	return total
}

// Lesson holds the raw presence record of one lesson. Bounds is the lesson
// start/end pair; Pupil and Tutor are flat timestamp lists.
type Lesson struct {
	Bounds []int64 `json:"lesson"`
	Pupil  []int64 `json:"pupil"`
	Tutor  []int64 `json:"tutor"`
}

// Appearance returns the total seconds the pupil and tutor were present at
// the same time, restricted to the lesson bounds.
func (l Lesson) Appearance() (int64, error) {
	if len(l.Bounds) != 2 {
		return 0, fmt.Errorf("lesson bounds must be a start/end pair, got %d timestamps", len(l.Bounds))
	}
	bounds := Interval{Start: l.Bounds[0], End: l.Bounds[1]}

	pupil, err := Normalize(l.Pupil, bounds)
	if err != nil {
		return 0, fmt.Errorf("pupil intervals: %w", err)
	}
	tutor, err := Normalize(l.Tutor, bounds)
	if err != nil {
		return 0, fmt.Errorf("tutor intervals: %w", err)
	}
	return Overlap(pupil, tutor), nil
}
