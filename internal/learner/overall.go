package learner

import "time"

// computeOverall averages subject performances. It returns nil when there
// are no subjects so an empty document never holds a NaN.
func computeOverall(subjects map[string]SubjectProgress, now time.Time) *Overall {
	n := 0
	sum := 0.0
	for name, sp := range subjects {
		if name == OverallKey {
			continue
		}
		sum += sp.Performance
		n++
	}
	if n == 0 {
		return nil
	}
	return &Overall{Performance: sum / float64(n), LastUpdated: now}
}
