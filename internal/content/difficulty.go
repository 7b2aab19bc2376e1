package content

// Difficulty bounds.
const (
	MinDifficulty = 1
	MaxDifficulty = 10
)

// AdjustDifficulty shifts base by prior performance p in [0,1]:
// above 0.8 adds two, above 0.6 adds one, below 0.2 takes two, below 0.4
// takes one. The result is clamped to [MinDifficulty, MaxDifficulty] and
// never decreases as p grows.
func AdjustDifficulty(base int, p float64) int {
	d := base
	switch {
	case p > 0.8:
		d += 2
	case p > 0.6:
		d++
	case p < 0.2:
		d -= 2
	case p < 0.4:
		d--
	}
	return clampDifficulty(d)
}

// LessonDifficulty maps a grade to the lesson difficulty scale.
func LessonDifficulty(grade int) int {
	return clampDifficulty(grade - 5)
}

func clampDifficulty(d int) int {
	return min(MaxDifficulty, max(MinDifficulty, d))
}
