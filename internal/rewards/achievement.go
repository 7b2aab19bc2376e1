package rewards

// AchievementID identifies an unlockable achievement.
type AchievementID string

const (
	PerfectScore AchievementID = "perfect_score"
	HotStreak    AchievementID = "hot_streak"
)

// HotStreakLength is the best streak that unlocks HotStreak.
const HotStreakLength = 5

// AllAchievements returns every achievement in display order.
func AllAchievements() []AchievementID {
	return []AchievementID{PerfectScore, HotStreak}
}

// DisplayName returns a human-readable label for the achievement.
func (a AchievementID) DisplayName() string {
	switch a {
	case PerfectScore:
		return "Perfect Score"
	case HotStreak:
		return "Hot Streak"
	default:
		return string(a)
	}
}

// Icon returns the display icon for the achievement.
func (a AchievementID) Icon() string {
	switch a {
	case PerfectScore:
		return "🏆"
	case HotStreak:
		return "🔥"
	default:
		return "✦"
	}
}

// CoinValue is the coin figure recorded in the unlock payload.
func (a AchievementID) CoinValue() int {
	switch a {
	case PerfectScore:
		return 50
	case HotStreak:
		return 25
	default:
		return 0
	}
}
