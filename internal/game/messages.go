package game

import "fmt"

// LoadFailedMessage is shown when a game could not be started.
const LoadFailedMessage = "Failed to load game. Please try again."

// Spoken lines.
const (
	msgCorrect      = "Correct! Great job!"
	msgComingSoon   = "This game is coming soon! Stay tuned for updates."
	msgNoMatch      = "I didn't understand that answer. Please try again or use the buttons."
	msgVoiceFailed  = "Voice input failed. Please use the buttons."
	streakCallout   = 3
	excellentCutoff = 0.7
)

func msgStreak(n int) string {
	return fmt.Sprintf("Amazing! %d in a row!", n)
}

func msgIncorrect(answer string) string {
	return fmt.Sprintf("Sorry, the correct answer was: %s", answer)
}

func msgStarting(title string) string {
	return fmt.Sprintf("Starting %s. Get ready for your first question!", title)
}

func msgGameOver(score, total int, finalScore float64) string {
	verdict := "Keep practicing!"
	if finalScore > excellentCutoff {
		verdict = "Excellent work!"
	}
	return fmt.Sprintf("Game over! Your score is %d out of %d. %s", score, total, verdict)
}
