package game

import (
	"strings"
	"unicode/utf8"
)

// voicePrefixLen is how much of each option a transcript must contain.
const voicePrefixLen = 10

// MatchTranscript returns the first option whose first ten characters
// appear in the transcript, ignoring case.
func MatchTranscript(transcript string, options []string) (int, bool) {
	said := strings.ToLower(transcript)
	if strings.TrimSpace(said) == "" {
		return -1, false
	}
	for i, opt := range options {
		prefix := strings.ToLower(opt)
		if utf8.RuneCountInString(prefix) > voicePrefixLen {
			prefix = string([]rune(prefix)[:voicePrefixLen])
		}
		if prefix == "" {
			continue
		}
		if strings.Contains(said, prefix) {
			return i, true
		}
	}
	return -1, false
}
