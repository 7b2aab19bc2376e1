package curriculum

import "strings"

// FallbackVideoID is used when a subject has no videos at all.
const FallbackVideoID = "dQw4w9WgXcQ"

type videoEntry struct {
	keyword string
	id      string
}

// Matched in order; the first entry is the subject's default.
var videos = map[Subject][]videoEntry{
	Math: {
		{"Basic Arithmetic", "Arith"},
		{"Algebra", "LRNBxN6nLcI"},
		{"Geometry", "k5etrWdIR5M"},
		{"Fractions", "5Ucho2h9nNI"},
	},
	Science: {
		{"Biology", "w3bA4-QUc4E"},
		{"Chemistry", "FSyAehMdpyI"},
		{"Physics", "imS8K1x9Lec"},
		{"Earth Science", "kGXvhq6JZio"},
	},
	English: {
		{"Grammar", "r3aQ4qLwK2E"},
		{"Writing", "t0bZgSY_3-o"},
		{"Vocabulary", "EVLIo4n2Z-M"},
	},
	History: {
		{"Ancient Civilizations", "sohXPx_XZ6Y"},
		{"World History", "Yocja_N5s1I"},
		{"American History", "ghgPq2wjQUQ"},
	},
}

// VideoID picks the video for a topic: the first keyword contained in the
// topic name, else the subject default, else FallbackVideoID.
func VideoID(subject Subject, topic Topic) string {
	entries := videos[subject]
	name := strings.ToLower(string(topic))
	for _, e := range entries {
		if strings.Contains(name, strings.ToLower(e.keyword)) {
			return e.id
		}
	}
	if len(entries) > 0 {
		return entries[0].id
	}
	return FallbackVideoID
}
