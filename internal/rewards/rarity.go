package rewards

// Rarity grades a finished game for display.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// AllRarities returns all rarities from lowest to highest.
func AllRarities() []Rarity {
	return []Rarity{RarityCommon, RarityRare, RarityEpic, RarityLegendary}
}

// DisplayName returns a human-readable label for the rarity.
func (r Rarity) DisplayName() string {
	switch r {
	case RarityCommon:
		return "Common"
	case RarityRare:
		return "Rare"
	case RarityEpic:
		return "Epic"
	case RarityLegendary:
		return "Legendary"
	default:
		return string(r)
	}
}

// ScoreRarity returns the rarity for a final score in [0,1].
func ScoreRarity(finalScore float64) Rarity {
	switch {
	case finalScore >= 1:
		return RarityLegendary
	case finalScore > 0.7:
		return RarityEpic
	case finalScore >= 0.5:
		return RarityRare
	default:
		return RarityCommon
	}
}
