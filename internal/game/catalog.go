package game

import (
	_ "embed"
	"fmt"
	"math"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/odysseyquest/odyssey/internal/curriculum"
)

//go:embed catalog.yaml
var catalogYAML []byte

// DefaultBaseDifficulty applies when the learner has no grade.
const DefaultBaseDifficulty = 5

// Difficulty derives a game's base difficulty from the learner's grade.
type Difficulty struct {
	Offset int `yaml:"offset"`
	Max    int `yaml:"max"`
}

// Game is one catalog entry.
type Game struct {
	ID          string             `yaml:"id"`
	Title       string             `yaml:"title"`
	Description string             `yaml:"description"`
	Subject     curriculum.Subject `yaml:"subject"`
	Icon        string             `yaml:"icon"`
	Difficulty  Difficulty         `yaml:"difficulty"`
	TimeLimit   time.Duration      `yaml:"timeLimit"` // per question; zero disables the timer
	ComingSoon  bool               `yaml:"comingSoon"`
}

// BaseDifficulty returns min(max, grade+offset), or DefaultBaseDifficulty
// when grade is unset.
func (g Game) BaseDifficulty(grade int) int {
	if grade <= 0 {
		return DefaultBaseDifficulty
	}
	return min(g.Difficulty.Max, grade+g.Difficulty.Offset)
}

// Stars renders a difficulty as one star per two levels, rounded up.
func Stars(difficulty int) string {
	return strings.Repeat("⭐", int(math.Ceil(float64(max(0, difficulty))/2)))
}

// Catalog is the ordered list of games.
type Catalog struct {
	games []Game
	byID  map[string]Game
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var doc struct {
		Games []Game `yaml:"games"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	var errs []string
	byID := make(map[string]Game, len(doc.Games))
	for i, g := range doc.Games {
		switch {
		case g.ID == "":
			errs = append(errs, fmt.Sprintf("game %d has no id", i))
			continue
		case byID[g.ID].ID != "":
			errs = append(errs, fmt.Sprintf("game %q listed twice", g.ID))
		}
		if g.Title == "" {
			errs = append(errs, fmt.Sprintf("game %q has no title", g.ID))
		}
		if _, ok := curriculum.ParseSubject(string(g.Subject)); !ok {
			errs = append(errs, fmt.Sprintf("game %q has unknown subject %q", g.ID, g.Subject))
		}
		if g.Difficulty.Max < 1 || g.Difficulty.Max > 10 {
			errs = append(errs, fmt.Sprintf("game %q difficulty max %d outside 1-10", g.ID, g.Difficulty.Max))
		}
		if !g.ComingSoon && g.TimeLimit < time.Second {
			errs = append(errs, fmt.Sprintf("game %q needs a time limit of at least 1s", g.ID))
		}
		byID[g.ID] = g
	}
	if len(doc.Games) == 0 {
		errs = append(errs, "catalog is empty")
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid catalog: %s", strings.Join(errs, "; "))
	}
	return &Catalog{games: doc.Games, byID: byID}, nil
}

var defaultCatalog *Catalog

func init() {
	c, err := ParseCatalog(catalogYAML)
	if err != nil {
		panic(fmt.Sprintf("game: %v", err))
	}
	defaultCatalog = c
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

// Games returns the games in display order.
func (c *Catalog) Games() []Game {
	return append([]Game(nil), c.games...)
}

// Get looks up a game by id.
func (c *Catalog) Get(id string) (Game, bool) {
	g, ok := c.byID[id]
	return g, ok
}
