package curriculum

// Topic names a unit of study. Topics that have a hand-written phrase set
// are declared as constants so lookups are checked by the compiler.
type Topic string

const (
	BasicArithmetic      Topic = "Basic Arithmetic"
	Algebra              Topic = "Algebra"
	Geometry             Topic = "Geometry"
	Fractions            Topic = "Fractions"
	Decimals             Topic = "Decimals"
	Biology              Topic = "Biology"
	Chemistry            Topic = "Chemistry"
	Physics              Topic = "Physics"
	GrammarBasics        Topic = "Grammar Basics"
	AncientCivilizations Topic = "Ancient Civilizations"
)

func (t Topic) String() string { return string(t) }

// PhraseSet fills the lesson template for one topic.
type PhraseSet struct {
	Importance  string // "... helps us understand how <Importance>"
	Principle   string
	Application string
	Challenge   string
	Benefit     string // "<topic> helps us <Benefit>"
}

// GenericPhrases is used for any topic, or field, without its own phrase.
var GenericPhrases = PhraseSet{
	Importance:  "understand fundamental concepts",
	Principle:   "fundamental concepts and principles",
	Application: "many practical applications in daily life",
	Challenge:   "mastering the fundamental concepts",
	Benefit:     "build important thinking skills",
}

var phraseSets = map[Topic]PhraseSet{
	BasicArithmetic: {
		Importance:  "perform everyday calculations",
		Principle:   "working with numbers and basic operations",
		Application: "daily shopping and budgeting",
		Challenge:   "remembering multiplication tables",
		Benefit:     "develop strong numerical foundation",
	},
	Algebra: {
		Importance:  "solve complex problems with variables",
		Principle:   "solving equations with unknown variables",
		Application: "solving real-world problems with variables",
		Challenge:   "understanding variable manipulation",
		Benefit:     "develop logical thinking and problem-solving skills",
	},
	Geometry: {
		Importance:  "understand spatial relationships",
		Principle:   "studying shapes, sizes, and properties of space",
		Application: "architecture and design",
		Challenge:   "visualizing spatial relationships",
		Benefit:     "improve spatial reasoning abilities",
	},
	Fractions: {Importance: "work with parts of whole numbers"},
	Decimals:  {Importance: "understand precise numerical values"},
	Biology: {
		Importance:  "comprehend living organisms",
		Principle:   "understanding life and living organisms",
		Application: "healthcare and environmental science",
		Challenge:   "memorizing terminology and processes",
		Benefit:     "understand the natural world around us",
	},
	Chemistry: {
		Importance:  "understand matter and its transformations",
		Principle:   "studying properties and behavior of matter",
		Application: "cooking and material science",
		Challenge:   "balancing chemical equations",
		Benefit:     "comprehend how matter interacts and changes",
	},
	Physics: {
		Importance:  "comprehend forces and motion in our universe",
		Principle:   "understanding forces, energy, and motion",
		Application: "engineering and technology development",
		Challenge:   "applying mathematical concepts to physical world",
		Benefit:     "understand the fundamental laws of the universe",
	},
	GrammarBasics: {
		Importance:  "communicate effectively in writing",
		Principle:   "structuring sentences correctly",
		Application: "writing clear emails and messages",
		Challenge:   "remembering grammar rules",
		Benefit:     "communicate more effectively",
	},
	AncientCivilizations: {
		Importance:  "understand human development",
		Principle:   "studying early human societies",
		Application: "understanding cultural heritage",
		Challenge:   "remembering historical dates",
		Benefit:     "appreciate historical context",
	},
}

// Phrases returns the phrase set for t. Missing fields, and topics with no
// set at all, take the generic phrase.
func Phrases(t Topic) PhraseSet {
	p := phraseSets[t]
	if p.Importance == "" {
		p.Importance = GenericPhrases.Importance
	}
	if p.Principle == "" {
		p.Principle = GenericPhrases.Principle
	}
	if p.Application == "" {
		p.Application = GenericPhrases.Application
	}
	if p.Challenge == "" {
		p.Challenge = GenericPhrases.Challenge
	}
	if p.Benefit == "" {
		p.Benefit = GenericPhrases.Benefit
	}
	return p
}

// HasPhrases reports whether t has its own phrase set.
func HasPhrases(t Topic) bool {
	_, ok := phraseSets[t]
	return ok
}
