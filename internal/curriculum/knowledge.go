package curriculum

import (
	"fmt"
	"strings"
)

// knowledgeBase maps subject and grade to the topics taught.
var knowledgeBase = map[Subject]map[int][]Topic{
	Math: {
		6:  {BasicArithmetic, Fractions, Decimals, "Geometry Basics"},
		7:  {"Pre-Algebra", "Ratios", "Percentages", "Basic Equations"},
		8:  {Algebra, "Linear Equations", "Functions", Geometry},
		9:  {"Algebra II", "Quadratic Equations", "Polynomials", "Trigonometry Basics"},
		10: {Geometry, "Trigonometry", "Probability", "Statistics"},
		11: {"Pre-Calculus", "Functions", "Matrices", "Sequences"},
		12: {"Calculus", "Advanced Algebra", "Probability Distributions", "Number Theory"},
	},
	Science: {
		6:  {"Earth Science", "Basic Biology", "Scientific Method"},
		7:  {"Life Science", "Ecology", "Cell Biology"},
		8:  {"Physical Science", "Chemistry Basics", "Physics Basics"},
		9:  {Biology, "Genetics", "Evolution"},
		10: {Chemistry, "Atomic Structure", "Chemical Reactions"},
		11: {Physics, "Mechanics", "Electricity"},
		12: {"Advanced Biology", "Organic Chemistry", "Quantum Physics"},
	},
	English: {
		6:  {GrammarBasics, "Reading Comprehension", "Vocabulary Building"},
		7:  {"Writing Skills", "Literary Analysis", "Poetry"},
		8:  {"Essay Writing", "Critical Reading", "Speech"},
		9:  {"Literature", "Creative Writing", "Rhetoric"},
		10: {"Advanced Grammar", "Literary Criticism", "Debate"},
		11: {"American Literature", "Research Writing", "Linguistics"},
		12: {"British Literature", "Advanced Composition", "Literary Theory"},
	},
	History: {
		6:  {AncientCivilizations, "World Geography", "Early Humans"},
		7:  {"Medieval History", "Exploration", "Renaissance"},
		8:  {"American History", "Government", "Constitution"},
		9:  {"World History", "Revolutions", "Industrial Age"},
		10: {"Modern History", "Global Conflicts", "Cold War"},
		11: {"US History", "Civil Rights", "Modern Politics"},
		12: {"European History", "Economics", "Contemporary Issues"},
	},
}

func init() {
	if err := validateKnowledgeBase(knowledgeBase); err != nil {
		panic(fmt.Sprintf("curriculum: invalid knowledge base: %v", err))
	}
}

// Topics returns the topic list for subject at grade. Unknown subjects or
// grades fall back to math at the same grade, then to math grade 6.
func Topics(subject Subject, grade int) []Topic {
	if topics, ok := knowledgeBase[subject][grade]; ok {
		return topics
	}
	if topics, ok := knowledgeBase[Math][grade]; ok {
		return topics
	}
	return knowledgeBase[Math][MinGrade]
}

// HasTopics reports whether the knowledge base covers subject at grade
// without falling back.
func HasTopics(subject Subject, grade int) bool {
	_, ok := knowledgeBase[subject][grade]
	return ok
}

func validateKnowledgeBase(kb map[Subject]map[int][]Topic) error {
	var errs []string
	for _, s := range AllSubjects() {
		grades, ok := kb[s]
		if !ok {
			errs = append(errs, fmt.Sprintf("subject %q missing", s))
			continue
		}
		for g := MinGrade; g <= MaxGrade; g++ {
			topics := grades[g]
			if len(topics) == 0 {
				errs = append(errs, fmt.Sprintf("%s grade %d has no topics", s, g))
			}
			seen := make(map[Topic]bool, len(topics))
			for _, t := range topics {
				if t == "" {
					errs = append(errs, fmt.Sprintf("%s grade %d has an empty topic", s, g))
				}
				if seen[t] {
					errs = append(errs, fmt.Sprintf("%s grade %d lists %q twice", s, g, t))
				}
				seen[t] = true
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d problems:\n  %s", len(errs), strings.Join(errs, "\n  "))
	}
	return nil
}
