package bot

import "strings"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyExpert Difficulty = "expert"
)

var difficultyDepths = map[Difficulty]int{
	DifficultyEasy:   2,
	DifficultyMedium: 3,
	DifficultyHard:   4,
	DifficultyExpert: 5,
}

// labels as they appear in the history log
var difficultyLabels = map[Difficulty]string{
	DifficultyEasy:   "Facile",
	DifficultyMedium: "Moyen",
	DifficultyHard:   "Difficile",
	DifficultyExpert: "Hardcore",
}

func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert}
}

// LookupDifficulty is the strict form of ParseDifficulty.
func LookupDifficulty(s string) (Difficulty, bool) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	_, ok := difficultyDepths[d]
	return d, ok
}

// ParseDifficulty validates and returns the bot difficulty
// Defaults to Medium if invalid or empty
func ParseDifficulty(s string) Difficulty {
	if d, ok := LookupDifficulty(s); ok {
		return d
	}
	return DifficultyMedium
}

// Depth is the search depth in plies.
func (d Difficulty) Depth() int {
	if depth, ok := difficultyDepths[d]; ok {
		return depth
	}
	return difficultyDepths[DifficultyMedium]
}

func (d Difficulty) Label() string {
	if label, ok := difficultyLabels[d]; ok {
		return label
	}
	return difficultyLabels[DifficultyMedium]
}
