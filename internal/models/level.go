package models

import "fmt"

// Level is a card's mastery tier. 1 is a new card, 4 is mastered.
type Level uint8

const (
	LevelNew Level = iota + 1
	LevelAdvanced
	LevelConsolidated
	LevelMastered
)

// MinLevel and MaxLevel bound the valid range of levels.
const (
	MinLevel = LevelNew
	MaxLevel = LevelMastered
)

// Levels lists every valid level in ascending order.
var Levels = []Level{LevelNew, LevelAdvanced, LevelConsolidated, LevelMastered}

// Valid reports whether l is one of the four mastery tiers.
func (l Level) Valid() bool {
	return l >= MinLevel && l <= MaxLevel
}

func (l Level) String() string {
	switch l {
	case LevelNew:
		return "new"
	case LevelAdvanced:
		return "advanced"
	case LevelConsolidated:
		return "consolidated"
	case LevelMastered:
		return "mastered"
	default:
		return fmt.Sprintf("level(%d)", uint8(l))
	}
}
