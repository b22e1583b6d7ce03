package flashcard

import (
	"errors"
	"fmt"
	"time"

	"github.com/vytor/klar/internal/models"
)

// ErrInvalidCard is returned when a card's scheduling state breaks its invariants.
var ErrInvalidCard = errors.New("invalid card state")

// MaxPriorityFactor is where level 1 doubling saturates. 2^31 is the largest
// power of two a uint32 can hold.
const MaxPriorityFactor uint32 = 1 << 31

type threshold struct {
	minLevelCorrect uint32
	minPractice     uint32
}

// promotion thresholds per level. Mastered cards have no entry.
var promotion = map[models.Level]threshold{
	models.LevelNew:          {minLevelCorrect: 4, minPractice: 5},
	models.LevelAdvanced:     {minLevelCorrect: 6, minPractice: 10},
	models.LevelConsolidated: {minLevelCorrect: 10, minPractice: 15},
}

// consecutive wrong answers that demote a card out of each level.
var demotion = map[models.Level]uint32{
	models.LevelAdvanced:     1,
	models.LevelConsolidated: 2,
	models.LevelMastered:     2,
}

// Validate checks the scheduling invariants of a card.
func Validate(card models.Card) error {
	if !card.Level.Valid() {
		return fmt.Errorf("%w: level %d outside %d..%d", ErrInvalidCard, card.Level, models.MinLevel, models.MaxLevel)
	}
	if card.LevelCorrectCount > card.PracticeCount {
		return fmt.Errorf("%w: level correct count %d exceeds practice count %d", ErrInvalidCard, card.LevelCorrectCount, card.PracticeCount)
	}
	if card.PriorityFactor == 0 {
		return fmt.Errorf("%w: priority factor must be at least 1", ErrInvalidCard)
	}
	return nil
}

// Advance applies one judged answer to card and returns the updated card
// together with the attempt record. The input card is not modified.
func Advance(card models.Card, correct bool, duration time.Duration, at time.Time) (models.Card, models.PracticeAttempt, error) {
	if err := Validate(card); err != nil {
		return card, models.PracticeAttempt{}, err
	}
	if duration < 0 {
		return card, models.PracticeAttempt{}, fmt.Errorf("%w: negative duration %s", ErrInvalidCard, duration)
	}

	attempt := models.PracticeAttempt{
		CardID:          card.ID,
		StudySetID:      card.StudySetID,
		Correct:         correct,
		Level:           card.Level,
		DurationSeconds: uint32(duration / time.Second),
		PracticedAt:     at,
	}

	card.PracticeCount++
	card.TotalPracticeCount++
	practicedAt := at
	card.LastPracticedAt = &practicedAt

	if correct {
		card.CorrectCount++
		card.LevelCorrectCount++
		card.ConsecutiveWrong = 0
		if t, ok := promotion[card.Level]; ok &&
			card.LevelCorrectCount >= t.minLevelCorrect &&
			card.PracticeCount >= t.minPractice {
			moveTo(&card, card.Level+1)
		}
		return card, attempt, nil
	}

	card.WrongCount++
	card.ConsecutiveWrong++
	if card.Level == models.LevelNew {
		if card.PriorityFactor >= MaxPriorityFactor/2 {
			card.PriorityFactor = MaxPriorityFactor
		} else {
			card.PriorityFactor *= 2
		}
		return card, attempt, nil
	}
	if limit, ok := demotion[card.Level]; ok && card.ConsecutiveWrong >= limit {
		moveTo(&card, card.Level-1)
	}
	return card, attempt, nil
}

// moveTo performs a level transition. ConsecutiveWrong is left alone.
func moveTo(card *models.Card, level models.Level) {
	card.Level = level
	card.LevelCorrectCount = 0
	card.PracticeCount = 0
	card.PriorityFactor = 1
}
