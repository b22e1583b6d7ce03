package flashcard_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/klar/internal/flashcard"
	"github.com/vytor/klar/internal/models"
)

var practicedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newCard(level models.Level) models.Card {
	c := models.NewCard(1, "q", "a", nil)
	c.ID = 7
	c.Level = level
	return c
}

func advance(t *testing.T, card models.Card, correct bool) models.Card {
	t.Helper()
	updated, _, err := flashcard.Advance(card, correct, 3*time.Second, practicedAt)
	require.NoError(t, err)
	return updated
}

func TestAdvance_PromotesFromLevelOne(t *testing.T) {
	card := newCard(models.LevelNew)
	card.PracticeCount = 4
	card.LevelCorrectCount = 3
	card.PriorityFactor = 8

	updated := advance(t, card, true)

	assert.Equal(t, models.LevelAdvanced, updated.Level)
	assert.Zero(t, updated.LevelCorrectCount)
	assert.Zero(t, updated.PracticeCount)
	assert.Equal(t, uint32(1), updated.PriorityFactor)
	assert.Equal(t, uint32(1), updated.CorrectCount)
	assert.Equal(t, uint32(1), updated.TotalPracticeCount)
}

func TestAdvance_PromotionThresholds(t *testing.T) {
	tests := []struct {
		name          string
		level         models.Level
		practice      uint32
		levelCorrect  uint32
		expectedLevel models.Level
	}{
		{"level 1 short of correct answers", models.LevelNew, 4, 2, models.LevelNew},
		{"level 1 short of practice", models.LevelNew, 3, 3, models.LevelNew},
		{"level 1 promotes", models.LevelNew, 4, 3, models.LevelAdvanced},
		{"level 2 short", models.LevelAdvanced, 8, 5, models.LevelAdvanced},
		{"level 2 promotes", models.LevelAdvanced, 9, 5, models.LevelConsolidated},
		{"level 3 short", models.LevelConsolidated, 13, 9, models.LevelConsolidated},
		{"level 3 promotes", models.LevelConsolidated, 14, 9, models.LevelMastered},
		{"level 4 stays", models.LevelMastered, 100, 100, models.LevelMastered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := newCard(tt.level)
			card.PracticeCount = tt.practice
			card.LevelCorrectCount = tt.levelCorrect

			updated := advance(t, card, true)
			assert.Equal(t, tt.expectedLevel, updated.Level)
		})
	}
}

func TestAdvance_LevelOneFailureDoublesPriority(t *testing.T) {
	card := newCard(models.LevelNew)

	once := advance(t, card, false)
	assert.Equal(t, models.LevelNew, once.Level)
	assert.Equal(t, uint32(2), once.PriorityFactor)
	assert.Equal(t, uint32(1), once.ConsecutiveWrong)

	twice := advance(t, once, false)
	assert.Equal(t, models.LevelNew, twice.Level)
	assert.Equal(t, uint32(4), twice.PriorityFactor)
	assert.Equal(t, uint32(2), twice.WrongCount)
}

func TestAdvance_PriorityFactorSaturates(t *testing.T) {
	card := newCard(models.LevelNew)
	card.PriorityFactor = flashcard.MaxPriorityFactor

	updated := advance(t, card, false)
	assert.Equal(t, flashcard.MaxPriorityFactor, updated.PriorityFactor)
}

func TestAdvance_LevelTwoDemotesOnFirstFailure(t *testing.T) {
	card := newCard(models.LevelAdvanced)
	card.PracticeCount = 6
	card.LevelCorrectCount = 5

	updated := advance(t, card, false)

	assert.Equal(t, models.LevelNew, updated.Level)
	assert.Zero(t, updated.PracticeCount)
	assert.Zero(t, updated.LevelCorrectCount)
	assert.Equal(t, uint32(1), updated.PriorityFactor)
	assert.Equal(t, uint32(1), updated.ConsecutiveWrong, "demotion keeps the wrong streak")
}

func TestAdvance_UpperLevelsNeedTwoFailures(t *testing.T) {
	for _, level := range []models.Level{models.LevelConsolidated, models.LevelMastered} {
		t.Run(level.String(), func(t *testing.T) {
			card := newCard(level)
			card.PracticeCount = 3
			card.LevelCorrectCount = 2

			once := advance(t, card, false)
			assert.Equal(t, level, once.Level, "single failure must not demote")
			assert.Equal(t, uint32(4), once.PracticeCount)

			twice := advance(t, once, false)
			assert.Equal(t, level-1, twice.Level)
			assert.Zero(t, twice.PracticeCount)
			assert.Zero(t, twice.LevelCorrectCount)
		})
	}
}

func TestAdvance_CorrectAnswerResetsStreak(t *testing.T) {
	card := newCard(models.LevelConsolidated)

	wrong := advance(t, card, false)
	right := advance(t, wrong, true)
	wrongAgain := advance(t, right, false)

	assert.Zero(t, right.ConsecutiveWrong)
	assert.Equal(t, models.LevelConsolidated, wrongAgain.Level)
}

func TestAdvance_AttemptRecordsLevelBefore(t *testing.T) {
	card := newCard(models.LevelNew)
	card.PracticeCount = 4
	card.LevelCorrectCount = 3

	updated, attempt, err := flashcard.Advance(card, true, 2500*time.Millisecond, practicedAt)
	require.NoError(t, err)

	want := models.PracticeAttempt{
		CardID:          7,
		StudySetID:      1,
		Correct:         true,
		Level:           models.LevelNew,
		DurationSeconds: 2,
		PracticedAt:     practicedAt,
	}
	if diff := cmp.Diff(want, attempt); diff != "" {
		t.Errorf("attempt mismatch (-want +got):\n%s", diff)
	}
	require.NotNil(t, updated.LastPracticedAt)
	assert.Equal(t, practicedAt, *updated.LastPracticedAt)
}

func TestAdvance_DoesNotMutateInput(t *testing.T) {
	card := newCard(models.LevelAdvanced)
	before := card

	_, _, err := flashcard.Advance(card, false, time.Second, practicedAt)
	require.NoError(t, err)
	if diff := cmp.Diff(before, card); diff != "" {
		t.Errorf("input changed (-before +after):\n%s", diff)
	}
}

func TestAdvance_RejectsInvalidState(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.Card)
	}{
		{"level zero", func(c *models.Card) { c.Level = 0 }},
		{"level five", func(c *models.Card) { c.Level = 5 }},
		{"more correct than practice", func(c *models.Card) { c.LevelCorrectCount = 3; c.PracticeCount = 2 }},
		{"zero priority factor", func(c *models.Card) { c.PriorityFactor = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := newCard(models.LevelNew)
			tt.mutate(&card)

			_, _, err := flashcard.Advance(card, true, time.Second, practicedAt)
			assert.ErrorIs(t, err, flashcard.ErrInvalidCard)
		})
	}

	_, _, err := flashcard.Advance(newCard(models.LevelNew), true, -time.Second, practicedAt)
	assert.ErrorIs(t, err, flashcard.ErrInvalidCard)
}

func TestAdvance_InvariantsHoldForAnyAnswerSequence(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("level stays in range and counters stay consistent", prop.ForAll(
		func(answers []bool) bool {
			card := models.NewCard(1, "q", "a", nil)
			var correct, wrong uint32
			for _, a := range answers {
				next, attempt, err := flashcard.Advance(card, a, time.Second, practicedAt)
				if err != nil {
					return false
				}
				if attempt.Level != card.Level {
					return false
				}
				if !next.Level.Valid() || next.LevelCorrectCount > next.PracticeCount || next.PriorityFactor == 0 {
					return false
				}
				if diff := int(next.Level) - int(card.Level); diff > 1 || diff < -1 {
					return false
				}
				if a {
					correct++
				} else {
					wrong++
				}
				card = next
			}
			return card.CorrectCount == correct &&
				card.WrongCount == wrong &&
				card.TotalPracticeCount == uint32(len(answers))
		},
		gen.SliceOf(gen.Bool()),
	))

	properties.TestingRun(t)
}
