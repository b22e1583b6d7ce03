package models

import "time"

// Card is a single flashcard together with its scheduling state.
type Card struct {
	ID         int64    `db:"id" json:"id"`
	StudySetID int64    `db:"study_set_id" json:"study_set_id"`
	Question   string   `db:"question" json:"question"`
	Answer     string   `db:"answer" json:"answer"`
	Keywords   Keywords `db:"keywords" json:"keywords"`
	ImagePath  string   `db:"image_path" json:"image_path,omitempty"`

	Level             Level  `db:"level" json:"level"`
	LevelCorrectCount uint32 `db:"level_correct_count" json:"level_correct_count"`
	PracticeCount     uint32 `db:"practice_count" json:"practice_count"`
	ConsecutiveWrong  uint32 `db:"consecutive_wrong" json:"consecutive_wrong"`
	PriorityFactor    uint32 `db:"priority_factor" json:"priority_factor"`

	CorrectCount       uint32 `db:"correct_count" json:"correct_count"`
	WrongCount         uint32 `db:"wrong_count" json:"wrong_count"`
	TotalPracticeCount uint32 `db:"total_practice_count" json:"total_practice_count"`

	LastPracticedAt *time.Time `db:"last_practiced_at" json:"last_practiced_at,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}

// NewCard returns a level 1 card with fresh counters.
func NewCard(studySetID int64, question, answer string, keywords Keywords) Card {
	return Card{
		StudySetID:     studySetID,
		Question:       question,
		Answer:         answer,
		Keywords:       keywords,
		Level:          LevelNew,
		PriorityFactor: 1,
	}
}

// CardFilter narrows card listings. Zero values mean "no filter".
type CardFilter struct {
	StudySetID int64
	Level      Level
	Limit      int
	Offset     int
}

// PracticeAttempt is the immutable log entry written for every judged answer.
type PracticeAttempt struct {
	ID              int64     `db:"id" json:"id"`
	CardID          int64     `db:"card_id" json:"card_id"`
	StudySetID      int64     `db:"study_set_id" json:"study_set_id"`
	SessionID       *int64    `db:"session_id" json:"session_id,omitempty"`
	Correct         bool      `db:"correct" json:"correct"`
	Level           Level     `db:"level" json:"level"`
	DurationSeconds uint32    `db:"duration_seconds" json:"duration_seconds"`
	PracticedAt     time.Time `db:"practiced_at" json:"practiced_at"`
}

// AttemptFilter narrows attempt listings. Since is inclusive.
type AttemptFilter struct {
	StudySetID int64
	CardID     int64
	Since      *time.Time
}

// AnswerResult describes what a single judged answer did to a card.
type AnswerResult struct {
	Card          Card            `json:"card"`
	Attempt       PracticeAttempt `json:"attempt"`
	PreviousLevel Level           `json:"previous_level"`
	Promoted      bool            `json:"promoted"`
	Demoted       bool            `json:"demoted"`
}
