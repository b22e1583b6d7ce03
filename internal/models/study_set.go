package models

import "time"

// StudySet groups cards that are practised together.
type StudySet struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Session is the explicit context of one practice run over a study set.
type Session struct {
	ID              int64      `db:"id" json:"id"`
	StudySetID      int64      `db:"study_set_id" json:"study_set_id"`
	StartedAt       time.Time  `db:"started_at" json:"started_at"`
	EndedAt         *time.Time `db:"ended_at" json:"ended_at,omitempty"`
	CardsPracticed  uint32     `db:"cards_practiced" json:"cards_practiced"`
	CorrectAnswers  uint32     `db:"correct_answers" json:"correct_answers"`
	DurationSeconds uint32     `db:"duration_seconds" json:"duration_seconds"`
}

// Finished reports whether the session has been closed.
func (s Session) Finished() bool {
	return s.EndedAt != nil
}

// StatsSnapshot records a study set's level distribution at a point in time.
type StatsSnapshot struct {
	ID          int64     `db:"id" json:"id"`
	StudySetID  int64     `db:"study_set_id" json:"study_set_id"`
	TakenAt     time.Time `db:"taken_at" json:"taken_at"`
	TotalCards  int       `db:"total_cards" json:"total_cards"`
	Level1      int       `db:"level1" json:"level1"`
	Level2      int       `db:"level2" json:"level2"`
	Level3      int       `db:"level3" json:"level3"`
	Level4      int       `db:"level4" json:"level4"`
	Mastered    int       `db:"mastered" json:"mastered"`
	MasteryRate float64   `db:"mastery_rate" json:"mastery_rate"`
}
