package testutil

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/vytor/klar/internal/db"
	"github.com/vytor/klar/internal/models"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied
// and foreign keys enabled.
func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	database, err := db.Open(":memory:")
	require.NoError(t, err)
	return database.DB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// CreateStudySet inserts a study set and returns its id.
func CreateStudySet(t *testing.T, conn *sqlx.DB, name string) int64 {
	t.Helper()
	var id int64
	err := conn.GetContext(context.Background(), &id, `INSERT INTO study_sets (name) VALUES (?) RETURNING id`, name)
	require.NoError(t, err)
	return id
}

// CreateCard inserts a fresh level 1 card and returns it with its id.
func CreateCard(t *testing.T, conn *sqlx.DB, studySetID int64, question, answer string) models.Card {
	t.Helper()
	c := models.NewCard(studySetID, question, answer, nil)
	err := conn.GetContext(context.Background(), &c.ID,
		`INSERT INTO cards (study_set_id, question, answer) VALUES (?, ?, ?) RETURNING id`,
		studySetID, question, answer)
	require.NoError(t, err)
	return c
}
