package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/klar/internal/flashcard"
	"github.com/vytor/klar/internal/models"
	"github.com/vytor/klar/internal/repository"
	"github.com/vytor/klar/internal/repository/sqlite"
	"github.com/vytor/klar/internal/testutil"
)

type PracticeRepositorySuite struct {
	suite.Suite
	db       *sqlx.DB
	practice repository.PracticeRepository
	sessions repository.SessionRepository
	attempts repository.AttemptRepository
	cards    repository.CardRepository
	setID    int64
}

func (s *PracticeRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.practice = sqlite.NewPracticeRepository(s.db)
	s.sessions = sqlite.NewSessionRepository(s.db)
	s.attempts = sqlite.NewAttemptRepository(s.db)
	s.cards = sqlite.NewCardRepository(s.db)
	s.setID = testutil.CreateStudySet(s.T(), s.db, "spanish")
}

func (s *PracticeRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *PracticeRepositorySuite) answer(card models.Card, sessionID *int64, correct bool, at time.Time) models.Card {
	updated, attempt, err := flashcard.Advance(card, correct, 4*time.Second, at)
	s.Require().NoError(err)
	attempt.SessionID = sessionID

	stored, err := s.practice.RecordAnswer(context.Background(), updated, attempt)
	s.Require().NoError(err)
	s.NotZero(stored.ID)
	return updated
}

func (s *PracticeRepositorySuite) TestRecordAnswerPersistsAllThree() {
	ctx := context.Background()
	card := testutil.CreateCard(s.T(), s.db, s.setID, "perro", "dog")
	session, err := s.sessions.Insert(ctx, s.setID, time.Now())
	s.Require().NoError(err)

	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	card = s.answer(card, &session.ID, true, at)
	s.answer(card, &session.ID, false, at.Add(time.Minute))

	stored, err := s.cards.Get(ctx, card.ID)
	s.Require().NoError(err)
	s.Equal(uint32(2), stored.PracticeCount)
	s.Equal(uint32(1), stored.CorrectCount)
	s.Equal(uint32(1), stored.WrongCount)
	s.Equal(uint32(2), stored.PriorityFactor)
	s.Require().NotNil(stored.LastPracticedAt)
	s.True(stored.LastPracticedAt.Equal(at.Add(time.Minute)))

	got, err := s.sessions.Get(ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(uint32(2), got.CardsPracticed)
	s.Equal(uint32(1), got.CorrectAnswers)
	s.Equal(uint32(8), got.DurationSeconds)

	attempts, err := s.attempts.List(ctx, models.AttemptFilter{StudySetID: s.setID})
	s.Require().NoError(err)
	s.Require().Len(attempts, 2)
	s.True(attempts[0].Correct)
	s.False(attempts[1].Correct)
	s.Equal(models.LevelNew, attempts[0].Level)
	s.Require().NotNil(attempts[0].SessionID)
	s.Equal(session.ID, *attempts[0].SessionID)
}

func (s *PracticeRepositorySuite) TestRecordAnswerWithoutSession() {
	card := testutil.CreateCard(s.T(), s.db, s.setID, "gato", "cat")
	s.answer(card, nil, true, time.Now())

	attempts, err := s.attempts.List(context.Background(), models.AttemptFilter{CardID: card.ID})
	s.Require().NoError(err)
	s.Require().Len(attempts, 1)
	s.Nil(attempts[0].SessionID)
}

func (s *PracticeRepositorySuite) TestRecordAnswerRejectsFinishedSession() {
	ctx := context.Background()
	card := testutil.CreateCard(s.T(), s.db, s.setID, "gato", "cat")
	session, err := s.sessions.Insert(ctx, s.setID, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.sessions.Finish(ctx, session.ID, time.Now()))

	updated, attempt, err := flashcard.Advance(card, true, time.Second, time.Now())
	s.Require().NoError(err)
	attempt.SessionID = &session.ID

	_, err = s.practice.RecordAnswer(ctx, updated, attempt)
	s.ErrorIs(err, repository.ErrSessionFinished)

	stored, err := s.cards.Get(ctx, card.ID)
	s.Require().NoError(err)
	s.Zero(stored.PracticeCount, "card update must roll back")
}

func (s *PracticeRepositorySuite) TestRecordAnswerMissingCard() {
	card := models.NewCard(s.setID, "ghost", "x", nil)
	card.ID = 999
	updated, attempt, err := flashcard.Advance(card, true, time.Second, time.Now())
	s.Require().NoError(err)

	_, err = s.practice.RecordAnswer(context.Background(), updated, attempt)
	s.ErrorIs(err, repository.ErrNotFound)
}

func (s *PracticeRepositorySuite) TestAttemptsSinceFilter() {
	ctx := context.Background()
	card := testutil.CreateCard(s.T(), s.db, s.setID, "q", "a")
	base := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	card = s.answer(card, nil, true, base)
	card = s.answer(card, nil, true, base.Add(48*time.Hour))
	s.answer(card, nil, true, base.Add(96*time.Hour))

	since := base.Add(48 * time.Hour)
	attempts, err := s.attempts.List(ctx, models.AttemptFilter{StudySetID: s.setID, Since: &since})
	s.Require().NoError(err)
	s.Len(attempts, 2)
}

func (s *PracticeRepositorySuite) TestSessionsListAndFinish() {
	ctx := context.Background()
	first, err := s.sessions.Insert(ctx, s.setID, time.Now().Add(-time.Hour))
	s.Require().NoError(err)
	second, err := s.sessions.Insert(ctx, s.setID, time.Now())
	s.Require().NoError(err)

	s.Require().NoError(s.sessions.Finish(ctx, first.ID, time.Now()))
	s.ErrorIs(s.sessions.Finish(ctx, first.ID, time.Now()), repository.ErrSessionFinished)

	list, err := s.sessions.List(ctx, s.setID, 10)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(second.ID, list[0].ID, "newest first")
	s.True(list[1].Finished())
	s.False(list[0].Finished())

	missing, err := s.sessions.Get(ctx, 777)
	s.NoError(err)
	s.Nil(missing)
}

func (s *PracticeRepositorySuite) TestSnapshots() {
	ctx := context.Background()
	snapshots := sqlite.NewSnapshotRepository(s.db)
	base := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := snapshots.Insert(ctx, models.StatsSnapshot{
			StudySetID:  s.setID,
			TakenAt:     base.Add(time.Duration(i) * 24 * time.Hour),
			TotalCards:  4,
			Level1:      3 - i,
			Level4:      1 + i,
			Mastered:    1 + i,
			MasteryRate: float64(1+i) / 4,
		})
		s.Require().NoError(err)
	}

	all, err := snapshots.List(ctx, s.setID, nil)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.InDelta(0.75, all[2].MasteryRate, 1e-9)

	since := base.Add(24 * time.Hour)
	recent, err := snapshots.List(ctx, s.setID, &since)
	s.Require().NoError(err)
	s.Len(recent, 2)
}

func TestPracticeRepositorySuite(t *testing.T) {
	suite.Run(t, new(PracticeRepositorySuite))
}
