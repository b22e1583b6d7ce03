package services

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/vytor/klar/internal/errors"
	"github.com/vytor/klar/internal/flashcard"
	"github.com/vytor/klar/internal/logger"
	"github.com/vytor/klar/internal/models"
	"github.com/vytor/klar/internal/repository"
)

// PracticeService runs practice sessions. Every call takes the session explicitly.
type PracticeService interface {
	StartSession(ctx context.Context, studySetID int64) (*models.Session, error)
	GetSession(ctx context.Context, id int64) (*models.Session, error)
	ListSessions(ctx context.Context, studySetID int64, limit int) ([]models.Session, error)
	NextCard(ctx context.Context, session models.Session) (*models.Card, error)
	SubmitAnswer(ctx context.Context, session models.Session, cardID int64, correct bool, duration time.Duration) (*models.AnswerResult, error)
	FinishSession(ctx context.Context, session models.Session) (*models.Session, error)
}

type practiceService struct {
	setRepo      repository.StudySetRepository
	cardRepo     repository.CardRepository
	sessionRepo  repository.SessionRepository
	practiceRepo repository.PracticeRepository
	selector     *flashcard.Selector
	locks        *keyedMutex
	now          func() time.Time
}

// NewPracticeService creates a new PracticeService
func NewPracticeService(
	setRepo repository.StudySetRepository,
	cardRepo repository.CardRepository,
	sessionRepo repository.SessionRepository,
	practiceRepo repository.PracticeRepository,
	selector *flashcard.Selector,
	opts ...Option,
) PracticeService {
	o := buildOptions(opts)
	return &practiceService{
		setRepo:      setRepo,
		cardRepo:     cardRepo,
		sessionRepo:  sessionRepo,
		practiceRepo: practiceRepo,
		selector:     selector,
		locks:        newKeyedMutex(),
		now:          o.now,
	}
}

func (s *practiceService) StartSession(ctx context.Context, studySetID int64) (*models.Session, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting session: study_set_id=%d", studySetID)

	set, err := s.setRepo.Get(ctx, studySetID)
	if err != nil {
		log.Error("failed to get study set: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if set == nil {
		return nil, errors.NewNotFoundError("study set", studySetID)
	}

	session, err := s.sessionRepo.Insert(ctx, studySetID, s.now())
	if err != nil {
		log.Error("failed to start session: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Info("session started: id=%d, study_set=%s", session.ID, set.Name)
	return session, nil
}

func (s *practiceService) GetSession(ctx context.Context, id int64) (*models.Session, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting session: id=%d", id)

	session, err := s.sessionRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get session: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if session == nil {
		return nil, errors.NewNotFoundError("session", id)
	}
	return session, nil
}

func (s *practiceService) ListSessions(ctx context.Context, studySetID int64, limit int) ([]models.Session, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing sessions: study_set_id=%d", studySetID)

	sessions, err := s.sessionRepo.List(ctx, studySetID, limit)
	if err != nil {
		log.Error("failed to list sessions: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return sessions, nil
}

// NextCard returns nil, nil when the session's study set has no cards.
func (s *practiceService) NextCard(ctx context.Context, session models.Session) (*models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("selecting next card: session_id=%d, study_set_id=%d", session.ID, session.StudySetID)

	if session.Finished() {
		return nil, errors.NewValidationError("session", "already finished")
	}

	cards, err := s.cardRepo.List(ctx, models.CardFilter{StudySetID: session.StudySetID})
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, errors.NewInternalError(err)
	}

	card, ok := s.selector.Next(cards)
	if !ok {
		log.Debug("no card available: study_set_id=%d", session.StudySetID)
		return nil, nil
	}
	return &card, nil
}

func (s *practiceService) SubmitAnswer(ctx context.Context, session models.Session, cardID int64, correct bool, duration time.Duration) (*models.AnswerResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("submitting answer: session_id=%d, card_id=%d, correct=%t", session.ID, cardID, correct)

	if session.Finished() {
		return nil, errors.NewValidationError("session", "already finished")
	}
	if duration < 0 {
		return nil, errors.NewValidationError("duration_seconds", "cannot be negative")
	}

	unlock := s.locks.Lock(cardID)
	defer unlock()

	card, err := s.cardRepo.Get(ctx, cardID)
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if card == nil || card.StudySetID != session.StudySetID {
		return nil, errors.NewNotFoundError("card", cardID)
	}

	updated, attempt, err := flashcard.Advance(*card, correct, duration, s.now())
	if err != nil {
		log.Error("card %d has invalid scheduling state: %v", cardID, err)
		return nil, errors.WrapValidationError("card", err)
	}
	sessionID := session.ID
	attempt.SessionID = &sessionID

	stored, err := s.practiceRepo.RecordAnswer(ctx, updated, attempt)
	if err != nil {
		switch {
		case stderrors.Is(err, repository.ErrSessionFinished):
			return nil, errors.NewValidationError("session", "already finished")
		case stderrors.Is(err, repository.ErrNotFound):
			return nil, errors.NewNotFoundError("card", cardID)
		}
		log.Error("failed to record answer: %v", err)
		return nil, errors.NewInternalError(err)
	}

	result := &models.AnswerResult{
		Card:          updated,
		Attempt:       *stored,
		PreviousLevel: card.Level,
		Promoted:      updated.Level > card.Level,
		Demoted:       updated.Level < card.Level,
	}
	if result.Promoted || result.Demoted {
		log.Info("card %d moved from level %d to level %d", cardID, card.Level, updated.Level)
	}
	return result, nil
}

func (s *practiceService) FinishSession(ctx context.Context, session models.Session) (*models.Session, error) {
	log := logger.FromContext(ctx)
	log.Debug("finishing session: id=%d", session.ID)

	if session.Finished() {
		return nil, errors.NewValidationError("session", "already finished")
	}
	if err := s.sessionRepo.Finish(ctx, session.ID, s.now()); err != nil {
		if stderrors.Is(err, repository.ErrSessionFinished) {
			return nil, errors.NewValidationError("session", "already finished")
		}
		log.Error("failed to finish session: %v", err)
		return nil, errors.NewInternalError(err)
	}

	finished, err := s.GetSession(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	log.Info("session finished: id=%d, practiced=%d, correct=%d", finished.ID, finished.CardsPracticed, finished.CorrectAnswers)
	return finished, nil
}
