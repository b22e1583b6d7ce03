package services

import (
	"context"
	"time"

	"github.com/vytor/klar/internal/errors"
	"github.com/vytor/klar/internal/logger"
	"github.com/vytor/klar/internal/models"
	"github.com/vytor/klar/internal/repository"
	"github.com/vytor/klar/internal/stats"
)

const recentSessionLimit = 10

// Report is everything the reports screen shows for one study set.
type Report struct {
	StudySet       models.StudySet  `json:"study_set"`
	Summary        stats.Summary    `json:"summary"`
	RecentSessions []models.Session `json:"recent_sessions"`
}

// ReportService handles statistics reporting
type ReportService interface {
	GetReport(ctx context.Context, studySetID int64) (*Report, error)
}

type reportService struct {
	setRepo     repository.StudySetRepository
	cardRepo    repository.CardRepository
	attemptRepo repository.AttemptRepository
	sessionRepo repository.SessionRepository
	now         func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(
	setRepo repository.StudySetRepository,
	cardRepo repository.CardRepository,
	attemptRepo repository.AttemptRepository,
	sessionRepo repository.SessionRepository,
	opts ...Option,
) ReportService {
	o := buildOptions(opts)
	return &reportService{
		setRepo:     setRepo,
		cardRepo:    cardRepo,
		attemptRepo: attemptRepo,
		sessionRepo: sessionRepo,
		now:         o.now,
	}
}

func (s *reportService) GetReport(ctx context.Context, studySetID int64) (*Report, error) {
	log := logger.FromContext(ctx)
	log.Debug("building report: study_set_id=%d", studySetID)

	set, err := s.setRepo.Get(ctx, studySetID)
	if err != nil {
		log.Error("failed to get study set: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if set == nil {
		return nil, errors.NewNotFoundError("study set", studySetID)
	}

	cards, err := s.cardRepo.List(ctx, models.CardFilter{StudySetID: studySetID})
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	attempts, err := s.attemptRepo.List(ctx, models.AttemptFilter{StudySetID: studySetID})
	if err != nil {
		log.Error("failed to list attempts: %v", err)
		return nil, errors.NewInternalError(err)
	}
	sessions, err := s.sessionRepo.List(ctx, studySetID, recentSessionLimit)
	if err != nil {
		log.Error("failed to list sessions: %v", err)
		return nil, errors.NewInternalError(err)
	}

	summary := stats.Aggregate(cards, attempts, stats.DefaultWindows, s.now())
	log.Debug("report built: cards=%d, attempts=%d, mastery=%.2f", summary.TotalCards, len(attempts), summary.MasteryRate)
	return &Report{StudySet: *set, Summary: summary, RecentSessions: sessions}, nil
}
