package services

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/vytor/klar/internal/errors"
	"github.com/vytor/klar/internal/logger"
	"github.com/vytor/klar/internal/models"
	"github.com/vytor/klar/internal/repository"
)

// StudySetService handles study set business logic
type StudySetService interface {
	ListSets(ctx context.Context) ([]models.StudySet, error)
	CreateSet(ctx context.Context, name string) (*models.StudySet, error)
	GetSet(ctx context.Context, id int64) (*models.StudySet, error)
	GetSetByName(ctx context.Context, name string) (*models.StudySet, error)
	EnsureSet(ctx context.Context, name string) (*models.StudySet, error)
	RenameSet(ctx context.Context, id int64, name string) (*models.StudySet, error)
	DeleteSet(ctx context.Context, id int64) error
}

type studySetService struct {
	setRepo repository.StudySetRepository
}

// NewStudySetService creates a new StudySetService
func NewStudySetService(setRepo repository.StudySetRepository) StudySetService {
	return &studySetService{setRepo: setRepo}
}

func normalizeSetName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.NewValidationError("name", "cannot be empty")
	}
	if len(name) > 128 {
		return "", errors.NewValidationError("name", "must be at most 128 characters")
	}
	return name, nil
}

func (s *studySetService) ListSets(ctx context.Context) ([]models.StudySet, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing study sets")

	sets, err := s.setRepo.List(ctx)
	if err != nil {
		log.Error("failed to list study sets: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return sets, nil
}

func (s *studySetService) CreateSet(ctx context.Context, name string) (*models.StudySet, error) {
	log := logger.FromContext(ctx)

	name, err := normalizeSetName(name)
	if err != nil {
		return nil, err
	}
	log.Debug("creating study set: name=%s", name)

	set, err := s.setRepo.Insert(ctx, name)
	if err != nil {
		if stderrors.Is(err, repository.ErrConflict) {
			return nil, errors.NewConflictError("study set already exists: " + name)
		}
		log.Error("failed to create study set: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Info("study set created: id=%d, name=%s", set.ID, set.Name)
	return set, nil
}

func (s *studySetService) GetSet(ctx context.Context, id int64) (*models.StudySet, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting study set: id=%d", id)

	set, err := s.setRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get study set: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if set == nil {
		return nil, errors.NewNotFoundError("study set", id)
	}
	return set, nil
}

func (s *studySetService) GetSetByName(ctx context.Context, name string) (*models.StudySet, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting study set: name=%s", name)

	set, err := s.setRepo.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		log.Error("failed to get study set: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if set == nil {
		return nil, errors.NewNotFoundError("study set", name)
	}
	return set, nil
}

// EnsureSet returns the named set, creating it when missing.
func (s *studySetService) EnsureSet(ctx context.Context, name string) (*models.StudySet, error) {
	set, err := s.GetSetByName(ctx, name)
	if errors.IsNotFound(err) {
		return s.CreateSet(ctx, name)
	}
	return set, err
}

func (s *studySetService) RenameSet(ctx context.Context, id int64, name string) (*models.StudySet, error) {
	log := logger.FromContext(ctx)

	name, err := normalizeSetName(name)
	if err != nil {
		return nil, err
	}
	log.Debug("renaming study set: id=%d, name=%s", id, name)

	if err := s.setRepo.Rename(ctx, id, name); err != nil {
		switch {
		case stderrors.Is(err, repository.ErrNotFound):
			return nil, errors.NewNotFoundError("study set", id)
		case stderrors.Is(err, repository.ErrConflict):
			return nil, errors.NewConflictError("study set already exists: " + name)
		}
		log.Error("failed to rename study set: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return s.GetSet(ctx, id)
}

func (s *studySetService) DeleteSet(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting study set: id=%d", id)

	if err := s.setRepo.Delete(ctx, id); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return errors.NewNotFoundError("study set", id)
		}
		log.Error("failed to delete study set: %v", err)
		return errors.NewInternalError(err)
	}
	log.Info("study set deleted: id=%d", id)
	return nil
}
