package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/vytor/klar/internal/errors"
	"github.com/vytor/klar/internal/logger"
	"github.com/vytor/klar/internal/models"
	"github.com/vytor/klar/internal/repository"
)

// CardInput is the editable content of a card.
type CardInput struct {
	Question  string   `json:"question"`
	Answer    string   `json:"answer"`
	Keywords  []string `json:"keywords"`
	ImagePath string   `json:"image_path"`
}

// CardService handles card business logic
type CardService interface {
	ListCards(ctx context.Context, filter models.CardFilter) ([]models.Card, int, error)
	GetCard(ctx context.Context, id int64) (*models.Card, error)
	CreateCard(ctx context.Context, studySetID int64, in CardInput) (*models.Card, error)
	ImportCards(ctx context.Context, studySetID int64, inputs []CardInput) (int, error)
	UpdateCard(ctx context.Context, id int64, in CardInput) (*models.Card, error)
	DeleteCard(ctx context.Context, id int64) error
}

type cardService struct {
	setRepo  repository.StudySetRepository
	cardRepo repository.CardRepository
}

// NewCardService creates a new CardService
func NewCardService(setRepo repository.StudySetRepository, cardRepo repository.CardRepository) CardService {
	return &cardService{setRepo: setRepo, cardRepo: cardRepo}
}

// validate trims the input and builds its keyword list.
func (in CardInput) validate() (CardInput, models.Keywords, error) {
	in.Question = strings.TrimSpace(in.Question)
	in.Answer = strings.TrimSpace(in.Answer)
	in.ImagePath = strings.TrimSpace(in.ImagePath)
	if in.Question == "" {
		return in, nil, errors.NewValidationError("question", "cannot be empty")
	}
	if in.Answer == "" {
		return in, nil, errors.NewValidationError("answer", "cannot be empty")
	}
	kw, err := models.NewKeywords(in.Keywords...)
	if err != nil {
		return in, nil, errors.WrapValidationError("keywords", err)
	}
	return in, kw, nil
}

func (s *cardService) requireSet(ctx context.Context, studySetID int64) error {
	set, err := s.setRepo.Get(ctx, studySetID)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if set == nil {
		return errors.NewNotFoundError("study set", studySetID)
	}
	return nil
}

func (s *cardService) ListCards(ctx context.Context, filter models.CardFilter) ([]models.Card, int, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing cards: study_set_id=%d, level=%d", filter.StudySetID, filter.Level)

	if filter.Level != 0 && !filter.Level.Valid() {
		return nil, 0, errors.NewValidationError("level", "must be between 1 and 4")
	}
	if filter.StudySetID != 0 {
		if err := s.requireSet(ctx, filter.StudySetID); err != nil {
			return nil, 0, err
		}
	}

	cards, err := s.cardRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	total, err := s.cardRepo.Count(ctx, filter)
	if err != nil {
		log.Error("failed to count cards: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	return cards, total, nil
}

func (s *cardService) GetCard(ctx context.Context, id int64) (*models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting card: id=%d", id)

	card, err := s.cardRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("card", id)
	}
	return card, nil
}

func (s *cardService) CreateCard(ctx context.Context, studySetID int64, in CardInput) (*models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating card: study_set_id=%d", studySetID)

	in, kw, err := in.validate()
	if err != nil {
		return nil, err
	}
	if err := s.requireSet(ctx, studySetID); err != nil {
		return nil, err
	}

	card := models.NewCard(studySetID, in.Question, in.Answer, kw)
	card.ImagePath = in.ImagePath
	created, err := s.cardRepo.Insert(ctx, card)
	if err != nil {
		log.Error("failed to create card: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Debug("card created: id=%d", created.ID)
	return created, nil
}

// ImportCards validates every input first and inserts all or none.
func (s *cardService) ImportCards(ctx context.Context, studySetID int64, inputs []CardInput) (int, error) {
	log := logger.FromContext(ctx)
	log.Debug("importing %d cards: study_set_id=%d", len(inputs), studySetID)

	if err := s.requireSet(ctx, studySetID); err != nil {
		return 0, err
	}

	cards := make([]models.Card, 0, len(inputs))
	for i, raw := range inputs {
		in, kw, err := raw.validate()
		if err != nil {
			appErr, _ := errors.As(err)
			return 0, errors.NewValidationError(fmt.Sprintf("row %d", i+1), appErr.Message)
		}
		card := models.NewCard(studySetID, in.Question, in.Answer, kw)
		card.ImagePath = in.ImagePath
		cards = append(cards, card)
	}
	if len(cards) == 0 {
		return 0, nil
	}

	ids, err := s.cardRepo.InsertBatch(ctx, cards)
	if err != nil {
		log.Error("failed to import cards: %v", err)
		return 0, errors.NewInternalError(err)
	}
	log.Info("imported %d cards into study set %d", len(ids), studySetID)
	return len(ids), nil
}

func (s *cardService) UpdateCard(ctx context.Context, id int64, in CardInput) (*models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating card: id=%d", id)

	in, kw, err := in.validate()
	if err != nil {
		return nil, err
	}
	card, err := s.GetCard(ctx, id)
	if err != nil {
		return nil, err
	}

	card.Question = in.Question
	card.Answer = in.Answer
	card.Keywords = kw
	card.ImagePath = in.ImagePath
	if err := s.cardRepo.UpdateContent(ctx, *card); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NewNotFoundError("card", id)
		}
		log.Error("failed to update card: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return card, nil
}

func (s *cardService) DeleteCard(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting card: id=%d", id)

	if err := s.cardRepo.Delete(ctx, id); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return errors.NewNotFoundError("card", id)
		}
		log.Error("failed to delete card: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}
