package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/klar/internal/errors"
	"github.com/vytor/klar/internal/models"
	"github.com/vytor/klar/internal/repository"
	"github.com/vytor/klar/internal/services"
	"github.com/vytor/klar/internal/testutil/mocks"
)

func TestCreateSet(t *testing.T) {
	repo := new(mocks.MockStudySetRepository)
	svc := services.NewStudySetService(repo)
	ctx := context.Background()

	repo.On("Insert", ctx, "spanish").Return(&models.StudySet{ID: 1, Name: "spanish"}, nil)
	set, err := svc.CreateSet(ctx, "  spanish ")
	require.NoError(t, err)
	assert.Equal(t, int64(1), set.ID)

	_, err = svc.CreateSet(ctx, "   ")
	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeValidation, appErr.Code)

	repo.On("Insert", ctx, "dup").Return(nil, repository.ErrConflict)
	_, err = svc.CreateSet(ctx, "dup")
	appErr, ok = errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeConflict, appErr.Code)
}

func TestEnsureSet(t *testing.T) {
	repo := new(mocks.MockStudySetRepository)
	svc := services.NewStudySetService(repo)
	ctx := context.Background()

	repo.On("GetByName", ctx, "default").Return(nil, nil)
	repo.On("Insert", ctx, "default").Return(&models.StudySet{ID: 4, Name: "default"}, nil)

	set, err := svc.EnsureSet(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, int64(4), set.ID)
	repo.AssertExpectations(t)
}

func TestRenameAndDeleteMissing(t *testing.T) {
	repo := new(mocks.MockStudySetRepository)
	svc := services.NewStudySetService(repo)
	ctx := context.Background()

	repo.On("Rename", ctx, int64(8), "new").Return(repository.ErrNotFound)
	_, err := svc.RenameSet(ctx, 8, "new")
	assert.True(t, errors.IsNotFound(err))

	repo.On("Delete", ctx, int64(8)).Return(repository.ErrNotFound)
	assert.True(t, errors.IsNotFound(svc.DeleteSet(ctx, 8)))
}
