package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueSnapshot(studySetID int64) error {
	args := m.Called(studySetID)
	return args.Error(0)
}

func (m *MockJobQueue) EnqueueSnapshotAll() error {
	args := m.Called()
	return args.Error(0)
}
