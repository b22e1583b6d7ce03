package api

import (
	"context"

	"github.com/vytor/klar/internal/jobs"
	"github.com/vytor/klar/internal/services"
)

// Server exposes the practice and reporting services as a JSON API.
type Server struct {
	StudySetService services.StudySetService
	CardService     services.CardService
	PracticeService services.PracticeService
	ReportService   services.ReportService
	SnapshotService services.SnapshotService
	JobQueue        jobs.JobQueue

	// Ready reports whether dependencies can serve traffic. Nil means always ready.
	Ready func(ctx context.Context) error
}
