package api

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/vytor/klar/internal/errors"
	"github.com/vytor/klar/internal/export"
	"github.com/vytor/klar/internal/logger"
	"github.com/vytor/klar/internal/models"
)

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	setID, err := urlID(r, "setID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	report, err := s.ReportService.GetReport(r.Context(), setID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, report)
}

// handleListSnapshots accepts an optional RFC 3339 "since" parameter.
func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	setID, err := urlID(r, "setID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var since *time.Time
	if raw := r.URL.Query().Get("since"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			handleError(w, r, errors.NewBadRequestError("invalid since: expected RFC 3339"))
			return
		}
		since = &t
	}

	snapshots, err := s.SnapshotService.ListSnapshots(r.Context(), setID, since)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if snapshots == nil {
		snapshots = []models.StatsSnapshot{}
	}
	writeJSON(w, r, http.StatusOK, snapshots)
}

// handleQueueSnapshot hands the snapshot to the worker pool and returns 202.
func (s *Server) handleQueueSnapshot(w http.ResponseWriter, r *http.Request) {
	setID, err := urlID(r, "setID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	if _, err := s.StudySetService.GetSet(r.Context(), setID); err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.JobQueue.EnqueueSnapshot(setID); err != nil {
		logger.FromContext(r.Context()).Error("failed to enqueue snapshot: %v", err)
		handleError(w, r, errors.NewInternalError(err))
		return
	}
	writeJSON(w, r, http.StatusAccepted, map[string]any{"status": "queued", "study_set_id": setID})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	setID, err := urlID(r, "setID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		handleError(w, r, errors.NewBadRequestError(err.Error()))
		return
	}

	set, err := s.StudySetService.GetSet(r.Context(), setID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	cards, _, err := s.CardService.ListCards(r.Context(), models.CardFilter{StudySetID: setID})
	if err != nil {
		handleError(w, r, err)
		return
	}

	// render fully before writing headers so a failure can still become a JSON error
	var buf bytes.Buffer
	if err := export.Write(&buf, format, cards); err != nil {
		handleError(w, r, errors.NewInternalError(err))
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.FileName(set.Name)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.FromContext(r.Context()).Warn("failed to write export: %v", err)
	}
}
