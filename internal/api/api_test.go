package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/klar/internal/api"
	"github.com/vytor/klar/internal/app"
	"github.com/vytor/klar/internal/config"
	"github.com/vytor/klar/internal/db"
	"github.com/vytor/klar/internal/models"
	"github.com/vytor/klar/internal/services"
	"github.com/vytor/klar/internal/testutil/mocks"
)

type APITestSuite struct {
	suite.Suite
	app   *app.App
	queue *mocks.MockJobQueue
	srv   *httptest.Server
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}

func (s *APITestSuite) SetupTest() {
	database, err := db.Open(":memory:")
	s.Require().NoError(err)

	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	cfg := config.Config{RandomSeed: 42, WorkerCount: 1, QueueSize: 4}
	s.app = app.New(cfg, database, services.WithClock(func() time.Time { return now }))
	s.queue = new(mocks.MockJobQueue)

	server := &api.Server{
		StudySetService: s.app.StudySets,
		CardService:     s.app.Cards,
		PracticeService: s.app.Practice,
		ReportService:   s.app.Reports,
		SnapshotService: s.app.Snapshots,
		JobQueue:        s.queue,
		Ready:           func(ctx context.Context) error { return database.PingContext(ctx) },
	}
	s.srv = httptest.NewServer(server.Routes())
}

func (s *APITestSuite) TearDownTest() {
	s.srv.Close()
	s.Require().NoError(s.app.Close())
}

func (s *APITestSuite) do(method, path string, body any) *http.Response {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.srv.URL+path, &buf)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	s.T().Cleanup(func() { resp.Body.Close() })
	return resp
}

func (s *APITestSuite) decode(resp *http.Response, dst any) {
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(dst))
}

func (s *APITestSuite) createSet(name string) models.StudySet {
	resp := s.do(http.MethodPost, "/sets", map[string]string{"name": name})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var set models.StudySet
	s.decode(resp, &set)
	return set
}

func (s *APITestSuite) createCard(setID int64, q, a string) models.Card {
	resp := s.do(http.MethodPost, "/sets/"+itoa(setID)+"/cards", services.CardInput{Question: q, Answer: a})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var card models.Card
	s.decode(resp, &card)
	return card
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *APITestSuite) TestHealthAndReady() {
	resp := s.do(http.MethodGet, "/healthz", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.NotEmpty(resp.Header.Get("X-Request-ID"))

	resp = s.do(http.MethodGet, "/readyz", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *APITestSuite) TestStudySetLifecycle() {
	set := s.createSet("spanish")
	s.Equal("spanish", set.Name)

	resp := s.do(http.MethodPost, "/sets", map[string]string{"name": "spanish"})
	s.Equal(http.StatusConflict, resp.StatusCode)
	var conflict errorResponse
	s.decode(resp, &conflict)
	s.Equal("CONFLICT", conflict.Error.Code)

	resp = s.do(http.MethodPatch, "/sets/"+itoa(set.ID), map[string]string{"name": "español"})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var renamed models.StudySet
	s.decode(resp, &renamed)
	s.Equal("español", renamed.Name)

	resp = s.do(http.MethodGet, "/sets", nil)
	var sets []models.StudySet
	s.decode(resp, &sets)
	s.Len(sets, 1)

	s.Equal(http.StatusNoContent, s.do(http.MethodDelete, "/sets/"+itoa(set.ID), nil).StatusCode)
	s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/sets/"+itoa(set.ID), nil).StatusCode)
}

func (s *APITestSuite) TestBadRequests() {
	resp := s.do(http.MethodGet, "/sets/abc", nil)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	var body errorResponse
	s.decode(resp, &body)
	s.Equal("BAD_REQUEST", body.Error.Code)

	resp = s.do(http.MethodPost, "/sets", map[string]string{"name": "  "})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.decode(resp, &body)
	s.Equal("VALIDATION_ERROR", body.Error.Code)

	set := s.createSet("bad")
	resp = s.do(http.MethodGet, "/sets/"+itoa(set.ID)+"/cards?level=9", nil)
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp = s.do(http.MethodPost, "/sets/"+itoa(set.ID)+"/cards", map[string]any{
		"question": "q", "answer": "a", "keywords": []string{"only-one"},
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *APITestSuite) TestCardCRUD() {
	set := s.createSet("capitals")
	card := s.createCard(set.ID, "France", "Paris")
	s.Equal(models.LevelNew, card.Level)
	s.Equal(uint32(1), card.PriorityFactor)

	resp := s.do(http.MethodPut, "/cards/"+itoa(card.ID), services.CardInput{
		Question: "France", Answer: "Paris", Keywords: []string{"europe", "capital"},
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var updated models.Card
	s.decode(resp, &updated)
	s.Equal(models.Keywords{"europe", "capital"}, updated.Keywords)

	s.createCard(set.ID, "Peru", "Lima")
	resp = s.do(http.MethodGet, "/sets/"+itoa(set.ID)+"/cards?limit=1", nil)
	var list struct {
		Cards []models.Card `json:"cards"`
		Total int           `json:"total"`
	}
	s.decode(resp, &list)
	s.Len(list.Cards, 1)
	s.Equal(2, list.Total)

	s.Equal(http.StatusNoContent, s.do(http.MethodDelete, "/cards/"+itoa(card.ID), nil).StatusCode)
	s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/cards/"+itoa(card.ID), nil).StatusCode)
}

func (s *APITestSuite) TestPracticeFlow() {
	set := s.createSet("practice")

	resp := s.do(http.MethodPost, "/sets/"+itoa(set.ID)+"/sessions", nil)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var session models.Session
	s.decode(resp, &session)

	// empty set: nothing to practise
	s.Equal(http.StatusNoContent, s.do(http.MethodGet, "/sessions/"+itoa(session.ID)+"/next", nil).StatusCode)

	card := s.createCard(set.ID, "2+2", "4")
	resp = s.do(http.MethodGet, "/sessions/"+itoa(session.ID)+"/next", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var next models.Card
	s.decode(resp, &next)
	s.Equal(card.ID, next.ID)

	for i := 0; i < 5; i++ {
		resp = s.do(http.MethodPost, "/sessions/"+itoa(session.ID)+"/answers", map[string]any{
			"card_id": card.ID, "correct": i != 0, "duration_seconds": 2,
		})
		s.Require().Equal(http.StatusOK, resp.StatusCode)
	}
	var result models.AnswerResult
	s.decode(resp, &result)
	s.True(result.Promoted)
	s.Equal(models.LevelAdvanced, result.Card.Level)

	resp = s.do(http.MethodPost, "/sessions/"+itoa(session.ID)+"/answers", map[string]any{"card_id": card.ID})
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp = s.do(http.MethodPost, "/sessions/"+itoa(session.ID)+"/finish", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var finished models.Session
	s.decode(resp, &finished)
	s.True(finished.Finished())
	s.Equal(uint32(5), finished.CardsPracticed)
	s.Equal(uint32(4), finished.CorrectAnswers)

	resp = s.do(http.MethodPost, "/sessions/"+itoa(session.ID)+"/answers", map[string]any{
		"card_id": card.ID, "correct": true,
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp = s.do(http.MethodGet, "/sets/"+itoa(set.ID)+"/report", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var report services.Report
	s.decode(resp, &report)
	s.Equal(1, report.Summary.TotalCards)
	s.Equal([4]int{0, 1, 0, 0}, report.Summary.CardsPerLevel)
	all, ok := report.Summary.Window("all_time")
	s.Require().True(ok)
	s.Equal(5, all.Attempts)
	s.InDelta(0.8, all.SuccessRate, 1e-9)
	s.Len(report.RecentSessions, 1)
}

func (s *APITestSuite) TestSnapshots() {
	set := s.createSet("snap")
	s.queue.On("EnqueueSnapshot", set.ID).Return(nil).Once()

	resp := s.do(http.MethodPost, "/sets/"+itoa(set.ID)+"/snapshots", nil)
	s.Equal(http.StatusAccepted, resp.StatusCode)
	s.queue.AssertExpectations(s.T())

	resp = s.do(http.MethodPost, "/sets/999/snapshots", nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.queue.AssertNotCalled(s.T(), "EnqueueSnapshot", int64(999))

	_, err := s.app.Snapshots.TakeSnapshot(context.Background(), set.ID)
	s.Require().NoError(err)
	resp = s.do(http.MethodGet, "/sets/"+itoa(set.ID)+"/snapshots", nil)
	var snaps []models.StatsSnapshot
	s.decode(resp, &snaps)
	s.Len(snaps, 1)

	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/sets/"+itoa(set.ID)+"/snapshots?since=yesterday", nil).StatusCode)
}

func (s *APITestSuite) TestSnapshotQueueFailure() {
	set := s.createSet("full")
	s.queue.On("EnqueueSnapshot", mock.Anything).Return(context.DeadlineExceeded)

	resp := s.do(http.MethodPost, "/sets/"+itoa(set.ID)+"/snapshots", nil)
	s.Equal(http.StatusInternalServerError, resp.StatusCode)
}

func (s *APITestSuite) TestExport() {
	set := s.createSet("export me")
	s.createCard(set.ID, "hola", "hello")

	resp := s.do(http.MethodGet, "/sets/"+itoa(set.ID)+"/export", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Contains(resp.Header.Get("Content-Disposition"), `filename="export me.csv"`)

	var buf bytes.Buffer
	_, err := buf.ReadFrom(resp.Body)
	s.Require().NoError(err)
	s.Equal("Question;Answer;Correct;Wrong;Level;Keywords\nhola;hello;0;0;1;\n", buf.String())

	resp = s.do(http.MethodGet, "/sets/"+itoa(set.ID)+"/export?format=xlsx", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(resp.Header.Get("Content-Type"), "spreadsheetml")

	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/sets/"+itoa(set.ID)+"/export?format=pdf", nil).StatusCode)
}
