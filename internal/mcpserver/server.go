// Package mcpserver exposes practice sessions as Model Context Protocol tools
// so an assistant can quiz the learner over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/vytor/klar/internal/errors"
	"github.com/vytor/klar/internal/logger"
	"github.com/vytor/klar/internal/services"
)

const instructions = `klar is a level-based flashcard trainer.
Call start_session with a study set, then loop: next_card, show the question,
let the learner answer, judge it yourself and call submit_answer with correct
true or false. Never reveal the answer before the learner has tried. Call
finish_session at the end and report to summarise progress.`

// Server holds the services the tools call into.
type Server struct {
	StudySets services.StudySetService
	Practice  services.PracticeService
	Reports   services.ReportService
	Version   string
}

// MCPServer builds the mcp-go server with every tool registered.
func (s *Server) MCPServer() *server.MCPServer {
	m := server.NewMCPServer(
		"klar",
		s.Version,
		server.WithInstructions(instructions),
		server.WithToolCapabilities(true),
		server.WithLogging(),
	)

	m.AddTool(mcp.NewTool("list_sets",
		mcp.WithDescription("List every study set with its id and name."),
	), s.handleListSets)

	m.AddTool(mcp.NewTool("start_session",
		mcp.WithDescription("Start a practice session over a study set. Pass set_id or set_name."),
		mcp.WithNumber("set_id", mcp.Description("Study set id")),
		mcp.WithString("set_name", mcp.Description("Study set name, used when set_id is absent")),
	), s.handleStartSession)

	m.AddTool(mcp.NewTool("next_card",
		mcp.WithDescription("Pick the next card to ask. Lower level cards come up more often."),
		mcp.WithNumber("session_id", mcp.Required(), mcp.Description("Session id from start_session")),
	), s.handleNextCard)

	m.AddTool(mcp.NewTool("submit_answer",
		mcp.WithDescription("Record whether the learner answered a card correctly."),
		mcp.WithNumber("session_id", mcp.Required(), mcp.Description("Session id")),
		mcp.WithNumber("card_id", mcp.Required(), mcp.Description("Card that was asked")),
		mcp.WithBoolean("correct", mcp.Required(), mcp.Description("Whether the answer was right")),
		mcp.WithNumber("duration_seconds", mcp.Description("Time the learner took to answer")),
	), s.handleSubmitAnswer)

	m.AddTool(mcp.NewTool("finish_session",
		mcp.WithDescription("Close a practice session."),
		mcp.WithNumber("session_id", mcp.Required(), mcp.Description("Session id")),
	), s.handleFinishSession)

	m.AddTool(mcp.NewTool("report",
		mcp.WithDescription("Mastery, level distribution and success rates for a study set."),
		mcp.WithNumber("set_id", mcp.Required(), mcp.Description("Study set id")),
	), s.handleReport)

	return m
}

// ServeStdio blocks serving tools on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.MCPServer())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(b)), nil
}

// errorResult turns service errors into tool errors the model can read.
func errorResult(err error) *mcp.CallToolResult {
	if appErr, ok := errors.As(err); ok {
		return mcp.NewToolResultError(appErr.Message)
	}
	return mcp.NewToolResultError(err.Error())
}

func intArg(req mcp.CallToolRequest, name string) (int64, bool) {
	v, ok := req.Params.Arguments[name].(float64)
	if !ok || v <= 0 || v != float64(int64(v)) {
		return 0, false
	}
	return int64(v), true
}

func (s *Server) handleListSets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sets, err := s.StudySets.ListSets(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(sets)
}

func (s *Server) handleStartSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	setID, ok := intArg(req, "set_id")
	if !ok {
		name, _ := req.Params.Arguments["set_name"].(string)
		if name == "" {
			return mcp.NewToolResultError("set_id or set_name is required"), nil
		}
		set, err := s.StudySets.GetSetByName(ctx, name)
		if err != nil {
			return errorResult(err), nil
		}
		setID = set.ID
	}

	session, err := s.Practice.StartSession(ctx, setID)
	if err != nil {
		return errorResult(err), nil
	}
	logger.FromContext(ctx).Info("session %d started over study set %d", session.ID, setID)
	return jsonResult(session)
}

func (s *Server) handleNextCard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, ok := intArg(req, "session_id")
	if !ok {
		return mcp.NewToolResultError("missing required parameter: session_id"), nil
	}
	session, err := s.Practice.GetSession(ctx, sessionID)
	if err != nil {
		return errorResult(err), nil
	}

	card, err := s.Practice.NextCard(ctx, *session)
	if err != nil {
		return errorResult(err), nil
	}
	if card == nil {
		return mcp.NewToolResultText("The study set has no cards yet."), nil
	}
	return jsonResult(map[string]any{
		"card_id":  card.ID,
		"question": card.Question,
		"answer":   card.Answer,
		"keywords": card.Keywords,
		"level":    card.Level,
	})
}

func (s *Server) handleSubmitAnswer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, ok := intArg(req, "session_id")
	if !ok {
		return mcp.NewToolResultError("missing required parameter: session_id"), nil
	}
	cardID, ok := intArg(req, "card_id")
	if !ok {
		return mcp.NewToolResultError("missing required parameter: card_id"), nil
	}
	correct, ok := req.Params.Arguments["correct"].(bool)
	if !ok {
		return mcp.NewToolResultError("missing required parameter: correct"), nil
	}
	seconds, _ := req.Params.Arguments["duration_seconds"].(float64)

	session, err := s.Practice.GetSession(ctx, sessionID)
	if err != nil {
		return errorResult(err), nil
	}
	result, err := s.Practice.SubmitAnswer(ctx, *session, cardID, correct, time.Duration(seconds*float64(time.Second)))
	if err != nil {
		return errorResult(err), nil
	}

	msg := fmt.Sprintf("Recorded. Card %d is at level %d.", cardID, result.Card.Level)
	switch {
	case result.Promoted:
		msg = fmt.Sprintf("Promoted! Card %d moved up to level %d.", cardID, result.Card.Level)
	case result.Demoted:
		msg = fmt.Sprintf("Card %d dropped back to level %d.", cardID, result.Card.Level)
	}
	return jsonResult(map[string]any{"message": msg, "result": result})
}

func (s *Server) handleFinishSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, ok := intArg(req, "session_id")
	if !ok {
		return mcp.NewToolResultError("missing required parameter: session_id"), nil
	}
	session, err := s.Practice.GetSession(ctx, sessionID)
	if err != nil {
		return errorResult(err), nil
	}

	finished, err := s.Practice.FinishSession(ctx, *session)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(finished)
}

func (s *Server) handleReport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	setID, ok := intArg(req, "set_id")
	if !ok {
		return mcp.NewToolResultError("missing required parameter: set_id"), nil
	}
	report, err := s.Reports.GetReport(ctx, setID)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(report)
}
