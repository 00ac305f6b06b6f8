// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Cadence tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/abhijeet/cadence/internal/apperr"
	"github.com/abhijeet/cadence/internal/dailyservice"
)

// Server wraps the MCP server with Cadence tools.
type Server struct {
	mcp *server.MCPServer
	svc *dailyservice.Service
}

// New creates a new MCP server with all Cadence tools registered.
func New(svc *dailyservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Cadence",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(mcp.NewTool("log_progress",
		mcp.WithDescription("Log a free-text progress update against the current day. "+
			"Fails when no daily plan has been generated yet."),
		mcp.WithString("text", mcp.Required(), mcp.Description("What was done")),
	), s.logProgress)

	s.mcp.AddTool(mcp.NewTool("log_note",
		mcp.WithDescription("Record a strategic goal/direction note. The note is also "+
			"injected into the assistant conversation so future plans account for it."),
		mcp.WithString("text", mcp.Required(), mcp.Description("The strategic note")),
	), s.logNote)

	s.mcp.AddTool(mcp.NewTool("latest_plan",
		mcp.WithDescription("Read the current day's plan and its day number."),
	), s.latestPlan)

	s.mcp.AddTool(mcp.NewTool("recent_summaries",
		mcp.WithDescription("Read the retrospective summaries of recently closed days, "+
			"most recent first."),
		mcp.WithNumber("days", mcp.Description("How many summaries to return (default 7)")),
	), s.recentSummaries)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) logProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.Checkin(ctx, text); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError("no current day: generate a daily plan first"), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("progress logged"), nil
}

func (s *Server) logNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.AddNote(ctx, text); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("note recorded"), nil
}

func (s *Server) latestPlan(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day, err := s.svc.LatestDay(ctx)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError("no plan generated yet"), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Day %d (%s)\n\n%s", day.DayNumber, day.Date, day.Targets)), nil
}

func (s *Server) recentSummaries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n := req.GetInt("days", 7)
	summaries, err := s.svc.RecentSummaries(ctx, n)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(summaries) == 0 {
		return mcp.NewToolResultText("no closed days yet"), nil
	}
	return mcp.NewToolResultText(strings.Join(summaries, "\n")), nil
}
