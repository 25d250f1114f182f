package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

// DiagnosticArgs holds arguments for the run_full_diagnostic tool
type DiagnosticArgs struct {
	SessionID string `json:"session_id" validate:"required"`
	Domain    string `json:"domain" validate:"required"`
}

func (s *MCPServer) handleFullDiagnostic(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args DiagnosticArgs
	if err := s.parseAndValidate(request.Params.Arguments, &args); err != nil {
		return s.createErrorResult("run_full_diagnostic", err), nil
	}

	session, err := s.session(args.SessionID)
	if err != nil {
		return s.createErrorResult("run_full_diagnostic", err), nil
	}

	report := s.aggregator.RunFullDiagnostic(ctx, session, args.Domain)

	// Two content blocks: a markdown summary for humans, the raw report for
	// machines.
	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return s.createErrorResult("run_full_diagnostic", err), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: FormatDiagnosticReport(report)},
			mcp.TextContent{Type: "text", Text: string(payload)},
		},
		IsError: false,
	}, nil
}
