package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/xiyuan/servicenow-mcp/pkg/servicenow"
)

// CheckArgs holds arguments for the single-session check tools
type CheckArgs struct {
	SessionID string `json:"session_id" validate:"required"`
}

// CORSCheckArgs holds arguments for the check_cors_rule tool
type CORSCheckArgs struct {
	SessionID string `json:"session_id" validate:"required"`
	Domain    string `json:"domain" validate:"required"`
}

// EmbeddableCheckArgs holds arguments for the check_embeddable_activated tool
type EmbeddableCheckArgs struct {
	SessionID       string `json:"session_id" validate:"required"`
	MacroponentName string `json:"macroponent_name"`
}

func (s *MCPServer) handleEmbeddablesEnabled(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.runSessionCheck(ctx, "check_embeddables_enabled", request, s.checker.CheckEmbeddablesEnabled)
}

func (s *MCPServer) handleEmbeddablesPlugin(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.runSessionCheck(ctx, "check_embeddables_plugin", request, s.checker.CheckEmbeddablesPlugin)
}

func (s *MCPServer) handleClientAccessPlugin(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.runSessionCheck(ctx, "check_client_access_plugin", request, s.checker.CheckClientAccessPlugin)
}

// runSessionCheck parses session-only arguments, resolves the session and
// runs a check that needs no further parameters.
func (s *MCPServer) runSessionCheck(
	ctx context.Context,
	tool string,
	request mcp.CallToolRequest,
	check func(context.Context, *servicenow.Session) (servicenow.CheckResult, error),
) (*mcp.CallToolResult, error) {
	var args CheckArgs
	if err := s.parseAndValidate(request.Params.Arguments, &args); err != nil {
		return s.createErrorResult(tool, err), nil
	}

	session, err := s.session(args.SessionID)
	if err != nil {
		return s.createErrorResult(tool, err), nil
	}

	result, err := check(ctx, session)
	if err != nil {
		return s.createErrorResult(tool, err), nil
	}
	return createJSONResult(result), nil
}

func (s *MCPServer) handleCORSRule(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args CORSCheckArgs
	if err := s.parseAndValidate(request.Params.Arguments, &args); err != nil {
		return s.createErrorResult("check_cors_rule", err), nil
	}

	session, err := s.session(args.SessionID)
	if err != nil {
		return s.createErrorResult("check_cors_rule", err), nil
	}

	result, err := s.checker.CheckCORSRule(ctx, session, args.Domain)
	if err != nil {
		return s.createErrorResult("check_cors_rule", err), nil
	}
	return createJSONResult(result), nil
}

func (s *MCPServer) handleEmbeddableActivation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args EmbeddableCheckArgs
	if err := s.parseAndValidate(request.Params.Arguments, &args); err != nil {
		return s.createErrorResult("check_embeddable_activated", err), nil
	}

	session, err := s.session(args.SessionID)
	if err != nil {
		return s.createErrorResult("check_embeddable_activated", err), nil
	}

	result, err := s.checker.CheckEmbeddablesActivated(ctx, session, args.MacroponentName)
	if err != nil {
		return s.createErrorResult("check_embeddable_activated", err), nil
	}
	return createJSONResult(result), nil
}
