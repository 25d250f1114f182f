package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

// ConnectArgs holds arguments for the connect_to_instance tool
type ConnectArgs struct {
	InstanceURL string `json:"instance_url" validate:"required"`
	Username    string `json:"username" validate:"required"`
	Password    string `json:"password" validate:"required"`
}

// DisconnectArgs holds arguments for the disconnect_from_instance tool
type DisconnectArgs struct {
	SessionID string `json:"session_id" validate:"required"`
}

// ConnectResult is returned by connect_to_instance. Credentials are never
// echoed back.
type ConnectResult struct {
	SessionID   string `json:"session_id"`
	InstanceURL string `json:"instance_url"`
	Message     string `json:"message"`
}

// DisconnectResult is returned by disconnect_from_instance.
type DisconnectResult struct {
	SessionID    string `json:"session_id"`
	Disconnected bool   `json:"disconnected"`
}

func (s *MCPServer) handleConnect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args ConnectArgs
	if err := s.parseAndValidate(request.Params.Arguments, &args); err != nil {
		return s.createErrorResult("connect_to_instance", err), nil
	}

	session, err := s.client.Connect(ctx, args.InstanceURL, args.Username, args.Password)
	if err != nil {
		return s.createErrorResult("connect_to_instance", err), nil
	}

	s.storeSession(session)
	return createJSONResult(ConnectResult{
		SessionID:   session.ID,
		InstanceURL: session.InstanceURL,
		Message:     "connected",
	}), nil
}

func (s *MCPServer) handleDisconnect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args DisconnectArgs
	if err := s.parseAndValidate(request.Params.Arguments, &args); err != nil {
		return s.createErrorResult("disconnect_from_instance", err), nil
	}

	dropped := s.dropSession(args.SessionID)
	if dropped {
		s.logger.Info("session disconnected", zap.String("session_id", args.SessionID))
	}
	return createJSONResult(DisconnectResult{
		SessionID:    args.SessionID,
		Disconnected: dropped,
	}), nil
}
