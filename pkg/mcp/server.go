package mcp

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/xiyuan/servicenow-mcp/pkg/servicenow"
)

const (
	// ServerName and ServerVersion identify this server to MCP clients and
	// in the catalog endpoint.
	ServerName    = "ServiceNow Embedding Diagnostics"
	ServerVersion = "1.0.0"
)

// MCPServer exposes the diagnostic checks as MCP tools. Sessions are explicit
// objects held in a registry and referenced by id; no tool shares state with
// another except through a session it was handed.
type MCPServer struct {
	mcpServer  *server.MCPServer
	client     *servicenow.Client
	checker    *servicenow.Checker
	aggregator *servicenow.Aggregator
	logger     *zap.Logger
	validate   *validator.Validate

	mu       sync.RWMutex
	sessions map[string]*servicenow.Session

	tools []toolDefinition
}

// toolDefinition bundles a tool's MCP declaration with its handler and the
// output schema published by the catalog endpoint.
type toolDefinition struct {
	tool         mcp.Tool
	outputSchema map[string]interface{}
	handler      server.ToolHandlerFunc
}

// NewMCPServer creates the MCP server and registers all diagnostic tools.
func NewMCPServer(logger *zap.Logger) *MCPServer {
	if logger == nil {
		logger = zap.NewNop()
	}

	client := servicenow.NewClient(logger)
	checker := servicenow.NewChecker(client)

	s := &MCPServer{
		mcpServer: server.NewMCPServer(
			ServerName,
			ServerVersion,
			server.WithToolCapabilities(true),
		),
		client:     client,
		checker:    checker,
		aggregator: servicenow.NewAggregator(checker, logger),
		logger:     logger,
		validate:   validator.New(),
		sessions:   make(map[string]*servicenow.Session),
	}

	s.registerTools()
	return s
}

// GetServer returns the underlying MCP server.
func (s *MCPServer) GetServer() *server.MCPServer {
	return s.mcpServer
}

// registerTools declares every tool with its input schema and wires handlers.
func (s *MCPServer) registerTools() {
	s.tools = []toolDefinition{
		{
			tool: mcp.Tool{
				Name:        "connect_to_instance",
				Description: "Validate an instance URL, confirm credentials with one authenticated read and open a diagnostic session",
				InputSchema: mcp.ToolInputSchema{
					Type: "object",
					Properties: map[string]interface{}{
						"instance_url": map[string]interface{}{
							"type":        "string",
							"description": "ServiceNow instance URL, e.g. https://dev12345.service-now.com",
						},
						"username": map[string]interface{}{
							"type":        "string",
							"description": "Basic auth username",
						},
						"password": map[string]interface{}{
							"type":        "string",
							"description": "Basic auth password",
						},
					},
					Required: []string{"instance_url", "username", "password"},
				},
			},
			outputSchema: connectResultSchema,
			handler:      s.handleConnect,
		},
		{
			tool: mcp.Tool{
				Name:        "disconnect_from_instance",
				Description: "Discard a diagnostic session and the credentials it holds",
				InputSchema: mcp.ToolInputSchema{
					Type: "object",
					Properties: map[string]interface{}{
						"session_id": map[string]interface{}{
							"type":        "string",
							"description": "Session id returned by connect_to_instance",
						},
					},
					Required: []string{"session_id"},
				},
			},
			outputSchema: disconnectResultSchema,
			handler:      s.handleDisconnect,
		},
		{
			tool: mcp.Tool{
				Name:        "check_embeddables_enabled",
				Description: "Check whether the glide.uxf.lib.embeddables.enabled system property is set to true",
				InputSchema: sessionOnlySchema(),
			},
			outputSchema: checkResultSchema,
			handler:      s.handleEmbeddablesEnabled,
		},
		{
			tool: mcp.Tool{
				Name:        "check_embeddables_plugin",
				Description: "Check whether the UX Embeddables plugin (com.glide.ux.embeddables) is active",
				InputSchema: sessionOnlySchema(),
			},
			outputSchema: checkResultSchema,
			handler:      s.handleEmbeddablesPlugin,
		},
		{
			tool: mcp.Tool{
				Name:        "check_client_access_plugin",
				Description: "Check whether the Client Access plugin (com.glide.security.client_access) is active",
				InputSchema: sessionOnlySchema(),
			},
			outputSchema: checkResultSchema,
			handler:      s.handleClientAccessPlugin,
		},
		{
			tool: mcp.Tool{
				Name:        "check_cors_rule",
				Description: "Check whether an enabled CORS rule covers a domain, honoring scheme, port and wildcard-subdomain semantics",
				InputSchema: mcp.ToolInputSchema{
					Type: "object",
					Properties: map[string]interface{}{
						"session_id": map[string]interface{}{
							"type":        "string",
							"description": "Session id returned by connect_to_instance",
						},
						"domain": map[string]interface{}{
							"type":        "string",
							"description": "Embedding domain to check, e.g. app.example.com or https://app.example.com:8443",
						},
					},
					Required: []string{"session_id", "domain"},
				},
			},
			outputSchema: checkResultSchema,
			handler:      s.handleCORSRule,
		},
		{
			tool: mcp.Tool{
				Name:        "check_embeddable_activated",
				Description: "Inventory embeddable macroponent records and their activation status, optionally filtered by macroponent name prefix",
				InputSchema: mcp.ToolInputSchema{
					Type: "object",
					Properties: map[string]interface{}{
						"session_id": map[string]interface{}{
							"type":        "string",
							"description": "Session id returned by connect_to_instance",
						},
						"macroponent_name": map[string]interface{}{
							"type":        "string",
							"description": "Optional macroponent name prefix to filter on",
						},
					},
					Required: []string{"session_id"},
				},
			},
			outputSchema: checkResultSchema,
			handler:      s.handleEmbeddableActivation,
		},
		{
			tool: mcp.Tool{
				Name:        "run_full_diagnostic",
				Description: "Run all configuration checks in fixed order and report verdicts plus remediation recommendations",
				InputSchema: mcp.ToolInputSchema{
					Type: "object",
					Properties: map[string]interface{}{
						"session_id": map[string]interface{}{
							"type":        "string",
							"description": "Session id returned by connect_to_instance",
						},
						"domain": map[string]interface{}{
							"type":        "string",
							"description": "Embedding domain for the CORS rule check",
						},
					},
					Required: []string{"session_id", "domain"},
				},
			},
			outputSchema: diagnosticReportSchema,
			handler:      s.handleFullDiagnostic,
		},
	}

	for _, def := range s.tools {
		s.mcpServer.AddTool(def.tool, def.handler)
	}
}

func sessionOnlySchema() mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"session_id": map[string]interface{}{
				"type":        "string",
				"description": "Session id returned by connect_to_instance",
			},
		},
		Required: []string{"session_id"},
	}
}

// Session registry

func (s *MCPServer) storeSession(session *servicenow.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
}

func (s *MCPServer) session(id string) (*servicenow.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("unknown session_id %q, call connect_to_instance first", id)
	}
	return session, nil
}

func (s *MCPServer) dropSession(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

// Helper functions

func parseArgs(arguments interface{}, target interface{}) error {
	jsonData, err := json.Marshal(arguments)
	if err != nil {
		return fmt.Errorf("failed to marshal arguments: %w", err)
	}

	if err := json.Unmarshal(jsonData, target); err != nil {
		return fmt.Errorf("failed to parse arguments: %w", err)
	}

	return nil
}

// parseAndValidate decodes tool arguments into target and rejects anything
// that misses the struct's validate tags before a network call can happen.
func (s *MCPServer) parseAndValidate(arguments interface{}, target interface{}) error {
	if err := parseArgs(arguments, target); err != nil {
		return err
	}
	if err := s.validate.Struct(target); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func createTextResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: text,
			},
		},
		IsError: false,
	}
}

func createJSONResult(v interface{}) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.TextContent{Type: "text", Text: fmt.Sprintf("Error: %v", err)},
			},
			IsError: true,
		}
	}
	return createTextResult(string(data))
}

func (s *MCPServer) createErrorResult(tool string, err error) *mcp.CallToolResult {
	s.logger.Warn("tool execution failed",
		zap.String("tool", tool),
		zap.Error(err))
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: fmt.Sprintf("Error: %v", err),
			},
		},
		IsError: true,
	}
}
