package mcp

import (
	"encoding/json"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

// ToolSpec describes one tool in the catalog endpoint.
type ToolSpec struct {
	Name         string                 `json:"name"`
	Description  string                 `json:"description"`
	InputSchema  mcp.ToolInputSchema    `json:"input_schema"`
	OutputSchema map[string]interface{} `json:"output_schema"`
}

// Catalog is the payload served at /v0/mcp.
type Catalog struct {
	Name    string     `json:"name"`
	Version string     `json:"version"`
	Tools   []ToolSpec `json:"tools"`
}

// Catalog returns the full tool catalog.
func (s *MCPServer) Catalog() Catalog {
	catalog := Catalog{
		Name:    ServerName,
		Version: ServerVersion,
	}
	for _, def := range s.tools {
		catalog.Tools = append(catalog.Tools, ToolSpec{
			Name:         def.tool.Name,
			Description:  def.tool.Description,
			InputSchema:  def.tool.InputSchema,
			OutputSchema: def.outputSchema,
		})
	}
	return catalog
}

// CatalogHandler serves the tool catalog as JSON.
func (s *MCPServer) CatalogHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(s.Catalog()); err != nil {
			s.logger.Warn("failed to write catalog", zap.Error(err))
		}
	}
}

// Output schemas published by the catalog.

var checkResultSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"check": map[string]interface{}{
			"type":        "string",
			"description": "Name of the diagnostic check",
		},
		"passed": map[string]interface{}{
			"type":        "boolean",
			"description": "Verdict of the check",
		},
		"detail": map[string]interface{}{
			"type":        "string",
			"description": "Human-readable explanation of the verdict",
		},
		"raw_response": map[string]interface{}{
			"type":        "object",
			"description": "Raw rows the verdict was derived from, when available",
		},
	},
	"required": []string{"check", "passed", "detail"},
}

var diagnosticReportSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"instance_url": map[string]interface{}{
			"type": "string",
		},
		"results": map[string]interface{}{
			"type":        "array",
			"description": "One result per configuration check, in fixed order",
			"items":       checkResultSchema,
		},
		"recommendations": map[string]interface{}{
			"type":        "array",
			"description": "One remediation per failed check, in check order",
			"items":       map[string]interface{}{"type": "string"},
		},
		"generated_at": map[string]interface{}{
			"type": "string",
		},
	},
	"required": []string{"instance_url", "results", "recommendations"},
}

var connectResultSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"session_id": map[string]interface{}{
			"type":        "string",
			"description": "Opaque id referencing the session in later calls",
		},
		"instance_url": map[string]interface{}{
			"type":        "string",
			"description": "Normalized HTTPS origin of the instance",
		},
		"message": map[string]interface{}{
			"type": "string",
		},
	},
	"required": []string{"session_id", "instance_url"},
}

var disconnectResultSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"session_id": map[string]interface{}{
			"type": "string",
		},
		"disconnected": map[string]interface{}{
			"type":        "boolean",
			"description": "False when the session id was not known",
		},
	},
	"required": []string{"session_id", "disconnected"},
}
