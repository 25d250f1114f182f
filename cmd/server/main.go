package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/xiyuan/servicenow-mcp/pkg/mcp"
)

func main() {
	// Best-effort: a missing .env is fine
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "6060"
	}

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting ServiceNow diagnostics MCP server",
		zap.String("port", port))

	// Create MCP server
	mcpServer := mcp.NewMCPServer(logger)

	// Create HTTP handler
	mcpHandler := server.NewStreamableHTTPServer(mcpServer.GetServer())

	mux := http.NewServeMux()
	mux.Handle("/mcp", mcpHandler)

	// Tool catalog metadata endpoint
	mux.HandleFunc("/v0/mcp", mcpServer.CatalogHandler())

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK")
	})

	// Some MCP clients probe for OAuth discovery documents; answer with an
	// empty 204 so they fall back to plain requests.
	noContent := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
	mux.HandleFunc("/.well-known/oauth-authorization-server", noContent)
	mux.HandleFunc("/.well-known/oauth-protected-resource", noContent)

	// Root handler with info
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `
<!DOCTYPE html>
<html>
<head>
    <title>ServiceNow Embedding Diagnostics</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; }
        h1 { color: #333; }
        .info { background: #f0f0f0; padding: 20px; border-radius: 5px; }
        code { background: #e0e0e0; padding: 2px 6px; border-radius: 3px; }
    </style>
</head>
<body>
    <h1>ServiceNow Embedding Diagnostics</h1>
    <div class="info">
        <p><strong>Status:</strong> Running</p>
        <p><strong>MCP Endpoint:</strong> <code>http://localhost:%s/mcp</code></p>
        <p><strong>Tool Catalog:</strong> <code>http://localhost:%s/v0/mcp</code></p>
        <p><strong>Health Check:</strong> <code>http://localhost:%s/health</code></p>
    </div>
    <h2>Available Tools</h2>
    <ul>
        <li><strong>connect_to_instance</strong> - Validate credentials and open a diagnostic session</li>
        <li><strong>disconnect_from_instance</strong> - Discard a session and its credentials</li>
        <li><strong>check_embeddables_enabled</strong> - Check the embeddables system property</li>
        <li><strong>check_embeddables_plugin</strong> - Check the UX Embeddables plugin state</li>
        <li><strong>check_client_access_plugin</strong> - Check the Client Access plugin state</li>
        <li><strong>check_cors_rule</strong> - Check CORS coverage for an embedding domain</li>
        <li><strong>check_embeddable_activated</strong> - Inventory embeddable records and activation</li>
        <li><strong>run_full_diagnostic</strong> - Run every check and collect recommendations</li>
    </ul>
    <h2>Usage</h2>
    <p>Configure your MCP client to connect to this server at <code>http://localhost:%s/mcp</code></p>
</body>
</html>
`, port, port, port, port)
	})

	addr := fmt.Sprintf(":%s", port)
	logger.Info("server listening",
		zap.String("addr", addr),
		zap.String("mcp_endpoint", fmt.Sprintf("http://localhost%s/mcp", addr)),
		zap.String("catalog_endpoint", fmt.Sprintf("http://localhost%s/v0/mcp", addr)))

	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
