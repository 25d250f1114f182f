package mcp

import (
	"fmt"
	"strings"

	"github.com/xiyuan/servicenow-mcp/pkg/servicenow"
)

// FormatDiagnosticReport renders a full diagnostic report as markdown.
func FormatDiagnosticReport(report servicenow.DiagnosticReport) string {
	var output strings.Builder

	output.WriteString("# Embedding Diagnostic Report\n\n")
	output.WriteString(fmt.Sprintf("**Instance:** %s\n", report.InstanceURL))
	output.WriteString(fmt.Sprintf("**Generated:** %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05")))

	passed := 0
	for _, result := range report.Results {
		if result.Passed {
			passed++
		}
	}
	output.WriteString(fmt.Sprintf("**Checks passed:** %d / %d\n\n", passed, len(report.Results)))

	output.WriteString("## Checks\n\n")
	for i, result := range report.Results {
		output.WriteString(fmt.Sprintf("%d. %s **%s** — %s\n", i+1, verdictIcon(result.Passed), checkTitle(result.Check), result.Detail))
	}

	if len(report.Recommendations) > 0 {
		output.WriteString(fmt.Sprintf("\n## Recommendations (%d)\n\n", len(report.Recommendations)))
		for _, rec := range report.Recommendations {
			output.WriteString(fmt.Sprintf("- %s\n", rec))
		}
	} else {
		output.WriteString("\nAll checks passed. The instance is ready for embedding.\n")
	}

	return output.String()
}

func verdictIcon(passed bool) string {
	if passed {
		return "✅"
	}
	return "❌"
}

func checkTitle(name servicenow.CheckName) string {
	switch name {
	case servicenow.CheckEmbeddablesEnabled:
		return "Embeddables property"
	case servicenow.CheckEmbeddablesPlugin:
		return "UX Embeddables plugin"
	case servicenow.CheckClientAccessPlugin:
		return "Client Access plugin"
	case servicenow.CheckCORSRule:
		return "CORS rule"
	case servicenow.CheckEmbeddableActivation:
		return "Embeddable activation"
	default:
		return string(name)
	}
}
