package servicenow

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// diagnosticOrder is the fixed sequence of checks in a full diagnostic run.
// Recommendations follow the same order.
var diagnosticOrder = []CheckName{
	CheckEmbeddablesEnabled,
	CheckEmbeddablesPlugin,
	CheckClientAccessPlugin,
	CheckCORSRule,
}

// remediations maps a failed check to its remediation text.
var remediations = map[CheckName]string{
	CheckEmbeddablesEnabled: fmt.Sprintf(
		"Set system property %s to true (System Definition > System Properties).", PropertyEmbeddablesEnabled),
	CheckEmbeddablesPlugin: fmt.Sprintf(
		"Activate the UX Embeddables plugin (%s) from the plugin manager.", PluginEmbeddables),
	CheckClientAccessPlugin: fmt.Sprintf(
		"Activate the Client Access plugin (%s) from the plugin manager.", PluginClientAccess),
	CheckCORSRule: "Create an enabled CORS rule for the embedding domain (System Web Services > REST > CORS Rules).",
}

// Aggregator runs every diagnostic check in a fixed sequence and synthesizes
// a recommendation list from the failures.
type Aggregator struct {
	checker *Checker
	logger  *zap.Logger
}

// NewAggregator creates an aggregator over a checker.
func NewAggregator(checker *Checker, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{checker: checker, logger: logger}
}

// RunFullDiagnostic runs the four configuration checks in fixed order and
// never aborts early: a check that cannot complete is recorded as a failed
// result carrying the error detail. The report always holds exactly one
// result per check, plus one recommendation per failed check in check order.
func (a *Aggregator) RunFullDiagnostic(ctx context.Context, s *Session, domain string) DiagnosticReport {
	report := DiagnosticReport{
		InstanceURL: s.InstanceURL,
		GeneratedAt: time.Now().UTC(),
	}

	for _, name := range diagnosticOrder {
		result, err := a.runCheck(ctx, s, name, domain)
		if err != nil {
			a.logger.Warn("diagnostic check did not complete",
				zap.String("check", string(name)),
				zap.Error(err))
			result = CheckResult{
				Check:  name,
				Passed: false,
				Detail: fmt.Sprintf("check did not complete: %v", err),
			}
		}
		report.Results = append(report.Results, result)
	}

	for _, result := range report.Results {
		if !result.Passed {
			report.Recommendations = append(report.Recommendations, remediations[result.Check])
		}
	}
	return report
}

func (a *Aggregator) runCheck(ctx context.Context, s *Session, name CheckName, domain string) (CheckResult, error) {
	switch name {
	case CheckEmbeddablesEnabled:
		return a.checker.CheckEmbeddablesEnabled(ctx, s)
	case CheckEmbeddablesPlugin:
		return a.checker.CheckEmbeddablesPlugin(ctx, s)
	case CheckClientAccessPlugin:
		return a.checker.CheckClientAccessPlugin(ctx, s)
	case CheckCORSRule:
		return a.checker.CheckCORSRule(ctx, s, domain)
	default:
		return CheckResult{}, validationErrorf("unknown check %q", name)
	}
}
