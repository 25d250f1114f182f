package servicenow

import (
	"encoding/json"
	"time"
)

// CheckName identifies a diagnostic check
type CheckName string

const (
	CheckEmbeddablesEnabled   CheckName = "embeddables_enabled"
	CheckEmbeddablesPlugin    CheckName = "embeddables_plugin"
	CheckClientAccessPlugin   CheckName = "client_access_plugin"
	CheckCORSRule             CheckName = "cors_rule"
	CheckEmbeddableActivation CheckName = "embeddable_activation"
)

// Well-known configuration identifiers checked by the diagnostics.
const (
	PropertyEmbeddablesEnabled = "glide.uxf.lib.embeddables.enabled"
	PluginEmbeddables          = "com.glide.ux.embeddables"
	PluginClientAccess         = "com.glide.security.client_access"
)

// Session holds a validated instance origin and the credentials used to reach
// it. Sessions live in process memory only and are read-only after Connect.
type Session struct {
	ID          string    `json:"id"`
	InstanceURL string    `json:"instance_url"`
	CreatedAt   time.Time `json:"created_at"`

	username string
	password string
}

// CheckResult is the verdict of a single diagnostic check. A false verdict
// with a Detail is a definite answer, not a failure to answer.
type CheckResult struct {
	Check  CheckName       `json:"check"`
	Passed bool            `json:"passed"`
	Detail string          `json:"detail"`
	Raw    json.RawMessage `json:"raw_response,omitempty"`
}

// DiagnosticReport is the output of a full diagnostic run: one result per
// configuration check in fixed order, and one recommendation per failed check
// in the same order.
type DiagnosticReport struct {
	InstanceURL     string        `json:"instance_url"`
	Results         []CheckResult `json:"results"`
	Recommendations []string      `json:"recommendations"`
	GeneratedAt     time.Time     `json:"generated_at"`
}

// PropertyRecord is a sys_properties row.
type PropertyRecord struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PluginRecord is a v_plugin row. Active is the raw status string; ServiceNow
// reports "active" or "inactive" rather than a boolean.
type PluginRecord struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active string `json:"active"`
}

// CORSRuleRecord is a sys_cors_rule row. Active is the stringified boolean
// the Table API returns ("true"/"false").
type CORSRuleRecord struct {
	Domain string `json:"domain"`
	Active string `json:"active"`
}

// EmbeddableRecord is a sys_ux_embeddable_macroponent row.
type EmbeddableRecord struct {
	TagName string `json:"tag_name"`
	Name    string `json:"name,omitempty"`
	Active  string `json:"active"`
	SysID   string `json:"sys_id"`
}

// IsActive reports whether the embeddable record is activated.
func (r EmbeddableRecord) IsActive() bool {
	return r.Active == "true"
}
