package servicenow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Checker runs individual diagnostic checks against an instance. Each check
// is a pure function of (session, parameters): it issues its reads, maps the
// rows into a verdict and never mutates the session.
//
// Absence is a definite answer, not an error: an unset property or missing
// plugin row yields passed=false with an explanatory detail. Only transport
// failures surface as errors.
type Checker struct {
	client *Client
}

// NewChecker creates a checker on top of a Table API client.
func NewChecker(client *Client) *Checker {
	return &Checker{client: client}
}

// CheckEmbeddablesEnabled reads the embeddables system property. An unset
// property defaults to disabled.
func (ch *Checker) CheckEmbeddablesEnabled(ctx context.Context, s *Session) (CheckResult, error) {
	prop, err := ch.client.GetProperty(ctx, s, PropertyEmbeddablesEnabled)
	if IsNotFound(err) {
		return CheckResult{
			Check:  CheckEmbeddablesEnabled,
			Passed: false,
			Detail: "property not set, defaults to disabled",
		}, nil
	}
	if err != nil {
		return CheckResult{}, err
	}

	passed := prop.Value == "true"
	detail := fmt.Sprintf("property %s is %q", PropertyEmbeddablesEnabled, prop.Value)
	return CheckResult{
		Check:  CheckEmbeddablesEnabled,
		Passed: passed,
		Detail: detail,
		Raw:    marshalRaw(prop),
	}, nil
}

// CheckEmbeddablesPlugin verifies that the UX Embeddables plugin is active.
func (ch *Checker) CheckEmbeddablesPlugin(ctx context.Context, s *Session) (CheckResult, error) {
	return ch.checkPlugin(ctx, s, CheckEmbeddablesPlugin, PluginEmbeddables)
}

// CheckClientAccessPlugin verifies that the Client Access plugin is active.
func (ch *Checker) CheckClientAccessPlugin(ctx context.Context, s *Session) (CheckResult, error) {
	return ch.checkPlugin(ctx, s, CheckClientAccessPlugin, PluginClientAccess)
}

func (ch *Checker) checkPlugin(ctx context.Context, s *Session, name CheckName, pluginID string) (CheckResult, error) {
	plugin, err := ch.client.GetPlugin(ctx, s, pluginID)
	if IsNotFound(err) {
		return CheckResult{
			Check:  name,
			Passed: false,
			Detail: fmt.Sprintf("plugin %s is not present on the instance", pluginID),
		}, nil
	}
	if err != nil {
		return CheckResult{}, err
	}

	passed := plugin.Active == "active"
	return CheckResult{
		Check:  name,
		Passed: passed,
		Detail: fmt.Sprintf("plugin %s status is %q", pluginID, plugin.Active),
		Raw:    marshalRaw(plugin),
	}, nil
}

// CheckCORSRule verifies that at least one enabled CORS rule covers the given
// domain, honoring scheme, port and wildcard-subdomain semantics.
func (ch *Checker) CheckCORSRule(ctx context.Context, s *Session, domain string) (CheckResult, error) {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return CheckResult{}, validationErrorf("domain is required for the CORS rule check")
	}

	rules, err := ch.client.ListCORSRules(ctx, s)
	if err != nil {
		return CheckResult{}, err
	}

	var matched []CORSRuleRecord
	for _, rule := range rules {
		if rule.Active == "true" && MatchesOrigin(rule.Domain, domain) {
			matched = append(matched, rule)
		}
	}

	if len(matched) == 0 {
		detail := fmt.Sprintf("no enabled CORS rule matches %q (%d rules inspected)", domain, len(rules))
		return CheckResult{Check: CheckCORSRule, Passed: false, Detail: detail}, nil
	}

	domains := make([]string, len(matched))
	for i, rule := range matched {
		domains[i] = rule.Domain
	}
	return CheckResult{
		Check:  CheckCORSRule,
		Passed: true,
		Detail: fmt.Sprintf("enabled CORS rule matches %q: %s", domain, strings.Join(domains, ", ")),
		Raw:    marshalRaw(matched),
	}, nil
}

// CheckEmbeddablesActivated inventories embeddable macroponent records,
// optionally filtered by macroponent name prefix. The verdict passes when at
// least one record exists and all of them are active.
func (ch *Checker) CheckEmbeddablesActivated(ctx context.Context, s *Session, nameFilter string) (CheckResult, error) {
	records, err := ch.client.ListEmbeddables(ctx, s, nameFilter)
	if err != nil {
		return CheckResult{}, err
	}

	active := 0
	for _, rec := range records {
		if rec.IsActive() {
			active++
		}
	}

	var detail string
	switch {
	case len(records) == 0 && nameFilter != "":
		detail = fmt.Sprintf("no embeddable records match %q", nameFilter)
	case len(records) == 0:
		detail = "no embeddable records found"
	default:
		detail = fmt.Sprintf("%d of %d embeddable records active", active, len(records))
	}

	return CheckResult{
		Check:  CheckEmbeddableActivation,
		Passed: len(records) > 0 && active == len(records),
		Detail: detail,
		Raw:    marshalRaw(records),
	}, nil
}

func marshalRaw(v interface{}) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return raw
}
