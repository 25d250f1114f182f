package servicenow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChecker() *Checker {
	return NewChecker(NewClient(nil))
}

func TestCheckEmbeddablesEnabled(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		set        bool
		wantPassed bool
		wantDetail string
	}{
		{"enabled", "true", true, true, `property glide.uxf.lib.embeddables.enabled is "true"`},
		{"disabled", "false", true, false, `property glide.uxf.lib.embeddables.enabled is "false"`},
		{"unset defaults to disabled", "", false, false, "property not set, defaults to disabled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeInstance()
			if tt.set {
				fake.properties[PropertyEmbeddablesEnabled] = tt.value
			}
			ts := fake.start(t)

			result, err := newTestChecker().CheckEmbeddablesEnabled(context.Background(), testSession(ts.URL))
			require.NoError(t, err)
			assert.Equal(t, CheckEmbeddablesEnabled, result.Check)
			assert.Equal(t, tt.wantPassed, result.Passed)
			assert.Equal(t, tt.wantDetail, result.Detail)
		})
	}
}

func TestCheckEmbeddablesEnabledRemoteFailure(t *testing.T) {
	fake := newFakeInstance()
	fake.failStatus["sys_properties"] = 500
	ts := fake.start(t)

	_, err := newTestChecker().CheckEmbeddablesEnabled(context.Background(), testSession(ts.URL))
	require.Error(t, err)
	assert.True(t, IsRemoteQuery(err))
}

func TestPluginChecks(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		registered bool
		wantPassed bool
	}{
		{"active plugin passes", "active", true, true},
		{"inactive plugin fails", "inactive", true, false},
		{"absent plugin fails without error", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeInstance()
			if tt.registered {
				fake.plugins[PluginEmbeddables] = tt.status
				fake.plugins[PluginClientAccess] = tt.status
			}
			ts := fake.start(t)
			session := testSession(ts.URL)
			checker := newTestChecker()

			embeddables, err := checker.CheckEmbeddablesPlugin(context.Background(), session)
			require.NoError(t, err)
			assert.Equal(t, CheckEmbeddablesPlugin, embeddables.Check)
			assert.Equal(t, tt.wantPassed, embeddables.Passed)

			clientAccess, err := checker.CheckClientAccessPlugin(context.Background(), session)
			require.NoError(t, err)
			assert.Equal(t, CheckClientAccessPlugin, clientAccess.Check)
			assert.Equal(t, tt.wantPassed, clientAccess.Passed)

			if !tt.registered {
				assert.Contains(t, embeddables.Detail, "not present")
			}
		})
	}
}

func TestCheckCORSRule(t *testing.T) {
	tests := []struct {
		name       string
		rules      []CORSRuleRecord
		domain     string
		wantPassed bool
	}{
		{
			"enabled exact rule passes",
			[]CORSRuleRecord{{Domain: "https://example.com", Active: "true"}},
			"example.com",
			true,
		},
		{
			"disabled rule fails",
			[]CORSRuleRecord{{Domain: "https://example.com", Active: "false"}},
			"example.com",
			false,
		},
		{
			"wildcard covers subdomain",
			[]CORSRuleRecord{{Domain: "*.example.com", Active: "true"}},
			"app.example.com",
			true,
		},
		{
			"wildcard does not cover apex",
			[]CORSRuleRecord{{Domain: "*.example.com", Active: "true"}},
			"example.com",
			false,
		},
		{
			"no rules at all",
			nil,
			"example.com",
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeInstance()
			fake.corsRules = tt.rules
			ts := fake.start(t)

			result, err := newTestChecker().CheckCORSRule(context.Background(), testSession(ts.URL), tt.domain)
			require.NoError(t, err)
			assert.Equal(t, CheckCORSRule, result.Check)
			assert.Equal(t, tt.wantPassed, result.Passed)
		})
	}
}

func TestCheckCORSRuleRequiresDomain(t *testing.T) {
	fake := newFakeInstance()
	ts := fake.start(t)

	_, err := newTestChecker().CheckCORSRule(context.Background(), testSession(ts.URL), "  ")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestCheckEmbeddablesActivated(t *testing.T) {
	fake := newFakeInstance()
	fake.embeddables = []EmbeddableRecord{
		{TagName: "sn-chat", Name: "chat_widget", Active: "true", SysID: "a1"},
		{TagName: "sn-kb", Name: "kb_widget", Active: "false", SysID: "a2"},
	}
	ts := fake.start(t)
	session := testSession(ts.URL)
	checker := newTestChecker()

	all, err := checker.CheckEmbeddablesActivated(context.Background(), session, "")
	require.NoError(t, err)
	assert.False(t, all.Passed)
	assert.Equal(t, "1 of 2 embeddable records active", all.Detail)

	filtered, err := checker.CheckEmbeddablesActivated(context.Background(), session, "chat")
	require.NoError(t, err)
	assert.True(t, filtered.Passed)
	assert.Equal(t, "1 of 1 embeddable records active", filtered.Detail)

	missing, err := checker.CheckEmbeddablesActivated(context.Background(), session, "nope")
	require.NoError(t, err)
	assert.False(t, missing.Passed)
	assert.Contains(t, missing.Detail, `no embeddable records match "nope"`)
}

func TestCheckIdempotence(t *testing.T) {
	fake := newFakeInstance()
	fake.properties[PropertyEmbeddablesEnabled] = "true"
	fake.plugins[PluginEmbeddables] = "active"
	ts := fake.start(t)
	session := testSession(ts.URL)
	checker := newTestChecker()

	first, err := checker.CheckEmbeddablesEnabled(context.Background(), session)
	require.NoError(t, err)
	second, err := checker.CheckEmbeddablesEnabled(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	firstPlugin, err := checker.CheckEmbeddablesPlugin(context.Background(), session)
	require.NoError(t, err)
	secondPlugin, err := checker.CheckEmbeddablesPlugin(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, firstPlugin, secondPlugin)
}
