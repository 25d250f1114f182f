package servicenow

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// defaultTimeout bounds every Table API call. Calls are never retried.
const defaultTimeout = 10 * time.Second

// Client issues read requests against the ServiceNow Table API on behalf of a
// Session. The zero number of retries and the single shared http.Client are
// deliberate: diagnostics should observe the instance, not hammer it.
type Client struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a Table API client.
func NewClient(logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger,
	}
}

// NormalizeInstanceURL validates an instance URL and reduces it to an HTTPS
// origin. Bare hosts get an https scheme; explicit non-https schemes are
// rejected because credentials travel with every request. Paths, queries and
// trailing slashes are stripped.
func NormalizeInstanceURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", validationErrorf("instance_url is required")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", validationErrorf("instance_url %q is not a valid URL", raw)
	}
	if parsed.Scheme != "https" {
		return "", validationErrorf("instance_url must use https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", validationErrorf("instance_url %q has no host", raw)
	}

	return "https://" + parsed.Host, nil
}

// Connect validates the instance URL, then confirms the credentials with one
// lightweight authenticated read before handing back a Session. A Session is
// only ever returned on success.
func (c *Client) Connect(ctx context.Context, instanceURL, username, password string) (*Session, error) {
	origin, err := NormalizeInstanceURL(instanceURL)
	if err != nil {
		return nil, err
	}
	if username == "" || password == "" {
		return nil, validationErrorf("username and password are required")
	}

	session := &Session{
		ID:          uuid.NewString(),
		InstanceURL: origin,
		CreatedAt:   time.Now().UTC(),
		username:    username,
		password:    password,
	}

	// Probe with the cheapest authenticated read the Table API offers.
	probe := url.Values{"sysparm_limit": {"1"}}
	var envelope struct {
		Result []PropertyRecord `json:"result"`
	}
	if err := c.getRecords(ctx, session, "sys_properties", probe, &envelope); err != nil {
		return nil, err
	}

	c.logger.Info("connected to instance",
		zap.String("instance_url", origin),
		zap.String("session_id", session.ID))
	return session, nil
}

// GetProperty fetches a single sys_properties row by name.
func (c *Client) GetProperty(ctx context.Context, s *Session, name string) (*PropertyRecord, error) {
	params := url.Values{
		"sysparm_query":  {"name=" + name},
		"sysparm_fields": {"name,value"},
		"sysparm_limit":  {"1"},
	}

	var envelope struct {
		Result []PropertyRecord `json:"result"`
	}
	if err := c.getRecords(ctx, s, "sys_properties", params, &envelope); err != nil {
		return nil, err
	}
	if len(envelope.Result) == 0 {
		return nil, notFoundErrorf("system property %q is not set", name)
	}
	return &envelope.Result[0], nil
}

// GetPlugin fetches a single v_plugin row by plugin id.
func (c *Client) GetPlugin(ctx context.Context, s *Session, pluginID string) (*PluginRecord, error) {
	params := url.Values{
		"sysparm_query":  {"id=" + pluginID},
		"sysparm_fields": {"id,name,active"},
		"sysparm_limit":  {"1"},
	}

	var envelope struct {
		Result []PluginRecord `json:"result"`
	}
	if err := c.getRecords(ctx, s, "v_plugin", params, &envelope); err != nil {
		return nil, err
	}
	if len(envelope.Result) == 0 {
		return nil, notFoundErrorf("plugin %q is not registered", pluginID)
	}
	return &envelope.Result[0], nil
}

// ListCORSRules fetches every sys_cors_rule row. Matching against a candidate
// domain happens client-side so wildcard rules are honored.
func (c *Client) ListCORSRules(ctx context.Context, s *Session) ([]CORSRuleRecord, error) {
	params := url.Values{
		"sysparm_fields": {"domain,active"},
	}

	var envelope struct {
		Result []CORSRuleRecord `json:"result"`
	}
	if err := c.getRecords(ctx, s, "sys_cors_rule", params, &envelope); err != nil {
		return nil, err
	}
	return envelope.Result, nil
}

// ListEmbeddables fetches sys_ux_embeddable_macroponent rows, optionally
// filtered by macroponent name prefix.
func (c *Client) ListEmbeddables(ctx context.Context, s *Session, nameFilter string) ([]EmbeddableRecord, error) {
	params := url.Values{
		"sysparm_fields": {"tag_name,name,active,sys_id"},
	}
	if nameFilter != "" {
		params.Set("sysparm_query", "macroponent.nameSTARTSWITH"+nameFilter)
	}

	var envelope struct {
		Result []EmbeddableRecord `json:"result"`
	}
	if err := c.getRecords(ctx, s, "sys_ux_embeddable_macroponent", params, &envelope); err != nil {
		return nil, err
	}
	return envelope.Result, nil
}

// getRecords performs one authenticated Table API read and decodes the
// response envelope into target. Malformed bodies are a remote query error;
// nothing downstream ever sees raw JSON it did not ask for.
func (c *Client) getRecords(ctx context.Context, s *Session, table string, params url.Values, target interface{}) error {
	endpoint := fmt.Sprintf("%s/api/now/table/%s", s.InstanceURL, table)
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return remoteQueryError(err, "building request")
	}
	req.SetBasicAuth(s.username, s.password)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("table api request failed",
			zap.String("table", table),
			zap.Error(err))
		return remoteQueryError(err, fmt.Sprintf("querying table %s", table))
	}
	defer resp.Body.Close()

	c.logger.Debug("table api response",
		zap.String("table", table),
		zap.Int("status", resp.StatusCode))

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return authenticationErrorf("instance rejected credentials with HTTP %d", resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return remoteQueryErrorf("table %s returned HTTP %d", table, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return remoteQueryError(err, "reading response body")
	}
	if err := json.Unmarshal(body, target); err != nil {
		return remoteQueryError(err, fmt.Sprintf("decoding response from table %s", table))
	}
	return nil
}
