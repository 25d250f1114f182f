package servicenow

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

// fakeInstance is an in-memory stand-in for the Table API endpoints the
// diagnostics read from.
type fakeInstance struct {
	properties  map[string]string // property name -> value
	plugins     map[string]string // plugin id -> status string
	corsRules   []CORSRuleRecord
	embeddables []EmbeddableRecord

	failStatus map[string]int  // table -> status code to force
	malformed  map[string]bool // table -> respond with invalid JSON

	user string // when set, basic auth is enforced
	pass string
}

func newFakeInstance() *fakeInstance {
	return &fakeInstance{
		properties: map[string]string{},
		plugins:    map[string]string{},
		failStatus: map[string]int{},
		malformed:  map[string]bool{},
	}
}

func (f *fakeInstance) start(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(ts.Close)
	return ts
}

func (f *fakeInstance) handle(w http.ResponseWriter, r *http.Request) {
	if f.user != "" {
		user, pass, ok := r.BasicAuth()
		if !ok || user != f.user || pass != f.pass {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
	}

	table := strings.TrimPrefix(r.URL.Path, "/api/now/table/")
	if status, ok := f.failStatus[table]; ok {
		w.WriteHeader(status)
		return
	}
	if f.malformed[table] {
		w.Write([]byte("{not json"))
		return
	}

	query := r.URL.Query().Get("sysparm_query")
	var result interface{}
	switch table {
	case "sys_properties":
		rows := []PropertyRecord{}
		name := strings.TrimPrefix(query, "name=")
		if query == "" {
			// connect probe: any row will do
			rows = append(rows, PropertyRecord{Name: "glide.buildname", Value: "test"})
		} else if value, ok := f.properties[name]; ok {
			rows = append(rows, PropertyRecord{Name: name, Value: value})
		}
		result = rows
	case "v_plugin":
		rows := []PluginRecord{}
		id := strings.TrimPrefix(query, "id=")
		if status, ok := f.plugins[id]; ok {
			rows = append(rows, PluginRecord{ID: id, Name: id, Active: status})
		}
		result = rows
	case "sys_cors_rule":
		result = f.corsRules
	case "sys_ux_embeddable_macroponent":
		rows := []EmbeddableRecord{}
		prefix := strings.TrimPrefix(query, "macroponent.nameSTARTSWITH")
		for _, rec := range f.embeddables {
			if query == "" || strings.HasPrefix(rec.Name, prefix) {
				rows = append(rows, rec)
			}
		}
		result = rows
	default:
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"result": result})
}

// testSession builds a session pointed at the fake instance, bypassing the
// https-only normalization that Connect applies to real URLs.
func testSession(baseURL string) *Session {
	return &Session{
		ID:          uuid.NewString(),
		InstanceURL: baseURL,
		CreatedAt:   time.Now().UTC(),
		username:    "admin",
		password:    "admin",
	}
}
