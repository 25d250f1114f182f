package servicenow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesOrigin(t *testing.T) {
	tests := []struct {
		name    string
		rule    string
		origin  string
		matches bool
	}{
		{"exact host", "example.com", "example.com", true},
		{"exact host with scheme", "https://example.com", "https://example.com", true},
		{"host mismatch", "example.com", "other.com", false},
		{"case insensitive hosts", "Example.COM", "example.com", true},

		{"wildcard matches subdomain", "*.example.com", "app.example.com", true},
		{"wildcard matches deep subdomain", "*.example.com", "a.b.example.com", true},
		{"wildcard does not match apex", "*.example.com", "example.com", false},
		{"wildcard does not match other domain", "*.example.com", "example.org", false},
		{"wildcard does not match suffix overlap", "*.example.com", "badexample.com", false},

		{"scheme-less rule matches http origin", "example.com", "http://example.com", true},
		{"scheme-less rule matches https origin", "example.com", "https://example.com", true},
		{"https rule rejects http origin", "https://example.com", "http://example.com", false},
		{"http rule rejects https origin", "http://example.com", "https://example.com", false},
		{"scheme-less origin treated as https", "https://example.com", "example.com", true},
		{"scheme-less origin rejected by http rule", "http://example.com", "example.com", false},

		{"rule port matches explicit origin port", "example.com:8443", "https://example.com:8443", true},
		{"rule port rejects other port", "example.com:8443", "https://example.com:9443", false},
		{"rule port matches https default", "example.com:443", "https://example.com", true},
		{"rule port matches http default", "example.com:80", "http://example.com", true},
		{"port-less rule matches any port", "example.com", "https://example.com:8443", true},

		{"trailing slash on rule", "https://example.com/", "https://example.com", true},
		{"trailing slash on origin", "example.com", "https://example.com/", true},

		{"invalid rule scheme", "ftp://example.com", "example.com", false},
		{"empty rule", "", "example.com", false},
		{"garbage port", "example.com:abc", "example.com", false},
		{"wildcard origin never matches", "*.example.com", "*.example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.matches, MatchesOrigin(tt.rule, tt.origin))
		})
	}
}
