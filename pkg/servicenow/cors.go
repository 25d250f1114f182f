package servicenow

import (
	"strconv"
	"strings"
)

// corsPattern is a parsed CORS rule domain or candidate origin. Rule domains
// in sys_cors_rule may carry a scheme, a port and a leading "*." wildcard;
// candidate origins may carry a scheme and a port.
type corsPattern struct {
	scheme   string // "" means unspecified
	host     string // lowercased, wildcard prefix removed
	port     string // "" means unspecified
	wildcard bool
}

// MatchesOrigin reports whether a CORS rule domain covers a candidate origin.
//
// Matching policy:
//   - A rule with a scheme matches only that scheme; a scheme-less rule
//     matches http and https alike. A scheme-less origin is treated as https.
//   - Hosts compare case-insensitively. "*.example.com" matches any proper
//     subdomain of example.com and never the apex "example.com" itself.
//   - A rule with a port matches only origins whose effective port equals it,
//     where an origin without an explicit port gets its scheme default
//     (443 for https, 80 for http). A port-less rule matches any port.
//
// An unparseable rule domain matches nothing.
func MatchesOrigin(ruleDomain, origin string) bool {
	rule, ok := parseCORSPattern(ruleDomain)
	if !ok {
		return false
	}
	cand, ok := parseCORSPattern(origin)
	if !ok || cand.wildcard {
		return false
	}
	if cand.scheme == "" {
		cand.scheme = "https"
	}

	if rule.scheme != "" && rule.scheme != cand.scheme {
		return false
	}

	if rule.wildcard {
		if !strings.HasSuffix(cand.host, "."+rule.host) {
			return false
		}
	} else if cand.host != rule.host {
		return false
	}

	if rule.port != "" && rule.port != effectivePort(cand) {
		return false
	}
	return true
}

func effectivePort(p corsPattern) string {
	if p.port != "" {
		return p.port
	}
	if p.scheme == "http" {
		return "80"
	}
	return "443"
}

// parseCORSPattern splits an entry like "https://*.example.com:8443/" into
// its scheme, host, port and wildcard flag.
func parseCORSPattern(raw string) (corsPattern, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "/")
	if s == "" {
		return corsPattern{}, false
	}

	var p corsPattern
	if i := strings.Index(s, "://"); i >= 0 {
		p.scheme = strings.ToLower(s[:i])
		s = s[i+3:]
		if p.scheme != "http" && p.scheme != "https" {
			return corsPattern{}, false
		}
	}

	if strings.HasPrefix(s, "*.") {
		p.wildcard = true
		s = s[2:]
	}

	if i := strings.LastIndex(s, ":"); i >= 0 {
		port := s[i+1:]
		if _, err := strconv.Atoi(port); err != nil {
			return corsPattern{}, false
		}
		p.port = port
		s = s[:i]
	}

	if s == "" || strings.ContainsAny(s, "/*:") {
		return corsPattern{}, false
	}
	p.host = strings.ToLower(s)
	return p, true
}
