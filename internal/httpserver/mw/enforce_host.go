package mw

import (
	"net"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/tuck/internal/logger"
)

// EnforceHost only serves requests whose Host header matches one of hosts.
// "*.example.com" matches any subdomain. Ports and case are ignored.
// An empty list lets everything through.
func EnforceHost(hosts []string, log logger.Logger) func(http.Handler) http.Handler {
	if len(hosts) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	patterns := make([]string, len(hosts))
	for i, h := range hosts {
		patterns[i] = strings.ToLower(stripPort(h))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := strings.ToLower(stripPort(r.Host))
			for _, p := range patterns {
				if matchHost(host, p) {
					next.ServeHTTP(w, r)
					return
				}
			}
			log.Debug("host rejected", logger.String("host", r.Host))
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})
	}
}

func matchHost(host, pattern string) bool {
	if suffix, ok := strings.CutPrefix(pattern, "*"); ok {
		return strings.HasSuffix(host, suffix) && len(host) > len(suffix)
	}
	return host == pattern
}

func stripPort(h string) string {
	if host, _, err := net.SplitHostPort(h); err == nil {
		return host
	}
	return h
}
