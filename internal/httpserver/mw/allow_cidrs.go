package mw

import (
	"net/http"

	"github.com/MrSnakeDoc/tuck/internal/logger"
	"github.com/MrSnakeDoc/tuck/internal/utils"
)

// AllowCIDRs rejects callers outside the allow-list with 403.
// An empty list lets everything through.
func AllowCIDRs(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	set, invalid := utils.NewPrefixSet(allowed)
	if len(invalid) > 0 {
		log.Warn("ignoring invalid allow-list entries", logger.Strings("entries", invalid))
	}
	if set.Empty() {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, trustProxy)
			if !set.Contains(ip) {
				log.Debug("caller rejected by allow-list", logger.String("ip", ip))
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
