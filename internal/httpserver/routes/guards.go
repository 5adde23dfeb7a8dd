package routes

import (
	"github.com/MrSnakeDoc/tuck/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tuck/internal/httpserver/mw"
)

func mwAllow(d deps.Deps) Middleware { return mw.AllowCIDRs(d.AllowedCIDRs, d.TrustProxy, d.Logger) }
func mwHost(d deps.Deps) Middleware  { return mw.EnforceHost(d.AllowedHosts, d.Logger) }
