package utils

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// hostOnly strips an optional port and IPv6 brackets.
func hostOnly(s string) string {
	s = strings.TrimSpace(s)
	if h, _, err := net.SplitHostPort(s); err == nil {
		return h
	}
	return strings.Trim(s, "[]")
}

// ClientIP resolves the caller address. Forwarding headers are honored
// only with trustProxy, in the order X-Forwarded-For (left-most), X-Real-IP.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := hostOnly(first); ip != "" {
				return ip
			}
		}
		if ip := hostOnly(r.Header.Get("X-Real-IP")); ip != "" {
			return ip
		}
	}
	return hostOnly(r.RemoteAddr)
}

// PrefixSet matches addresses against a list of IPs and CIDRs.
// Invalid entries are returned by NewPrefixSet and otherwise ignored.
type PrefixSet struct {
	prefixes []netip.Prefix
}

func NewPrefixSet(list []string) (*PrefixSet, []string) {
	s := &PrefixSet{}
	var invalid []string
	for _, raw := range list {
		v := strings.TrimSpace(raw)
		if v == "" {
			continue
		}
		if p, err := netip.ParsePrefix(v); err == nil {
			s.prefixes = append(s.prefixes, p.Masked())
			continue
		}
		if a, err := netip.ParseAddr(v); err == nil {
			s.prefixes = append(s.prefixes, netip.PrefixFrom(a, a.BitLen()))
			continue
		}
		invalid = append(invalid, v)
	}
	return s, invalid
}

func (s *PrefixSet) Empty() bool { return len(s.prefixes) == 0 }

// Contains reports whether ip falls in any prefix. IPv4-mapped IPv6
// addresses are compared as IPv4.
func (s *PrefixSet) Contains(ip string) bool {
	a, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	a = a.Unmap()
	for _, p := range s.prefixes {
		if p.Contains(a) {
			return true
		}
	}
	return false
}
