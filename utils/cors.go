package utils

import (
	"net/netip"
	"net/url"
	"strings"
)

// privatePrefixes are loopback, RFC1918, link-local and unique-local ranges.
var privatePrefixes = []netip.Prefix{
	netip.MustParsePrefix("10.0.0.0/8"),
	netip.MustParsePrefix("172.16.0.0/12"),
	netip.MustParsePrefix("192.168.0.0/16"),
	netip.MustParsePrefix("127.0.0.0/8"),
	netip.MustParsePrefix("169.254.0.0/16"),
	netip.MustParsePrefix("::1/128"),
	netip.MustParsePrefix("fe80::/10"),
	netip.MustParsePrefix("fc00::/7"),
}

// OriginPolicy decides which browser origins may call the API. Local and
// private-network origins are always allowed; anything else must be listed.
type OriginPolicy struct {
	extra map[string]bool
}

// NewOriginPolicy allows the private network plus the given exact origins
// (scheme://host[:port]). "*" allows every origin.
func NewOriginPolicy(extra []string) *OriginPolicy {
	p := &OriginPolicy{extra: make(map[string]bool, len(extra))}
	for _, o := range extra {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" {
			p.extra[strings.ToLower(o)] = true
		}
	}
	return p
}

// Allowed reports whether an Origin header value should be trusted.
func (p *OriginPolicy) Allowed(origin string) bool {
	if origin == "" {
		return false
	}
	if p != nil && (p.extra["*"] || p.extra[strings.ToLower(origin)]) {
		return true
	}
	return IsAllowedOrigin(origin)
}

// IsAllowedOrigin reports whether origin is on the local or private network:
// localhost, private and link-local IPs, .local names and single-label
// hostnames. Public internet origins are rejected.
func IsAllowedOrigin(origin string) bool {
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}

	hostname := parsed.Hostname()
	switch {
	case hostname == "localhost":
		return true
	case strings.HasSuffix(hostname, ".local"):
		return true
	}

	if addr, err := netip.ParseAddr(hostname); err == nil {
		return isPrivateAddr(addr)
	}

	// Single-label names (no dots) only resolve on the LAN.
	return !strings.Contains(hostname, ".")
}

func isPrivateAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, prefix := range privatePrefixes {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}
