package util

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// ETLDPlusOne returns the registrable domain for the URL host using the
// public suffix list. IPv4 hosts and hosts that are themselves a public
// suffix are returned unchanged.
func ETLDPlusOne(u *url.URL) string {
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if looksLikeIPv4(host) {
		return host
	}
	base, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return base
}

// SameBaseDomain reports whether both URLs share a registrable domain. Unparseable input never matches.
func SameBaseDomain(a, b string) bool {
	ua, err := url.Parse(NormalizeWebURL(a))
	if err != nil || ua.Host == "" {
		return false
	}
	ub, err := url.Parse(NormalizeWebURL(b))
	if err != nil || ub.Host == "" {
		return false
	}
	return ETLDPlusOne(ua) == ETLDPlusOne(ub)
}
