package util

import (
	"net"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

const (
	hostLabel = `[\p{L}\p{N}](?:[\p{L}\p{N}\-]{0,61}[\p{L}\p{N}])?`
	topLevel  = `(?:xn--[a-z0-9\-]{1,59}|\p{L}{2,63})`
	ipv4Host  = `\d{1,3}(?:\.\d{1,3}){3}`
)

// webURLRe matches a whole web address: optional http(s) scheme with userinfo, a domain
// name or dotted IPv4 host, optional port and an optional path/query/fragment.
var webURLRe = regexp.MustCompile(`(?i)^` +
	`(?:https?://(?:[^\s/?#@]+@)?)?` +
	`((?:` + hostLabel + `\.)+` + topLevel + `|` + ipv4Host + `)` +
	`(?::(\d{1,5}))?` +
	`(?:[/?#]\S*)?$`)

var schemeRe = regexp.MustCompile(`(?i)^https?://`)

// IsWebURL reports whether s, taken verbatim, is a web URL.
func IsWebURL(s string) bool {
	m := webURLRe.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	host, port := m[1], m[2]
	if looksLikeIPv4(host) && net.ParseIP(host) == nil {
		return false
	}
	if port != "" {
		n, err := strconv.Atoi(port)
		if err != nil || n < 1 || n > 65535 {
			return false
		}
	}
	u, err := url.Parse(NormalizeWebURL(s))
	return err == nil && u.Host != ""
}

// NormalizeWebURL prefixes scheme-less web addresses with http://.
func NormalizeWebURL(s string) string {
	if schemeRe.MatchString(s) {
		return s
	}
	return "http://" + s
}

func looksLikeIPv4(host string) bool {
	return strings.Trim(host, "0123456789.") == ""
}
