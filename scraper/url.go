package scraper

import (
	"net/netip"
	"net/url"
	"regexp"
	"strings"

	"github.com/use-agent/geolens/models"
)

// reScheme matches an explicit scheme at the start of a URL.
var reScheme = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)

// NormalizeURL trims raw, defaults the scheme to https and validates the
// result. Loopback, private and link-local hosts are rejected unless
// allowPrivate is set.
func NormalizeURL(raw string, allowPrivate bool) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", models.NewAuditError(models.ErrCodeInvalidInput, "URL is required", nil)
	}
	if !reScheme.MatchString(raw) {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", models.NewAuditError(models.ErrCodeInvalidInput, "invalid URL", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", models.NewAuditError(models.ErrCodeInvalidInput, "only http and https URLs are supported", nil)
	}
	if u.Hostname() == "" {
		return "", models.NewAuditError(models.ErrCodeInvalidInput, "URL has no host", nil)
	}
	if !allowPrivate && isPrivateHost(u.Hostname()) {
		return "", models.NewAuditError(models.ErrCodeInvalidInput, "Private or internal URLs are not allowed", nil)
	}
	return u.String(), nil
}

// isPrivateHost reports whether host names the local machine or a
// non-public network. Names are not resolved.
func isPrivateHost(host string) bool {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if host == "localhost" || strings.HasSuffix(host, ".localhost") || strings.HasSuffix(host, ".local") {
		return true
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	return addr.IsLoopback() || addr.IsPrivate() || addr.IsLinkLocalUnicast() || addr.IsUnspecified()
}
