package engine

import (
	"net/url"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// resourceTypes maps config names to rod protocol resource types.
var resourceTypes = map[string]proto.NetworkResourceType{
	"Image":      proto.NetworkResourceTypeImage,
	"Stylesheet": proto.NetworkResourceTypeStylesheet,
	"Font":       proto.NetworkResourceTypeFont,
	"Media":      proto.NetworkResourceTypeMedia,
	"Script":     proto.NetworkResourceTypeScript,
}

// trackerHosts are ad and analytics hosts that never contribute page text.
var trackerHosts = map[string]struct{}{
	"doubleclick.net":       {},
	"googlesyndication.com": {},
	"googleadservices.com":  {},
	"google-analytics.com":  {},
	"googletagmanager.com":  {},
	"googletagservices.com": {},
	"connect.facebook.net":  {},
	"adnxs.com":             {},
	"adsrvr.org":            {},
	"amazon-adsystem.com":   {},
	"criteo.com":            {},
	"outbrain.com":          {},
	"taboola.com":           {},
	"moatads.com":           {},
	"pubmatic.com":          {},
	"rubiconproject.com":    {},
	"scorecardresearch.com": {},
	"quantserve.com":        {},
	"hotjar.com":            {},
	"mixpanel.com":          {},
	"segment.io":            {},
	"chartbeat.com":         {},
	"optimizely.com":        {},
	"demdex.net":            {},
	"sharethis.com":         {},
	"addthis.com":           {},
	"consensu.org":          {},
}

// isTrackerHost reports whether host or any of its parent domains is a
// known tracker.
func isTrackerHost(host string) bool {
	host = strings.ToLower(host)
	for {
		if _, ok := trackerHosts[host]; ok {
			return true
		}
		idx := strings.IndexByte(host, '.')
		if idx < 0 {
			return false
		}
		host = host[idx+1:]
	}
}

// blockList is the set of requests a rendering tab refuses.
type blockList struct {
	types    map[proto.NetworkResourceType]struct{}
	trackers bool
}

func newBlockList(typeNames []string, trackers bool) blockList {
	bl := blockList{types: make(map[proto.NetworkResourceType]struct{}, len(typeNames)), trackers: trackers}
	for _, name := range typeNames {
		if rt, ok := resourceTypes[name]; ok {
			bl.types[rt] = struct{}{}
		}
	}
	return bl
}

func (bl blockList) empty() bool { return len(bl.types) == 0 && !bl.trackers }

func (bl blockList) blocks(rt proto.NetworkResourceType, rawURL string) bool {
	if _, ok := bl.types[rt]; ok {
		return true
	}
	if bl.trackers {
		if u, err := url.Parse(rawURL); err == nil && isTrackerHost(u.Hostname()) {
			return true
		}
	}
	return false
}

// hijack installs a request interceptor on page. The caller must Stop the
// returned router; nil means nothing is blocked.
func (bl blockList) hijack(page *rod.Page) *rod.HijackRouter {
	if bl.empty() {
		return nil
	}
	router := page.HijackRequests()
	_ = router.Add("*", "", func(h *rod.Hijack) {
		if bl.blocks(h.Request.Type(), h.Request.URL().String()) {
			h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		h.ContinueRequest(&proto.FetchContinueRequest{})
	})
	go router.Run()
	return router
}
