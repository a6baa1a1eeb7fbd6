package helpers

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/purell"
)

// query params which only identify the sharer or campaign, not the content
var trackingParams = []string{
	"fbclid",
	"gclid",
	"igshid",
	"mc_cid",
	"mc_eid",
	"ref",
	"ref_src",
	"s",
	"si",
	"utm_campaign",
	"utm_content",
	"utm_id",
	"utm_medium",
	"utm_source",
	"utm_term",
}

// Aggressively normalizes a URL found in post text, so the same link shared with different tracking params or casing compares equal. Returns an empty string when the text isn't a plausible web link (eg, a version number like "1.5").
func NormalizeURL(raw string) string {
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	clean, err := purell.NormalizeURLString(raw, purell.FlagsUsuallySafeGreedy|purell.FlagRemoveDirectoryIndex|purell.FlagRemoveFragment|purell.FlagRemoveDuplicateSlashes|purell.FlagRemoveWWW|purell.FlagSortQuery)
	if err != nil {
		return ""
	}
	u, err := url.Parse(clean)
	if err != nil || !plausibleHost(u.Hostname()) {
		return ""
	}
	if u.RawQuery != "" {
		params := u.Query()
		for _, p := range trackingParams {
			params.Del(p)
		}
		u.RawQuery = params.Encode()
	}
	return u.String()
}

// host needs at least two labels and an alphabetic top-level label
func plausibleHost(host string) bool {
	idx := strings.LastIndex(host, ".")
	if idx <= 0 {
		return false
	}
	tld := host[idx+1:]
	if len(tld) < 2 {
		return false
	}
	for _, r := range tld {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// Normalized, de-duplicated links in a post's text, in order of appearance.
func TextLinks(text string) []string {
	var out []string
	for _, raw := range ExtractTextURLs(text) {
		if u := NormalizeURL(raw); u != "" {
			out = append(out, u)
		}
	}
	return DedupeStrings(out)
}
