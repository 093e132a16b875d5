package util

import (
	"net/url"
	"strings"
)

// CleanReferralLink unwraps known affiliate redirectors to the merchant URL
// and, when amazonTag is set, stamps it on Amazon links. The boolean reports
// whether the link changed.
func CleanReferralLink(rawUrl, amazonTag string) (string, bool) {
	parsedUrl, err := url.Parse(rawUrl)
	if err != nil {
		return rawUrl, false
	}

	switch {
	case parsedUrl.Host == "click.linksynergy.com":
		return unwrapParam(rawUrl, parsedUrl, "murl")

	case parsedUrl.Host == "go.redirectingat.com":
		return unwrapParam(rawUrl, parsedUrl, "url")

	case strings.Contains(parsedUrl.Host, "amazon.") && amazonTag != "":
		queryParams := parsedUrl.Query()
		if queryParams.Get("tag") == amazonTag {
			return rawUrl, false
		}
		queryParams.Set("tag", amazonTag)
		parsedUrl.RawQuery = queryParams.Encode()
		return parsedUrl.String(), true

	default:
		return rawUrl, false
	}
}

func unwrapParam(rawUrl string, parsedUrl *url.URL, param string) (string, bool) {
	// Query() has already unescaped the value once.
	dest := parsedUrl.Query().Get(param)
	if dest == "" {
		return rawUrl, false
	}
	if decoded, err := url.QueryUnescape(dest); err == nil {
		dest = decoded
	}
	if u, err := url.Parse(dest); err != nil || u.Host == "" {
		return rawUrl, false
	}
	return dest, true
}
