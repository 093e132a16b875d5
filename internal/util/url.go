package util

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// trackingParams are stripped from outbound links before they are stored.
var trackingParams = []string{
	"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content",
	"fbclid", "gclid", "mc_cid", "mc_eid",
}

// NormalizeURL strips tracking parameters and a trailing slash from an
// absolute http(s) URL.
func NormalizeURL(rawURL string) (string, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return rawURL, err
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" || parsedURL.Host == "" {
		return rawURL, fmt.Errorf("not an absolute http(s) url: %q", rawURL)
	}

	parsedURL.Host = strings.ToLower(parsedURL.Host)
	if len(parsedURL.Path) > 1 && strings.HasSuffix(parsedURL.Path, "/") {
		parsedURL.Path = parsedURL.Path[:len(parsedURL.Path)-1]
		// Clear RawPath to ensure String() regenerates the URL path without the trailing slash
		parsedURL.RawPath = ""
	}

	if parsedURL.RawQuery != "" {
		queryParams := parsedURL.Query()
		for _, param := range trackingParams {
			queryParams.Del(param)
		}
		parsedURL.RawQuery = queryParams.Encode()
	}
	return parsedURL.String(), nil
}

// GetDomain returns the registrable domain of a URL, e.g. "example.co.uk" for
// "https://shop.example.co.uk/item". It returns "" when there is none.
func GetDomain(rawURL string) string {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := parsedURL.Hostname()
	if host == "" {
		return ""
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return ""
	}
	return domain
}
