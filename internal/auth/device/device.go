// Package device names the client behind a refresh session so a user can
// tell their signed-in devices apart.
package device

import (
	"strings"

	"github.com/mssola/useragent"
)

const (
	unknownDevice  = "Unknown Device"
	unknownBrowser = "Unknown Browser"
	unknownOS      = "Unknown OS"
)

// Label turns a User-Agent header into "<client> on <platform>", for example
// "Firefox on Linux x86_64" or "dispatchctl on Unknown OS".
func Label(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return unknownDevice
	}
	ua := useragent.New(header)

	// Tools such as dispatchctl send "product/version" with no Mozilla token.
	if ua.Mozilla() == "" {
		product, _, _ := strings.Cut(header, "/")
		product = strings.TrimSpace(product)
		if product == "" {
			return unknownDevice
		}
		return join(product, ua.OS(), unknownOS)
	}

	browser, _ := ua.Browser()
	platform := ua.OS()
	if ua.Mobile() && ua.Platform() != "" {
		platform = ua.Platform()
	}
	return join(or(browser, unknownBrowser), platform, unknownOS)
}

func join(client, platform, fallback string) string {
	return strings.TrimSpace(client) + " on " + strings.TrimSpace(or(platform, fallback))
}

func or(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
