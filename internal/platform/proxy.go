// SPDX-FileCopyrightText: 2025 The Pacsift Authors
// SPDX-License-Identifier: EUPL-1.2

package platform

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"
)

// GetHTTPClient returns an HTTP client configured with proxy settings.
// Respects HTTP_PROXY, HTTPS_PROXY, and NO_PROXY environment variables.
// A zero timeout leaves the deadline to the request context.
func GetHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
		},
	}
}

// GetProxyEnv returns proxy-related environment variables for passing to subprocesses.
// This ensures pacman and AUR helpers inherit proxy settings, even through sudo.
// Returns both uppercase and lowercase versions for maximum compatibility.
func GetProxyEnv() []string {
	var proxyEnv []string

	for _, name := range []string{"http_proxy", "https_proxy", "no_proxy"} {
		// Lowercase takes precedence per Unix convention.
		value := os.Getenv(name)
		if value == "" {
			value = os.Getenv(strings.ToUpper(name))
		}

		if value != "" {
			proxyEnv = append(proxyEnv, name+"="+value, strings.ToUpper(name)+"="+value)
		}
	}

	return proxyEnv
}

// GetProxyForURL returns the proxy the environment selects for targetURL,
// or "" when the request goes direct. NO_PROXY is honoured.
func GetProxyForURL(targetURL string) string {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, targetURL, nil)
	if err != nil {
		return ""
	}

	proxyURL, err := http.ProxyFromEnvironment(req)
	if err != nil || proxyURL == nil {
		return ""
	}

	return proxyURL.String()
}
