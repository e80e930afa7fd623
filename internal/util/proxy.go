// Package util holds small shared helpers with no domain knowledge.
package util

import (
	"net/http"
	"net/url"
)

// ProxyFunc builds the transport proxy selector. Explicit configuration
// wins over the environment; with no explicit proxies the standard
// HTTP_PROXY/HTTPS_PROXY/NO_PROXY variables apply.
func ProxyFunc(httpProxy, httpsProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}
