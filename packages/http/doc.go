// Package http provides the HTTP client used to execute hitsuite requests.
//
// It wraps the standard library's http package with:
//   - Configurable timeouts, redirects, TLS verification and proxies
//   - In-process targets that serve requests from an http.Handler
//   - Client-side rate limiting
//   - Call, a pending request with chained headers, body and expectations
//   - Response handling and JSON body access
package http
