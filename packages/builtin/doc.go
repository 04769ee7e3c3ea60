// Package builtin provides the generator functions available in suite file
// templates.
//
// Available functions:
//   - uuid(): random UUID v4
//   - now(), date(layout): current time formatted as RFC 3339 or a Go layout
//   - timestamp(), timestampMs(): current Unix time
//   - random(min, max): random integer in range
//   - randomString(length), randomEmail(): random test data
//   - base64(value): base64 encode a string
//
// Functions are invoked as {{uuid()}} inside url, body, header and auth values.
// Generated values change on every request.
package builtin
