// Package request turns one test definition into one or more HTTP calls.
//
// It provides functionality for:
//   - Merging the global configuration into a test's effective parameters
//   - Resolving auth into zero, one or several login flows
//   - Dispatching the call with headers, body and attached expectations
package request
