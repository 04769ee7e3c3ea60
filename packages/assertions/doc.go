// Package assertions turns declarative expectations into response checks.
//
// Supported assertions:
//   - Status code checks (status: 201, or an integer literal)
//   - Header equality or regular expression match (Content-Type: /json/)
//   - Body text, regular expression or JSON deep equality
//   - Custom checks (func(*http.Response) error)
//
// Apply attaches the assertions of an expectation to a pending call in
// declaration order: status and headers first, then the body.
package assertions
