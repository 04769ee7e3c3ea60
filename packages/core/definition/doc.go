// Package definition holds the declarative data model of a hitsuite test suite.
//
// It provides:
//   - Suite and Test definitions with nested, named or anonymous tests
//   - Value, a literal-or-producer field resolved at the point of use
//   - Fields, an ordered header mapping with right-biased merging
//   - Auth identities (tokens or login credentials) and expectations
//   - YAML/JSON loading that preserves mapping key order
package definition
