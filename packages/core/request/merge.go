package request

import (
	"github.com/abdul-hamid-achik/hitsuite/packages/core/config"
	"github.com/abdul-hamid-achik/hitsuite/packages/core/definition"
	"github.com/abdul-hamid-achik/hitsuite/packages/http"
)

// Params are the effective request parameters of a test after merging the
// global configuration. Absent facets stay zero.
type Params struct {
	Name    string
	Verb    string
	URL     definition.Value[string]
	Headers definition.Fields
	Body    definition.Value[any]
	Expect  *definition.Expect
	Error   http.FailureHandler
}

// Merge combines the global configuration with a test definition. Neither input
// is modified.
func Merge(test *definition.Test, cfg *config.Config) Params {
	if cfg == nil {
		cfg = &config.Config{}
	}

	p := Params{
		Name:    test.Name,
		Verb:    test.Verb,
		URL:     mergeURL(cfg.BaseURL, test.URL),
		Headers: MergeHeaders(cfg.Headers, test.Headers),
		Body:    test.Body,
		Expect:  MergeExpect(cfg.Expect, test.Expect),
		Error:   test.Error,
	}
	if p.Error == nil {
		p.Error = cfg.Error
	}
	return p
}

// mergeURL prefixes url with base by plain concatenation; no slash is added or
// removed. A producer stays lazy.
func mergeURL(base string, url definition.Value[string]) definition.Value[string] {
	if base == "" {
		return url
	}
	if url.IsProducer() {
		return definition.Producer(func() string { return base + url.Resolve() })
	}
	return definition.Literal(base + url.Resolve())
}

// MergeHeaders overlays the test headers on the global ones. The result is nil
// when both are nil.
func MergeHeaders(global, test definition.Fields) definition.Fields {
	return definition.MergeFields(global, test)
}

// MergeExpect overlays a test expectation on the global one. Expected headers
// merge per key with the test winning; the test body replaces the global body.
// A literal test expectation is used as it is.
func MergeExpect(global, test *definition.Expect) *definition.Expect {
	if test == nil {
		return global
	}
	if !test.Structured() || !global.Structured() {
		return test
	}

	merged := &definition.Expect{
		Headers: definition.MergeFields(global.Headers, test.Headers),
		Body:    global.Body,
	}
	if test.Body != nil {
		merged.Body = test.Body
	}
	return merged
}
