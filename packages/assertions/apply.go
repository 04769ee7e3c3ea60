package assertions

import (
	"context"

	"github.com/abdul-hamid-achik/hitsuite/packages/core/definition"
	"github.com/abdul-hamid-achik/hitsuite/packages/http"
	"github.com/abdul-hamid-achik/hitsuite/packages/logging"
)

// Status header keys that assert the status code instead of a header.
var statusKeys = map[string]bool{
	"status":      true,
	"Status-Code": true,
}

// Apply attaches the assertions of expect to call and registers handler for
// failures. A body producer is invoked here, once per call. A nil literal body
// adds no assertion.
func Apply(ctx context.Context, call *http.Call, expect *definition.Expect, handler http.FailureHandler) *http.Call {
	log := logging.FromContext(ctx).WithComponent("assertions")

	if handler != nil {
		call.Catch(handler)
	}

	if expect == nil {
		return call
	}

	if !expect.Structured() {
		log.Debug("literal expectation", "value", expect.Value)
		return call.Expect(Literal(expect.Value))
	}

	for _, field := range expect.Headers {
		if statusKeys[field.Name] {
			call.Expect(Status(field.Value))
			continue
		}
		call.Expect(Header(field.Name, field.Value))
	}

	if body := expect.Body; body != nil {
		value := body.Resolve()
		if value != nil || body.IsProducer() {
			call.Expect(Body(value))
		}
	}

	log.Debug("expectations attached", "count", len(call.Checks()))
	return call
}
