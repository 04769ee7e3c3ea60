package request

import (
	"context"
	"math"

	"github.com/abdul-hamid-achik/hitsuite/packages/assertions"
	"github.com/abdul-hamid-achik/hitsuite/packages/http"
	"github.com/abdul-hamid-achik/hitsuite/packages/logging"
)

// DefaultVerb is used when a test does not name one.
const DefaultVerb = "GET"

// Build prepares the call for p: the URL and body producers are invoked here,
// headers are set in order, then the expectations are attached.
func Build(ctx context.Context, client *http.Client, p Params) *http.Call {
	verb := p.Verb
	if verb == "" {
		verb = DefaultVerb
	}
	url := p.URL.Resolve()

	logging.FromContext(ctx).WithComponent("request").WithRequest(verb, url).
		Debug("dispatching", "test", p.Name, "headers", len(p.Headers))

	call := client.Call(verb, url)
	for _, h := range p.Headers {
		call.Set(h.Name, h.Value)
	}

	if p.Body.IsSet() {
		if body := p.Body.Resolve(); !emptyBody(body) {
			call.Send(body)
		}
	}

	return assertions.Apply(ctx, call, p.Expect, p.Error)
}

// emptyBody reports whether body is a falsy scalar, which is never sent.
func emptyBody(body any) bool {
	switch v := body.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	case int:
		return v == 0
	case int64:
		return v == 0
	case float64:
		return v == 0 || math.IsNaN(v)
	default:
		return false
	}
}

// Dispatch builds and sends the call for p.
func Dispatch(ctx context.Context, client *http.Client, p Params) (*http.Response, error) {
	return Build(ctx, client, p).Do(ctx)
}
