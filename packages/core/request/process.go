package request

import (
	"context"
	"fmt"

	"github.com/abdul-hamid-achik/hitsuite/packages/core/config"
	"github.com/abdul-hamid-achik/hitsuite/packages/core/definition"
	"github.com/abdul-hamid-achik/hitsuite/packages/http"
	"github.com/abdul-hamid-achik/hitsuite/packages/logging"
)

// Process runs one execution of test: auth is resolved once, the parameters
// are merged, and one call is made per identity. With several identities the
// calls run concurrently; responses are returned in identity order and the
// first failure is returned as soon as it happens.
func Process(ctx context.Context, client *http.Client, test *definition.Test, cfg *config.Config) ([]*http.Response, error) {
	params := Merge(test, cfg)

	var auth definition.Auth
	if test.Auth.IsSet() {
		auth = test.Auth.Resolve()
	}

	state := StateOf(auth)
	logging.FromContext(ctx).WithComponent("request").
		Debug("processing test", "test", test.Name, "auth", state.String())

	switch state {
	case SingleAuth:
		resp, err := authenticate(ctx, client, params, auth.Identities()[0], cfg)
		if err != nil {
			return nil, err
		}
		return []*http.Response{resp}, nil
	case MultiAuth:
		return processMulti(ctx, client, params, auth.Identities(), cfg)
	default:
		resp, err := Dispatch(ctx, client, params)
		if err != nil {
			return nil, err
		}
		return []*http.Response{resp}, nil
	}
}

// authenticate logs in as id and dispatches with its token as the
// Authorization header, replacing any configured value.
func authenticate(ctx context.Context, client *http.Client, p Params, id definition.Identity, cfg *config.Config) (*http.Response, error) {
	token, err := Login(ctx, client, id, cfg)
	if err != nil {
		return nil, err
	}
	p.Headers = p.Headers.With("Authorization", token)
	return Dispatch(ctx, client, p)
}

type flowResult struct {
	index int
	resp  *http.Response
	err   error
	panic any
}

func processMulti(ctx context.Context, client *http.Client, p Params, ids []definition.Identity, cfg *config.Config) ([]*http.Response, error) {
	// buffered so flows still running after an early return never block
	results := make(chan flowResult, len(ids))
	for i, id := range ids {
		go func(i int, id definition.Identity) {
			defer func() {
				if rec := recover(); rec != nil {
					results <- flowResult{index: i, panic: rec}
				}
			}()
			resp, err := authenticate(ctx, client, p, id, cfg)
			results <- flowResult{index: i, resp: resp, err: err}
		}(i, id)
	}

	responses := make([]*http.Response, len(ids))
	for range ids {
		r := <-results
		if r.panic != nil {
			// raised again on the caller's goroutine, as on the single-auth path
			panic(r.panic)
		}
		if r.err != nil {
			return nil, fmt.Errorf("identity %d: %w", r.index, r.err)
		}
		responses[r.index] = r.resp
	}
	return responses, nil
}
