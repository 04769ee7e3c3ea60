package http

import (
	"context"
	"fmt"
)

// Check is a single expectation evaluated against a response.
type Check interface {
	Check(resp *Response) error
}

// CheckFunc adapts a function to Check.
type CheckFunc func(resp *Response) error

func (f CheckFunc) Check(resp *Response) error {
	return f(resp)
}

// Failure is passed to a FailureHandler when a call fails. Response is nil when
// the request itself failed.
type Failure struct {
	Err      error
	Response *Response
}

// FailureHandler observes failed calls. It cannot recover the failure.
type FailureHandler func(Failure)

// Call is a pending request: headers, body and expectations are chained onto it
// and nothing is sent until Do.
type Call struct {
	client   *Client
	request  *Request
	checks   []Check
	handlers []FailureHandler
	err      error
}

// Call starts a pending request for method and url.
func (c *Client) Call(method, url string) *Call {
	return &Call{
		client:  c,
		request: NewRequest(method, url),
	}
}

// Set adds a header. Non-string values are formatted with fmt.
func (c *Call) Set(name string, value any) *Call {
	c.request.SetHeader(name, fmt.Sprint(value))
	return c
}

// Send sets the request body, encoded with EncodeBody.
func (c *Call) Send(payload any) *Call {
	body, contentType, err := EncodeBody(payload)
	if err != nil {
		c.err = err
		return c
	}
	c.request.SetBody(body)
	if contentType != "" && c.request.Header("Content-Type") == "" {
		c.request.SetHeader("Content-Type", contentType)
	}
	return c
}

// Expect appends a check; checks run in registration order.
func (c *Call) Expect(check Check) *Call {
	c.checks = append(c.checks, check)
	return c
}

// Catch registers a handler invoked when the request or any check fails.
func (c *Call) Catch(h FailureHandler) *Call {
	c.handlers = append(c.handlers, h)
	return c
}

func (c *Call) Request() *Request {
	return c.request
}

func (c *Call) Checks() []Check {
	return c.checks
}

// Do sends the request and runs the checks, stopping at the first failure.
// Failure handlers see the error, which is still returned to the caller.
func (c *Call) Do(ctx context.Context) (*Response, error) {
	if c.err != nil {
		return nil, c.fail(c.err, nil)
	}

	resp, err := c.client.Do(ctx, c.request)
	if err != nil {
		return nil, c.fail(err, nil)
	}

	for _, check := range c.checks {
		if err := check.Check(resp); err != nil {
			return resp, c.fail(err, resp)
		}
	}
	return resp, nil
}

func (c *Call) fail(err error, resp *Response) error {
	for _, h := range c.handlers {
		h(Failure{Err: err, Response: resp})
	}
	return err
}
