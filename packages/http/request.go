package http

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Header is a single request header; request headers keep insertion order.
type Header struct {
	Name  string
	Value string
}

type Request struct {
	Method  string
	URL     string
	Headers []Header
	Body    []byte
	Timeout time.Duration
}

func NewRequest(method, requestURL string) *Request {
	return &Request{
		Method: strings.ToUpper(method),
		URL:    requestURL,
	}
}

// SetHeader sets a header, replacing an existing one with the same name.
func (r *Request) SetHeader(key, value string) *Request {
	for i := range r.Headers {
		if strings.EqualFold(r.Headers[i].Name, key) {
			r.Headers[i].Value = value
			return r
		}
	}
	r.Headers = append(r.Headers, Header{Name: key, Value: value})
	return r
}

func (r *Request) Header(key string) string {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Name, key) {
			return h.Value
		}
	}
	return ""
}

func (r *Request) SetBody(body []byte) *Request {
	r.Body = body
	return r
}

func (r *Request) SetTimeout(d time.Duration) *Request {
	r.Timeout = d
	return r
}

// EncodeBody serializes a payload. Strings and byte slices are sent as is,
// anything else as JSON. The returned content type is empty for raw bodies.
func EncodeBody(payload any) ([]byte, string, error) {
	switch v := payload.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		return v, "", nil
	case string:
		return []byte(v), "", nil
	case json.RawMessage:
		return v, "application/json", nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("encoding request body: %w", err)
	}
	return data, "application/json", nil
}
