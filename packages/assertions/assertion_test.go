package assertions

import (
	"context"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/hitsuite/packages/core/definition"
	"github.com/abdul-hamid-achik/hitsuite/packages/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createResponse(statusCode int, body string, headers map[string]string) *http.Response {
	if headers == nil {
		headers = make(map[string]string)
	}
	if _, ok := headers["Content-Type"]; !ok {
		headers["Content-Type"] = "application/json"
	}
	return &http.Response{
		StatusCode: statusCode,
		Headers:    headers,
		Body:       []byte(body),
		Duration:   100 * time.Millisecond,
	}
}

func TestStatus(t *testing.T) {
	resp := createResponse(201, `{}`, nil)

	assert.NoError(t, Status(201).Check(resp))
	assert.NoError(t, Status("201").Check(resp))
	assert.NoError(t, Status(201.0).Check(resp))

	err := Status(200).Check(resp)
	require.Error(t, err)
	var failure *Failure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, "status", failure.Result.Subject)
	assert.Equal(t, 200, failure.Result.Expected)
	assert.Equal(t, 201, failure.Result.Actual)
}

func TestHeader(t *testing.T) {
	resp := createResponse(200, `{}`, map[string]string{
		"Content-Type":   "application/json; charset=utf-8",
		"Content-Length": "2",
	})

	tests := []struct {
		name     string
		header   string
		expected any
		passed   bool
	}{
		{"exact match", "content-type", "application/json; charset=utf-8", true},
		{"mismatch", "Content-Type", "text/html", false},
		{"regexp", "Content-Type", regexp.MustCompile(`json`), true},
		{"regexp mismatch", "Content-Type", regexp.MustCompile(`^text/`), false},
		{"number formatted as string", "Content-Length", 2, true},
		{"missing header", "X-Request-Id", "abc", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Header(tt.header, tt.expected).Evaluate(resp)
			assert.Equal(t, tt.passed, result.Passed, result.Message)
		})
	}
}

func TestBody(t *testing.T) {
	resp := createResponse(200, `{"user": {"name": "John", "age": 30}, "tags": ["a"]}`, nil)

	tests := []struct {
		name     string
		expected any
		passed   bool
	}{
		{
			name:     "deep equal map",
			expected: map[string]any{"user": map[string]any{"name": "John", "age": 30}, "tags": []string{"a"}},
			passed:   true,
		},
		{
			name: "deep equal struct",
			expected: struct {
				User struct {
					Name string `json:"name"`
					Age  int    `json:"age"`
				} `json:"user"`
				Tags []string `json:"tags"`
			}{
				User: struct {
					Name string `json:"name"`
					Age  int    `json:"age"`
				}{Name: "John", Age: 30},
				Tags: []string{"a"},
			},
			passed: true,
		},
		{
			name:     "missing key fails",
			expected: map[string]any{"user": map[string]any{"name": "John"}, "tags": []string{"a"}},
			passed:   false,
		},
		{
			name:     "text",
			expected: `{"user": {"name": "John", "age": 30}, "tags": ["a"]}`,
			passed:   true,
		},
		{
			name:     "regexp",
			expected: regexp.MustCompile(`"name":\s*"John"`),
			passed:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Body(tt.expected).Evaluate(resp)
			assert.Equal(t, tt.passed, result.Passed, result.Message)
		})
	}
}

func TestBody_NotEncodable(t *testing.T) {
	result := Body(map[string]any{"ch": make(chan int)}).Evaluate(createResponse(200, `{}`, nil))
	assert.False(t, result.Passed)
	assert.Contains(t, result.Message, "not JSON encodable")
}

func TestLiteral(t *testing.T) {
	resp := createResponse(404, `not found`, map[string]string{"Content-Type": "text/plain"})

	assert.NoError(t, Literal(404).Check(resp))
	assert.Error(t, Literal(200).Check(resp))
	assert.NoError(t, Literal("not found").Check(resp))
	assert.NoError(t, Literal(regexp.MustCompile(`^not`)).Check(resp))

	custom := Literal(func(r *http.Response) error {
		if r.StatusCode != 404 {
			return errors.New("want 404")
		}
		return nil
	})
	assert.NoError(t, custom.Check(resp))

	check := http.CheckFunc(func(*http.Response) error { return errors.New("nope") })
	assert.EqualError(t, Literal(check).Check(resp), "nope")

	assert.IsType(t, &Assertion{}, Literal(map[string]any{"a": 1}))
}

func TestFunc_ReportsMessage(t *testing.T) {
	err := Func(func(*http.Response) error { return errors.New("bad token") }).Check(createResponse(200, ``, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad token")
}

func subjects(call *http.Call) []string {
	var out []string
	for _, check := range call.Checks() {
		out = append(out, check.(*Assertion).Subject)
	}
	return out
}

func TestApply_StructuredOrder(t *testing.T) {
	client := http.NewClient()
	expect := &definition.Expect{
		Headers: definition.NewFields("status", 201, "Content-Type", "application/json"),
		Body:    definition.ExpectBody(map[string]any{"ok": true}),
	}

	call := Apply(context.Background(), client.Call("POST", "/items"), expect, nil)

	assert.Equal(t, []string{"status", "header Content-Type", "body"}, subjects(call))
}

func TestApply_StatusCodeKey(t *testing.T) {
	client := http.NewClient()
	expect := &definition.Expect{Headers: definition.NewFields("Status-Code", 204)}

	call := Apply(context.Background(), client.Call("DELETE", "/items/1"), expect, nil)

	assert.Equal(t, []string{"status"}, subjects(call))
}

func TestApply_Literal(t *testing.T) {
	client := http.NewClient()

	call := Apply(context.Background(), client.Call("GET", "/"), definition.ExpectValue(200), nil)
	require.Len(t, call.Checks(), 1)

	none := Apply(context.Background(), client.Call("GET", "/"), nil, nil)
	assert.Empty(t, none.Checks())
}

func TestApply_Body(t *testing.T) {
	client := http.NewClient()

	skipped := Apply(context.Background(), client.Call("GET", "/"),
		&definition.Expect{Body: definition.ExpectBody(nil)}, nil)
	assert.Empty(t, skipped.Checks())

	calls := 0
	produced := Apply(context.Background(), client.Call("GET", "/"),
		&definition.Expect{Body: definition.ExpectBodyFunc(func() any {
			calls++
			return []any{1, 2}
		})}, nil)
	assert.Equal(t, []string{"body"}, subjects(produced))
	assert.Equal(t, 1, calls)
}

func TestApply_ErrorHandlerSeesFailureAndResponse(t *testing.T) {
	server := httptest.NewServer(stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(stdhttp.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "invalid"}`))
	}))
	defer server.Close()

	var seen []http.Failure
	handler := func(f http.Failure) { seen = append(seen, f) }

	client := http.NewClient(http.WithTarget(server.URL))
	expect := &definition.Expect{
		Headers: definition.NewFields("status", 200),
		Body:    definition.ExpectBody(map[string]any{"ok": true}),
	}

	_, err := Apply(context.Background(), client.Call("GET", "/"), expect, handler).Do(context.Background())

	require.Error(t, err)
	require.Len(t, seen, 1)
	assert.Same(t, err, seen[0].Err)
	require.NotNil(t, seen[0].Response)
	assert.Equal(t, 400, seen[0].Response.StatusCode)

	var failure *Failure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, "status", failure.Result.Subject)
}
