package assertions

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strconv"

	"github.com/abdul-hamid-achik/hitsuite/packages/http"
	"github.com/tidwall/gjson"
)

// Operators reported in Result.Operator.
const (
	OpEquals     = "equals"
	OpMatches    = "matches"
	OpDeepEquals = "deep equals"
	OpCustom     = "satisfies"
)

type Result struct {
	Passed   bool
	Message  string
	Expected any
	Actual   any
	Subject  string
	Operator string
}

// Failure is the error returned by a failing assertion.
type Failure struct {
	Result *Result
}

func (f *Failure) Error() string {
	r := f.Result
	if r.Message != "" {
		return fmt.Sprintf("%s: %s", r.Subject, r.Message)
	}
	return fmt.Sprintf("%s: expected %v, got %v", r.Subject, r.Expected, r.Actual)
}

// Assertion is a single check of one response facet. It implements http.Check.
type Assertion struct {
	Subject  string
	Operator string
	Expected any

	actual  func(resp *http.Response) (any, error)
	compare func(actual, expected any) (bool, string)
}

// Evaluate runs the assertion without turning the outcome into an error.
func (a *Assertion) Evaluate(resp *http.Response) *Result {
	result := &Result{
		Subject:  a.Subject,
		Operator: a.Operator,
		Expected: a.Expected,
	}

	actual, err := a.actual(resp)
	if err != nil {
		result.Message = err.Error()
		return result
	}
	result.Actual = actual

	result.Passed, result.Message = a.compare(actual, a.Expected)
	return result
}

func (a *Assertion) Check(resp *http.Response) error {
	if result := a.Evaluate(resp); !result.Passed {
		return &Failure{Result: result}
	}
	return nil
}

// Status asserts the response status code.
func Status(expected any) *Assertion {
	return &Assertion{
		Subject:  "status",
		Operator: OpEquals,
		Expected: expected,
		actual: func(resp *http.Response) (any, error) {
			return resp.StatusCode, nil
		},
		compare: equals,
	}
}

// Header asserts a response header. A *regexp.Regexp matches the value, any
// other expected value is compared to it as a string.
func Header(name string, expected any) *Assertion {
	a := &Assertion{
		Subject:  "header " + name,
		Operator: OpEquals,
		Expected: expected,
		actual: func(resp *http.Response) (any, error) {
			if !resp.HasHeader(name) {
				return nil, fmt.Errorf("expected header %q, but it was not sent", name)
			}
			return resp.Header(name), nil
		},
		compare: func(actual, expected any) (bool, string) {
			return equals(actual, fmt.Sprint(expected))
		},
	}
	if _, ok := expected.(*regexp.Regexp); ok {
		a.Operator = OpMatches
		a.compare = matches
	}
	return a
}

// Body asserts the response body. A string is compared to the body text, a
// *regexp.Regexp is matched against it and any other value is deep-compared
// with the decoded JSON body.
func Body(expected any) *Assertion {
	a := &Assertion{
		Subject:  "body",
		Operator: OpEquals,
		Expected: expected,
		actual: func(resp *http.Response) (any, error) {
			return resp.BodyString(), nil
		},
		compare: equalsText,
	}

	switch expected.(type) {
	case string:
	case *regexp.Regexp:
		a.Operator = OpMatches
		a.compare = matches
	default:
		a.Operator = OpDeepEquals
		a.actual = func(resp *http.Response) (any, error) {
			return resp.BodyValue(), nil
		}
		a.compare = deepEquals
	}
	return a
}

// Func wraps a custom check.
func Func(fn func(resp *http.Response) error) *Assertion {
	return &Assertion{
		Subject:  "response",
		Operator: OpCustom,
		Expected: "custom check",
		actual: func(resp *http.Response) (any, error) {
			return resp, nil
		},
		compare: func(actual, _ any) (bool, string) {
			if err := fn(actual.(*http.Response)); err != nil {
				return false, err.Error()
			}
			return true, ""
		},
	}
}

// Literal builds the check for an unstructured expectation: integers assert the
// status, checks and check functions are used as they are, and anything else
// asserts the body.
func Literal(v any) http.Check {
	switch x := v.(type) {
	case http.Check:
		return x
	case func(*http.Response) error:
		return Func(x)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return Status(x)
	default:
		return Body(v)
	}
}

func equals(actual, expected any) (bool, string) {
	if reflect.DeepEqual(actual, expected) {
		return true, ""
	}

	actualNum, aOk := toFloat64(actual)
	expectedNum, eOk := toFloat64(expected)
	if aOk && eOk && actualNum == expectedNum {
		return true, ""
	}

	return false, fmt.Sprintf("expected %v, got %v", expected, actual)
}

func equalsText(actual, expected any) (bool, string) {
	if actual == expected {
		return true, ""
	}
	return false, fmt.Sprintf("expected %q, got %q", expected, actual)
}

func matches(actual, expected any) (bool, string) {
	re := expected.(*regexp.Regexp)
	actualStr := fmt.Sprintf("%v", actual)
	if re.MatchString(actualStr) {
		return true, ""
	}
	return false, fmt.Sprintf("expected %q to match %s", actualStr, re)
}

func deepEquals(actual, expected any) (bool, string) {
	want, err := normalize(expected)
	if err != nil {
		return false, err.Error()
	}
	if reflect.DeepEqual(actual, want) {
		return true, ""
	}
	return false, fmt.Sprintf("expected %s, got %s", render(want), render(actual))
}

// normalize round-trips v through JSON so it has the same shape as a decoded
// body: maps of any, float64 numbers.
func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("expected body is not JSON encodable: %w", err)
	}
	return gjson.ParseBytes(data).Value(), nil
}

func render(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}
