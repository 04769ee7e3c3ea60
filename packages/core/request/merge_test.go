package request

import (
	"testing"

	"github.com/abdul-hamid-achik/hitsuite/packages/core/config"
	"github.com/abdul-hamid-achik/hitsuite/packages/core/definition"
	"github.com/abdul-hamid-achik/hitsuite/packages/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_URL(t *testing.T) {
	cfg := &config.Config{BaseURL: "root/version/"}
	test := &definition.Test{URL: definition.Literal("some/url/")}

	p := Merge(test, cfg)
	assert.Equal(t, "root/version/some/url/", p.URL.Resolve())

	noSlash := Merge(&definition.Test{URL: definition.Literal("users")}, &config.Config{BaseURL: "/api"})
	assert.Equal(t, "/apiusers", noSlash.URL.Resolve())

	unchanged := Merge(test, &config.Config{})
	assert.Equal(t, "some/url/", unchanged.URL.Resolve())
}

func TestMerge_URLProducerStaysLazy(t *testing.T) {
	calls := 0
	test := &definition.Test{URL: definition.Producer(func() string {
		calls++
		return "/items"
	})}

	p := Merge(test, &config.Config{BaseURL: "/v2"})
	assert.Equal(t, 0, calls)
	assert.Equal(t, "/v2/items", p.URL.Resolve())
	assert.Equal(t, "/v2/items", p.URL.Resolve())
	assert.Equal(t, 2, calls)
}

func TestMergeHeaders(t *testing.T) {
	tests := []struct {
		name     string
		global   definition.Fields
		test     definition.Fields
		expected definition.Fields
	}{
		{"both absent", nil, nil, nil},
		{"global only", definition.NewFields("A", "1"), nil, definition.NewFields("A", "1")},
		{"test only", nil, definition.NewFields("B", "2"), definition.NewFields("B", "2")},
		{
			name:     "test wins per key",
			global:   definition.NewFields("A", "1", "B", "1"),
			test:     definition.NewFields("B", "2", "C", "3"),
			expected: definition.NewFields("A", "1", "B", "2", "C", "3"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MergeHeaders(tt.global, tt.test))
		})
	}
}

func TestMerge_Idempotent(t *testing.T) {
	cfg := &config.Config{Headers: definition.NewFields("X-Env", "test", "Accept", "text/plain")}
	test := &definition.Test{Headers: definition.NewFields("Accept", "application/json")}

	first := Merge(test, cfg)
	second := Merge(test, cfg)

	assert.Equal(t, first.Headers, second.Headers)
	assert.Equal(t, definition.NewFields("X-Env", "test", "Accept", "application/json"), first.Headers)
	assert.Equal(t, definition.NewFields("Accept", "application/json"), test.Headers)
	assert.Equal(t, definition.NewFields("X-Env", "test", "Accept", "text/plain"), cfg.Headers)
}

func TestMerge_ReMergeKeepsHeaders(t *testing.T) {
	cfg := &config.Config{
		Headers: definition.NewFields("X-Env", "test", "Accept", "text/plain"),
		Expect:  &definition.Expect{Headers: definition.NewFields("Content-Type", "application/json", "status", 200)},
	}
	test := &definition.Test{
		Headers: definition.NewFields("Accept", "application/json"),
		Expect:  &definition.Expect{Headers: definition.NewFields("status", 201)},
	}

	first := Merge(test, cfg)
	again := Merge(&definition.Test{Headers: first.Headers, Expect: first.Expect}, cfg)

	assert.Equal(t, first.Headers, again.Headers)
	require.NotNil(t, again.Expect)
	assert.Equal(t, first.Expect.Headers, again.Expect.Headers)
	assert.Equal(t, definition.NewFields("Content-Type", "application/json", "status", 201), again.Expect.Headers)
}

func TestMergeExpect(t *testing.T) {
	globalBody := definition.ExpectBody("global")
	global := &definition.Expect{
		Headers: definition.NewFields("Content-Type", "application/json", "status", 200),
		Body:    globalBody,
	}

	t.Run("both absent", func(t *testing.T) {
		assert.Nil(t, MergeExpect(nil, nil))
	})

	t.Run("global only", func(t *testing.T) {
		assert.Same(t, global, MergeExpect(global, nil))
	})

	t.Run("headers merge and body falls back", func(t *testing.T) {
		test := &definition.Expect{Headers: definition.NewFields("status", 201)}
		merged := MergeExpect(global, test)
		assert.Equal(t, definition.NewFields("Content-Type", "application/json", "status", 201), merged.Headers)
		assert.Same(t, globalBody, merged.Body)
	})

	t.Run("test body wins", func(t *testing.T) {
		testBody := definition.ExpectBody("mine")
		merged := MergeExpect(global, &definition.Expect{Body: testBody})
		assert.Same(t, testBody, merged.Body)
		assert.Equal(t, global.Headers, merged.Headers)
	})

	t.Run("literal test expectation kept", func(t *testing.T) {
		test := definition.ExpectValue(204)
		assert.Same(t, test, MergeExpect(global, test))
	})

	t.Run("literal global replaced by structured test", func(t *testing.T) {
		test := &definition.Expect{Headers: definition.NewFields("status", 201)}
		assert.Same(t, test, MergeExpect(definition.ExpectValue(200), test))
	})
}

func TestMerge_ErrorHandler(t *testing.T) {
	var calledGlobal, calledTest bool
	cfg := &config.Config{Error: func(http.Failure) { calledGlobal = true }}

	p := Merge(&definition.Test{}, cfg)
	require.NotNil(t, p.Error)
	p.Error(http.Failure{})
	assert.True(t, calledGlobal)

	p = Merge(&definition.Test{Error: func(http.Failure) { calledTest = true }}, cfg)
	p.Error(http.Failure{})
	assert.True(t, calledTest)

	assert.Nil(t, Merge(&definition.Test{}, nil).Error)
}
