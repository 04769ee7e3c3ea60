package definition

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_ProducerInvokedOnEveryResolve(t *testing.T) {
	calls := 0
	v := Producer(func() string {
		calls++
		return "/items"
	})

	assert.True(t, v.IsSet())
	assert.True(t, v.IsProducer())
	assert.Equal(t, "/items", v.Resolve())
	assert.Equal(t, "/items", v.Resolve())
	assert.Equal(t, 2, calls)
}

func TestValue_LiteralAndUnset(t *testing.T) {
	lit := Literal(42)
	assert.True(t, lit.IsSet())
	assert.False(t, lit.IsProducer())
	assert.Equal(t, 42, lit.Resolve())

	var unset Value[string]
	assert.False(t, unset.IsSet())
	assert.Equal(t, "", unset.Resolve())

	assert.False(t, Producer[string](nil).IsSet())
}

func TestMergeFields(t *testing.T) {
	tests := []struct {
		name     string
		base     Fields
		override Fields
		expected Fields
	}{
		{"both absent", nil, nil, nil},
		{"base only", NewFields("a", 1), nil, NewFields("a", 1)},
		{"override only", nil, NewFields("b", 2), NewFields("b", 2)},
		{"empty present", Fields{}, nil, Fields{}},
		{
			name:     "override wins in base position",
			base:     NewFields("a", 1, "b", 2),
			override: NewFields("c", 3, "a", 9),
			expected: NewFields("a", 9, "b", 2, "c", 3),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MergeFields(tt.base, tt.override))
		})
	}
}

func TestFields_WithDoesNotMutate(t *testing.T) {
	base := NewFields("a", 1)
	updated := base.With("a", 2)

	v, _ := base.Get("a")
	assert.Equal(t, 1, v)
	v, _ = updated.Get("a")
	assert.Equal(t, 2, v)
	assert.Equal(t, []string{"a"}, updated.Keys())
}

func TestAuth_IsZero(t *testing.T) {
	assert.True(t, Auth{}.IsZero())
	assert.True(t, Single(Token("")).IsZero())
	assert.False(t, Single(Token("tok")).IsZero())
	assert.False(t, Single(Credentials(nil)).IsZero())
	assert.False(t, Multi().IsZero())
	assert.True(t, Multi().IsMulti())
}

func TestExpect_Structured(t *testing.T) {
	var nilExpect *Expect
	assert.False(t, nilExpect.Structured())
	assert.False(t, ExpectValue(200).Structured())
	assert.True(t, (&Expect{Headers: Fields{}}).Structured())
	assert.True(t, (&Expect{Body: ExpectBody(nil)}).Structured())
}

func TestPattern(t *testing.T) {
	re, ok := Pattern("/^app/").(*regexp.Regexp)
	require.True(t, ok)
	assert.True(t, re.MatchString("application/json"))

	assert.Equal(t, "/", Pattern("/"))
	assert.Equal(t, "/items", Pattern("/items"))
	assert.Equal(t, "/[/", Pattern("/[/"))
	assert.Equal(t, 5, Pattern(5))
}

const suiteYAML = `
Users:
  tests:
    - name: list users
      verb: get
      url: /users
      headers:
        X-Trace: abc
        Accept: application/json
      auth: [admin-token, {email: a@b.c, password: pw}]
      expect:
        headers:
          status: 200
          Content-Type: /json/
        body: [{id: 1}]
    - name: create user
      verb: post
      url: /users
      body: {name: bob}
      auth: {email: a@b.c}
      expect: 201
  only: true
Admin:
  name: Administration
  before: ./seed.sh
  afterEach: [echo one, echo two]
  tests:
    Settings:
      tests: []
Broken: {}
`

func TestParse_PreservesOrderAndShapes(t *testing.T) {
	tests, err := Parse([]byte(suiteYAML))
	require.NoError(t, err)
	require.True(t, tests.IsNamed())

	entries := tests.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "Users", entries[0].Key)
	assert.Equal(t, "Admin", entries[1].Key)
	assert.Equal(t, "Broken", entries[2].Key)

	users := entries[0].Suite
	require.NotNil(t, users)
	assert.True(t, users.Only)
	cases := users.Tests.Cases()
	require.Len(t, cases, 2)

	list := cases[0]
	assert.Equal(t, "get", list.Verb)
	assert.Equal(t, "/users", list.URL.Resolve())
	assert.Equal(t, []string{"X-Trace", "Accept"}, list.Headers.Keys())

	auth := list.Auth.Resolve()
	require.True(t, auth.IsMulti())
	ids := auth.Identities()
	require.Len(t, ids, 2)
	assert.True(t, ids[0].IsToken())
	assert.Equal(t, "admin-token", ids[0].Token)
	assert.Equal(t, map[string]any{"email": "a@b.c", "password": "pw"}, ids[1].Credentials)

	require.True(t, list.Expect.Structured())
	assert.Equal(t, []string{"status", "Content-Type"}, list.Expect.Headers.Keys())
	ct, _ := list.Expect.Headers.Get("Content-Type")
	assert.IsType(t, &regexp.Regexp{}, ct)
	assert.Equal(t, []any{map[string]any{"id": 1}}, list.Expect.Body.Resolve())

	create := cases[1]
	assert.Equal(t, map[string]any{"name": "bob"}, create.Body.Resolve())
	assert.False(t, create.Auth.Resolve().IsMulti())
	assert.False(t, create.Expect.Structured())
	assert.Equal(t, 201, create.Expect.Value)

	admin := entries[1].Suite
	assert.Equal(t, "Administration", admin.Name)
	assert.Equal(t, CommandList{"./seed.sh"}, admin.Commands.Before)
	assert.Equal(t, CommandList{"echo one", "echo two"}, admin.Commands.AfterEach)
	assert.False(t, admin.Commands.IsZero())
	assert.True(t, users.Commands.IsZero())
	require.True(t, admin.Tests.IsNamed())
	assert.Equal(t, "Settings", admin.Tests.Entries()[0].Key)

	assert.Nil(t, entries[2].Suite.Tests)
}

func TestParse_Empty(t *testing.T) {
	tests, err := Parse(nil)
	require.NoError(t, err)
	assert.True(t, tests.IsNamed())
	assert.Empty(t, tests.Entries())
}

func TestParse_InvalidTopLevel(t *testing.T) {
	_, err := Parse([]byte(`just a string`))
	assert.Error(t, err)
}

func TestLoadFile_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suite.json")
	data := `{"Health": {"tests": [{"verb": "GET", "url": "/health", "expect": {"body": null}}]}}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	tests, err := LoadFile(path)
	require.NoError(t, err)

	test := tests.Entries()[0].Suite.Tests.Cases()[0]
	assert.Equal(t, "/health", test.URL.Resolve())
	require.True(t, test.Expect.Structured())
	assert.Nil(t, test.Expect.Body.Resolve())

	assert.True(t, IsSuiteFile(path))
	assert.False(t, IsSuiteFile("suite.txt"))
}
