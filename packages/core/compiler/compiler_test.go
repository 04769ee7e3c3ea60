package compiler

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"strings"
	"testing"

	"github.com/abdul-hamid-achik/hitsuite/packages/core/config"
	"github.com/abdul-hamid-achik/hitsuite/packages/core/definition"
	"github.com/abdul-hamid-achik/hitsuite/packages/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingHarness logs every registration and keeps test bodies by name.
type recordingHarness struct {
	events []string
	tests  map[string]TestFunc
	depth  int
}

func newRecordingHarness() *recordingHarness {
	return &recordingHarness{tests: map[string]TestFunc{}}
}

func (r *recordingHarness) record(format string, args ...any) {
	r.events = append(r.events, strings.Repeat("  ", r.depth)+fmt.Sprintf(format, args...))
}

func (r *recordingHarness) Suite(mode Mode, name string, body func()) {
	r.record("suite %s [%s]", name, mode)
	r.depth++
	body()
	r.depth--
}

func (r *recordingHarness) Test(mode Mode, name string, fn TestFunc) {
	r.record("test %s [%s]", name, mode)
	r.tests[name] = fn
}

func (r *recordingHarness) Before(definition.Hook)     { r.record("before") }
func (r *recordingHarness) BeforeEach(definition.Hook) { r.record("beforeEach") }
func (r *recordingHarness) After(definition.Hook)      { r.record("after") }
func (r *recordingHarness) AfterEach(definition.Hook)  { r.record("afterEach") }

func noop(context.Context) error { return nil }

func TestModeOf(t *testing.T) {
	assert.Equal(t, ModeRun, ModeOf(false, false))
	assert.Equal(t, ModeSkip, ModeOf(true, false))
	assert.Equal(t, ModeOnly, ModeOf(false, true))
	assert.Equal(t, ModeOnly, ModeOf(true, true))
}

func TestRun_RegistersTreeInOrder(t *testing.T) {
	tree := definition.Named(
		definition.Entry{Key: "Users", Suite: &definition.Suite{
			Before:     definition.Hooks{noop, noop},
			BeforeEach: definition.Hooks{noop},
			After:      definition.Hooks{noop},
			AfterEach:  definition.Hooks{noop},
			Tests: definition.Named(
				definition.Entry{Key: "List", Suite: &definition.Suite{
					Skip: true,
					Tests: definition.Cases(
						&definition.Test{Name: "first"},
						&definition.Test{Name: "second", Skip: true, Only: true},
					),
				}},
				definition.Entry{Key: "Create", Suite: &definition.Suite{
					Only:  true,
					Tests: definition.Cases(&definition.Test{Name: "third", Skip: true}),
				}},
			),
		}},
		definition.Entry{Key: "renamed-by-name", Suite: &definition.Suite{
			Name:  "Health",
			Tests: definition.Cases(),
		}},
	)

	h := newRecordingHarness()
	err := Run(context.Background(), h, http.NewClient(), &config.Config{}, tree)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"suite Users [run]",
		"  before",
		"  before",
		"  beforeEach",
		"  after",
		"  afterEach",
		"  suite List [skip]",
		"    test first [run]",
		"    test second [only]",
		"  suite Create [only]",
		"    test third [skip]",
		"suite Health [run]",
	}, h.events)
}

func TestCompile_MissingTestsFailsBeforeRegistration(t *testing.T) {
	tree := definition.Named(
		definition.Entry{Key: "Valid", Suite: &definition.Suite{Tests: definition.Cases(&definition.Test{Name: "ok"})}},
		definition.Entry{Key: "Outer", Suite: &definition.Suite{
			Tests: definition.Named(definition.Entry{Key: "Inner", Suite: &definition.Suite{}}),
		}},
	)

	h := newRecordingHarness()
	err := Run(context.Background(), h, http.NewClient(), nil, tree)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidDefinition))
	assert.Contains(t, err.Error(), "Outer > Inner")
	assert.Empty(t, h.events)
}

func TestCompile_EntryWithoutSuite(t *testing.T) {
	_, err := Compile(context.Background(), definition.Named(definition.Entry{Key: "Broken"}), nil)
	assert.ErrorIs(t, err, ErrInvalidDefinition)
}

func TestCompile_TopLevelList(t *testing.T) {
	nodes, err := Compile(context.Background(), definition.Cases(&definition.Test{Name: "a"}, nil, &definition.Test{Name: "b"}), nil)
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	test, ok := nodes[0].(*Test)
	require.True(t, ok)
	assert.Equal(t, "a", test.Name())
	assert.Equal(t, "a", test.Definition().Name)
}

func TestCompile_DeepNesting(t *testing.T) {
	tree := definition.Cases(&definition.Test{Name: "leaf"})
	for i := 0; i < 50; i++ {
		tree = definition.Named(definition.Entry{Key: fmt.Sprintf("level-%d", i), Suite: &definition.Suite{Tests: tree}})
	}

	nodes, err := Compile(context.Background(), tree, nil)
	require.NoError(t, err)

	depth := 0
	node := nodes[0]
	for {
		suite, ok := node.(*Suite)
		if !ok {
			break
		}
		depth++
		node = suite.Children()[0]
	}
	assert.Equal(t, 50, depth)
	assert.Equal(t, "leaf", node.Name())
}

func TestTest_BodyRunsPipelinePerExecution(t *testing.T) {
	hits := 0
	client := http.NewClient(http.WithHandler(stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		hits++
		assert.Equal(t, "/api/ping", r.URL.Path)
		w.WriteHeader(stdhttp.StatusNoContent)
	})))

	urlCalls := 0
	tree := definition.Cases(
		&definition.Test{
			Name: "ping",
			URL: definition.Producer(func() string {
				urlCalls++
				return "/ping"
			}),
			Expect: definition.ExpectValue(204),
		},
		&definition.Test{Name: "wrong status", URL: definition.Literal("/ping"), Expect: definition.ExpectValue(200)},
	)

	h := newRecordingHarness()
	require.NoError(t, Run(context.Background(), h, client, &config.Config{BaseURL: "/api"}, tree))
	assert.Equal(t, 0, hits)

	require.NoError(t, h.tests["ping"](context.Background()))
	require.NoError(t, h.tests["ping"](context.Background()))
	assert.Equal(t, 2, urlCalls)

	assert.Error(t, h.tests["wrong status"](context.Background()))
	assert.Equal(t, 3, hits)
}
