package runner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/abdul-hamid-achik/hitsuite/packages/core/compiler"
	"github.com/abdul-hamid-achik/hitsuite/packages/core/config"
	"github.com/abdul-hamid-achik/hitsuite/packages/core/definition"
	"github.com/abdul-hamid-achik/hitsuite/packages/core/env"
	"github.com/abdul-hamid-achik/hitsuite/packages/core/hooks"
	"github.com/abdul-hamid-achik/hitsuite/packages/http"
	"github.com/abdul-hamid-achik/hitsuite/packages/logging"
	"github.com/google/uuid"
)

// Skip reasons reported in TestResult.SkipReason.
const (
	SkipReasonSkipped    = "skipped"
	SkipReasonFiltered   = "filtered out"
	SkipReasonBeforeHook = "before hook failed"
)

// Names under which failing suite-level hooks are reported.
const (
	BeforeAllHookName = `"before all" hook`
	AfterAllHookName  = `"after all" hook`
)

type Runner struct {
	client *http.Client
	config *Config
	waited bool

	mu      sync.Mutex
	latency *latencyRecorder
}

type Config struct {
	// Global is shared read-only by every test.
	Global *config.Config
	// ClientOptions are applied after the options derived from Global.
	ClientOptions []http.ClientOption
	// Resolver binds {{...}} expressions in suite files; nil disables templates.
	Resolver   *env.Resolver
	Bail       bool
	NameFilter string
}

func NewRunner(cfg *Config) *Runner {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Global == nil {
		cfg.Global = config.DefaultConfig()
	}

	r := &Runner{
		config:  cfg,
		latency: newLatencyRecorder(),
	}

	clientOpts := append(cfg.Global.ClientOptions(), cfg.ClientOptions...)
	clientOpts = append(clientOpts, http.WithObserver(r.observe))
	r.client = http.NewClient(clientOpts...)

	return r
}

// Client returns the client every test of this runner shares.
func (r *Runner) Client() *http.Client {
	return r.client
}

func (r *Runner) observe(_ *http.Request, resp *http.Response, err error) {
	r.mu.Lock()
	recorder := r.latency
	r.mu.Unlock()

	if err != nil {
		recorder.Record(0, err)
		return
	}
	recorder.Record(resp.Duration, nil)
}

type RunResult struct {
	ID       string
	File     string
	Results  []*TestResult
	Duration time.Duration
	Passed   int
	Failed   int
	Skipped  int
	Latency  LatencyStats
}

// Success reports whether no test failed.
func (r *RunResult) Success() bool {
	return r.Failed == 0
}

type TestResult struct {
	Name       string
	Path       []string // enclosing suites, outermost first
	Passed     bool
	Skipped    bool
	SkipReason string
	Duration   time.Duration
	Error      error
}

// FullName joins the suite path and the test name.
func (t *TestResult) FullName() string {
	return strings.Join(append(append([]string(nil), t.Path...), t.Name), " > ")
}

// RunFile loads, binds and runs a suite file.
func (r *Runner) RunFile(ctx context.Context, path string) (*RunResult, error) {
	tree, err := definition.LoadFile(path, definition.WithResolver(r.config.Resolver))
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	hooks.Bind(tree, filepath.Dir(path), r.config.Resolver)

	result, err := r.Run(ctx, tree)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	result.File = path
	return result, nil
}

// Run compiles and registers tree, then executes the registered tests in
// order. A compile error is returned before any test runs. Run must not be
// called concurrently on the same Runner.
func (r *Runner) Run(ctx context.Context, tree *definition.Tests) (*RunResult, error) {
	log := logging.FromContext(ctx).WithComponent("runner")

	if err := r.waitForService(ctx); err != nil {
		return nil, err
	}

	c := newCollector()
	if err := compiler.Run(ctx, c, r.client, r.config.Global, tree); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.latency = newLatencyRecorder()
	recorder := r.latency
	r.mu.Unlock()

	e := &execution{
		runner:  r,
		ctx:     ctx,
		hasOnly: c.hasOnly,
		result:  &RunResult{ID: uuid.New().String()},
	}

	start := time.Now()
	e.runSuite(c.root, false, false)
	e.result.Duration = time.Since(start)
	e.result.Latency = recorder.Stats()

	log.Debug("run finished", "id", e.result.ID,
		"passed", e.result.Passed, "failed", e.result.Failed, "skipped", e.result.Skipped)
	return e.result, nil
}

// execution holds the state of one Run.
type execution struct {
	runner  *Runner
	ctx     context.Context
	hasOnly bool
	bailed  bool
	result  *RunResult
}

func (e *execution) add(res *TestResult) {
	e.result.Results = append(e.result.Results, res)
	switch {
	case res.Skipped:
		e.result.Skipped++
	case res.Passed:
		e.result.Passed++
	default:
		e.result.Failed++
		if e.runner.config.Bail {
			e.bailed = true
		}
	}
}

// selected decides whether a test runs. skipped and only carry the modes of
// the enclosing suites.
func (e *execution) selected(t *testNode, skipped, only bool) (bool, string) {
	if skipped || t.mode == compiler.ModeSkip {
		return false, SkipReasonSkipped
	}
	if e.hasOnly && !only && t.mode != compiler.ModeOnly {
		return false, SkipReasonFiltered
	}
	if filter := e.runner.config.NameFilter; filter != "" {
		full := strings.Join(append(t.parent.path(), t.name), " > ")
		if !matchesPattern(t.name, filter) && !matchesPattern(full, filter) {
			return false, SkipReasonFiltered
		}
	}
	return true, ""
}

func inherit(s *suiteNode, skipped, only bool) (bool, bool) {
	return skipped || s.mode == compiler.ModeSkip, only || s.mode == compiler.ModeOnly
}

// hasRunnable reports whether any test under s would run.
func (e *execution) hasRunnable(s *suiteNode, skipped, only bool) bool {
	for _, item := range s.items {
		switch n := item.(type) {
		case *suiteNode:
			childSkipped, childOnly := inherit(n, skipped, only)
			if e.hasRunnable(n, childSkipped, childOnly) {
				return true
			}
		case *testNode:
			if ok, _ := e.selected(n, skipped, only); ok {
				return true
			}
		}
	}
	return false
}

func (e *execution) runSuite(s *suiteNode, skipped, only bool) {
	skipped, only = inherit(s, skipped, only)

	if e.bailed {
		return
	}
	if !e.hasRunnable(s, skipped, only) {
		e.skipAll(s, skipped, only, "")
		return
	}

	if err := runHooks(e.ctx, s.before); err != nil {
		e.add(&TestResult{Name: BeforeAllHookName, Path: s.path(), Error: err})
		e.skipAll(s, skipped, only, SkipReasonBeforeHook)
	} else {
		for _, item := range s.items {
			if e.bailed {
				break
			}
			switch n := item.(type) {
			case *suiteNode:
				e.runSuite(n, skipped, only)
			case *testNode:
				e.runTest(n, skipped, only)
			}
		}
	}

	if err := runHooks(e.ctx, s.after); err != nil {
		e.add(&TestResult{Name: AfterAllHookName, Path: s.path(), Error: err})
	}
}

// skipAll records every test under s as skipped. An empty reason uses the
// test's own selection reason.
func (e *execution) skipAll(s *suiteNode, skipped, only bool, reason string) {
	for _, item := range s.items {
		switch n := item.(type) {
		case *suiteNode:
			childSkipped, childOnly := inherit(n, skipped, only)
			e.skipAll(n, childSkipped, childOnly, reason)
		case *testNode:
			why := reason
			if why == "" {
				_, why = e.selected(n, skipped, only)
			}
			e.add(&TestResult{Name: n.name, Path: n.parent.path(), Skipped: true, SkipReason: why})
		}
	}
}

func (e *execution) runTest(t *testNode, skipped, only bool) {
	res := &TestResult{Name: t.name, Path: t.parent.path()}
	if ok, reason := e.selected(t, skipped, only); !ok {
		res.Skipped = true
		res.SkipReason = reason
		e.add(res)
		return
	}

	log := logging.FromContext(e.ctx).WithTest(res.FullName())
	ctx := logging.WithLogger(e.ctx, log)

	var chain []*suiteNode
	for s := t.parent; s != nil; s = s.parent {
		chain = append([]*suiteNode{s}, chain...)
	}

	start := time.Now()
	var err error
	for _, s := range chain {
		if err = runHooks(ctx, s.beforeEach); err != nil {
			err = fmt.Errorf("beforeEach hook: %w", err)
			break
		}
	}
	if err == nil {
		err = safeCall(ctx, t.fn)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		if hookErr := runHooks(ctx, chain[i].afterEach); hookErr != nil && err == nil {
			err = fmt.Errorf("afterEach hook: %w", hookErr)
		}
	}
	res.Duration = time.Since(start)

	res.Passed = err == nil
	res.Error = err
	if err != nil {
		log.Debug("test failed", "error", err)
	}
	e.add(res)
}

func runHooks(ctx context.Context, hooks definition.Hooks) error {
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		if err := safeCall(ctx, compiler.TestFunc(hook)); err != nil {
			return err
		}
	}
	return nil
}

// ErrPanic wraps a panic raised by a test or hook.
var ErrPanic = errors.New("panic")

func safeCall(ctx context.Context, fn compiler.TestFunc) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, rec)
		}
	}()
	return fn(ctx)
}

func matchesPattern(name, pattern string) bool {
	if pattern == "" {
		return true
	}

	if pattern[0] == '*' && pattern[len(pattern)-1] == '*' && len(pattern) > 1 {
		return strings.Contains(name, pattern[1:len(pattern)-1])
	}

	if pattern[0] == '*' {
		return strings.HasSuffix(name, pattern[1:])
	}

	if pattern[len(pattern)-1] == '*' {
		return strings.HasPrefix(name, pattern[:len(pattern)-1])
	}

	return name == pattern
}
