package gotest

import (
	"context"
	"testing"

	"github.com/abdul-hamid-achik/hitsuite/packages/core/compiler"
	"github.com/abdul-hamid-achik/hitsuite/packages/core/config"
	"github.com/abdul-hamid-achik/hitsuite/packages/core/definition"
	"github.com/abdul-hamid-achik/hitsuite/packages/http"
)

type suite struct {
	name       string
	mode       compiler.Mode
	parent     *suite
	before     definition.Hooks
	beforeEach definition.Hooks
	after      definition.Hooks
	afterEach  definition.Hooks
	items      []any // *suite or *test
}

type test struct {
	name   string
	mode   compiler.Mode
	fn     compiler.TestFunc
	parent *suite
}

// harness records registrations; subtests are started once the whole tree is
// known so that only can be applied across suites.
type harness struct {
	root    *suite
	current *suite
	hasOnly bool
}

func (h *harness) Suite(mode compiler.Mode, name string, body func()) {
	s := &suite{name: name, mode: mode, parent: h.current}
	h.current.items = append(h.current.items, s)
	h.hasOnly = h.hasOnly || mode == compiler.ModeOnly

	prev := h.current
	h.current = s
	defer func() { h.current = prev }()
	body()
}

func (h *harness) Test(mode compiler.Mode, name string, fn compiler.TestFunc) {
	h.current.items = append(h.current.items, &test{name: name, mode: mode, fn: fn, parent: h.current})
	h.hasOnly = h.hasOnly || mode == compiler.ModeOnly
}

func (h *harness) Before(hook definition.Hook) {
	h.current.before = append(h.current.before, hook)
}

func (h *harness) BeforeEach(hook definition.Hook) {
	h.current.beforeEach = append(h.current.beforeEach, hook)
}

func (h *harness) After(hook definition.Hook) {
	h.current.after = append(h.current.after, hook)
}

func (h *harness) AfterEach(hook definition.Hook) {
	h.current.afterEach = append(h.current.afterEach, hook)
}

// Run compiles tree and runs every suite and test as a subtest of t. A
// compile error fails t before any subtest starts.
func Run(t *testing.T, client *http.Client, cfg *config.Config, tree *definition.Tests) {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if client == nil {
		client = http.NewClient(cfg.ClientOptions()...)
	}

	root := &suite{}
	h := &harness{root: root, current: root}
	if err := compiler.Run(context.Background(), h, client, cfg, tree); err != nil {
		t.Fatalf("compiling suite: %v", err)
	}

	r := &run{hasOnly: h.hasOnly}
	r.items(t, root, false, false)
}

type run struct {
	hasOnly bool
}

func (r *run) items(t *testing.T, s *suite, skipped, only bool) {
	for _, item := range s.items {
		switch n := item.(type) {
		case *suite:
			r.suite(t, n, skipped || n.mode == compiler.ModeSkip, only || n.mode == compiler.ModeOnly)
		case *test:
			r.test(t, n, skipped, only)
		}
	}
}

func (r *run) runnable(s *suite, skipped, only bool) bool {
	for _, item := range s.items {
		switch n := item.(type) {
		case *suite:
			if r.runnable(n, skipped || n.mode == compiler.ModeSkip, only || n.mode == compiler.ModeOnly) {
				return true
			}
		case *test:
			if reason := r.skipReason(n, skipped, only); reason == "" {
				return true
			}
		}
	}
	return false
}

func (r *run) skipReason(n *test, skipped, only bool) string {
	if skipped || n.mode == compiler.ModeSkip {
		return "skipped"
	}
	if r.hasOnly && !only && n.mode != compiler.ModeOnly {
		return "filtered out"
	}
	return ""
}

func (r *run) suite(t *testing.T, s *suite, skipped, only bool) {
	t.Run(s.name, func(t *testing.T) {
		if !r.runnable(s, skipped, only) {
			t.Skip("no runnable tests")
		}
		t.Cleanup(func() {
			if err := runHooks(s.after); err != nil {
				t.Errorf("\"after all\" hook: %v", err)
			}
		})
		if err := runHooks(s.before); err != nil {
			t.Fatalf("\"before all\" hook: %v", err)
		}
		r.items(t, s, skipped, only)
	})
}

func (r *run) test(t *testing.T, n *test, skipped, only bool) {
	t.Run(n.name, func(t *testing.T) {
		if reason := r.skipReason(n, skipped, only); reason != "" {
			t.Skip(reason)
		}

		var chain []*suite
		for s := n.parent; s != nil; s = s.parent {
			chain = append([]*suite{s}, chain...)
		}
		var err error
		for _, s := range chain {
			if err = runHooks(s.beforeEach); err != nil {
				t.Errorf("beforeEach hook: %v", err)
				break
			}
		}
		if err == nil {
			if err := n.fn(context.Background()); err != nil {
				t.Error(err)
			}
		}
		for i := len(chain) - 1; i >= 0; i-- {
			if err := runHooks(chain[i].afterEach); err != nil {
				t.Errorf("afterEach hook: %v", err)
			}
		}
	})
}

func runHooks(hooks definition.Hooks) error {
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		if err := hook(context.Background()); err != nil {
			return err
		}
	}
	return nil
}
