package compiler

import (
	"context"

	"github.com/abdul-hamid-achik/hitsuite/packages/core/config"
	"github.com/abdul-hamid-achik/hitsuite/packages/core/definition"
	"github.com/abdul-hamid-achik/hitsuite/packages/core/request"
	"github.com/abdul-hamid-achik/hitsuite/packages/http"
	"github.com/abdul-hamid-achik/hitsuite/packages/logging"
)

// Node is an executable suite or test. The set of implementations is closed:
// *Suite and *Test.
type Node interface {
	Name() string
	Mode() Mode
	Register(h Harness, client *http.Client)
	node()
}

// Suite is a named group with lifecycle hooks and ordered children.
type Suite struct {
	name       string
	mode       Mode
	before     definition.Hooks
	beforeEach definition.Hooks
	after      definition.Hooks
	afterEach  definition.Hooks
	children   []Node
}

func (s *Suite) Name() string { return s.name }
func (s *Suite) Mode() Mode { return s.mode }
func (s *Suite) Children() []Node { return s.children }
func (s *Suite) node() {}

// Register registers the suite; its body adds the hooks in declaration order,
// then the children.
func (s *Suite) Register(h Harness, client *http.Client) {
	h.Suite(s.mode, s.name, func() {
		for _, hook := range s.before {
			h.Before(hook)
		}
		for _, hook := range s.beforeEach {
			h.BeforeEach(hook)
		}
		for _, hook := range s.after {
			h.After(hook)
		}
		for _, hook := range s.afterEach {
			h.AfterEach(hook)
		}
		for _, child := range s.children {
			child.Register(h, client)
		}
	})
}

// Test runs one request pipeline per execution.
type Test struct {
	name string
	mode Mode
	def  *definition.Test
	cfg  *config.Config
}

func (t *Test) Name() string { return t.name }
func (t *Test) Mode() Mode { return t.mode }
func (t *Test) Definition() *definition.Test { return t.def }
func (t *Test) node() {}

// Register registers the test. Each execution builds a fresh pipeline.
func (t *Test) Register(h Harness, client *http.Client) {
	h.Test(t.mode, t.name, func(ctx context.Context) error {
		return t.Execute(ctx, client)
	})
}

// Execute runs the pipeline once and reports its outcome.
func (t *Test) Execute(ctx context.Context, client *http.Client) error {
	log := logging.FromContext(ctx).WithComponent("compiler")
	responses, err := request.Process(ctx, client, t.def, t.cfg)
	if err != nil {
		log.Debug("test failed", "test", t.name, "error", err)
		return err
	}
	log.Debug("test passed", "test", t.name, "responses", len(responses))
	return nil
}
