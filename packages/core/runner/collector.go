package runner

import (
	"github.com/abdul-hamid-achik/hitsuite/packages/core/compiler"
	"github.com/abdul-hamid-achik/hitsuite/packages/core/definition"
)

// suiteNode is a registered suite. The root node has no name.
type suiteNode struct {
	name       string
	mode       compiler.Mode
	parent     *suiteNode
	before     definition.Hooks
	beforeEach definition.Hooks
	after      definition.Hooks
	afterEach  definition.Hooks
	items      []any // *suiteNode or *testNode, in registration order
}

type testNode struct {
	name   string
	mode   compiler.Mode
	fn     compiler.TestFunc
	parent *suiteNode
}

// path returns the names of the enclosing suites, outermost first.
func (s *suiteNode) path() []string {
	if s == nil || s.parent == nil {
		return nil
	}
	return append(s.parent.path(), s.name)
}

// collector implements compiler.Harness by building a suiteNode tree.
type collector struct {
	root    *suiteNode
	current *suiteNode
	hasOnly bool
}

func newCollector() *collector {
	root := &suiteNode{}
	return &collector{root: root, current: root}
}

func (c *collector) Suite(mode compiler.Mode, name string, body func()) {
	s := &suiteNode{name: name, mode: mode, parent: c.current}
	c.current.items = append(c.current.items, s)
	if mode == compiler.ModeOnly {
		c.hasOnly = true
	}

	prev := c.current
	c.current = s
	defer func() { c.current = prev }()
	body()
}

func (c *collector) Test(mode compiler.Mode, name string, fn compiler.TestFunc) {
	c.current.items = append(c.current.items, &testNode{name: name, mode: mode, fn: fn, parent: c.current})
	if mode == compiler.ModeOnly {
		c.hasOnly = true
	}
}

func (c *collector) Before(hook definition.Hook) {
	c.current.before = append(c.current.before, hook)
}

func (c *collector) BeforeEach(hook definition.Hook) {
	c.current.beforeEach = append(c.current.beforeEach, hook)
}

func (c *collector) After(hook definition.Hook) {
	c.current.after = append(c.current.after, hook)
}

func (c *collector) AfterEach(hook definition.Hook) {
	c.current.afterEach = append(c.current.afterEach, hook)
}
