package compiler

import (
	"context"

	"github.com/abdul-hamid-achik/hitsuite/packages/core/definition"
)

// Mode selects how a node is registered.
type Mode int

const (
	ModeRun Mode = iota
	ModeOnly
	ModeSkip
)

func (m Mode) String() string {
	switch m {
	case ModeOnly:
		return "only"
	case ModeSkip:
		return "skip"
	default:
		return "run"
	}
}

// ModeOf picks the registration mode; only wins over skip.
func ModeOf(skip, only bool) Mode {
	switch {
	case only:
		return ModeOnly
	case skip:
		return ModeSkip
	default:
		return ModeRun
	}
}

// TestFunc is the body of a registered test.
type TestFunc func(ctx context.Context) error

// Harness receives the compiled tree. Suite runs body synchronously to
// collect the suite's hooks and children; tests and hooks are executed
// later, under the harness's control.
type Harness interface {
	Suite(mode Mode, name string, body func())
	Test(mode Mode, name string, fn TestFunc)
	Before(hook definition.Hook)
	BeforeEach(hook definition.Hook)
	After(hook definition.Hook)
	AfterEach(hook definition.Hook)
}
