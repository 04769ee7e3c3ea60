package definition

import (
	"context"
	"fmt"

	"github.com/abdul-hamid-achik/hitsuite/packages/http"
	"gopkg.in/yaml.v3"
)

// Hook is a lifecycle callback registered on a suite.
type Hook func(ctx context.Context) error

// Hooks is an ordered list of hooks, run in declaration order.
type Hooks []Hook

// Test describes a single request and its expected response.
type Test struct {
	Name    string              `yaml:"name"`
	Verb    string              `yaml:"verb"`
	URL     Value[string]       `yaml:"url"`
	Headers Fields              `yaml:"headers"`
	Body    Value[any]          `yaml:"body"`
	Auth    Value[Auth]         `yaml:"auth"`
	Expect  *Expect             `yaml:"expect"`
	Error   http.FailureHandler `yaml:"-"`
	Skip    bool                `yaml:"skip"`
	Only    bool                `yaml:"only"`
}

// Commands are shell commands declared as hooks in a suite file. They are
// turned into Hooks when the file is run.
type Commands struct {
	Before     CommandList `yaml:"before"`
	BeforeEach CommandList `yaml:"beforeEach"`
	After      CommandList `yaml:"after"`
	AfterEach  CommandList `yaml:"afterEach"`
}

// CommandList accepts a single command or a list of commands.
type CommandList []string

func (c *CommandList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*c = CommandList{node.Value}
		return nil
	}
	var list []string
	if err := node.Decode(&list); err != nil {
		return err
	}
	*c = list
	return nil
}

// IsZero reports whether no command is declared.
func (c Commands) IsZero() bool {
	return len(c.Before)+len(c.BeforeEach)+len(c.After)+len(c.AfterEach) == 0
}

// Suite groups tests and nested suites. Tests is mandatory.
type Suite struct {
	Name       string   `yaml:"name"`
	Tests      *Tests   `yaml:"tests"`
	Before     Hooks    `yaml:"-"`
	BeforeEach Hooks    `yaml:"-"`
	After      Hooks    `yaml:"-"`
	AfterEach  Hooks    `yaml:"-"`
	Commands   Commands `yaml:",inline"`
	Skip       bool     `yaml:"skip"`
	Only       bool     `yaml:"only"`
}

// Entry is one named suite of a mapping-style Tests value.
type Entry struct {
	Key   string
	Suite *Suite
}

// Tests is either an ordered sequence of tests or an ordered mapping of named
// suites.
type Tests struct {
	cases   []*Test
	entries []Entry
	named   bool
}

// Cases builds a sequence of anonymous (or self-named) tests.
func Cases(tests ...*Test) *Tests {
	return &Tests{cases: tests}
}

// Named builds a mapping of suites keyed by display name.
func Named(entries ...Entry) *Tests {
	return &Tests{entries: entries, named: true}
}

func (t *Tests) IsNamed() bool {
	return t != nil && t.named
}

func (t *Tests) Cases() []*Test {
	if t == nil {
		return nil
	}
	return t.cases
}

func (t *Tests) Entries() []Entry {
	if t == nil {
		return nil
	}
	return t.entries
}

func (t *Tests) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		cases := make([]*Test, len(node.Content))
		for i, item := range node.Content {
			cases[i] = &Test{}
			if err := item.Decode(cases[i]); err != nil {
				return err
			}
		}
		*t = Tests{cases: cases}
	case yaml.MappingNode:
		entries := make([]Entry, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			entry := Entry{Key: node.Content[i].Value}
			if value := node.Content[i+1]; value.Kind == yaml.MappingNode {
				entry.Suite = &Suite{}
				if err := value.Decode(entry.Suite); err != nil {
					return fmt.Errorf("%s: %w", entry.Key, err)
				}
			}
			entries = append(entries, entry)
		}
		*t = Tests{entries: entries, named: true}
	default:
		return fmt.Errorf("line %d: tests must be a list or a mapping", node.Line)
	}
	return nil
}
