package compiler

import (
	"context"
	"errors"
	"fmt"

	"github.com/abdul-hamid-achik/hitsuite/packages/core/config"
	"github.com/abdul-hamid-achik/hitsuite/packages/core/definition"
	"github.com/abdul-hamid-achik/hitsuite/packages/http"
	"github.com/abdul-hamid-achik/hitsuite/packages/logging"
)

// ErrInvalidDefinition is returned when a named suite has no tests.
var ErrInvalidDefinition = errors.New("invalid test definition")

// Compile expands tree into nodes. A list yields one Test per entry, a mapping
// one Suite per key whose tests are compiled recursively. Every node shares
// cfg, which must not be modified afterwards. Nothing is registered when an
// error is returned.
func Compile(ctx context.Context, tree *definition.Tests, cfg *config.Config) ([]Node, error) {
	log := logging.FromContext(ctx).WithComponent("compiler")
	nodes, err := compile(tree, cfg, nil)
	if err != nil {
		return nil, err
	}
	log.Debug("compiled suite tree", "nodes", len(nodes))
	return nodes, nil
}

func compile(tree *definition.Tests, cfg *config.Config, path []string) ([]Node, error) {
	if !tree.IsNamed() {
		cases := tree.Cases()
		nodes := make([]Node, 0, len(cases))
		for _, def := range cases {
			if def == nil {
				continue
			}
			nodes = append(nodes, &Test{
				name: def.Name,
				mode: ModeOf(def.Skip, def.Only),
				def:  def,
				cfg:  cfg,
			})
		}
		return nodes, nil
	}

	entries := tree.Entries()
	nodes := make([]Node, 0, len(entries))
	for _, entry := range entries {
		def := entry.Suite
		name := entry.Key
		if def != nil && def.Name != "" {
			name = def.Name
		}
		suitePath := append(append([]string(nil), path...), name)

		if def == nil || def.Tests == nil {
			return nil, fmt.Errorf("%w: %q has no tests", ErrInvalidDefinition, joinPath(suitePath))
		}

		children, err := compile(def.Tests, cfg, suitePath)
		if err != nil {
			return nil, err
		}

		nodes = append(nodes, &Suite{
			name:       name,
			mode:       ModeOf(def.Skip, def.Only),
			before:     def.Before,
			beforeEach: def.BeforeEach,
			after:      def.After,
			afterEach:  def.AfterEach,
			children:   children,
		})
	}
	return nodes, nil
}

// Run compiles tree and registers every node with h. Execution is driven by h.
func Run(ctx context.Context, h Harness, client *http.Client, cfg *config.Config, tree *definition.Tests) error {
	nodes, err := Compile(ctx, tree, cfg)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		n.Register(h, client)
	}
	return nil
}

func joinPath(path []string) string {
	out := ""
	for i, p := range path {
		if i > 0 {
			out += " > "
		}
		out += p
	}
	return out
}
