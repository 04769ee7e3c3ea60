package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/abdul-hamid-achik/hitsuite/packages/core/compiler"
	"github.com/abdul-hamid-achik/hitsuite/packages/core/definition"
	"github.com/abdul-hamid-achik/hitsuite/packages/core/request"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <file|directory>...",
	Short: "List the suites and tests in suite files",
	Long: `List the suites and tests defined in YAML or JSON suite files.

Examples:
  hitsuite list users.yaml
  hitsuite list ./suites/`,
	Args: cobra.MinimumNArgs(1),
	RunE: listCommand,
}

func init() {
	addSettingsFlags(listCmd)
}

func listCommand(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return usageError(err)
	}

	if len(files) == 0 {
		return usageError(fmt.Errorf("no suite files found"))
	}

	cfg, resolver, err := loadSettings()
	if err != nil {
		return err
	}

	for _, file := range files {
		tree, err := definition.LoadFile(file, definition.WithResolver(resolver))
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error parsing %s: %v\n", file, err)
			continue
		}
		nodes, err := compiler.Compile(cmd.Context(), tree, cfg)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error compiling %s: %v\n", file, err)
			continue
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\n%s:\n", file)
		printNodes(cmd.OutOrStdout(), nodes, 1)
	}

	return nil
}

func printNodes(w io.Writer, nodes []compiler.Node, depth int) {
	pad := strings.Repeat("  ", depth)
	for _, n := range nodes {
		mode := ""
		if n.Mode() != compiler.ModeRun {
			mode = " [" + n.Mode().String() + "]"
		}

		switch n := n.(type) {
		case *compiler.Suite:
			fmt.Fprintf(w, "%s%s%s\n", pad, n.Name(), mode)
			printNodes(w, n.Children(), depth+1)
		case *compiler.Test:
			fmt.Fprintf(w, "%s- %s%s\n", pad, testLabel(n), mode)
		}
	}
}

// testLabel names a test, falling back to its verb and URL.
func testLabel(t *compiler.Test) string {
	if t.Name() != "" {
		return t.Name()
	}
	def := t.Definition()
	verb := def.Verb
	if verb == "" {
		verb = request.DefaultVerb
	}
	url := "<computed url>"
	if def.URL.IsSet() && !def.URL.IsProducer() {
		url = def.URL.Resolve()
	}
	return verb + " " + url
}
