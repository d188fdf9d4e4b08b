package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/readpat/internal/logging"
	"github.com/yaklabco/readpat/pkg/optree"
	"github.com/yaklabco/readpat/pkg/pattern"
	"github.com/yaklabco/readpat/pkg/readpat"
)

type renderFlags struct {
	pattern patternFlags
	tree    bool
}

func newRenderCommand() *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the canonical form of a pattern",
		Long: `Compile a pattern and print it in canonical form. Compiling the output
again yields the same operations.

Examples:
  readpat render -p "S.R[3]  R>"         Prints: S. R[3] R>
  readpat render -p "(R.){2}" --tree`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, flags)
		},
	}

	addPatternFlags(cmd, &flags.pattern)
	cmd.Flags().BoolVar(&flags.tree, "tree", false, "print the operation tree with pattern positions")

	return cmd
}

func runRender(cmd *cobra.Command, flags *renderFlags) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	source, label, err := flags.pattern.resolve(cfg)
	if err != nil {
		return err
	}

	opts, err := readerOptions(cfg, logging.FromContext(commandContext(cmd)))
	if err != nil {
		return err
	}
	reader, err := readpat.New(source, opts...)
	if err != nil {
		return fmt.Errorf("compile %s: %w", label, err)
	}
	defer reader.Close()

	if !flags.tree {
		fmt.Fprintln(cmd.OutOrStdout(), reader.String())
		return nil
	}
	return writeTree(cmd.OutOrStdout(), reader.Program(), reader.Program().Tree, 0)
}

// writeTree prints one node per line, indented by depth.
func writeTree(w io.Writer, prog *pattern.Program, n optree.Node, depth int) error {
	label := nodeLabel(prog, n)
	if pos, ok := prog.Positions.Lookup(n); ok {
		label += "  @" + pos.String()
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("  ", depth)+label); err != nil {
		return fmt.Errorf("write tree: %w", err)
	}

	for _, child := range optree.Children(n) {
		if err := writeTree(w, prog, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// nodeLabel names a node. Leaves show their rendered text.
func nodeLabel(prog *pattern.Program, n optree.Node) string {
	switch node := n.(type) {
	case *optree.Tree:
		return "pattern"
	case *optree.Composite:
		return "block"
	case *optree.Repeat:
		return fmt.Sprintf("repeat %d", node.Count)
	case *optree.UntilEOF:
		return "until end"
	default:
		text, err := prog.Render(n)
		if err != nil {
			return fmt.Sprintf("%T", n)
		}
		return text
	}
}
