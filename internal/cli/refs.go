package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/quillsoft/mdtree/internal/logging"
	"github.com/quillsoft/mdtree/pkg/ast"
)

func newRefsCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refs [file]",
		Short: "List the document's reference definitions",
		Long: `Refs collects the document's named link definitions with a resolver
pre-pass and prints them. A name defined more than once reports its last
definition.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, source, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			doc, err := parseDocument(cmd, name, string(source), opts.cfg)
			if err != nil {
				return err
			}

			resolver := ast.NewResolver()
			ast.Walk(doc, resolver)

			if resolver.Len() == 0 {
				logging.Default().Info("no reference definitions found", "input", name)
				return nil
			}

			names := make([]string, 0, resolver.Len())
			for refName := range resolver.All() {
				names = append(names, refName)
			}
			sort.Strings(names)

			out := cmd.OutOrStdout()
			for _, refName := range names {
				ref, _ := resolver.Resolve(refName)
				if ref.Title() != "" {
					fmt.Fprintf(out, "%s\t%s\t%q\n", ref.Name(), ref.Source(), ref.Title())
				} else {
					fmt.Fprintf(out, "%s\t%s\n", ref.Name(), ref.Source())
				}
			}
			return nil
		},
	}
	return cmd
}
