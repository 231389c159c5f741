package cli

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillsoft/mdtree/internal/ui/pretty"
	"github.com/quillsoft/mdtree/pkg/ast"
	"github.com/quillsoft/mdtree/pkg/config"
	"github.com/quillsoft/mdtree/pkg/fsutil"
	"github.com/quillsoft/mdtree/pkg/langdetect"
	"github.com/quillsoft/mdtree/pkg/render/goldmark"
	"github.com/quillsoft/mdtree/pkg/render/html"
)

func newRenderCommand(opts *rootOptions) *cobra.Command {
	var (
		output     string
		engine     string
		standalone bool
		detect     bool
	)

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a document to HTML",
		Long: `Render parses the document and emits HTML. Input comes from the named
file or from stdin. The native engine renders the typed tree; the
goldmark engine renders the same source through a CommonMark
implementation for comparison.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if cmd.Flags().Changed("engine") {
				cfg.Engine = config.Engine(engine)
			}
			if cmd.Flags().Changed("standalone") {
				cfg.Standalone = standalone
			}
			if cmd.Flags().Changed("detect-languages") {
				cfg.DetectLanguages = detect
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			name, source, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if cfg.Engine == config.EngineGoldmark {
				if err := goldmark.New().Render(&buf, source); err != nil {
					return err
				}
			} else if err := renderNative(cmd, &buf, name, string(source), cfg); err != nil {
				return err
			}

			if buf.Len() > 0 && buf.Bytes()[buf.Len()-1] != '\n' {
				buf.WriteByte('\n')
			}
			if output != "" {
				return fsutil.WriteAtomic(output, buf.Bytes(), 0)
			}
			_, err = cmd.OutOrStdout().Write(buf.Bytes())
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write output to file (atomic)")
	cmd.Flags().StringVar(&engine, "engine", string(config.EngineNative),
		"rendering engine: native, goldmark")
	cmd.Flags().BoolVar(&standalone, "standalone", false,
		"wrap output in a full HTML document")
	cmd.Flags().BoolVar(&detect, "detect-languages", false,
		"guess a language for unlabeled code fences")

	return cmd
}

// renderNative parses with the native pipeline and renders the tree,
// resolving shortcut links through a reference pre-pass.
func renderNative(cmd *cobra.Command, buf *bytes.Buffer, name, source string, cfg *config.Config) error {
	doc, err := parseDocument(cmd, name, source, cfg)
	if err != nil {
		return err
	}

	resolver := ast.NewResolver()
	ast.Walk(doc, resolver)

	ropts := []html.Option{html.WithResolver(resolver)}
	if cfg.Standalone {
		ropts = append(ropts, html.WithStandalone())
	}
	if cfg.DetectLanguages {
		ropts = append(ropts, html.WithDetector(langdetect.Detect))
	}

	if err := html.Render(buf, doc, ropts...); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// parseDocument parses source, printing a styled diagnostic on failure and
// returning ErrParseFailed so the error is not logged a second time.
func parseDocument(cmd *cobra.Command, name, source string, cfg *config.Config) (*ast.Document, error) {
	doc, err := ast.Parse(source)
	if err == nil {
		return doc, nil
	}

	styles := pretty.NewStyles(pretty.IsColorEnabled(cfg.Color, cmd.ErrOrStderr()))
	fmt.Fprint(cmd.ErrOrStderr(), styles.FormatParseError(name, source, err))
	return nil, ErrParseFailed
}
