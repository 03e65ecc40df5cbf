package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mfms-ncsu/layercross/pkg/layered"
	"github.com/mfms-ncsu/layercross/pkg/layered/dotord"
	"github.com/mfms-ncsu/layercross/pkg/layered/sgf"
	"github.com/mfms-ncsu/layercross/pkg/render"
)

// newRenderCmd creates the render command: draw the stored ordering of a
// layered graph as an SVG via Graphviz.
func newRenderCmd() *cobra.Command {
	var output string
	var detailed bool

	cmd := &cobra.Command{
		Use:   "render graph.sgf | graph.dot graph.ord",
		Short: "Render the stored ordering as an SVG",
		Long: `Render draws the graph exactly as ordered in the input: layers become
ranks and the within-layer ordering is pinned, so crossings in the picture
are the crossings the counters report.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			var g *layered.Graph
			var err error
			if len(args) == 1 {
				var warnings []string
				g, warnings, err = sgf.Import(args[0])
				for _, w := range warnings {
					logger.Warnf("%s: %s", args[0], w)
				}
			} else {
				g, err = dotord.Import(args[0], args[1])
			}
			if err != nil {
				return err
			}

			prog := newProgress(logger)
			svg, err := render.RenderSVG(render.ToDOT(g, render.Options{Detailed: detailed}))
			if err != nil {
				return err
			}

			if output == "" {
				output = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0])) + ".svg"
			}
			if err := os.WriteFile(output, svg, 0o644); err != nil {
				return err
			}
			prog.done("rendered " + output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output SVG path (default: input base name + .svg)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include layer and position in node labels")
	return cmd
}
