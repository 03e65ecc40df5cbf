package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mfms-ncsu/layercross/pkg/layered/dotord"
	"github.com/mfms-ncsu/layercross/pkg/layered/sgf"
)

// newConvertCmd creates the convert command, translating between the two
// on-disk representations without running any heuristic.
func newConvertCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "convert graph.sgf | graph.dot graph.ord",
		Short: "Convert between SGF and DOT+ORD representations",
		Long: `Convert reads a layered graph in one representation and writes the
other: an SGF input produces a DOT + ORD pair, a DOT + ORD input produces a
single SGF file. The ordering and the layer assignment pass through
unchanged. SGF comment lines are written to both the DOT and the ORD file;
comments in a DOT or ORD input are not read, so they do not reach the SGF.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			base := output
			if base == "" {
				base = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}

			if len(args) == 1 {
				g, warnings, err := sgf.Import(args[0])
				if err != nil {
					return err
				}
				for _, w := range warnings {
					logger.Warnf("%s: %s", args[0], w)
				}
				if err := dotord.ExportDOT(g, base+".dot"); err != nil {
					return err
				}
				if err := dotord.ExportORD(g, base+".ord"); err != nil {
					return err
				}
				logger.Infof("wrote %s.dot and %s.ord", base, base)
				return nil
			}

			g, err := dotord.Import(args[0], args[1])
			if err != nil {
				return err
			}
			if err := sgf.Export(g, base+".sgf"); err != nil {
				return err
			}
			logger.Infof("wrote %s.sgf", base)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "base name for output files (default: input base name)")
	return cmd
}
