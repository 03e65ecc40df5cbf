package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mfms-ncsu/layercross/pkg/engine"
	"github.com/mfms-ncsu/layercross/pkg/layered"
	"github.com/mfms-ncsu/layercross/pkg/layered/dotord"
	"github.com/mfms-ncsu/layercross/pkg/layered/sgf"
)

// noCapture is the capture-iteration sentinel meaning "never": iterations
// count up from 0, so no iteration can take this value.
const noCapture = int(-1) << 30

// runOpts holds the command-line flags for the run command.
type runOpts struct {
	heuristic    string
	preprocessor string
	iterations   int
	passes       int
	runtime      time.Duration
	seed         int64
	randomize    bool
	capture      int
	pareto       string
	objective    string
	output       string
	weightPolicy string
	balanced     bool
	mceOption    string
	postProcess  bool
	traceFreq    int
	favored      bool
	configFile   string
}

// newRunCmd creates the run command: parse the input graph, execute the
// configured preprocessor, heuristic, and post-processor, then report and
// optionally write the best orderings found.
func newRunCmd() *cobra.Command {
	opts := runOpts{capture: noCapture, traceFreq: -1}

	cmd := &cobra.Command{
		Use:   "run [flags] graph.sgf | graph.dot graph.ord",
		Short: "Run a crossing-minimization heuristic on a layered graph",
		Long: `Run executes an iterative crossing-minimization heuristic on a layered
graph given either as a single SGF file or as a DOT + ORD pair.

Termination is standard (stop after a pass without improvement) unless
--iterations, --passes, or --runtime bounds the run. The best ordering seen
for each objective is tracked independently and written out when --output
is given.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.configFile != "" {
				if err := applyConfigFile(cmd, opts.configFile, &opts); err != nil {
					return err
				}
			}
			return runHeuristic(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.heuristic, "heuristic", "H", "", "heuristic: median | bary | mod_bary | mcn | sifting | mce | mce_s | mse")
	f.StringVarP(&opts.preprocessor, "preprocessor", "p", "", "preprocessor: bfs | dfs | mds")
	f.IntVarP(&opts.iterations, "iterations", "i", 0, "maximum number of iterations (0 = unbounded)")
	f.IntVar(&opts.passes, "passes", 0, "maximum number of passes (0 = unbounded)")
	f.DurationVarP(&opts.runtime, "runtime", "r", 0, "maximum runtime (0 = unbounded)")
	f.Int64VarP(&opts.seed, "seed", "R", 0, "random seed; implies --randomize when set")
	f.BoolVar(&opts.randomize, "randomize", false, "randomize node order between passes")
	f.IntVarP(&opts.capture, "capture", "c", noCapture, "capture the ordering after this iteration")
	f.StringVarP(&opts.pareto, "pareto", "P", "none", "Pareto pair: b_t | s_t | b_s | none")
	f.StringVarP(&opts.objective, "objective", "g", "t", "objective tag for SGF output: t | b | s | bs")
	f.StringVarP(&opts.output, "output", "o", "", "base name for output files; _ means use the input base name")
	f.StringVarP(&opts.weightPolicy, "weight-policy", "w", "left", "weight of neighborless nodes: none | left | avg")
	f.BoolVarP(&opts.balanced, "balanced", "b", false, "average the two directed averages for both-neighbor weights")
	f.StringVarP(&opts.mceOption, "mce-option", "e", "nodes", "mce pass ending: nodes | edges | early | one_node")
	f.BoolVarP(&opts.postProcess, "post-process", "z", false, "repeated adjacent swaps after the heuristic")
	f.IntVarP(&opts.traceFreq, "trace", "t", -1, "trace frequency: -1 off, 0 end of pass, n every nth iteration")
	f.BoolVar(&opts.favored, "favored", false, "track crossings on the favored edge fan-out as a fifth objective")
	f.StringVar(&opts.configFile, "config", "", "TOML file with run options (flags override)")

	return cmd
}

func runHeuristic(cmd *cobra.Command, args []string, opts runOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	runID := uuid.NewString()
	logger.Debugf("run %s starting", runID)

	g, sgfInput, err := loadGraph(cmd, args)
	if err != nil {
		return err
	}
	logger.Infof("graph %s: %d nodes, %d edges, %d layers, %d isolated",
		g.Name, len(g.Nodes), len(g.Edges), g.NumLayers(), g.IsolatedNodes())

	// The command line becomes part of the comment buffer and travels to
	// every output file.
	g.AddComment(strings.Join(os.Args, " "))

	heuristic, err := parseHeuristic(opts.heuristic)
	if err != nil {
		return err
	}
	preprocessor, err := parsePreprocessor(opts.preprocessor)
	if err != nil {
		return err
	}
	weightPolicy, err := parseWeightPolicy(opts.weightPolicy)
	if err != nil {
		return err
	}
	mceOption, err := parseMCEOption(opts.mceOption)
	if err != nil {
		return err
	}
	pareto, err := parsePareto(opts.pareto)
	if err != nil {
		return err
	}
	objective, err := parseObjective(opts.objective)
	if err != nil {
		return err
	}

	base := opts.output
	if base == "_" {
		base = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	}

	eng := engine.New(g, engine.Options{
		Heuristic:        heuristic,
		Preprocessor:     preprocessor,
		MaxIterations:    opts.iterations,
		MaxPasses:        opts.passes,
		MaxRuntime:       opts.runtime,
		WeightPolicy:     weightPolicy,
		BalancedWeight:   opts.balanced,
		MCEOption:        mceOption,
		Pareto:           pareto,
		Randomize:        opts.randomize || cmd.Flags().Changed("seed"),
		Seed:             opts.seed,
		CaptureIteration: opts.capture,
		Capture: func(iteration int) error {
			return writeCapture(g, iteration, sgfInput)
		},
		PostProcess:    opts.postProcess,
		FavoredEdges:   opts.favored,
		TraceFrequency: opts.traceFreq,
		Logger:         logger,
	})

	prog := newProgress(logger)
	res, err := eng.Run()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("heuristic %q finished: %d iterations, %d passes",
		opts.heuristic, res.Iterations, res.Passes))

	fmt.Fprint(cmd.OutOrStdout(), statsReport(res))
	if pareto != engine.ParetoNone {
		fmt.Fprint(cmd.OutOrStdout(), paretoReport(res.Pareto))
	}

	if base != "" {
		if err := writeOutputs(eng, res, base, sgfInput, objective, opts.postProcess); err != nil {
			return err
		}
	}
	logger.Debugf("run %s done", runID)
	return nil
}

// loadGraph reads the input graph from one SGF file or a DOT + ORD pair.
// The second result reports whether the input (and thus the output format)
// is SGF.
func loadGraph(cmd *cobra.Command, args []string) (*layered.Graph, bool, error) {
	logger := loggerFromContext(cmd.Context())
	if len(args) == 1 {
		g, warnings, err := sgf.Import(args[0])
		if err != nil {
			return nil, false, err
		}
		for _, w := range warnings {
			logger.Warnf("%s: %s", args[0], w)
		}
		return g, true, nil
	}
	g, err := dotord.Import(args[0], args[1])
	return g, false, err
}

// writeCapture snapshots the current ordering to capture-<iteration> in the
// input's own format.
func writeCapture(g *layered.Graph, iteration int, sgfInput bool) error {
	if sgfInput {
		return sgf.Export(g, fmt.Sprintf("capture-%d.sgf", iteration))
	}
	return dotord.ExportORD(g, fmt.Sprintf("capture-%d.ord", iteration))
}

// writeOutputs restores each tracked best ordering in turn and writes the
// matching output file. ORD inputs get one file per objective, mirroring
// the input pair; SGF inputs get a single file for the chosen objective.
func writeOutputs(eng *engine.Engine, res *engine.Result, base string, sgfInput bool, objective engine.Objective, postProcessed bool) error {
	g := eng.Graph()
	trk := eng.Tracker()

	if sgfInput {
		g.RestoreOrder(trk.BestSnapshot(objective))
		return sgf.Export(g, fmt.Sprintf("%s-%s.sgf", base, objective))
	}

	// The plain .ord file holds the heuristic-stage best; post-processing
	// improvements go to the -post file, mirroring the stage boundaries.
	g.RestoreOrder(res.HeuristicOrder)
	if err := dotord.ExportORD(g, base+".ord"); err != nil {
		return err
	}
	ordOutputs := []struct {
		objective engine.Objective
		suffix    string
	}{
		{engine.BottleneckCrossings, "-edge"},
		{engine.TotalStretch, "-stretch"},
		{engine.BottleneckStretch, "-bs"},
	}
	for _, out := range ordOutputs {
		snap := trk.BestSnapshot(out.objective)
		if snap == nil {
			continue
		}
		g.RestoreOrder(snap)
		if err := dotord.ExportORD(g, base+out.suffix+".ord"); err != nil {
			return err
		}
	}
	if postProcessed {
		g.RestoreOrder(trk.BestSnapshot(engine.TotalCrossings))
		if err := dotord.ExportORD(g, base+"-post.ord"); err != nil {
			return err
		}
	}
	g.RestoreOrder(trk.BestSnapshot(engine.TotalCrossings))
	return nil
}
