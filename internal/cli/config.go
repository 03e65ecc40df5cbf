package cli

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/mfms-ncsu/layercross/pkg/engine"
)

// runConfig mirrors every run flag so that a whole treatment can live in a
// TOML file and be replayed exactly. Flags given explicitly on the command
// line override the file.
type runConfig struct {
	Heuristic        string  `toml:"heuristic"`
	Preprocessor     string  `toml:"preprocessor"`
	Iterations       int     `toml:"iterations"`
	Passes           int     `toml:"passes"`
	RuntimeSeconds   float64 `toml:"runtime_seconds"`
	Seed             int64   `toml:"seed"`
	Randomize        bool    `toml:"randomize"`
	CaptureIteration int     `toml:"capture_iteration"`
	Pareto           string  `toml:"pareto"`
	Objective        string  `toml:"objective"`
	Output           string  `toml:"output"`
	WeightPolicy     string  `toml:"weight_policy"`
	BalancedWeight   bool    `toml:"balanced_weight"`
	MCEOption        string  `toml:"mce_option"`
	PostProcess      bool    `toml:"post_process"`
	TraceFrequency   int     `toml:"trace_frequency"`
	FavoredEdges     bool    `toml:"favored_edges"`
}

// applyConfigFile loads a TOML run configuration and copies each value into
// opts unless the matching flag was set explicitly.
func applyConfigFile(cmd *cobra.Command, path string, opts *runOpts) error {
	var cfg runConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}
	set := func(flag string) bool { return cmd.Flags().Changed(flag) }

	if !set("heuristic") && cfg.Heuristic != "" {
		opts.heuristic = cfg.Heuristic
	}
	if !set("preprocessor") && cfg.Preprocessor != "" {
		opts.preprocessor = cfg.Preprocessor
	}
	if !set("iterations") && cfg.Iterations != 0 {
		opts.iterations = cfg.Iterations
	}
	if !set("passes") && cfg.Passes != 0 {
		opts.passes = cfg.Passes
	}
	if !set("runtime") && cfg.RuntimeSeconds != 0 {
		opts.runtime = time.Duration(cfg.RuntimeSeconds * float64(time.Second))
	}
	if !set("seed") && cfg.Seed != 0 {
		opts.seed = cfg.Seed
	}
	if !set("randomize") && cfg.Randomize {
		opts.randomize = true
	}
	if !set("capture") && cfg.CaptureIteration != 0 {
		opts.capture = cfg.CaptureIteration
	}
	if !set("pareto") && cfg.Pareto != "" {
		opts.pareto = cfg.Pareto
	}
	if !set("objective") && cfg.Objective != "" {
		opts.objective = cfg.Objective
	}
	if !set("output") && cfg.Output != "" {
		opts.output = cfg.Output
	}
	if !set("weight-policy") && cfg.WeightPolicy != "" {
		opts.weightPolicy = cfg.WeightPolicy
	}
	if !set("balanced") && cfg.BalancedWeight {
		opts.balanced = true
	}
	if !set("mce-option") && cfg.MCEOption != "" {
		opts.mceOption = cfg.MCEOption
	}
	if !set("post-process") && cfg.PostProcess {
		opts.postProcess = true
	}
	if !set("trace") && cfg.TraceFrequency != 0 {
		opts.traceFreq = cfg.TraceFrequency
	}
	if !set("favored") && cfg.FavoredEdges {
		opts.favored = true
	}
	return nil
}

func parseHeuristic(s string) (engine.Heuristic, error) {
	if s == "" {
		return engine.HeuristicNone, nil
	}
	for _, h := range engine.Heuristics {
		if string(h) == s {
			return h, nil
		}
	}
	return "", fmt.Errorf("unknown heuristic %q", s)
}

func parsePreprocessor(s string) (engine.Preprocessor, error) {
	switch s {
	case "":
		return engine.PreprocessNone, nil
	case "bfs":
		return engine.PreprocessBFS, nil
	case "dfs":
		return engine.PreprocessDFS, nil
	case "mds":
		return engine.PreprocessMDS, nil
	}
	return "", fmt.Errorf("unknown preprocessor %q", s)
}

func parseWeightPolicy(s string) (engine.WeightPolicy, error) {
	switch s {
	case "", "left":
		return engine.WeightLeft, nil
	case "avg":
		return engine.WeightAvg, nil
	case "none":
		return engine.WeightNone, nil
	}
	return 0, fmt.Errorf("unknown weight policy %q", s)
}

func parseMCEOption(s string) (engine.MCEOption, error) {
	switch s {
	case "", "nodes":
		return engine.MCENodes, nil
	case "edges":
		return engine.MCEEdges, nil
	case "early":
		return engine.MCEEarly, nil
	case "one_node":
		return engine.MCEOneNode, nil
	}
	return 0, fmt.Errorf("unknown mce option %q", s)
}

func parsePareto(s string) (engine.ParetoMode, error) {
	switch s {
	case "", "none":
		return engine.ParetoNone, nil
	case "b_t":
		return engine.ParetoBottleneckTotal, nil
	case "s_t":
		return engine.ParetoStretchTotal, nil
	case "b_s":
		return engine.ParetoBottleneckStretch, nil
	}
	return 0, fmt.Errorf("unknown pareto pair %q", s)
}

func parseObjective(s string) (engine.Objective, error) {
	switch s {
	case "", "t":
		return engine.TotalCrossings, nil
	case "b":
		return engine.BottleneckCrossings, nil
	case "s":
		return engine.TotalStretch, nil
	case "bs":
		return engine.BottleneckStretch, nil
	}
	return 0, fmt.Errorf("unknown objective tag %q", s)
}
