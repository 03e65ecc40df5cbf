package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mfms-ncsu/layercross/pkg/engine"
)

func TestParseEnums(t *testing.T) {
	if h, err := parseHeuristic("mce_s"); err != nil || h != engine.HeuristicMCESifting {
		t.Errorf("parseHeuristic(mce_s) = %v, %v", h, err)
	}
	if _, err := parseHeuristic("simulated_annealing"); err == nil {
		t.Error("unknown heuristic accepted")
	}
	if p, err := parsePreprocessor("mds"); err != nil || p != engine.PreprocessMDS {
		t.Errorf("parsePreprocessor(mds) = %v, %v", p, err)
	}
	if w, err := parseWeightPolicy(""); err != nil || w != engine.WeightLeft {
		t.Errorf("default weight policy = %v, %v", w, err)
	}
	if m, err := parseMCEOption("one_node"); err != nil || m != engine.MCEOneNode {
		t.Errorf("parseMCEOption(one_node) = %v, %v", m, err)
	}
	if p, err := parsePareto("b_s"); err != nil || p != engine.ParetoBottleneckStretch {
		t.Errorf("parsePareto(b_s) = %v, %v", p, err)
	}
	if o, err := parseObjective("bs"); err != nil || o != engine.BottleneckStretch {
		t.Errorf("parseObjective(bs) = %v, %v", o, err)
	}
	if _, err := parseObjective("x"); err == nil {
		t.Error("unknown objective accepted")
	}
}

func TestApplyConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.toml")
	content := `
heuristic = "mce"
iterations = 250
seed = 7
randomize = true
weight_policy = "avg"
post_process = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := newRunCmd()
	// --iterations given explicitly: must survive the config file
	if err := cmd.Flags().Set("iterations", "99"); err != nil {
		t.Fatal(err)
	}

	opts := runOpts{iterations: 99}
	if err := applyConfigFile(cmd, path, &opts); err != nil {
		t.Fatalf("applyConfigFile: %v", err)
	}
	if opts.heuristic != "mce" {
		t.Errorf("heuristic = %q", opts.heuristic)
	}
	if opts.iterations != 99 {
		t.Errorf("explicit flag overridden: iterations = %d", opts.iterations)
	}
	if opts.seed != 7 || !opts.randomize || !opts.postProcess {
		t.Errorf("config not applied: %+v", opts)
	}
	if opts.weightPolicy != "avg" {
		t.Errorf("weight policy = %q", opts.weightPolicy)
	}
}

func TestApplyConfigFileMissing(t *testing.T) {
	cmd := newRunCmd()
	opts := runOpts{}
	if err := applyConfigFile(cmd, "does-not-exist.toml", &opts); err == nil {
		t.Error("missing config accepted")
	}
}
