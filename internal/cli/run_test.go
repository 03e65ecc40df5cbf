package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	charmlog "github.com/charmbracelet/log"

	"github.com/mfms-ncsu/layercross/pkg/layered/sgf"
)

const tangleSGF = `c test fixture
t tangle 10 5 2
n 1 0 0
n 2 0 1
n 3 0 2
n 4 0 3
n 5 0 4
n 6 1 0
n 7 1 1
n 8 1 2
n 9 1 3
n 10 1 4
e 1 10
e 2 8
e 3 9
e 4 6
e 5 7
`

// execute runs a freshly built command tree with a quiet logger attached.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRunCmd()
	ctx := withLogger(context.Background(), newLogger(os.Stderr, charmlog.ErrorLevel))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunCommandOnSGF(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeFixture(t, "tangle.sgf", tangleSGF)

	out, err := execute(t, "--heuristic", "bary", "--iterations", "100", path)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "Run statistics") {
		t.Errorf("missing statistics report:\n%s", out)
	}
}

func TestRunCommandWritesSGFOutput(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeFixture(t, "tangle.sgf", tangleSGF)

	_, err := execute(t, "--heuristic", "sifting", "--iterations", "100", "--output", "result", path)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	g, _, err := sgf.Import("result-t.sgf")
	if err != nil {
		t.Fatalf("output does not parse back: %v", err)
	}
	if len(g.Nodes) != 10 || len(g.Edges) != 5 {
		t.Errorf("output graph has %d nodes, %d edges", len(g.Nodes), len(g.Edges))
	}
	// the input file's own comments travel to the output
	joined := strings.Join(g.Comments, "\n")
	if !strings.Contains(joined, "test fixture") {
		t.Errorf("input comments dropped: %v", g.Comments)
	}
}

func TestRunCommandStableOutputs(t *testing.T) {
	read := func(dir string) []byte {
		t.Helper()
		t.Chdir(dir)
		path := filepath.Join(dir, "tangle.sgf")
		if err := os.WriteFile(path, []byte(tangleSGF), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := execute(t, "--heuristic", "sifting", "--iterations", "50",
			"--seed", "42", "--output", "best", path); err != nil {
			t.Fatal(err)
		}
		data, err := os.ReadFile(filepath.Join(dir, "best-t.sgf"))
		if err != nil {
			t.Fatal(err)
		}
		return data
	}

	a := read(t.TempDir())
	b := read(t.TempDir())
	if !bytes.Equal(a, b) {
		t.Error("two identical runs produced different output files")
	}
}

func TestRunCommandRejectsBadFlags(t *testing.T) {
	path := writeFixture(t, "tangle.sgf", tangleSGF)
	if _, err := execute(t, "--heuristic", "nope", path); err == nil {
		t.Error("unknown heuristic accepted")
	}
	if _, err := execute(t, "--pareto", "t_t", path); err == nil {
		t.Error("unknown pareto pair accepted")
	}
}

func TestRunCommandFatalOnBadInput(t *testing.T) {
	path := writeFixture(t, "bad.sgf", "t g 2 1 1\nn 1 0 0\nn 2 0 0\n")
	if _, err := execute(t, path); err == nil {
		t.Error("duplicate position accepted")
	}
}
