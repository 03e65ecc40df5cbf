// Package dotord reads and writes the paired DOT + ORD representation of a
// layered graph. The DOT file supplies node and edge identities by name;
// the ORD file supplies the per-layer ordered lists of node names.
//
// Only the tiny DOT subset the workbench has always used is understood:
// a digraph header, optional node statements, and "a -> b" edge statements.
// Attribute lists, subgraphs, and ports are not part of the format.
package dotord

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mfms-ncsu/layercross/pkg/errors"
	"github.com/mfms-ncsu/layercross/pkg/layered"
)

// DotGraph is the decoded content of a DOT file: the graph name, every
// node name mentioned, and the edge list in file order.
type DotGraph struct {
	Name  string
	Nodes []string    // every name mentioned, in first-mention order
	Edges [][2]string // source, target
}

// ReadDOT decodes the DOT subset from r.
func ReadDOT(r io.Reader) (*DotGraph, error) {
	toks, err := tokenizeDot(r)
	if err != nil {
		return nil, err
	}
	g := &DotGraph{}
	seen := map[string]bool{}
	mention := func(name string) {
		if !seen[name] {
			seen[name] = true
			g.Nodes = append(g.Nodes, name)
		}
	}

	i := 0
	next := func() string {
		if i < len(toks) {
			t := toks[i]
			i++
			return t
		}
		return ""
	}

	t := next()
	if t != "digraph" && t != "graph" {
		return nil, errors.New(errors.ErrCodeInvalidHeader, "expected 'digraph', got %q", t)
	}
	t = next()
	if t != "{" {
		g.Name = t
		t = next()
	}
	if t != "{" {
		return nil, errors.New(errors.ErrCodeInvalidHeader, "expected '{', got %q", t)
	}

	for {
		t = next()
		switch t {
		case "":
			return nil, errors.New(errors.ErrCodeTruncatedRecord, "missing closing '}'")
		case "}":
			return g, nil
		case ";":
			continue
		default:
			src := t
			if i < len(toks) && toks[i] == "->" {
				i++
				dst := next()
				if dst == "" || dst == ";" || dst == "}" {
					return nil, errors.New(errors.ErrCodeTruncatedRecord, "edge from %q has no target", src)
				}
				mention(src)
				mention(dst)
				g.Edges = append(g.Edges, [2]string{src, dst})
			} else {
				mention(src) // bare node statement
			}
		}
	}
}

// tokenizeDot splits the stream into names, quoted names, and the
// punctuation tokens "{", "}", ";", "->". Line comments (// and #) and
// block comments are skipped.
func tokenizeDot(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var toks []string
	s := string(data)
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '/' && i+1 < len(s) && s[i+1] == '/':
			for i < len(s) && s[i] != '\n' {
				i++
			}
		case c == '#':
			for i < len(s) && s[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				return nil, errors.New(errors.ErrCodeTruncatedRecord, "unterminated block comment")
			}
			i += end + 4
		case c == '{' || c == '}' || c == ';':
			toks = append(toks, string(c))
			i++
		case c == '-' && i+1 < len(s) && s[i+1] == '>':
			toks = append(toks, "->")
			i += 2
		case c == '"':
			j := i + 1
			for j < len(s) && s[j] != '"' {
				j++
			}
			if j == len(s) {
				return nil, errors.New(errors.ErrCodeTruncatedRecord, "unterminated quoted name")
			}
			toks = append(toks, s[i+1:j])
			i = j + 1
		default:
			j := i
			for j < len(s) && !strings.ContainsRune(" \t\n\r{};\"", rune(s[j])) &&
				!(s[j] == '-' && j+1 < len(s) && s[j+1] == '>') {
				j++
			}
			toks = append(toks, s[i:j])
			i = j
		}
	}
	return toks, nil
}

// OrdLayers is the decoded content of an ORD file: for each layer number,
// the node names in position order. Comment lines are preserved.
type OrdLayers struct {
	Comments []string
	Layers   [][]string
}

// ReadORD decodes an ORD file from r. Layer blocks may appear in any
// order; a layer number appearing twice or a gap in the numbering is
// fatal. A node listed twice is not checked here; Read rejects it.
func ReadORD(r io.Reader) (*OrdLayers, error) {
	var comments []string
	var toks []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			if c := strings.TrimSpace(line[idx+1:]); c != "" {
				comments = append(comments, c)
			}
			line = line[:idx]
		}
		toks = append(toks, strings.Fields(line)...)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	layers := map[int][]string{}
	maxLayer := -1
	for i := 0; i < len(toks); {
		num, err := strconv.Atoi(toks[i])
		if err != nil || num < 0 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "expected layer number, got %q", toks[i])
		}
		i++
		if i >= len(toks) || toks[i] != "{" {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "layer %d: expected '{'", num)
		}
		i++
		if _, dup := layers[num]; dup {
			return nil, errors.New(errors.ErrCodeDuplicatePosition, "layer %d appears twice", num)
		}
		var names []string
		for i < len(toks) && toks[i] != "}" {
			names = append(names, toks[i])
			i++
		}
		if i >= len(toks) {
			return nil, errors.New(errors.ErrCodeTruncatedRecord, "layer %d: missing '}'", num)
		}
		i++
		layers[num] = names
		if num > maxLayer {
			maxLayer = num
		}
	}

	out := &OrdLayers{Comments: comments}
	for l := 0; l <= maxLayer; l++ {
		names, ok := layers[l]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "layer %d missing from ord file", l)
		}
		out.Layers = append(out.Layers, names)
	}
	return out, nil
}

// Read combines a DOT stream and an ORD stream into a layered graph.
// The ORD file fixes the layer assignment and the initial ordering; the DOT
// file fixes the name and the edges. A node appearing in one file but not
// the other is fatal, as are same-layer or non-adjacent edges.
func Read(dot, ord io.Reader) (*layered.Graph, error) {
	d, err := ReadDOT(dot)
	if err != nil {
		return nil, err
	}
	o, err := ReadORD(ord)
	if err != nil {
		return nil, err
	}

	g := layered.NewGraph(d.Name)
	index := map[string]int{}
	for layer, names := range o.Layers {
		for _, name := range names {
			if _, dup := index[name]; dup {
				return nil, errors.New(errors.ErrCodeDuplicatePosition, "node %s listed more than once in ord file", name)
			}
			idx, err := g.AddNode(len(g.Nodes), name, layer)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "node %s", name)
			}
			index[name] = idx
		}
	}

	mentioned := map[string]bool{}
	for _, name := range d.Nodes {
		mentioned[name] = true
		if _, ok := index[name]; !ok {
			return nil, errors.New(errors.ErrCodeDanglingEndpoint, "node %s appears in dot file but not in ord file", name)
		}
	}
	for name := range index {
		if !mentioned[name] {
			return nil, errors.New(errors.ErrCodeDanglingEndpoint, "node %s appears in ord file but not in dot file", name)
		}
	}

	for _, e := range d.Edges {
		if _, err := g.AddEdge(index[e[0]], index[e[1]]); err != nil {
			return nil, errors.Wrap(errors.ErrCodeNonadjacentLayers, err, "edge %s -> %s", e[0], e[1])
		}
	}
	return g, nil
}

// Import reads a DOT file and an ORD file by path.
func Import(dotPath, ordPath string) (*layered.Graph, error) {
	df, err := os.Open(dotPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", dotPath)
	}
	defer df.Close()
	of, err := os.Open(ordPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", ordPath)
	}
	defer of.Close()
	return Read(df, of)
}

// WriteORD writes the current ordering in ORD form. Given the original DOT
// file, the output round-trips through Read.
func WriteORD(g *layered.Graph, w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# Ordering for graph %s\n", g.Name)
	for _, c := range g.Comments {
		fmt.Fprintf(bw, "# %s\n", c)
	}
	for l := range g.Layers {
		fmt.Fprintf(bw, "\n%d {\n ", l)
		for _, idx := range g.Layers[l].Nodes {
			fmt.Fprintf(bw, " %s", nodeName(g, idx))
		}
		fmt.Fprintf(bw, "\n}\n")
	}
	return bw.Flush()
}

// WriteDOT writes the graph's identities in DOT form. Isolated nodes get
// bare node statements so that the DOT file mentions every node the ORD
// file lists.
func WriteDOT(g *layered.Graph, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, c := range g.Comments {
		fmt.Fprintf(bw, "// %s\n", c)
	}
	fmt.Fprintf(bw, "digraph %s {\n", g.Name)
	for i := range g.Nodes {
		if g.Nodes[i].Degree() == 0 {
			fmt.Fprintf(bw, "    %s;\n", nodeName(g, i))
		}
	}
	for ei := range g.Edges {
		e := &g.Edges[ei]
		fmt.Fprintf(bw, "    %s -> %s;\n", nodeName(g, e.Down), nodeName(g, e.Up))
	}
	fmt.Fprintf(bw, "}\n")
	return bw.Flush()
}

// ExportDOT writes the graph's identities to a DOT file at path.
func ExportDOT(g *layered.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteDOT(g, f)
}

// ExportORD writes the current ordering to an ORD file at path.
func ExportORD(g *layered.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteORD(g, f)
}

func nodeName(g *layered.Graph, idx int) string {
	if g.Nodes[idx].Name != "" {
		return g.Nodes[idx].Name
	}
	return fmt.Sprintf("n_%d", g.Nodes[idx].ID)
}
