package io

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matzehuels/mmac/pkg/errors"
	"github.com/matzehuels/mmac/pkg/layered"
)

// lineReader yields non-blank lines split into fields, tracking line numbers
// for error messages.
type lineReader struct {
	sc   *bufio.Scanner
	line int
}

func newLineReader(r io.Reader) *lineReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &lineReader{sc: sc}
}

// next returns the fields of the next non-blank line, or io.EOF.
func (lr *lineReader) next() ([]string, error) {
	for lr.sc.Scan() {
		lr.line++
		if fields := strings.Fields(lr.sc.Text()); len(fields) > 0 {
			return fields, nil
		}
	}
	if err := lr.sc.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// ints parses the next line as exactly want integers.
func (lr *lineReader) ints(what string, want int) ([]int, error) {
	fields, err := lr.next()
	if err == io.EOF {
		return nil, fmt.Errorf("missing %s", what)
	}
	if err != nil {
		return nil, err
	}
	if len(fields) != want {
		return nil, fmt.Errorf("line %d: %s: got %d values, want %d", lr.line, what, len(fields), want)
	}
	return lr.parse(what, fields)
}

// parse converts fields of the current line to integers.
func (lr *lineReader) parse(what string, fields []string) ([]int, error) {
	vals := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %q is not an integer", lr.line, what, f)
		}
		vals[i] = v
	}
	return vals, nil
}

// ReadInstance parses a layered graph from r and names it name.
//
// The format is whitespace separated integers:
//
//	<nodes> <edges> <layers>
//	<size of layer 0> <size of layer 1> ...
//	<source> <sink>          (one line per edge)
//
// Node IDs are 1-based and assigned in layer order. Blank lines are ignored.
// Every edge must connect a layer to the next one and every node needs at
// least one edge.
//
// All format and structural problems return ErrCodeInvalidInstance.
func ReadInstance(r io.Reader, name string) (*layered.Graph, error) {
	g, err := readInstance(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInstance, err, "instance %s", name)
	}
	g.Name = name
	return g, nil
}

func readInstance(r io.Reader) (*layered.Graph, error) {
	lr := newLineReader(r)

	header, err := lr.ints("header", 3)
	if err != nil {
		return nil, err
	}
	nodes, edges, layers := header[0], header[1], header[2]
	if nodes < 0 || edges < 0 || layers < 0 {
		return nil, fmt.Errorf("line %d: negative count in header", lr.line)
	}

	var sizes []int
	if layers > 0 {
		if sizes, err = lr.ints("layer sizes", layers); err != nil {
			return nil, err
		}
	}
	total := 0
	for _, s := range sizes {
		total += s
	}
	if total != nodes {
		return nil, fmt.Errorf("layer sizes sum to %d, header declares %d nodes", total, nodes)
	}

	g, err := layered.New(sizes)
	if err != nil {
		return nil, err
	}
	for i := range edges {
		e, err := lr.ints(fmt.Sprintf("edge %d", i+1), 2)
		if err != nil {
			return nil, err
		}
		if err := g.AddEdge(e[0], e[1]); err != nil {
			return nil, fmt.Errorf("line %d: %w", lr.line, err)
		}
	}
	if extra, err := lr.next(); err == nil {
		return nil, fmt.Errorf("line %d: unexpected data after %d edges: %q", lr.line, edges, strings.Join(extra, " "))
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// LoadInstance reads an instance file. The graph is named after the file's
// base name. A missing file returns ErrCodeFileNotFound.
func LoadInstance(path string) (*layered.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "instance file %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadInstance(f, filepath.Base(path))
}

// WriteInstance writes g in the format accepted by [ReadInstance]. Edges are
// written in insertion order; the current layer order is not recorded.
func WriteInstance(w io.Writer, g *layered.Graph) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d %d\n", g.NodeCount(), g.EdgeCount(), g.LayerCount())
	bw.WriteString(joinInts(g.LayerSizes()))
	bw.WriteByte('\n')
	for e := range g.EdgeCount() {
		edge := g.Edge(e)
		fmt.Fprintf(bw, "%d %d\n", g.Node(edge.Source).ID, g.Node(edge.Sink).ID)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write instance: %w", err)
	}
	return nil
}

// SaveInstance writes g to a file at path.
func SaveInstance(g *layered.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteInstance(f, g); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func joinInts(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}
