package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/mmac/pkg/errors"
	"github.com/matzehuels/mmac/pkg/mmac"
)

// WriteSolution writes sol as a plain-text record:
//
//	<instance>
//	Time: <seconds to best> seconds
//	Iteration: <moves applied when captured>
//	Objective: <bottleneck>
//	Solution:
//	<node IDs of layer 0>
//	<node IDs of layer 1>
//	...
func WriteSolution(w io.Writer, sol *mmac.Solution) error {
	name := sol.Instance
	if name == "" {
		name = "unnamed"
	}
	if err := errors.ValidateInstanceName(name); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, name)
	fmt.Fprintf(bw, "Time: %s seconds\n", strconv.FormatFloat(sol.TimeToBest.Seconds(), 'f', -1, 64))
	fmt.Fprintf(bw, "Iteration: %d\n", sol.Iteration)
	fmt.Fprintf(bw, "Objective: %d\n", sol.Objective)
	fmt.Fprintln(bw, "Solution:")
	for _, ids := range sol.Layers {
		bw.WriteString(joinInts(ids))
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write solution: %w", err)
	}
	return nil
}

// ExportSolution writes sol to a file at path.
func ExportSolution(sol *mmac.Solution, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteSolution(f, sol); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadSolution parses a record written by [WriteSolution]. The Iteration
// line is optional. Claimed values are not checked against any instance;
// use [mmac.Evaluate] for that.
//
// Malformed records return ErrCodeInvalidFormat.
func ReadSolution(r io.Reader) (*mmac.Solution, error) {
	sol, err := readSolution(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "solution record")
	}
	return sol, nil
}

func readSolution(r io.Reader) (*mmac.Solution, error) {
	lr := newLineReader(r)
	sol := &mmac.Solution{}

	fields, err := lr.next()
	if err != nil {
		return nil, fmt.Errorf("missing instance name")
	}
	sol.Instance = strings.Join(fields, " ")

	for {
		fields, err := lr.next()
		if err == io.EOF {
			return nil, fmt.Errorf("missing Solution: section")
		}
		if err != nil {
			return nil, err
		}
		key, rest := fields[0], fields[1:]
		switch key {
		case "Time:":
			if len(rest) == 0 {
				return nil, fmt.Errorf("line %d: Time: without value", lr.line)
			}
			secs, err := strconv.ParseFloat(rest[0], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad time %q", lr.line, rest[0])
			}
			sol.TimeToBest = time.Duration(secs * float64(time.Second))
		case "Iteration:":
			if sol.Iteration, err = headerInt(lr, rest); err != nil {
				return nil, err
			}
		case "Objective:":
			if sol.Objective, err = headerInt(lr, rest); err != nil {
				return nil, err
			}
		case "Solution:":
			return readLayers(lr, sol)
		default:
			return nil, fmt.Errorf("line %d: unexpected %q", lr.line, key)
		}
	}
}

func headerInt(lr *lineReader, rest []string) (int, error) {
	if len(rest) != 1 {
		return 0, fmt.Errorf("line %d: want one value", lr.line)
	}
	v, err := strconv.Atoi(rest[0])
	if err != nil {
		return 0, fmt.Errorf("line %d: %q is not an integer", lr.line, rest[0])
	}
	return v, nil
}

func readLayers(lr *lineReader, sol *mmac.Solution) (*mmac.Solution, error) {
	for {
		fields, err := lr.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		ids, err := lr.parse("layer", fields)
		if err != nil {
			return nil, err
		}
		sol.Layers = append(sol.Layers, ids)
	}
	if len(sol.Layers) == 0 {
		return nil, fmt.Errorf("no layers after Solution:")
	}
	return sol, nil
}

// ImportSolution reads a solution record from a file. A missing file returns
// ErrCodeFileNotFound.
func ImportSolution(path string) (*mmac.Solution, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "solution file %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadSolution(f)
}

// MarshalSolution encodes sol as JSON.
func MarshalSolution(sol *mmac.Solution) ([]byte, error) {
	data, err := json.Marshal(sol)
	if err != nil {
		return nil, fmt.Errorf("encode solution: %w", err)
	}
	return data, nil
}

// UnmarshalSolution decodes a solution encoded by [MarshalSolution].
func UnmarshalSolution(data []byte) (*mmac.Solution, error) {
	var sol mmac.Solution
	if err := json.Unmarshal(data, &sol); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode solution")
	}
	if len(sol.Layers) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "decode solution: no layers")
	}
	return &sol, nil
}
