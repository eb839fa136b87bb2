package io

import (
	"bytes"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/mmac/pkg/errors"
	"github.com/matzehuels/mmac/pkg/mmac"
)

func sampleSolution() *mmac.Solution {
	return &mmac.Solution{
		Instance:   "example.txt",
		Objective:  1,
		Iteration:  14,
		TimeToBest: 125 * time.Millisecond,
		Layers:     [][]int{{2, 1}, {5, 4, 3}, {7, 6}},
	}
}

func TestWriteSolution(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSolution(&buf, sampleSolution()); err != nil {
		t.Fatalf("WriteSolution() error: %v", err)
	}
	want := `example.txt
Time: 0.125 seconds
Iteration: 14
Objective: 1
Solution:
2 1
5 4 3
7 6
`
	if buf.String() != want {
		t.Errorf("WriteSolution() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestWriteSolution_BadName(t *testing.T) {
	sol := sampleSolution()
	sol.Instance = "two\nlines"
	if err := WriteSolution(&bytes.Buffer{}, sol); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("WriteSolution() error = %v, want INVALID_INPUT", err)
	}
}

func TestReadSolution_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	sol := sampleSolution()
	if err := WriteSolution(&buf, sol); err != nil {
		t.Fatal(err)
	}
	got, err := ReadSolution(&buf)
	if err != nil {
		t.Fatalf("ReadSolution() error: %v", err)
	}
	if got.Instance != sol.Instance || got.Objective != sol.Objective || got.Iteration != sol.Iteration {
		t.Errorf("ReadSolution() = %+v, want %+v", got, sol)
	}
	if got.TimeToBest != sol.TimeToBest {
		t.Errorf("TimeToBest = %v, want %v", got.TimeToBest, sol.TimeToBest)
	}
	if !slices.EqualFunc(got.Layers, sol.Layers, slices.Equal[[]int]) {
		t.Errorf("Layers = %v, want %v", got.Layers, sol.Layers)
	}
}

func TestReadSolution_WithoutIteration(t *testing.T) {
	// Records written with trailing spaces and no Iteration line.
	in := "noug3-rnd-001.txt\nTime: 2.5 seconds\nObjective: 4\nSolution: \n3 1 2 \n4 5 \n"
	sol, err := ReadSolution(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadSolution() error: %v", err)
	}
	if sol.Objective != 4 || sol.Iteration != 0 || sol.TimeToBest != 2500*time.Millisecond {
		t.Errorf("ReadSolution() = %+v", sol)
	}
	if len(sol.Layers) != 2 || !slices.Equal(sol.Layers[0], []int{3, 1, 2}) {
		t.Errorf("Layers = %v", sol.Layers)
	}
}

func TestReadSolution_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"no section", "x\nObjective: 1\n"},
		{"no layers", "x\nObjective: 1\nSolution:\n"},
		{"bad objective", "x\nObjective: many\nSolution:\n1\n"},
		{"bad time", "x\nTime: soon seconds\nSolution:\n1\n"},
		{"bad id", "x\nSolution:\n1 b\n"},
		{"unknown key", "x\nScore: 3\nSolution:\n1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadSolution(strings.NewReader(tt.input)); !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("ReadSolution() error = %v, want INVALID_FORMAT", err)
			}
		})
	}
}

func TestExportImportSolution(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sol.txt")
	if err := ExportSolution(sampleSolution(), path); err != nil {
		t.Fatalf("ExportSolution() error: %v", err)
	}
	sol, err := ImportSolution(path)
	if err != nil {
		t.Fatalf("ImportSolution() error: %v", err)
	}
	if sol.Objective != 1 {
		t.Errorf("Objective = %d, want 1", sol.Objective)
	}
	if _, err := ImportSolution(path + ".missing"); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ImportSolution(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestMarshalSolution(t *testing.T) {
	sol := sampleSolution()
	sol.Seed = 42
	sol.RunID = "run"
	data, err := MarshalSolution(sol)
	if err != nil {
		t.Fatalf("MarshalSolution() error: %v", err)
	}
	got, err := UnmarshalSolution(data)
	if err != nil {
		t.Fatalf("UnmarshalSolution() error: %v", err)
	}
	if got.Seed != 42 || got.RunID != "run" || got.TimeToBest != sol.TimeToBest {
		t.Errorf("UnmarshalSolution() = %+v", got)
	}

	for _, bad := range []string{"{", `{"objective": 1}`} {
		if _, err := UnmarshalSolution([]byte(bad)); !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("UnmarshalSolution(%q) error = %v, want INVALID_FORMAT", bad, err)
		}
	}
}
