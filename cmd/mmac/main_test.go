package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	mmacerrors "github.com/matzehuels/mmac/pkg/errors"
)

func TestExitCode(t *testing.T) {
	internal := mmacerrors.New(mmacerrors.ErrCodeInternal, "edge 1->4: tracked 3, recomputed 2")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"interrupted", fmt.Errorf("solve: %w", context.Canceled), 130},
		{"internal", internal, 2},
		{"internal behind context", mmacerrors.Wrap(mmacerrors.ErrCodeInvalidInput, internal, "solve g.txt"), 2},
		{"rejected solution", mmacerrors.New(mmacerrors.ErrCodeInvalidSolution, "sol.txt claims objective 5, recomputed 2"), 3},
		{"missing file", mmacerrors.New(mmacerrors.ErrCodeFileNotFound, "g.txt"), 1},
		{"plain", errors.New("boom"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
