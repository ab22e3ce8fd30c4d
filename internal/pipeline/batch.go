// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
)

// BatchResult holds the outcome of converting several notes.
type BatchResult struct {
	Converted int
	Failed    int
	Results   []*Result
}

// Total returns the total number of notes processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Failed
}

// HasFailures reports whether any note failed to convert.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// RunBatch converts each note in turn, printing per-note status to the
// session's status writer and a summary at the end. One note failing
// does not stop the others.
func (s *Session) RunBatch(ctx context.Context, inputPaths []string) BatchResult {
	var result BatchResult
	for _, path := range inputPaths {
		res, err := s.Run(ctx, path)
		if err != nil {
			fmt.Fprintf(s.status, "failed:  %s (%v)\n", path, err)
			result.Failed++
			continue
		}
		fmt.Fprintf(s.status, "done:    %s -> %s\n", path, res.OutputPath)
		result.Converted++
		result.Results = append(result.Results, res)
	}
	fmt.Fprintf(s.status, "\nBatch summary: %d converted, %d failed (total: %d)\n",
		result.Converted, result.Failed, result.Total())
	return result
}
