// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ConversionResult is the outcome of converting one chunk. Err is nil on
// success; on failure Markdown is empty and Err describes what went wrong.
// Results are collected in ordinal order, one per chunk.
type ConversionResult struct {
	Ordinal  int
	Markdown string
	Err      error
}

// Failed reports whether the chunk conversion failed.
func (r ConversionResult) Failed() bool {
	return r.Err != nil
}

// BatchSummary holds counts from a batch conversion run.
type BatchSummary struct {
	Attempted   int
	Succeeded   int
	Failed      int
	FailedFiles []string
}

// Total returns the number of files processed.
func (s BatchSummary) Total() int {
	return s.Attempted
}

// HasFailures reports whether any files failed.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}
