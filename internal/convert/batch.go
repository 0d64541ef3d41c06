// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/pdf2md/pkg/types"
)

// discoverPDFs walks root and returns every PDF path, sorted by WalkDir's
// lexical order. The list is fixed before any conversion starts; files
// added mid-run are not picked up.
func discoverPDFs(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".pdf") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	return files, nil
}

// RunBatch converts every PDF under inputRoot, mirroring the directory
// structure into outputRoot with .md extensions. A failing file is logged
// and skipped; the batch only fails when there is nothing to process.
// Status lines go to w.
func (pl *Pipeline) RunBatch(ctx context.Context, inputRoot, outputRoot string, opts types.ConvertOptions, w io.Writer) (types.BatchSummary, error) {
	if w == nil {
		w = io.Discard
	}
	if outputRoot == "" {
		outputRoot = inputRoot
	}

	var summary types.BatchSummary

	files, err := discoverPDFs(inputRoot)
	if err != nil {
		return summary, err
	}
	if len(files) == 0 {
		return summary, types.Errorf(types.KindInvalidConfiguration,
			"no PDF files found under %s", inputRoot)
	}

	fmt.Fprintf(w, "Found %d PDF files to convert\n", len(files))

	for i, pdfPath := range files {
		rel, err := filepath.Rel(inputRoot, pdfPath)
		if err != nil {
			rel = pdfPath
		}
		outPath := filepath.Join(outputRoot, strings.TrimSuffix(rel, filepath.Ext(rel))+".md")

		fmt.Fprintf(w, "\n[%d/%d] %s\n", i+1, len(files), rel)
		summary.Attempted++

		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			pl.recordFailure(&summary, w, rel, err)
			continue
		}

		if _, err := pl.ConvertPDF(ctx, pdfPath, outPath, opts); err != nil {
			pl.recordFailure(&summary, w, rel, err)
			continue
		}
		summary.Succeeded++
	}

	fmt.Fprintf(w, "\nBatch summary: %d succeeded, %d failed (total: %d)\n",
		summary.Succeeded, summary.Failed, summary.Total())
	for _, f := range summary.FailedFiles {
		fmt.Fprintf(w, "  failed: %s\n", f)
	}

	return summary, nil
}

// recordFailure logs one file's failure and keeps the batch going.
func (pl *Pipeline) recordFailure(summary *types.BatchSummary, w io.Writer, rel string, err error) {
	logrus.WithError(err).WithField("file", rel).Error("conversion failed")
	fmt.Fprintf(w, "failed:  %s (%v)\n", rel, err)
	summary.Failed++
	summary.FailedFiles = append(summary.FailedFiles, rel)
}
