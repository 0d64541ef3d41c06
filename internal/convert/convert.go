// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert implements the PDF-to-Markdown pipeline: chunk dispatch
// to a model provider, response assembly, and batch processing.
package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/pdf2md/internal/chunk"
	"github.com/pdiddy/pdf2md/internal/extract"
	"github.com/pdiddy/pdf2md/internal/provider"
	"github.com/pdiddy/pdf2md/pkg/types"
)

// separator joins chunk outputs in the assembled document.
const separator = "\n\n---\n\n"

// provenanceNote is the fixed note under the document title.
const provenanceNote = "*Converted from PDF using LLM-assisted conversion*"

// Extractor produces ordered page records from a PDF file. Tests substitute
// this to run the pipeline without real PDFs.
type Extractor func(pdfPath string, opts types.ConvertOptions) ([]types.Page, error)

// defaultExtractor reads pages through go-fitz, rendering images when the
// options ask for vision mode.
func defaultExtractor(pdfPath string, opts types.ConvertOptions) ([]types.Page, error) {
	if opts.Vision {
		return extract.ExtractPagesWithImages(pdfPath, opts.VisionDPI)
	}
	return extract.ExtractPages(pdfPath)
}

// Pipeline converts PDF documents through one provider. The provider config
// is resolved before construction and never mutated afterwards.
type Pipeline struct {
	Provider  Provider
	MaxTokens int
	Extract   Extractor
}

// Provider is the subset of the provider abstraction the pipeline needs.
type Provider interface {
	Name() string
	ConvertText(ctx context.Context, chunkText string, maxTokens int) (string, error)
	ConvertVision(ctx context.Context, pages []types.Page, maxTokens int) (string, error)
	ValidateConfig() bool
}

var _ Provider = (provider.Provider)(nil)

// New builds a pipeline around the given provider. maxTokens <= 0 selects
// the default output budget.
func New(p Provider, maxTokens int) *Pipeline {
	if maxTokens <= 0 {
		maxTokens = types.DefaultMaxTokens
	}
	return &Pipeline{Provider: p, MaxTokens: maxTokens, Extract: defaultExtractor}
}

func progressWriter(opts types.ConvertOptions) io.Writer {
	if opts.Progress == nil {
		return io.Discard
	}
	return opts.Progress
}

// ConvertChunks sends each chunk to the provider in ordinal order and
// records one result per chunk. A failing chunk is recorded, not raised, so
// the rest of the document still converts.
func (pl *Pipeline) ConvertChunks(ctx context.Context, chunks []types.Chunk, opts types.ConvertOptions) []types.ConversionResult {
	w := progressWriter(opts)

	results := make([]types.ConversionResult, 0, len(chunks))
	for i, c := range chunks {
		fmt.Fprintf(w, "  converting chunk %d/%d...\n", i+1, len(chunks))

		var md string
		var err error
		if opts.Vision {
			md, err = pl.Provider.ConvertVision(ctx, c.Pages, pl.MaxTokens)
		} else {
			md, err = pl.Provider.ConvertText(ctx, c.Text(), pl.MaxTokens)
		}
		if err != nil {
			fmt.Fprintf(w, "  chunk %d/%d failed: %v\n", i+1, len(chunks), err)
			results = append(results, types.ConversionResult{Ordinal: c.Ordinal, Err: err})
			continue
		}
		results = append(results, types.ConversionResult{Ordinal: c.Ordinal, Markdown: md})
	}
	return results
}

// Assemble joins chunk results into the final document: a title header, the
// provenance note, then each chunk's Markdown in ordinal order separated by
// horizontal rules. Failed chunks render as an inline comment naming the
// chunk and the error, so the surrounding document stays usable. Never
// fails.
func Assemble(results []types.ConversionResult, title string) string {
	parts := make([]string, 0, len(results))
	for _, r := range results {
		if r.Failed() {
			parts = append(parts, fmt.Sprintf("<!-- error converting chunk %d: %v -->", r.Ordinal+1, r.Err))
			continue
		}
		parts = append(parts, r.Markdown)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n%s\n\n", title, provenanceNote)
	b.WriteString(strings.Join(parts, separator))
	return b.String()
}

// ConvertPDF runs the full single-document pipeline: extract, chunk,
// convert, assemble, and write outPath (empty outPath defaults to the PDF
// path with a .md extension). Structural failures — a missing credential,
// an unreadable PDF, a bad chunk size — propagate; per-chunk failures are
// embedded in the document instead.
func (pl *Pipeline) ConvertPDF(ctx context.Context, pdfPath, outPath string, opts types.ConvertOptions) (string, error) {
	w := progressWriter(opts)

	if !pl.Provider.ValidateConfig() {
		return "", types.Errorf(types.KindAuthentication,
			"provider %s has no usable API key; pass --api-key or set the provider's environment variable", pl.Provider.Name())
	}

	fmt.Fprintf(w, "Processing: %s\n", pdfPath)

	extractor := pl.Extract
	if extractor == nil {
		extractor = defaultExtractor
	}
	pages, err := extractor(pdfPath, opts)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(w, "  found %d pages\n", len(pages))

	chunks, err := chunk.Split(pages, opts.ChunkSize())
	if err != nil {
		return "", err
	}
	fmt.Fprintf(w, "  created %d chunks\n", len(chunks))

	results := pl.ConvertChunks(ctx, chunks, opts)

	title := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	doc := Assemble(results, title)

	if outPath == "" {
		outPath = strings.TrimSuffix(pdfPath, filepath.Ext(pdfPath)) + ".md"
	}
	if err := os.WriteFile(outPath, []byte(doc), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", outPath, err)
	}

	fmt.Fprintf(w, "saved: %s\n", outPath)
	return doc, nil
}
