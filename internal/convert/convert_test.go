// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdf2md/internal/chunk"
	"github.com/pdiddy/pdf2md/pkg/types"
)

// stubProvider implements Provider without any network. fail maps a call
// index to the error it should return.
type stubProvider struct {
	invalid     bool
	fail        map[int]error
	calls       int
	visionCalls int
	texts       []string
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) ValidateConfig() bool { return !s.invalid }

func (s *stubProvider) ConvertText(_ context.Context, text string, _ int) (string, error) {
	idx := s.calls
	s.calls++
	s.texts = append(s.texts, text)
	if err, ok := s.fail[idx]; ok {
		return "", err
	}
	return fmt.Sprintf("markdown for chunk %d", idx), nil
}

func (s *stubProvider) ConvertVision(_ context.Context, pages []types.Page, _ int) (string, error) {
	idx := s.calls
	s.calls++
	s.visionCalls++
	if err, ok := s.fail[idx]; ok {
		return "", err
	}
	return fmt.Sprintf("vision markdown for chunk %d", idx), nil
}

// pagesExtractor returns an Extractor yielding n synthetic pages.
func pagesExtractor(n int) Extractor {
	return func(_ string, _ types.ConvertOptions) ([]types.Page, error) {
		pages := make([]types.Page, n)
		for i := range pages {
			pages[i] = types.Page{Index: i, Text: fmt.Sprintf("text of page %d", i)}
		}
		return pages, nil
	}
}

func makeChunks(t *testing.T, nPages, perChunk int) []types.Chunk {
	t.Helper()
	pages, err := pagesExtractor(nPages)("", types.ConvertOptions{})
	require.NoError(t, err)
	chunks, err := chunk.Split(pages, perChunk)
	require.NoError(t, err)
	return chunks
}

// --- ConvertChunks ---

func TestConvertChunksOrderAndIsolation(t *testing.T) {
	stub := &stubProvider{fail: map[int]error{1: types.Errorf(types.KindRateLimit, "throttled")}}
	pl := New(stub, 0)

	var progress bytes.Buffer
	chunks := makeChunks(t, 6, 2)
	results := pl.ConvertChunks(context.Background(), chunks, types.ConvertOptions{Progress: &progress})

	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, i, r.Ordinal)
	}
	assert.False(t, results[0].Failed())
	assert.True(t, results[1].Failed())
	assert.True(t, types.IsKind(results[1].Err, types.KindRateLimit))
	assert.False(t, results[2].Failed())
	assert.Equal(t, "markdown for chunk 2", results[2].Markdown)

	// One provider call per chunk, even past a failure.
	assert.Equal(t, 3, stub.calls)

	out := progress.String()
	assert.Contains(t, out, "converting chunk 1/3")
	assert.Contains(t, out, "converting chunk 3/3")
	assert.Contains(t, out, "chunk 2/3 failed")
}

func TestConvertChunksTextJoinsPages(t *testing.T) {
	stub := &stubProvider{}
	pl := New(stub, 0)

	chunks := makeChunks(t, 4, 2)
	pl.ConvertChunks(context.Background(), chunks, types.ConvertOptions{})

	require.Len(t, stub.texts, 2)
	assert.Equal(t, "text of page 0\n\ntext of page 1", stub.texts[0])
	assert.Equal(t, "text of page 2\n\ntext of page 3", stub.texts[1])
}

func TestConvertChunksVisionMode(t *testing.T) {
	stub := &stubProvider{}
	pl := New(stub, 0)

	chunks := makeChunks(t, 4, 2)
	results := pl.ConvertChunks(context.Background(), chunks, types.ConvertOptions{Vision: true})

	assert.Equal(t, 2, stub.visionCalls)
	assert.Empty(t, stub.texts)
	assert.Equal(t, "vision markdown for chunk 0", results[0].Markdown)
}

// --- Assemble ---

func TestAssembleOrderPreserving(t *testing.T) {
	results := []types.ConversionResult{
		{Ordinal: 0, Markdown: "alpha"},
		{Ordinal: 1, Markdown: "beta"},
		{Ordinal: 2, Markdown: "gamma"},
	}
	doc := Assemble(results, "doc")

	permuted := []types.ConversionResult{results[2], results[0], results[1]}
	assert.NotEqual(t, doc, Assemble(permuted, "doc"))

	// Chunks appear in input order with the fixed separator.
	assert.Less(t, strings.Index(doc, "alpha"), strings.Index(doc, "beta"))
	assert.Less(t, strings.Index(doc, "beta"), strings.Index(doc, "gamma"))
	assert.Equal(t, 2, strings.Count(doc, "\n\n---\n\n"))
}

func TestAssembleHeader(t *testing.T) {
	doc := Assemble([]types.ConversionResult{{Ordinal: 0, Markdown: "body"}}, "report")
	assert.True(t, strings.HasPrefix(doc, "# report\n\n"), "got %q", doc)
	assert.Contains(t, doc, "*Converted from PDF using LLM-assisted conversion*")
}

func TestAssembleRendersFailedChunkInline(t *testing.T) {
	results := []types.ConversionResult{
		{Ordinal: 0, Markdown: "first chunk"},
		{Ordinal: 1, Err: types.Errorf(types.KindTransientNetwork, "connection reset")},
		{Ordinal: 2, Markdown: "third chunk"},
	}
	doc := Assemble(results, "doc")

	assert.Contains(t, doc, "first chunk")
	assert.Contains(t, doc, "third chunk")
	assert.Contains(t, doc, "<!-- error converting chunk 2:")
	assert.Contains(t, doc, "connection reset")
	// Count stays at one rendered block per chunk.
	assert.Equal(t, 2, strings.Count(doc, "\n\n---\n\n"))
}

func TestAssembleNoResults(t *testing.T) {
	doc := Assemble(nil, "empty")
	assert.Contains(t, doc, "# empty")
	assert.NotContains(t, doc, "\n\n---\n\n")
}

// --- ConvertPDF ---

func TestConvertPDFTwelvePagesFivePerChunk(t *testing.T) {
	stub := &stubProvider{}
	pl := New(stub, 0)
	pl.Extract = pagesExtractor(12)

	outPath := filepath.Join(t.TempDir(), "doc.md")
	doc, err := pl.ConvertPDF(context.Background(), "input/doc.pdf", outPath, types.ConvertOptions{PagesPerChunk: 5})
	require.NoError(t, err)

	// 12 pages at 5 per chunk = 3 provider calls, 2 separators.
	assert.Equal(t, 3, stub.calls)
	assert.Equal(t, 2, strings.Count(doc, "\n\n---\n\n"))
	assert.True(t, strings.HasPrefix(doc, "# doc\n"), "title derives from the PDF base name")

	written, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, doc, string(written))
}

func TestConvertPDFDefaultOutputPath(t *testing.T) {
	dir := t.TempDir()
	pdfPath := filepath.Join(dir, "paper.pdf")

	stub := &stubProvider{}
	pl := New(stub, 0)
	pl.Extract = pagesExtractor(2)

	_, err := pl.ConvertPDF(context.Background(), pdfPath, "", types.ConvertOptions{})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "paper.md"))
	assert.NoError(t, err)
}

func TestConvertPDFMissingCredential(t *testing.T) {
	stub := &stubProvider{invalid: true}
	pl := New(stub, 0)
	pl.Extract = func(string, types.ConvertOptions) ([]types.Page, error) {
		t.Fatal("extraction must not run without a credential")
		return nil, nil
	}

	_, err := pl.ConvertPDF(context.Background(), "doc.pdf", filepath.Join(t.TempDir(), "doc.md"), types.ConvertOptions{})
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.KindAuthentication), "got %v", err)
	assert.Equal(t, 0, stub.calls)
}

func TestConvertPDFExtractionErrorPropagates(t *testing.T) {
	stub := &stubProvider{}
	pl := New(stub, 0)
	pl.Extract = func(string, types.ConvertOptions) ([]types.Page, error) {
		return nil, types.Errorf(types.KindExtraction, "corrupt xref table")
	}

	_, err := pl.ConvertPDF(context.Background(), "bad.pdf", filepath.Join(t.TempDir(), "bad.md"), types.ConvertOptions{})
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.KindExtraction), "got %v", err)
	assert.Equal(t, 0, stub.calls)
}

func TestConvertPDFInvalidChunkSize(t *testing.T) {
	stub := &stubProvider{}
	pl := New(stub, 0)
	pl.Extract = pagesExtractor(3)

	_, err := pl.ConvertPDF(context.Background(), "doc.pdf", filepath.Join(t.TempDir(), "doc.md"), types.ConvertOptions{PagesPerChunk: -2})
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.KindInvalidConfiguration), "got %v", err)
}

func TestConvertPDFTruncatedChunkStaysInline(t *testing.T) {
	stub := &stubProvider{fail: map[int]error{0: types.TruncationError(100)}}
	pl := New(stub, 100)
	pl.Extract = pagesExtractor(3)

	doc, err := pl.ConvertPDF(context.Background(), "doc.pdf", filepath.Join(t.TempDir(), "doc.md"), types.ConvertOptions{})
	require.NoError(t, err)
	assert.Contains(t, doc, "<!-- error converting chunk 1:")
	assert.Contains(t, doc, "max_tokens=100")
}
