// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract pulls per-page text and optional page renders out of PDF
// files through MuPDF (go-fitz).
package extract

import (
	"bytes"
	"fmt"
	"image/jpeg"

	"github.com/gen2brain/go-fitz"

	"github.com/pdiddy/pdf2md/pkg/types"
)

// jpegQuality balances vision-request payload size against legibility.
const jpegQuality = 85

// ExtractPages returns the document's pages in order, text only. Unreadable
// or corrupt PDFs fail with an extraction error, which aborts the document
// rather than one chunk.
func ExtractPages(pdfPath string) ([]types.Page, error) {
	return extract(pdfPath, 0)
}

// ExtractPagesWithImages additionally renders each page to a JPEG at the
// given DPI for vision-mode conversion. dpi <= 0 selects the default.
func ExtractPagesWithImages(pdfPath string, dpi float64) ([]types.Page, error) {
	if dpi <= 0 {
		dpi = types.DefaultVisionDPI
	}
	return extract(pdfPath, dpi)
}

func extract(pdfPath string, dpi float64) ([]types.Page, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, types.NewError(types.KindExtraction,
			fmt.Sprintf("opening PDF %s", pdfPath), err)
	}
	defer doc.Close()

	pages := make([]types.Page, 0, doc.NumPage())
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err != nil {
			return nil, types.NewError(types.KindExtraction,
				fmt.Sprintf("extracting text from page %d of %s", i+1, pdfPath), err)
		}

		page := types.Page{Index: i, Text: text}

		if dpi > 0 {
			img, err := doc.ImageDPI(i, dpi)
			if err != nil {
				return nil, types.NewError(types.KindExtraction,
					fmt.Sprintf("rendering page %d of %s", i+1, pdfPath), err)
			}
			var buf bytes.Buffer
			if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
				return nil, types.NewError(types.KindExtraction,
					fmt.Sprintf("encoding page %d of %s", i+1, pdfPath), err)
			}
			page.Image = buf.Bytes()
			page.ImageMedia = "image/jpeg"
		}

		pages = append(pages, page)
	}

	return pages, nil
}
