// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model for the pdf2md pipeline.
package types

// Page is one extracted PDF page. Index is 0-based and contiguous across
// the document. Image holds a rendered raster of the page (JPEG) when the
// pipeline runs in vision mode; it is empty in text-only mode.
type Page struct {
	Index      int
	Text       string
	Image      []byte
	ImageMedia string
}

// HasImage reports whether a rendered page image is attached.
func (p Page) HasImage() bool {
	return len(p.Image) > 0
}

// Chunk is a contiguous group of pages sent to the model in one request.
// Ordinal is the 0-based emission order; Pages is never empty and covers a
// contiguous index range.
type Chunk struct {
	Ordinal int
	Pages   []Page
}

// Text joins the chunk's page texts with blank lines, in page order.
func (c Chunk) Text() string {
	var out string
	for i, p := range c.Pages {
		if i > 0 {
			out += "\n\n"
		}
		out += p.Text
	}
	return out
}
