// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"bytes"
	"fmt"
	"text/template"
)

// textPromptTmpl is the instruction prompt sent with each chunk of extracted
// PDF text. Both backends use the same prompt so output quality differences
// come from the model, not the instructions.
var textPromptTmpl = template.Must(template.New("convert").Parse(`Convert this text from a PDF document to clean, well-structured markdown.

Requirements:
- Use proper heading hierarchy (# for main titles, ## for sections, ### for subsections)
- Convert any tables to proper markdown table format with aligned columns
- Convert tables to structured headings instead of markdown tables if they are complex
- Watch out for tables that span multiple pages - treat them as one table
- Clean up formatting artifacts from PDF extraction (broken lines, weird spacing)
- Use consistent bullet points and numbered lists
- Preserve all information - don't summarize or omit content
- ALWAYS Remove page numbers, headers, and footers if they appear
- Make the document scannable with clear structure

Output ONLY the markdown - no explanations or commentary.

Text to convert:

{{.Text}}`))

// visionInstructions is the shared instruction block for vision-mode
// requests. It precedes one page image plus its extracted text per page.
const visionInstructions = `Convert these PDF pages to clean, well-structured markdown. Each page is provided as a rendered image together with the raw text extracted from it. Use the images to recover layout that plain text extraction loses.

Requirements:
- Use proper heading hierarchy (# for main titles, ## for sections, ### for subsections)
- Use the page images to detect tables, multi-column layouts, and figures that the extracted text garbles
- Convert any tables to proper markdown table format with aligned columns
- Watch out for tables that span multiple pages - treat them as one table
- Identify headers and footers repeated across pages and remove every occurrence
- Clean up formatting artifacts from PDF extraction (broken lines, weird spacing)
- Preserve all information - don't summarize or omit content
- Make the document scannable with clear structure

Output ONLY the markdown - no explanations or commentary.`

// renderTextPrompt combines the fixed instructions with one chunk of raw
// page text.
func renderTextPrompt(chunkText string) (string, error) {
	var buf bytes.Buffer
	if err := textPromptTmpl.Execute(&buf, struct{ Text string }{Text: chunkText}); err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return buf.String(), nil
}

// pageTextLabel introduces the extracted text that accompanies a page image.
func pageTextLabel(pageIndex int) string {
	return fmt.Sprintf("Extracted text for page %d:", pageIndex+1)
}
