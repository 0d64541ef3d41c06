// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package chunk groups extracted pages into bounded model requests.
package chunk

import (
	"github.com/pdiddy/pdf2md/pkg/types"
)

// Split groups consecutive pages into chunks of perChunk pages; the final
// chunk may hold fewer. Pure function of its inputs: same pages and size
// always yield the same chunks, and every page lands in exactly one chunk.
func Split(pages []types.Page, perChunk int) ([]types.Chunk, error) {
	if perChunk <= 0 {
		return nil, types.Errorf(types.KindInvalidConfiguration,
			"pages per chunk must be positive, got %d", perChunk)
	}

	var chunks []types.Chunk
	for start := 0; start < len(pages); start += perChunk {
		end := start + perChunk
		if end > len(pages) {
			end = len(pages)
		}
		chunks = append(chunks, types.Chunk{
			Ordinal: len(chunks),
			Pages:   pages[start:end],
		})
	}
	return chunks, nil
}
