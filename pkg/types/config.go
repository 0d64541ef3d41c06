// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "io"

// Default pipeline settings. Callers build explicit config structs from
// these; nothing in the pipeline reads them as ambient globals.
const (
	DefaultProvider            = "anthropic"
	DefaultMaxTokens           = 4000
	DefaultPagesPerChunk       = 5
	DefaultVisionPagesPerChunk = 2
	DefaultVisionDPI           = 150
)

// ProviderConfig identifies the model backend for one pipeline invocation.
// It is resolved once and read-only afterwards. APIKey is a secret and must
// never be logged.
type ProviderConfig struct {
	// Provider selects the backend: "anthropic" or "openai".
	Provider string `json:"provider" yaml:"provider"`

	// APIKey is the authentication key for the backend API.
	APIKey string `json:"-" yaml:"-"`

	// Model is the model identifier. Empty selects the provider default.
	Model string `json:"model" yaml:"model"`

	// MaxTokens is the output token budget per request.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`
}

// ConvertOptions holds per-document pipeline settings.
type ConvertOptions struct {
	// PagesPerChunk is the number of pages per model request in text mode.
	PagesPerChunk int `json:"pages_per_chunk" yaml:"pages_per_chunk"`

	// Vision enables image-augmented conversion.
	Vision bool `json:"vision" yaml:"vision"`

	// VisionDPI is the render resolution for page images.
	VisionDPI float64 `json:"vision_dpi" yaml:"vision_dpi"`

	// VisionPagesPerChunk is the chunk size in vision mode. Smaller than the
	// text default because each page carries an image payload.
	VisionPagesPerChunk int `json:"vision_pages_per_chunk" yaml:"vision_pages_per_chunk"`

	// Progress receives human-readable status lines. Nil discards them.
	Progress io.Writer `json:"-" yaml:"-"`
}

// ChunkSize returns the effective pages-per-chunk for the selected mode,
// falling back to the defaults when unset.
func (o ConvertOptions) ChunkSize() int {
	if o.Vision {
		if o.VisionPagesPerChunk != 0 {
			return o.VisionPagesPerChunk
		}
		return DefaultVisionPagesPerChunk
	}
	if o.PagesPerChunk != 0 {
		return o.PagesPerChunk
	}
	return DefaultPagesPerChunk
}
