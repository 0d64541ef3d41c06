// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package provider normalizes heterogeneous LLM backends behind a single
// conversion interface. Backends are selected by name through New; each
// owns its credential and HTTP handling exclusively.
package provider

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/pdf2md/pkg/types"
)

// Provider converts extracted PDF content into Markdown through a model
// backend. Implementations are safe for sequential use by one pipeline
// invocation.
type Provider interface {
	// Name returns the provider identifier ("anthropic", "openai").
	Name() string

	// ConvertText sends one chunk of extracted text and returns Markdown.
	ConvertText(ctx context.Context, chunkText string, maxTokens int) (string, error)

	// ConvertVision sends page images with their extracted text and returns
	// Markdown. Backends without multimodal support fail with an
	// unsupported-mode error instead of degrading to text.
	ConvertVision(ctx context.Context, pages []types.Page, maxTokens int) (string, error)

	// ValidateConfig reports whether a usable credential is configured.
	// Advisory only; the backend still authenticates at call time.
	ValidateConfig() bool

	// Models lists the provider's known model identifiers and its default.
	Models() Catalog
}

// ModelInfo describes one model a provider offers.
type ModelInfo struct {
	ID     string `yaml:"id"`
	Vision bool   `yaml:"vision"`
}

// Catalog lists a provider's models for presentation to a caller.
type Catalog struct {
	Provider string      `yaml:"provider"`
	Default  string      `yaml:"default"`
	Models   []ModelInfo `yaml:"models"`
}

// New resolves a provider name to a concrete backend. Unrecognized names
// fail before any network activity.
func New(cfg types.ProviderConfig) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "anthropic":
		return NewAnthropic(cfg), nil
	case "openai":
		return NewOpenAI(cfg), nil
	default:
		return nil, types.Errorf(types.KindUnknownProvider,
			"unknown provider %q (supported: anthropic, openai)", cfg.Provider)
	}
}

// Names lists the supported provider identifiers.
func Names() []string {
	return []string{"anthropic", "openai"}
}

// Catalogs returns the model catalog of every supported provider.
func Catalogs() []Catalog {
	return []Catalog{anthropicCatalog, openaiCatalog}
}

// requestTimeout bounds one round trip so a hung call cannot stall the
// batch driver. Expiry is classified as a transient network failure.
const requestTimeout = 120 * time.Second

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: requestTimeout}
}

// classifyStatus maps a non-200 backend response to the error taxonomy.
func classifyStatus(name string, status int, body string) *types.Error {
	msg := name + " API returned " + http.StatusText(status) + ": " + strings.TrimSpace(body)
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return types.NewError(types.KindAuthentication, msg, nil)
	case http.StatusTooManyRequests:
		return types.NewError(types.KindRateLimit, msg, nil)
	case http.StatusBadRequest, http.StatusNotFound, http.StatusUnprocessableEntity:
		return types.NewError(types.KindInvalidConfiguration, msg, nil)
	default:
		return types.NewError(types.KindTransientNetwork, msg, nil)
	}
}

// classifyTransport maps a transport-level failure (connection refused,
// timeout, cancelled context) to the error taxonomy. Timeouts and
// connectivity failures are both transient from the caller's point of view.
func classifyTransport(name string, err error) *types.Error {
	msg := name + " request failed"
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Timeout() {
		msg = name + " request timed out after " + requestTimeout.String()
	}
	return types.NewError(types.KindTransientNetwork, msg, err)
}
