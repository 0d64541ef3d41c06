// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/pdf2md/internal/httputil"
	"github.com/pdiddy/pdf2md/pkg/types"
)

// anthropicAPIURL is the Anthropic Messages API endpoint. Package-level var
// for test substitution.
var anthropicAPIURL = "https://api.anthropic.com/v1/messages"

const anthropicDefaultModel = "claude-sonnet-4-20250514"

// anthropicCatalog lists the Claude models offered for conversion. Every
// listed model accepts image input.
var anthropicCatalog = Catalog{
	Provider: "anthropic",
	Default:  anthropicDefaultModel,
	Models: []ModelInfo{
		{ID: "claude-sonnet-4-20250514", Vision: true},
		{ID: "claude-opus-4-20250514", Vision: true},
		{ID: "claude-3-5-sonnet-20241022", Vision: true},
		{ID: "claude-3-5-haiku-20241022", Vision: true},
	},
}

// Anthropic converts chunks through the Claude Messages API.
type Anthropic struct {
	apiKey string
	model  string
	client *http.Client
}

// NewAnthropic builds the Claude backend, resolving the credential from the
// config, the ANTHROPIC_API_KEY environment variable, or .secrets/.
func NewAnthropic(cfg types.ProviderConfig) *Anthropic {
	model := cfg.Model
	if model == "" {
		model = anthropicDefaultModel
	}
	return &Anthropic{
		apiKey: resolveAPIKey(cfg.APIKey, "ANTHROPIC_API_KEY", "anthropic-api-key"),
		model:  model,
		client: newHTTPClient(),
	}
}

// anthropicRequest is the request body for the Messages API.
type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

// anthropicMessage is a single message in the conversation.
type anthropicMessage struct {
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
}

// anthropicContent is one content block: text or a base64 image.
type anthropicContent struct {
	Type   string                `json:"type"`
	Text   string                `json:"text,omitempty"`
	Source *anthropicImageSource `json:"source,omitempty"`
}

// anthropicImageSource carries inline image data.
type anthropicImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

// anthropicResponse is the response body from the Messages API.
type anthropicResponse struct {
	Content    []anthropicContent `json:"content"`
	StopReason string             `json:"stop_reason"`
}

// Name implements Provider.
func (a *Anthropic) Name() string { return "anthropic" }

// ValidateConfig implements Provider.
func (a *Anthropic) ValidateConfig() bool { return validKey(a.apiKey) }

// Models implements Provider.
func (a *Anthropic) Models() Catalog { return anthropicCatalog }

// ConvertText sends one chunk of extracted text to Claude.
func (a *Anthropic) ConvertText(ctx context.Context, chunkText string, maxTokens int) (string, error) {
	prompt, err := renderTextPrompt(chunkText)
	if err != nil {
		return "", err
	}
	blocks := []anthropicContent{{Type: "text", Text: prompt}}
	return a.send(ctx, blocks, maxTokens)
}

// ConvertVision sends page images plus their extracted text to Claude.
// Every Claude model in the catalog accepts images, so the mode check only
// guards against pages missing their renders.
func (a *Anthropic) ConvertVision(ctx context.Context, pages []types.Page, maxTokens int) (string, error) {
	blocks := []anthropicContent{{Type: "text", Text: visionInstructions}}
	for _, p := range pages {
		if !p.HasImage() {
			return "", types.Errorf(types.KindUnsupportedMode,
				"vision conversion requested but page %d has no rendered image", p.Index+1)
		}
		blocks = append(blocks, anthropicContent{
			Type: "image",
			Source: &anthropicImageSource{
				Type:      "base64",
				MediaType: p.ImageMedia,
				Data:      base64.StdEncoding.EncodeToString(p.Image),
			},
		})
		blocks = append(blocks, anthropicContent{
			Type: "text",
			Text: pageTextLabel(p.Index) + "\n\n" + p.Text,
		})
	}
	return a.send(ctx, blocks, maxTokens)
}

// send issues one Messages API call and normalizes the response.
func (a *Anthropic) send(ctx context.Context, blocks []anthropicContent, maxTokens int) (string, error) {
	reqBody := anthropicRequest{
		Model:     a.model,
		MaxTokens: maxTokens,
		Messages: []anthropicMessage{
			{Role: "user", Content: blocks},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", types.NewError(types.KindInvalidConfiguration, "marshaling request", err)
	}

	newReq := func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicAPIURL, bytes.NewReader(bodyBytes))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", a.apiKey)
		req.Header.Set("anthropic-version", "2023-06-01")
		return req, nil
	}

	resp, err := httputil.DoWithRetry(ctx, a.client, newReq, 0)
	if err != nil {
		return "", classifyTransport(a.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", classifyStatus(a.Name(), resp.StatusCode, string(body))
	}

	var aResp anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&aResp); err != nil {
		return "", types.NewError(types.KindTransientNetwork, "decoding anthropic response", err)
	}

	if aResp.StopReason == "max_tokens" {
		return "", types.TruncationError(maxTokens)
	}

	var parts []string
	for _, block := range aResp.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	if len(parts) == 0 {
		return "", types.NewError(types.KindTransientNetwork, "anthropic response carried no text content", nil)
	}
	return strings.Join(parts, ""), nil
}
