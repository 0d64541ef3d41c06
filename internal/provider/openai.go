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

// openaiAPIURL is the OpenAI Chat Completions endpoint. Package-level var
// for test substitution.
var openaiAPIURL = "https://api.openai.com/v1/chat/completions"

const openaiDefaultModel = "gpt-4o"

// openaiCatalog lists the GPT models offered for conversion. gpt-3.5-turbo
// is text-only.
var openaiCatalog = Catalog{
	Provider: "openai",
	Default:  openaiDefaultModel,
	Models: []ModelInfo{
		{ID: "gpt-4o", Vision: true},
		{ID: "gpt-4o-mini", Vision: true},
		{ID: "gpt-4-turbo", Vision: true},
		{ID: "gpt-3.5-turbo", Vision: false},
	},
}

// OpenAI converts chunks through the Chat Completions API.
type OpenAI struct {
	apiKey string
	model  string
	client *http.Client
}

// NewOpenAI builds the GPT backend, resolving the credential from the
// config, the OPENAI_API_KEY environment variable, or .secrets/.
func NewOpenAI(cfg types.ProviderConfig) *OpenAI {
	model := cfg.Model
	if model == "" {
		model = openaiDefaultModel
	}
	return &OpenAI{
		apiKey: resolveAPIKey(cfg.APIKey, "OPENAI_API_KEY", "openai-api-key"),
		model:  model,
		client: newHTTPClient(),
	}
}

// openaiRequest is the request body for the Chat Completions API.
type openaiRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []openaiMessage `json:"messages"`
}

// openaiMessage is a single chat message. Content is either a plain string
// (text mode) or a slice of parts (vision mode).
type openaiMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// openaiContentPart is one part of a multimodal message.
type openaiContentPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *openaiImageURL `json:"image_url,omitempty"`
}

// openaiImageURL carries an image as a data URI.
type openaiImageURL struct {
	URL string `json:"url"`
}

// openaiResponse is the response body from the Chat Completions API.
type openaiResponse struct {
	Choices []openaiChoice `json:"choices"`
}

// openaiChoice is a single completion choice.
type openaiChoice struct {
	Message      openaiResponseMessage `json:"message"`
	FinishReason string                `json:"finish_reason"`
}

// openaiResponseMessage is the assistant message in a completion choice.
type openaiResponseMessage struct {
	Content string `json:"content"`
}

// Name implements Provider.
func (o *OpenAI) Name() string { return "openai" }

// ValidateConfig implements Provider.
func (o *OpenAI) ValidateConfig() bool { return validKey(o.apiKey) }

// Models implements Provider.
func (o *OpenAI) Models() Catalog { return openaiCatalog }

// supportsVision reports whether the configured model accepts image input.
// Models outside the catalog are assumed multimodal unless they belong to
// the gpt-3.5 family.
func (o *OpenAI) supportsVision() bool {
	for _, m := range openaiCatalog.Models {
		if m.ID == o.model {
			return m.Vision
		}
	}
	return !strings.HasPrefix(o.model, "gpt-3.5")
}

// ConvertText sends one chunk of extracted text to the model.
func (o *OpenAI) ConvertText(ctx context.Context, chunkText string, maxTokens int) (string, error) {
	prompt, err := renderTextPrompt(chunkText)
	if err != nil {
		return "", err
	}
	return o.send(ctx, prompt, maxTokens)
}

// ConvertVision sends page images plus their extracted text to the model.
// Text-only models fail fast instead of silently dropping the images.
func (o *OpenAI) ConvertVision(ctx context.Context, pages []types.Page, maxTokens int) (string, error) {
	if !o.supportsVision() {
		return "", types.Errorf(types.KindUnsupportedMode,
			"model %q does not accept image input; pick a multimodal model or disable vision", o.model)
	}

	parts := []openaiContentPart{{Type: "text", Text: visionInstructions}}
	for _, p := range pages {
		if !p.HasImage() {
			return "", types.Errorf(types.KindUnsupportedMode,
				"vision conversion requested but page %d has no rendered image", p.Index+1)
		}
		dataURI := "data:" + p.ImageMedia + ";base64," + base64.StdEncoding.EncodeToString(p.Image)
		parts = append(parts, openaiContentPart{Type: "image_url", ImageURL: &openaiImageURL{URL: dataURI}})
		parts = append(parts, openaiContentPart{Type: "text", Text: pageTextLabel(p.Index) + "\n\n" + p.Text})
	}
	return o.send(ctx, parts, maxTokens)
}

// send issues one Chat Completions call and normalizes the response.
func (o *OpenAI) send(ctx context.Context, content any, maxTokens int) (string, error) {
	reqBody := openaiRequest{
		Model:     o.model,
		MaxTokens: maxTokens,
		Messages: []openaiMessage{
			{Role: "user", Content: content},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", types.NewError(types.KindInvalidConfiguration, "marshaling request", err)
	}

	newReq := func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, openaiAPIURL, bytes.NewReader(bodyBytes))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+o.apiKey)
		return req, nil
	}

	resp, err := httputil.DoWithRetry(ctx, o.client, newReq, 0)
	if err != nil {
		return "", classifyTransport(o.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", classifyStatus(o.Name(), resp.StatusCode, string(body))
	}

	var oResp openaiResponse
	if err := json.NewDecoder(resp.Body).Decode(&oResp); err != nil {
		return "", types.NewError(types.KindTransientNetwork, "decoding openai response", err)
	}

	if len(oResp.Choices) == 0 {
		return "", types.NewError(types.KindTransientNetwork, "openai response carried no choices", nil)
	}

	choice := oResp.Choices[0]
	if choice.FinishReason == "length" {
		return "", types.TruncationError(maxTokens)
	}

	return choice.Message.Content, nil
}
