package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"aurabox/internal/config"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel   = "gemini-1.5-flash"
)

// GeminiProvider Gemini generateContent REST 客户端
// API key 按接口约定放在 URL query 中
type GeminiProvider struct {
	httpClient *http.Client
	baseURL    string
	model      string
	apiKey     string
}

// NewGeminiProvider 创建 Gemini 客户端
// 未配置 timeout 时沿用 http.Client 默认行为（不超时）
func NewGeminiProvider(cfg *config.AIConfig) *GeminiProvider {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	modelName := cfg.Model
	if modelName == "" {
		modelName = defaultGeminiModel
	}

	return &GeminiProvider{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    baseURL,
		model:      modelName,
		apiKey:     cfg.APIKey,
	}
}

// Name 实现 Provider
func (g *GeminiProvider) Name() string {
	return "gemini"
}

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig GenerationConfig `json:"generationConfig"`
	SafetySettings   []SafetySetting  `json:"safetySettings"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *geminiBlob `json:"inline_data,omitempty"`
}

type geminiBlob struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

// buildGeminiRequest 组装请求体：单个 content，文本块在前，图片与图片说明在后
func buildGeminiRequest(prompt *Prompt) *geminiRequest {
	parts := []geminiPart{{Text: prompt.Text}}
	if prompt.Image != nil {
		parts = append(parts, geminiPart{InlineData: &geminiBlob{
			MIMEType: prompt.Image.MIMEType,
			Data:     prompt.Image.Data,
		}})
		if prompt.CaptionNote != "" {
			parts = append(parts, geminiPart{Text: prompt.CaptionNote})
		}
	}

	return &geminiRequest{
		Contents:         []geminiContent{{Parts: parts}},
		GenerationConfig: FixedGeneration,
		SafetySettings:   FixedSafetySettings,
	}
}

func (g *GeminiProvider) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		g.baseURL, url.PathEscape(g.model), url.QueryEscape(g.apiKey))
}

// Generate 实现 Provider
func (g *GeminiProvider) Generate(ctx context.Context, prompt *Prompt) (string, error) {
	body, err := json.Marshal(buildGeminiRequest(prompt))
	if err != nil {
		return "", fmt.Errorf("marshal gemini request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return out.text()
}

// text 提取 candidates[0].content.parts[0].text
func (r *geminiResponse) text() (string, error) {
	if r.PromptFeedback != nil && r.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: %s", ErrBlocked, r.PromptFeedback.BlockReason)
	}
	if len(r.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", ErrMalformedResponse)
	}

	first := r.Candidates[0]
	if len(first.Content.Parts) == 0 {
		if first.FinishReason == "SAFETY" {
			return "", fmt.Errorf("%w: candidate finished with SAFETY", ErrBlocked)
		}
		return "", fmt.Errorf("%w: candidate has no parts", ErrMalformedResponse)
	}

	text := first.Content.Parts[0].Text
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty text", ErrMalformedResponse)
	}
	return text, nil
}
