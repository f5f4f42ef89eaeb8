package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

var (
	// ErrMalformedResponse 响应中缺少 candidates / parts / text
	ErrMalformedResponse = errors.New("malformed completion response")
	// ErrBlocked 内容被安全策略拦截
	ErrBlocked = errors.New("completion blocked by safety settings")
)

// APIError 上游返回非 2xx
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("completion endpoint returned %d: %s", e.StatusCode, e.Body)
}

// Provider 生成式文本服务
type Provider interface {
	Generate(ctx context.Context, prompt *Prompt) (string, error)
	Name() string
}

// GenerationConfig 固定生成参数，不随请求变化
type GenerationConfig struct {
	Temperature     float32 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float32 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// SafetySetting 内容安全阈值
type SafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

// FixedGeneration 每次请求使用的生成参数
var FixedGeneration = GenerationConfig{
	Temperature:     0.7,
	TopK:            40,
	TopP:            0.95,
	MaxOutputTokens: 1024,
}

// FixedSafetySettings 每次请求使用的安全阈值
var FixedSafetySettings = []SafetySetting{
	{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
}

// Reply 一轮对话的助手回复
// Fallback 为 true 时 Text 是本地兜底文案，Err 记录原始错误（只写日志，不返回给用户）
type Reply struct {
	Text     string
	Fallback bool
	Err      error
}

// Client 对话补全客户端
// 职责: 拼装提示词、调用 Provider、把任何失败转换成兜底回复
type Client struct {
	provider     Provider
	builder      *PromptBuilder
	supportPhone string
}

// NewClient 创建补全客户端
func NewClient(provider Provider, builder *PromptBuilder, supportPhone string) *Client {
	return &Client{
		provider:     provider,
		builder:      builder,
		supportPhone: supportPhone,
	}
}

// Greeting 默认欢迎语
func (c *Client) Greeting(lang Language) string {
	return c.builder.Greeting(lang)
}

// FallbackText 兜底文案
func (c *Client) FallbackText(lang Language) string {
	return fmt.Sprintf(TemplateFor(lang).Fallback, c.supportPhone)
}

// Reply 生成回复，永不返回错误；不做自动重试
func (c *Client) Reply(ctx context.Context, req *CompletionRequest, lang Language) Reply {
	prompt := c.builder.Build(lang, req)

	text, err := c.generate(ctx, prompt)
	if err != nil {
		log.Warn().
			Err(err).
			Str("provider", c.provider.Name()).
			Str("language", string(lang)).
			Bool("has_image", req.Image != nil).
			Msg("completion failed, replying with fallback")
		return Reply{Text: c.FallbackText(lang), Fallback: true, Err: err}
	}

	return Reply{Text: text}
}

// generate 调用 Provider 并拦截 panic，保证调用方总能拿到结果
func (c *Client) generate(ctx context.Context, prompt *Prompt) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("completion provider panicked: %v", r)
		}
	}()

	text, err = c.provider.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", ErrMalformedResponse
	}
	return text, nil
}
