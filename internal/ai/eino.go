package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// EinoProvider 基于 eino ChatModel 的 Provider（openai / azure / ark）
type EinoProvider struct {
	name      string
	chatModel model.BaseChatModel
}

// NewEinoProvider 创建基于 Eino 的 Provider
//
// Args:
//   - name: provider 名称，仅用于日志
//   - chatModel: 通过 component.NewChatModel 创建的 ChatModel 实例
func NewEinoProvider(name string, chatModel model.BaseChatModel) *EinoProvider {
	return &EinoProvider{
		name:      name,
		chatModel: chatModel,
	}
}

// Name 实现 Provider
func (p *EinoProvider) Name() string {
	return p.name
}

// buildEinoMessage 纯文本时只用 Content；附图时改用多模态 parts
func buildEinoMessage(prompt *Prompt) *schema.Message {
	if prompt.Image == nil {
		return schema.UserMessage(prompt.Text)
	}

	parts := []schema.ChatMessagePart{
		{Type: schema.ChatMessagePartTypeText, Text: prompt.Text},
		{
			Type: schema.ChatMessagePartTypeImageURL,
			ImageURL: &schema.ChatMessageImageURL{
				URL:      "data:" + prompt.Image.MIMEType + ";base64," + prompt.Image.Data,
				MIMEType: prompt.Image.MIMEType,
			},
		},
	}
	if prompt.CaptionNote != "" {
		parts = append(parts, schema.ChatMessagePart{Type: schema.ChatMessagePartTypeText, Text: prompt.CaptionNote})
	}

	return &schema.Message{
		Role:         schema.User,
		MultiContent: parts,
	}
}

// Generate 实现 Provider
// TopK 与安全阈值没有通用的 eino 选项，由各家模型服务端默认处理
func (p *EinoProvider) Generate(ctx context.Context, prompt *Prompt) (string, error) {
	if p.chatModel == nil {
		return "", fmt.Errorf("chatModel is required")
	}

	resp, err := p.chatModel.Generate(ctx,
		[]*schema.Message{buildEinoMessage(prompt)},
		model.WithTemperature(FixedGeneration.Temperature),
		model.WithTopP(FixedGeneration.TopP),
		model.WithMaxTokens(FixedGeneration.MaxOutputTokens),
	)
	if err != nil {
		return "", fmt.Errorf("%s generate: %w", p.name, err)
	}
	if resp == nil || resp.Content == "" {
		return "", fmt.Errorf("%w: empty response from chat model", ErrMalformedResponse)
	}

	return resp.Content, nil
}
