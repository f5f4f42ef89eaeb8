package ai

import (
	"fmt"
	"strings"
)

// InlineImage 内联图片（原始 base64，不含 data URI 前缀）
type InlineImage struct {
	MIMEType string
	Data     string
}

// CompletionRequest 一轮对话的用户输入
type CompletionRequest struct {
	Text    string
	Image   *InlineImage
	Caption string
}

// Prompt 发往模型的完整内容
// Text 是唯一的「系统 + 指令」文本块；Image 与 CaptionNote 只在用户附图时出现
type Prompt struct {
	Text        string
	Image       *InlineImage
	CaptionNote string
}

// PromptBuilder 按语言模板拼装提示词
type PromptBuilder struct {
	assistantName string
	reference     string
}

// NewPromptBuilder 创建提示词构建器
// knowledge 在构建时序列化一次，之后每次请求复用
func NewPromptBuilder(assistantName string, knowledge *Knowledge) *PromptBuilder {
	reference := ""
	if knowledge != nil {
		reference = knowledge.Serialize()
	}
	return &PromptBuilder{
		assistantName: assistantName,
		reference:     reference,
	}
}

// Greeting 默认欢迎语
func (b *PromptBuilder) Greeting(lang Language) string {
	return fmt.Sprintf(TemplateFor(lang).Greeting, b.assistantName)
}

// Build 构建提示词
func (b *PromptBuilder) Build(lang Language, req *CompletionRequest) *Prompt {
	t := TemplateFor(lang)

	var sb strings.Builder
	fmt.Fprintf(&sb, t.Persona, b.assistantName)
	sb.WriteString("\n\n")

	for _, rule := range t.SafetyRules {
		sb.WriteString("- ")
		sb.WriteString(rule)
		sb.WriteString("\n")
	}
	sb.WriteString("- ")
	fmt.Fprintf(&sb, t.BrandingRule, b.assistantName)
	sb.WriteString("\n")

	if b.reference != "" {
		sb.WriteString("\n")
		sb.WriteString(t.ReferenceLabel)
		sb.WriteString("\n")
		sb.WriteString(b.reference)
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(t.UserLabel)
	sb.WriteString("\n")
	sb.WriteString(req.Text)

	prompt := &Prompt{Text: sb.String()}
	if req.Image != nil {
		prompt.Image = req.Image
		if caption := strings.TrimSpace(req.Caption); caption != "" {
			prompt.CaptionNote = t.CaptionLabel + " " + caption
		}
	}
	return prompt
}
