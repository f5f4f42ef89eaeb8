package component

import (
	"context"
	"fmt"

	arkext "github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"aurabox/internal/config"
)

// Params 固定生成参数（由 ai 包传入，避免循环依赖）
type Params struct {
	Temperature float32
	TopP        float32
	MaxTokens   int
}

// NewChatModel 创建 ChatModel
// 支持多种 Provider: openai, azure, ark
func NewChatModel(ctx context.Context, cfg *config.AIConfig, params Params) (model.ChatModel, error) {
	switch cfg.Provider {
	case "openai":
		return newOpenAIChatModel(ctx, cfg, params)
	case "azure":
		return newAzureChatModel(ctx, cfg, params)
	case "ark":
		return newArkChatModel(ctx, cfg, params)
	default:
		return nil, fmt.Errorf("unsupported eino provider: %s", cfg.Provider)
	}
}

// newOpenAIChatModel 创建 OpenAI ChatModel
func newOpenAIChatModel(ctx context.Context, cfg *config.AIConfig, params Params) (model.ChatModel, error) {
	modelName := cfg.Model
	if modelName == "" {
		modelName = "gpt-4o-mini"
	}

	modelCfg := &openai.ChatModelConfig{
		Model:   modelName,
		APIKey:  cfg.APIKey,
		Timeout: cfg.Timeout,
	}

	// Base URL (用于代理或兼容 API)
	if cfg.BaseURL != "" {
		modelCfg.BaseURL = cfg.BaseURL
	}

	applyOpenAIParams(modelCfg, params)
	return openai.NewChatModel(ctx, modelCfg)
}

// newAzureChatModel 创建 Azure OpenAI ChatModel
func newAzureChatModel(ctx context.Context, cfg *config.AIConfig, params Params) (model.ChatModel, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("azure provider requires ai.base_url")
	}

	modelCfg := &openai.ChatModelConfig{
		Model:   cfg.Model,
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		ByAzure: true,
		Timeout: cfg.Timeout,
	}

	applyOpenAIParams(modelCfg, params)
	return openai.NewChatModel(ctx, modelCfg)
}

func applyOpenAIParams(modelCfg *openai.ChatModelConfig, params Params) {
	if params.Temperature > 0 {
		temp := params.Temperature
		modelCfg.Temperature = &temp
	}
	if params.MaxTokens > 0 {
		maxTokens := params.MaxTokens
		modelCfg.MaxTokens = &maxTokens
	}
	if params.TopP > 0 {
		topP := params.TopP
		modelCfg.TopP = &topP
	}
}

// newArkChatModel 创建 Ark ChatModel（使用 eino-ext 模块）
func newArkChatModel(ctx context.Context, cfg *config.AIConfig, params Params) (model.ChatModel, error) {
	// 设置默认值
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://ark.cn-beijing.volces.com/api/v3"
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = "doubao-seed-1-6-flash-250615" // 默认模型
	}

	modelCfg := &arkext.ChatModelConfig{
		Model:   modelName,
		APIKey:  cfg.APIKey,
		BaseURL: baseURL,
	}

	// 模型参数
	if params.Temperature > 0 {
		temp := params.Temperature
		modelCfg.Temperature = &temp
	}
	if params.MaxTokens > 0 {
		maxTokens := params.MaxTokens
		modelCfg.MaxTokens = &maxTokens
	}
	if params.TopP > 0 {
		topP := params.TopP
		modelCfg.TopP = &topP
	}

	return arkext.NewChatModel(ctx, modelCfg)
}
