package ai

import (
	"context"
	"fmt"
)

// MockProvider 未配置 API key 时使用的本地 Provider
type MockProvider struct{}

// NewMockProvider 创建 MockProvider
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// Name 实现 Provider
func (m *MockProvider) Name() string {
	return "mock"
}

// Generate 实现 Provider
func (m *MockProvider) Generate(_ context.Context, prompt *Prompt) (string, error) {
	if prompt.Image != nil {
		return "Thanks for the photo. I can share general information, but please show it to a doctor for an assessment.", nil
	}
	return fmt.Sprintf("This is a mock reply (%d prompt characters). Configure ai.api_key to talk to the real assistant.", len(prompt.Text)), nil
}
