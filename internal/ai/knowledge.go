package ai

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed knowledge.yaml
var defaultKnowledge []byte

// Knowledge 静态业务参考信息，序列化后拼入每次请求
type Knowledge struct {
	Company  KnowledgeCompany `yaml:"company" json:"company"`
	Contact  KnowledgeContact `yaml:"contact" json:"contact"`
	Services []KnowledgeItem  `yaml:"services" json:"services"`
	Products []KnowledgeItem  `yaml:"products" json:"products"`
	Policies []string         `yaml:"policies" json:"policies,omitempty"`
	FAQs     []KnowledgeFAQ   `yaml:"faqs" json:"faqs,omitempty"`
}

// KnowledgeCompany 公司信息
type KnowledgeCompany struct {
	Name    string `yaml:"name" json:"name"`
	Tagline string `yaml:"tagline" json:"tagline,omitempty"`
	Website string `yaml:"website" json:"website,omitempty"`
}

// KnowledgeContact 联系方式
type KnowledgeContact struct {
	Phone string `yaml:"phone" json:"phone"`
	Email string `yaml:"email" json:"email,omitempty"`
	Hours string `yaml:"hours" json:"hours,omitempty"`
}

// KnowledgeItem 服务或产品
type KnowledgeItem struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

// KnowledgeFAQ 常见问题
type KnowledgeFAQ struct {
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`
}

// LoadKnowledge 加载知识库，path 为空时使用内置版本
func LoadKnowledge(path string) (*Knowledge, error) {
	data := defaultKnowledge
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read knowledge file: %w", err)
		}
		data = raw
	}

	var k Knowledge
	if err := yaml.Unmarshal(data, &k); err != nil {
		return nil, fmt.Errorf("parse knowledge file: %w", err)
	}
	if k.Company.Name == "" {
		return nil, fmt.Errorf("knowledge file: company.name is required")
	}
	return &k, nil
}

// Serialize 序列化为缩进 JSON
func (k *Knowledge) Serialize() string {
	data, err := json.MarshalIndent(k, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}
