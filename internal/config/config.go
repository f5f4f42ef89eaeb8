package config

import (
	"errors"
	"time"
)

// Config 应用配置根结构
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	AI        AIConfig        `mapstructure:"ai"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	Widget    WidgetConfig    `mapstructure:"widget"`
	Log       LogConfig       `mapstructure:"log"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// AIConfig 生成式文本服务配置
// provider: gemini（默认，REST 直连）、openai、azure、ark（经 eino ChatModel）、mock
type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	APIKey   string        `mapstructure:"api_key"`
	Model    string        `mapstructure:"model"`
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// AssistantConfig 助手人设与文案配置
type AssistantConfig struct {
	Name            string `mapstructure:"name"`
	SupportPhone    string `mapstructure:"support_phone"`
	DefaultLanguage string `mapstructure:"default_language"`
	KnowledgeFile   string `mapstructure:"knowledge_file"` // 为空时使用内置知识库
}

// WidgetConfig 悬浮助手组件配置
type WidgetConfig struct {
	GuestTurnLimit  int           `mapstructure:"guest_turn_limit"`
	LongPress       time.Duration `mapstructure:"long_press"`
	LauncherSize    float64       `mapstructure:"launcher_size"`
	LauncherPadding float64       `mapstructure:"launcher_padding"`
	SessionTTL      time.Duration `mapstructure:"session_ttl"`
	PersistTimeout  time.Duration `mapstructure:"persist_timeout"`
	Timezone        string        `mapstructure:"timezone"`
}

// LogConfig 日志配置 (Zerolog)
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	TimeFormat string `mapstructure:"time_format"`
}

// MongoConfig MongoDB 配置
type MongoConfig struct {
	URI         string `mapstructure:"uri"`
	Database    string `mapstructure:"database"`
	MaxPoolSize uint64 `mapstructure:"max_pool_size"`
	MinPoolSize uint64 `mapstructure:"min_pool_size"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// AuthConfig 认证配置
type AuthConfig struct {
	JWTSecret         string        `mapstructure:"jwt_secret"`          // JWT密钥
	AccessTokenExpiry time.Duration `mapstructure:"access_token_expiry"` // Access Token过期时间
}

// RateLimitConfig 发送消息限流配置（按访问者，未登录时按客户端 IP）
type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

// Validate 验证配置有效性
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("invalid server port")
	}

	validModes := map[string]bool{"debug": true, "release": true, "test": true}
	if !validModes[c.Server.Mode] {
		return errors.New("invalid server mode, must be debug/release/test")
	}

	validProviders := map[string]bool{"": true, "gemini": true, "openai": true, "azure": true, "ark": true, "mock": true}
	if !validProviders[c.AI.Provider] {
		return errors.New("invalid ai provider, must be gemini/openai/azure/ark/mock")
	}

	switch c.Assistant.DefaultLanguage {
	case "", "en", "hi":
	default:
		return errors.New("invalid assistant default language, must be en/hi")
	}

	if c.Widget.GuestTurnLimit < 0 {
		return errors.New("widget guest turn limit must not be negative")
	}
	if c.Widget.LauncherSize < 0 || c.Widget.LauncherPadding < 0 {
		return errors.New("launcher size and padding must not be negative")
	}

	if c.Widget.Timezone != "" {
		if _, err := time.LoadLocation(c.Widget.Timezone); err != nil {
			return errors.New("invalid widget timezone")
		}
	}

	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		return errors.New("rate limit rps and burst must be positive when enabled")
	}

	return nil
}

// Location 返回组件时间戳使用的时区，未配置时为本地时区
func (w WidgetConfig) Location() *time.Location {
	if w.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(w.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
