package config

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 7080, Mode: "release"},
		AI:     AIConfig{Provider: "gemini"},
		Widget: WidgetConfig{GuestTurnLimit: 2, LauncherSize: 56, LauncherPadding: 16},
	}
}

func TestConfig_Validate(t *testing.T) {
	Convey("Config.Validate", t, func() {
		Convey("合法配置通过校验", func() {
			So(validConfig().Validate(), ShouldBeNil)
		})

		Convey("端口越界", func() {
			cfg := validConfig()
			cfg.Server.Port = 70000
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("未知运行模式", func() {
			cfg := validConfig()
			cfg.Server.Mode = "prod"
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("未知 AI provider", func() {
			cfg := validConfig()
			cfg.AI.Provider = "llama"
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("不支持的默认语言", func() {
			cfg := validConfig()
			cfg.Assistant.DefaultLanguage = "fr"
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("负数的游客轮次上限", func() {
			cfg := validConfig()
			cfg.Widget.GuestTurnLimit = -1
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("启用限流但参数非法", func() {
			cfg := validConfig()
			cfg.RateLimit = RateLimitConfig{Enabled: true}
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("非法时区", func() {
			cfg := validConfig()
			cfg.Widget.Timezone = "Mars/Olympus"
			So(cfg.Validate(), ShouldNotBeNil)
		})
	})
}

func TestWidgetConfig_Location(t *testing.T) {
	Convey("WidgetConfig.Location", t, func() {
		So(WidgetConfig{}.Location(), ShouldEqual, time.Local)
		So(WidgetConfig{Timezone: "UTC"}.Location().String(), ShouldEqual, "UTC")
	})
}
