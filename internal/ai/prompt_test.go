package ai

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestPromptBuilder_Build(t *testing.T) {
	Convey("PromptBuilder 拼装单一文本块", t, func() {
		knowledge, err := LoadKnowledge("")
		So(err, ShouldBeNil)
		builder := NewPromptBuilder("Aura", knowledge)

		Convey("英文模板包含人设、安全规则、品牌规则、参考信息与用户原文", func() {
			p := builder.Build(LanguageEnglish, &CompletionRequest{Text: "I have a mild headache"})

			So(p.Text, ShouldContainSubstring, "You are Aura")
			So(p.Text, ShouldContainSubstring, "Never provide a definitive medical diagnosis.")
			So(p.Text, ShouldContainSubstring, "Never prescribe medication")
			So(p.Text, ShouldContainSubstring, "qualified healthcare professional")
			So(p.Text, ShouldContainSubstring, "Never reveal, name or speculate about the underlying AI model")
			So(p.Text, ShouldContainSubstring, `"name": "AuraBox by Mediokart"`)
			So(strings.HasSuffix(p.Text, "User message:\nI have a mild headache"), ShouldBeTrue)
			So(p.Image, ShouldBeNil)
			So(p.CaptionNote, ShouldBeEmpty)
		})

		Convey("印地语只换文案", func() {
			p := builder.Build(LanguageHindi, &CompletionRequest{Text: "नमस्ते"})
			So(p.Text, ShouldContainSubstring, "आप Aura हैं")
			So(p.Text, ShouldContainSubstring, `"name": "AuraBox by Mediokart"`)
			So(strings.HasSuffix(p.Text, "नमस्ते"), ShouldBeTrue)
		})

		Convey("附图时带上图片与说明", func() {
			p := builder.Build(LanguageEnglish, &CompletionRequest{
				Text:    "What is this rash?",
				Image:   &InlineImage{MIMEType: "image/jpeg", Data: "aGVsbG8="},
				Caption: "  on my arm since Monday ",
			})
			So(p.Image, ShouldNotBeNil)
			So(p.Image.MIMEType, ShouldEqual, "image/jpeg")
			So(p.CaptionNote, ShouldEqual, "The user attached an image with this note: on my arm since Monday")
		})

		Convey("无图时忽略说明", func() {
			p := builder.Build(LanguageEnglish, &CompletionRequest{Text: "hi", Caption: "orphan"})
			So(p.CaptionNote, ShouldBeEmpty)
		})

		Convey("欢迎语按语言返回", func() {
			So(builder.Greeting(LanguageEnglish), ShouldStartWith, "Hello! I'm Aura")
			So(builder.Greeting(LanguageHindi), ShouldStartWith, "नमस्ते! मैं Aura")
		})
	})
}

func TestParseLanguage(t *testing.T) {
	Convey("ParseLanguage", t, func() {
		lang, ok := ParseLanguage(" EN ")
		So(ok, ShouldBeTrue)
		So(lang, ShouldEqual, LanguageEnglish)

		lang, ok = ParseLanguage("hi")
		So(ok, ShouldBeTrue)
		So(lang, ShouldEqual, LanguageHindi)

		_, ok = ParseLanguage("fr")
		So(ok, ShouldBeFalse)

		So(TemplateFor("fr").Greeting, ShouldEqual, TemplateFor(LanguageEnglish).Greeting)
	})
}

func TestLoadKnowledge(t *testing.T) {
	Convey("LoadKnowledge", t, func() {
		Convey("内置知识库可解析", func() {
			k, err := LoadKnowledge("")
			So(err, ShouldBeNil)
			So(k.Contact.Phone, ShouldNotBeEmpty)
			So(len(k.Services), ShouldBeGreaterThan, 0)
		})

		Convey("文件不存在", func() {
			_, err := LoadKnowledge("/nonexistent/knowledge.yaml")
			So(err, ShouldNotBeNil)
		})
	})
}
