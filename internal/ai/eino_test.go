package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatModel struct {
	input []*schema.Message
	opts  *model.Options
	resp  *schema.Message
	err   error
}

func (f *fakeChatModel) Generate(_ context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.input = input
	f.opts = model.GetCommonOptions(&model.Options{}, opts...)
	return f.resp, f.err
}

func (f *fakeChatModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

func TestEinoProvider_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("text prompt uses plain content and fixed options", func(t *testing.T) {
		fake := &fakeChatModel{resp: schema.AssistantMessage("hello there", nil)}
		p := NewEinoProvider("openai", fake)

		text, err := p.Generate(ctx, &Prompt{Text: "block"})
		require.NoError(t, err)
		assert.Equal(t, "hello there", text)

		require.Len(t, fake.input, 1)
		assert.Equal(t, schema.User, fake.input[0].Role)
		assert.Equal(t, "block", fake.input[0].Content)
		require.NotNil(t, fake.opts.Temperature)
		assert.Equal(t, FixedGeneration.Temperature, *fake.opts.Temperature)
		require.NotNil(t, fake.opts.MaxTokens)
		assert.Equal(t, FixedGeneration.MaxOutputTokens, *fake.opts.MaxTokens)
	})

	t.Run("image prompt becomes multimodal parts", func(t *testing.T) {
		fake := &fakeChatModel{resp: schema.AssistantMessage("looks like a bruise", nil)}
		p := NewEinoProvider("ark", fake)

		_, err := p.Generate(ctx, &Prompt{
			Text:        "block",
			Image:       &InlineImage{MIMEType: "image/png", Data: "aGVsbG8="},
			CaptionNote: "note",
		})
		require.NoError(t, err)

		parts := fake.input[0].MultiContent
		require.Len(t, parts, 3)
		assert.Equal(t, schema.ChatMessagePartTypeImageURL, parts[1].Type)
		assert.Equal(t, "data:image/png;base64,aGVsbG8=", parts[1].ImageURL.URL)
		assert.Equal(t, "note", parts[2].Text)
	})

	t.Run("empty content is malformed", func(t *testing.T) {
		p := NewEinoProvider("openai", &fakeChatModel{resp: schema.AssistantMessage("", nil)})
		_, err := p.Generate(ctx, &Prompt{Text: "block"})
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("model error is wrapped", func(t *testing.T) {
		p := NewEinoProvider("openai", &fakeChatModel{err: errors.New("401")})
		_, err := p.Generate(ctx, &Prompt{Text: "block"})
		assert.ErrorContains(t, err, "openai generate")
	})
}
