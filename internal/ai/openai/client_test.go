package openai

import (
	"context"
	"errors"
	"testing"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCompletions struct {
	params []openai.ChatCompletionNewParams
	resp   *openai.ChatCompletion
	err    error
}

func (f *fakeCompletions) New(_ context.Context, body openai.ChatCompletionNewParams, _ ...option.RequestOption) (*openai.ChatCompletion, error) {
	f.params = append(f.params, body)
	return f.resp, f.err
}

func completion(contents ...string) *openai.ChatCompletion {
	resp := &openai.ChatCompletion{}
	for _, c := range contents {
		resp.Choices = append(resp.Choices, openai.ChatCompletionChoice{
			Message: openai.ChatCompletionMessage{Content: c},
		})
	}
	return resp
}

func TestGenerateContent(t *testing.T) {
	fake := &fakeCompletions{resp: completion(` {"seniority": "senior"} `)}
	g := &Generator{completions: fake, model: "gpt-test", logger: zap.NewNop()}

	out, err := g.GenerateContent(context.Background(), "system", "message")
	require.NoError(t, err)

	assert.Equal(t, `{"seniority": "senior"}`, out)
	require.Len(t, fake.params, 1)
	assert.Equal(t, openai.ChatModel("gpt-test"), fake.params[0].Model)
	assert.Len(t, fake.params[0].Messages, 2)
}

func TestGenerateContentWithoutSystemPrompt(t *testing.T) {
	fake := &fakeCompletions{resp: completion("ok")}
	g := &Generator{completions: fake, model: "gpt-test", logger: zap.NewNop()}

	_, err := g.GenerateContent(context.Background(), "  ", "message")
	require.NoError(t, err)
	assert.Len(t, fake.params[0].Messages, 1)
}

func TestGenerateContentErrors(t *testing.T) {
	g := &Generator{completions: &fakeCompletions{err: errors.New("boom")}, model: "m", logger: zap.NewNop()}
	_, err := g.GenerateContent(context.Background(), "s", "m")
	assert.Error(t, err)

	g = &Generator{completions: &fakeCompletions{resp: completion("", "  ")}, model: "m", logger: zap.NewNop()}
	_, err = g.GenerateContent(context.Background(), "s", "m")
	assert.Error(t, err, "empty choices are an error")

	_, err = g.GenerateContent(context.Background(), "s", " ")
	assert.Error(t, err, "empty message is rejected")
}

func TestNewGenerator(t *testing.T) {
	_, err := NewGenerator("", "", "", 0, nil)
	assert.Error(t, err)

	g, err := NewGenerator("key", "", "http://localhost:1234/v1", 0, nil)
	require.NoError(t, err)
	assert.Equal(t, defaultModel, g.Model())
	assert.Equal(t, "openai", g.Provider())
}
