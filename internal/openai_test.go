package internal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/openai/openai-go/v2/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatClient struct {
	model    string
	prompt   string
	response string
	err      error
	deadline bool
}

func (f *fakeChatClient) CreateChatCompletion(ctx context.Context, model, prompt string) (string, error) {
	f.model = model
	f.prompt = prompt
	_, f.deadline = ctx.Deadline()
	return f.response, f.err
}

func TestValidateModel(t *testing.T) {
	for _, model := range SupportedModels {
		assert.NoError(t, ValidateModel(model))
	}
	err := ValidateModel("gpt-2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gpt-4o-mini")
}

func TestAIInsights(t *testing.T) {
	fake := &fakeChatClient{response: "- shorts dominate"}
	ai := NewAI(fake, "gpt-4o-mini", time.Minute)

	got, err := ai.Insights(context.Background(), "analyse this")
	require.NoError(t, err)
	assert.Equal(t, "- shorts dominate", got)
	assert.Equal(t, "gpt-4o-mini", fake.model)
	assert.Equal(t, "analyse this", fake.prompt)
	assert.True(t, fake.deadline, "timeout is applied")
}

func TestAIInsightsErrors(t *testing.T) {
	_, err := NewAI(&fakeChatClient{}, "davinci", 0).Insights(context.Background(), "p")
	assert.Error(t, err)

	_, err = NewAIWithKey("", "gpt-4o", 0).Insights(context.Background(), "p")
	assert.ErrorIs(t, err, ErrOpenAIKeyMissing)

	boom := errors.New("rate limited")
	_, err = NewAI(&fakeChatClient{err: boom}, "gpt-4o", 0).Insights(context.Background(), "p")
	assert.ErrorIs(t, err, boom)
}

func TestOpenAIClientChatCompletion(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1710000000,
			"model": "gpt-4o-mini",
			"choices": [{
				"index": 0,
				"finish_reason": "stop",
				"message": {"role": "assistant", "content": "Tutorials win."}
			}]
		}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient("sk-test", option.WithBaseURL(srv.URL+"/"), option.WithMaxRetries(0))

	got, err := client.CreateChatCompletion(context.Background(), "gpt-4o-mini", "summarize")
	require.NoError(t, err)
	assert.Equal(t, "Tutorials win.", got)
	assert.Equal(t, "gpt-4o-mini", body["model"])

	_, err = client.CreateChatCompletion(context.Background(), "unknown", "summarize")
	assert.Error(t, err)
}
