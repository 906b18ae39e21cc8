//
// Tencent is pleased to support the open source community by making trpc-agent-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-eval-go is licensed under the Apache License Version 2.0.
//
//

package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	openaigo "github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-agent-eval-go/model"
	"trpc.group/trpc-go/trpc-agent-eval-go/tool"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		cfg         Config
		expectError bool
	}{
		{
			name: "valid config",
			cfg:  Config{Model: "gpt-4o-mini", APIKey: "test-key"},
		},
		{
			name: "base url and timeout",
			cfg: Config{
				Model:   "custom-model",
				BaseURL: "https://api.custom.com/v1",
				Timeout: 30 * time.Second,
			},
		},
		{
			name:        "missing model identifier",
			cfg:         Config{APIKey: "test-key"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.cfg)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.cfg.Model, m.Info().Name)
		})
	}
}

func TestModelChatNilRequest(t *testing.T) {
	m, err := New(Config{Model: "test-model"})
	require.NoError(t, err)

	_, err = m.Chat(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, "request cannot be nil", err.Error())
}

func TestModelChat(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		assert.Contains(t, r.Header.Get("Authorization"), "Bearer")

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": "chatcmpl-123",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "test-model",
			"choices": [{
				"index": 0,
				"message": {"role": "assistant", "content": "hello there"},
				"finish_reason": "stop"
			}],
			"usage": {"prompt_tokens": 9, "completion_tokens": 3, "total_tokens": 12},
			"system_fingerprint": "fp_1"
		}`)
	}))
	defer server.Close()

	m, err := New(Config{
		Model:   "test-model",
		APIKey:  "test-key",
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)

	rsp, err := m.Chat(context.Background(), &model.Request{
		Messages: []model.Message{
			model.NewSystemMessage("be brief"),
			model.NewUserMessage("hi"),
		},
		Tools: tool.AdaptAll([]tool.Declaration{{Name: "search", Description: "find things"}}),
	})
	require.NoError(t, err)

	assert.Equal(t, "chatcmpl-123", rsp.ID)
	assert.Equal(t, "test-model", rsp.Model)
	require.Len(t, rsp.Choices, 1)
	assert.Equal(t, "hello there", rsp.Choices[0].Message.Content)
	assert.Equal(t, model.RoleAssistant, rsp.Choices[0].Message.Role)
	require.NotNil(t, rsp.Choices[0].FinishReason)
	assert.Equal(t, model.FinishReasonStop, *rsp.Choices[0].FinishReason)
	require.NotNil(t, rsp.Usage)
	assert.Equal(t, 9, rsp.Usage.PromptTokens)
	assert.Equal(t, 12, rsp.Usage.TotalTokens)
	require.NotNil(t, rsp.SystemFingerprint)
	assert.Equal(t, "fp_1", *rsp.SystemFingerprint)

	// The wire request carries the conversation and the adapted tools.
	assert.Equal(t, "test-model", gotBody["model"])
	messages, ok := gotBody["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, messages, 2)
	tools, ok := gotBody["tools"].([]any)
	require.True(t, ok)
	assert.Len(t, tools, 1)
}

func TestModelChatToolCalls(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": "chatcmpl-456",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "test-model",
			"choices": [{
				"index": 0,
				"message": {
					"role": "assistant",
					"tool_calls": [
						{"id": "call_abc", "type": "function", "function": {"name": "search", "arguments": "{\"q\":\"go\"}"}},
						{"id": "", "type": "function", "function": {"name": "fetch", "arguments": "{}"}}
					]
				},
				"finish_reason": "tool_calls"
			}]
		}`)
	}))
	defer server.Close()

	m, err := New(Config{Model: "test-model", BaseURL: server.URL})
	require.NoError(t, err)

	rsp, err := m.Chat(context.Background(), &model.Request{
		Messages: []model.Message{model.NewUserMessage("look it up")},
	})
	require.NoError(t, err)
	require.True(t, rsp.RequestsToolCalls())

	calls := rsp.Choices[0].Message.ToolCalls
	require.Len(t, calls, 2)
	assert.Equal(t, "call_abc", calls[0].ID)
	assert.Equal(t, "search", calls[0].Function.Name)
	assert.Equal(t, `{"q":"go"}`, string(calls[0].Function.Arguments))
	// Providers that omit the call ID get a synthesized one.
	assert.Equal(t, "auto_call_1", calls[1].ID)
}

func TestModelChatAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": {"message": "invalid api key", "type": "invalid_request_error"}}`)
	}))
	defer server.Close()

	m, err := New(Config{Model: "test-model", APIKey: "bad-key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = m.Chat(context.Background(), &model.Request{
		Messages: []model.Message{model.NewUserMessage("hi")},
	})
	require.Error(t, err)
	var rspErr *model.ResponseError
	require.ErrorAs(t, err, &rspErr)
	assert.Equal(t, model.ErrorTypeAPIError, rspErr.Type)
	assert.Contains(t, rspErr.Message, "invalid api key")
}

func TestConvertMessages(t *testing.T) {
	msgs := []model.Message{
		model.NewSystemMessage("system content"),
		model.NewUserMessage("user content"),
		{
			Role:    model.RoleAssistant,
			Content: "assistant content",
			ToolCalls: []model.ToolCall{{
				ID:   "call-1",
				Type: "function",
				Function: model.FunctionDefinitionParam{
					Name:      "hello",
					Arguments: []byte(`{"a":1}`),
				},
			}},
		},
		model.NewToolMessage("call-1", "hello", "tool response"),
		{
			Role:    "unknown",
			Content: "fallback content",
		},
	}

	converted := convertMessages(msgs)
	require.Len(t, converted, len(msgs))

	require.NotNil(t, converted[0].OfSystem)
	require.NotNil(t, converted[1].OfUser)
	require.NotNil(t, converted[2].OfAssistant)
	require.NotNil(t, converted[3].OfTool)
	// Unknown roles fall back to user messages.
	require.NotNil(t, converted[4].OfUser)

	assert.Len(t, converted[2].OfAssistant.ToolCalls, 1)
	assert.Equal(t, "call-1", converted[3].OfTool.ToolCallID)
}

func TestConvertTools(t *testing.T) {
	schemas := tool.AdaptAll([]tool.Declaration{
		{
			Name:        "search",
			Description: "find things",
			InputSchema: &tool.Schema{
				Type: "object",
				Properties: map[string]*tool.Schema{
					"q": {Type: "string"},
				},
				Required: []string{"q"},
			},
		},
		{Name: "bare"},
	})

	converted := convertTools(schemas)
	require.Len(t, converted, 2)

	fn := converted[0].Function
	assert.Equal(t, "search", fn.Name)
	require.True(t, fn.Description.Valid())
	assert.Equal(t, "find things", fn.Description.Value)
	assert.Equal(t, "object", fn.Parameters["type"])

	// A declaration without schema gets the permissive empty object schema.
	bare := converted[1].Function
	assert.Equal(t, "object", bare.Parameters["type"])
}

func TestBuildChatRequest(t *testing.T) {
	m, err := New(Config{Model: "test-model"})
	require.NoError(t, err)

	request := &model.Request{
		Messages: []model.Message{model.NewUserMessage("hi")},
		GenerationConfig: model.GenerationConfig{
			MaxTokens:        model.IntPtr(128),
			Temperature:      model.Float64Ptr(0.3),
			TopP:             model.Float64Ptr(0.9),
			Stop:             []string{"END", "ignored"},
			PresencePenalty:  model.Float64Ptr(0.1),
			FrequencyPenalty: model.Float64Ptr(0.2),
		},
	}

	chatRequest, _ := m.buildChatRequest(request)
	assert.Equal(t, openaigo.ChatModel("test-model"), chatRequest.Model)
	require.True(t, chatRequest.MaxCompletionTokens.Valid())
	assert.Equal(t, int64(128), chatRequest.MaxCompletionTokens.Value)
	require.True(t, chatRequest.Temperature.Valid())
	assert.InDelta(t, 0.3, chatRequest.Temperature.Value, 1e-9)
	require.True(t, chatRequest.TopP.Valid())
	assert.InDelta(t, 0.9, chatRequest.TopP.Value, 1e-9)
	// Only the first stop string is forwarded.
	require.True(t, chatRequest.Stop.OfString.Valid())
	assert.Equal(t, "END", chatRequest.Stop.OfString.Value)
}
