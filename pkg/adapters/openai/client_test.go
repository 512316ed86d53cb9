package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nexustrade/orderflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplete(t *testing.T) {
	var gotAuth string
	var gotReq map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		fmt.Fprint(w, `{"choices": [{"message": {"role": "assistant", "content": "{\"category\": \"PlaceOrder\"}"}}]}`)
	}))
	defer srv.Close()

	client := New(srv.URL+"/v1", "test-model", WithAPIKey("sk-test"), WithTemperature(0.2))

	out, err := client.Complete(context.Background(), "categorize this")
	require.NoError(t, err)
	assert.Equal(t, `{"category": "PlaceOrder"}`, out)

	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "test-model", gotReq["model"])
	assert.Equal(t, 0.2, gotReq["temperature"])
	msgs := gotReq["messages"].([]any)
	require.Len(t, msgs, 1)
	assert.Equal(t, "user", msgs[0].(map[string]any)["role"])
	_, hasTools := gotReq["tools"]
	assert.False(t, hasTools, "single-turn completion must not advertise tools")
}

func TestChat_ToolRoundTrip(t *testing.T) {
	var gotReq map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		fmt.Fprint(w, `{
			"choices": [{"message": {
				"role": "assistant",
				"content": "",
				"tool_calls": [{
					"id": "call_9",
					"type": "function",
					"function": {"name": "cancel_order", "arguments": "{\"request\": \"cancel ord-1\"}"}
				}]
			}}]
		}`)
	}))
	defer srv.Close()

	client := New(srv.URL, "test-model")

	tools := []domain.Tool{{
		Name:        "cancel_order",
		Description: "Cancel an order",
		Parameters: map[string]any{
			"type":     "object",
			"required": []string{"request"},
		},
	}}
	history := []domain.Message{
		{Role: domain.RoleUser, Content: "cancel ord-1"},
		{Role: domain.RoleTool, Content: `{"status":"success"}`, ToolCallID: "call_8"},
	}

	reply, err := client.Chat(context.Background(), history, tools)
	require.NoError(t, err)

	require.Len(t, reply.ToolCalls, 1)
	assert.Equal(t, "call_9", reply.ToolCalls[0].ID)
	assert.Equal(t, "cancel_order", reply.ToolCalls[0].Name)
	assert.Equal(t, map[string]any{"request": "cancel ord-1"}, reply.ToolCalls[0].Args)

	// Tools and the tool result message survive the wire encoding.
	wireTools := gotReq["tools"].([]any)
	require.Len(t, wireTools, 1)
	fn := wireTools[0].(map[string]any)["function"].(map[string]any)
	assert.Equal(t, "cancel_order", fn["name"])

	msgs := gotReq["messages"].([]any)
	require.Len(t, msgs, 2)
	toolMsg := msgs[1].(map[string]any)
	assert.Equal(t, "tool", toolMsg["role"])
	assert.Equal(t, "call_8", toolMsg["tool_call_id"])
}

func TestChat_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": {"message": "invalid api key"}}`)
	}))
	defer srv.Close()

	client := New(srv.URL, "test-model")

	_, err := client.Chat(context.Background(), []domain.Message{{Role: domain.RoleUser, Content: "hi"}}, nil)
	require.ErrorContains(t, err, "invalid api key")
}

func TestChat_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices": []}`)
	}))
	defer srv.Close()

	client := New(srv.URL, "test-model")

	_, err := client.Chat(context.Background(), []domain.Message{{Role: domain.RoleUser, Content: "hi"}}, nil)
	require.ErrorContains(t, err, "no choices")
}
