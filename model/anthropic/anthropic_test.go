package anthropic

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentsociety/model"
)

func TestBuildMessages(t *testing.T) {
	msgs := buildMessages([]model.Message{
		model.UserMessage("review this"),
		{Role: model.RoleAssistant, Text: ""},
		{Role: model.RoleAssistant, Text: "Accepted"},
		{Role: "system", Text: "odd role"},
	})

	require.Len(t, msgs, 3)
	assert.Equal(t, "user", string(msgs[0].Role))
	assert.Equal(t, "assistant", string(msgs[1].Role))
	assert.Equal(t, "user", string(msgs[2].Role))
}

func TestInfo(t *testing.T) {
	m := NewModel(func(o *Options) {
		o.Model = anthropic.ModelClaude3_5Sonnet20241022
		o.APIKey = "test-key"
	})
	info := m.Info()
	assert.Equal(t, "anthropic", info.Provider)
	assert.Equal(t, string(anthropic.ModelClaude3_5Sonnet20241022), info.Name)
}

const sseBody = `event: message_start
data: {"type":"message_start","message":{"id":"msg_1","type":"message","role":"assistant","model":"claude-3-5-sonnet-20241022","content":[],"stop_reason":null,"stop_sequence":null,"usage":{"input_tokens":12,"output_tokens":1}}}

event: content_block_start
data: {"type":"content_block_start","index":0,"content_block":{"type":"text","text":""}}

event: ping
data: {"type":"ping"}

event: content_block_delta
data: {"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"Looks right. "}}

event: content_block_delta
data: {"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"Accepted"}}

event: content_block_stop
data: {"type":"content_block_stop","index":0}

event: message_delta
data: {"type":"message_delta","delta":{"stop_reason":"end_turn","stop_sequence":null},"usage":{"output_tokens":4}}

event: message_stop
data: {"type":"message_stop"}

`

const jsonBody = `{"id":"msg_2","type":"message","role":"assistant","model":"claude-3-5-sonnet-20241022",
"content":[{"type":"text","text":"[Accept] "},{"type":"text","text":"good plan"}],
"stop_reason":"end_turn","stop_sequence":null,"usage":{"input_tokens":7,"output_tokens":3}}`

func newTestModel(t *testing.T, handler http.HandlerFunc) *Model {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := anthropic.NewClient(
		option.WithBaseURL(srv.URL),
		option.WithAPIKey("test-key"),
		option.WithMaxRetries(0),
	)
	return NewModelFromClient(&client)
}

func collect(respCh <-chan model.Response, errCh <-chan error) ([]model.Response, error) {
	var out []model.Response
	for r := range respCh {
		out = append(out, r)
	}
	return out, <-errCh
}

func TestGenerate_Streaming(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, sseBody)
	})

	resps, err := collect(m.Generate(context.Background(), model.Request{
		Instructions: "be brief",
		Messages:     []model.Message{model.UserMessage("review this")},
		Stream:       true,
	}))
	require.NoError(t, err)
	require.Len(t, resps, 3)

	assert.True(t, resps[0].Partial)
	assert.Equal(t, "Looks right. ", resps[0].Text)
	assert.True(t, resps[1].Partial)
	assert.Equal(t, "Accepted", resps[1].Text)

	final := resps[2]
	assert.False(t, final.Partial)
	assert.Equal(t, "msg_1", final.ID)
	assert.Equal(t, "Looks right. Accepted", final.Text)
	assert.Equal(t, "end_turn", final.FinishReason)
	require.NotNil(t, final.Usage)
	assert.Equal(t, 16, final.Usage.TotalTokens)
}

func TestGenerate_NonStreaming(t *testing.T) {
	var body string
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		buf, _ := io.ReadAll(r.Body)
		body = string(buf)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, jsonBody)
	})

	resps, err := collect(m.Generate(context.Background(), model.Request{
		Instructions: "be brief",
		Messages:     []model.Message{model.UserMessage("optimize this")},
	}))
	require.NoError(t, err)
	require.Len(t, resps, 1)
	assert.Equal(t, "[Accept] good plan", resps[0].Text)
	assert.Equal(t, 10, resps[0].Usage.TotalTokens)
	assert.Contains(t, body, "be brief")
}

func TestGenerate_APIError(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`)
	})

	_, err := collect(m.Generate(context.Background(), model.Request{
		Messages: []model.Message{model.UserMessage("x")},
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic api error")
}
