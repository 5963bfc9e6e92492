package openai

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hupe1980/beachparty/core"
	"github.com/hupe1980/beachparty/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessages(t *testing.T) {
	msgs := buildMessages(model.Request{
		Instructions: "You plan beach parties.",
		Contents: []core.Content{
			core.NewTextContent("user", "Plan a party"),
			core.NewTextContent("assistant", "Sure."),
			core.NewTextContent("tool", ""),
		},
	})
	require.Len(t, msgs, 3)
	assert.NotNil(t, msgs[0].OfSystem)
	assert.NotNil(t, msgs[1].OfUser)
	assert.NotNil(t, msgs[2].OfAssistant)
}

func TestNewModel_Options(t *testing.T) {
	m := NewModel(func(o *Options) {
		o.Model = "gemini-2.5-flash"
		o.BaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
		o.APIKey = "test"
	})
	assert.Equal(t, model.Info{Name: "gemini-2.5-flash", Provider: "openai"}, m.Info())
	assert.InDelta(t, 0.7, m.opts.Temperature, 1e-9)
}

func fakeServer(t *testing.T, status int) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		if status != http.StatusOK {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			fmt.Fprint(w, `{"error":{"message":"bad request","type":"invalid_request_error"}}`)
			return
		}

		if strings.Contains(string(body), `"stream":true`) {
			w.Header().Set("Content-Type", "text/event-stream")
			for _, c := range []string{"Bondi ", "is ", "sunny."} {
				fmt.Fprintf(w, "data: {\"id\":\"c1\",\"object\":\"chat.completion.chunk\",\"created\":1,\"model\":\"m\",\"choices\":[{\"index\":0,\"delta\":{\"content\":%q}}]}\n\n", c)
			}
			fmt.Fprint(w, "data: {\"id\":\"c1\",\"object\":\"chat.completion.chunk\",\"created\":1,\"model\":\"m\",\"choices\":[{\"index\":0,\"delta\":{},\"finish_reason\":\"stop\"}]}\n\n")
			fmt.Fprint(w, "data: [DONE]\n\n")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"c1","object":"chat.completion","created":1,"model":"m","choices":[{"index":0,"message":{"role":"assistant","content":"Bondi is sunny."},"finish_reason":"stop"}],"usage":{"prompt_tokens":3,"completion_tokens":4,"total_tokens":7}}`)
	}))
	t.Cleanup(srv.Close)

	return srv
}

func newTestModel(srv *httptest.Server) *Model {
	return NewModel(func(o *Options) {
		o.BaseURL = srv.URL + "/"
		o.APIKey = "test"
	})
}

func request(stream bool) model.Request {
	return model.Request{
		Instructions: "be brief",
		Contents:     []core.Content{core.NewTextContent("user", "weather at bondi?")},
		Stream:       stream,
	}
}

func TestGenerate_NonStreaming(t *testing.T) {
	c := model.NewClient(newTestModel(fakeServer(t, http.StatusOK)))

	text, err := c.Complete(context.Background(), request(false))
	require.NoError(t, err)
	assert.Equal(t, "Bondi is sunny.", text)
}

func TestGenerate_Streaming(t *testing.T) {
	c := model.NewClient(newTestModel(fakeServer(t, http.StatusOK)))

	var chunks []string
	for chunk, err := range c.Stream(context.Background(), request(true)) {
		require.NoError(t, err)
		chunks = append(chunks, chunk.Text)
	}
	assert.Equal(t, []string{"Bondi ", "is ", "sunny."}, chunks)
}

func TestGenerate_APIError(t *testing.T) {
	c := model.NewClient(newTestModel(fakeServer(t, http.StatusBadRequest)))

	_, err := c.Complete(context.Background(), request(false))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai api error")
}
