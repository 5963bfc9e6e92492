package model_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hupe1980/beachparty/core"
	"github.com/hupe1980/beachparty/internal/testutil"
	"github.com/hupe1980/beachparty/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userRequest(text string) model.Request {
	return model.Request{
		Instructions: "be brief",
		Contents:     []core.Content{core.NewTextContent("user", text)},
	}
}

func collect(t *testing.T, c *model.Client, req model.Request) ([]string, error) {
	t.Helper()

	var (
		chunks []string
		err    error
	)
	for chunk, e := range c.Stream(context.Background(), req) {
		if e != nil {
			err = e
			continue
		}
		chunks = append(chunks, chunk.Text)
	}
	return chunks, err
}

func TestClient_Complete(t *testing.T) {
	m := &testutil.ScriptedModel{Text: "Bondi is great."}
	c := model.NewClient(m)

	text, err := c.Complete(context.Background(), userRequest("bondi?"))
	require.NoError(t, err)
	assert.Equal(t, "Bondi is great.", text)

	reqs := m.Requests()
	require.Len(t, reqs, 1)
	assert.False(t, reqs[0].Stream)
	assert.Equal(t, "be brief", reqs[0].Instructions)
}

func TestClient_CompleteError(t *testing.T) {
	boom := errors.New("quota exceeded")
	c := model.NewClient(&testutil.ScriptedModel{Err: boom})

	_, err := c.Complete(context.Background(), userRequest("bondi?"))
	assert.ErrorIs(t, err, boom)
}

func TestClient_StreamOrder(t *testing.T) {
	m := &testutil.ScriptedModel{Chunks: []string{"Sun", "", "ny ", "day"}}
	c := model.NewClient(m)

	chunks, err := collect(t, c, userRequest("weather?"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Sun", "", "ny ", "day"}, chunks)
	assert.True(t, m.Requests()[0].Stream)
}

func TestClient_StreamErrorAfterChunks(t *testing.T) {
	boom := errors.New("connection reset")
	c := model.NewClient(&testutil.ScriptedModel{Chunks: []string{"a", "b", "c"}, Err: boom, FailAfter: 2})

	chunks, err := collect(t, c, userRequest("q"))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a", "b"}, chunks)
}

func TestClient_StreamWithoutPartials(t *testing.T) {
	// Some providers only ever emit a final response.
	c := model.NewClient(nonStreaming{text: "whole answer"})

	chunks, err := collect(t, c, userRequest("q"))
	require.NoError(t, err)
	assert.Equal(t, []string{"whole answer"}, chunks)
}

func TestClient_StreamEarlyBreakReleasesProvider(t *testing.T) {
	m := model.NewMockModel("mock")
	m.AddResponse("q", "one two three four five six")
	c := model.NewClient(m)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for chunk, err := range c.Stream(context.Background(), userRequest("q")) {
			assert.NoError(t, err)
			assert.Equal(t, "one ", chunk.Text)
			break
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stream did not return after early break")
	}
}

func TestMockModel(t *testing.T) {
	m := model.NewMockModel("mock")
	m.AddResponse("hello", "hi there")
	c := model.NewClient(m)

	text, err := c.Complete(context.Background(), userRequest("hello"))
	require.NoError(t, err)
	assert.Equal(t, "hi there", text)

	text, err = c.Complete(context.Background(), userRequest("other"))
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: other", text)

	chunks, err := collect(t, c, userRequest("hello"))
	require.NoError(t, err)
	assert.Equal(t, []string{"hi ", "there"}, chunks)
	assert.Equal(t, "mock", c.Info().Provider)
}

type nonStreaming struct{ text string }

func (n nonStreaming) Generate(_ context.Context, _ model.Request) (<-chan model.Response, <-chan error) {
	out := make(chan model.Response, 1)
	errCh := make(chan error)
	out <- model.Response{Content: core.NewTextContent("assistant", n.text), FinishReason: "stop"}
	close(out)
	close(errCh)
	return out, errCh
}

func (n nonStreaming) Info() model.Info { return model.Info{Name: "plain", Provider: "test"} }
