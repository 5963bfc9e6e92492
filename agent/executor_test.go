package agent_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/beachparty/agent"
	"github.com/hupe1980/beachparty/core"
	"github.com/hupe1980/beachparty/internal/testutil"
	"github.com/hupe1980/beachparty/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExecutor(m model.Model, optFns ...func(o *agent.Options)) *agent.Executor {
	return agent.New("beach", model.NewClient(m), optFns...)
}

func query(text string) core.Query {
	return core.Query{Text: text, SessionID: "s-1"}
}

func TestExecutor_InvokeSuccess(t *testing.T) {
	m := &testutil.ScriptedModel{Text: "Bondi Beach in Sydney is famous for surfing."}
	e := newExecutor(m, agent.WithProfile(agent.Beach()))

	ev := e.Invoke(context.Background(), query("best surfing beach in Australia?"))

	assert.Equal(t, core.TerminalEvent("Bondi Beach in Sydney is famous for surfing."), ev)

	reqs := m.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, agent.Beach().Instruction, reqs[0].Instructions)
	require.Len(t, reqs[0].Contents, 1)
	assert.Equal(t, "Answer the question: best surfing beach in Australia?", reqs[0].Contents[0].Text())
}

func TestExecutor_InvokeBackendFailure(t *testing.T) {
	logger := &testutil.RecordingLogger{}
	m := &testutil.ScriptedModel{Err: errors.New("quota exceeded")}
	e := newExecutor(m, func(o *agent.Options) { o.Logger = logger })

	ev := e.Invoke(context.Background(), query("bondi?"))

	assert.Equal(t, core.TerminalEvent(agent.DefaultFailureMessage), ev)
	assert.True(t, logger.Has("error", "agent.backend.failed"), logger.String())
}

func TestExecutor_InvokePlannerFailureMessage(t *testing.T) {
	m := &testutil.ScriptedModel{Err: errors.New("boom")}
	e := newExecutor(m, agent.WithProfile(agent.Planner()))

	ev := e.Invoke(context.Background(), query("plan a party"))

	assert.True(t, ev.Complete)
	assert.Equal(t, "Sorry, an error occurred while processing your request.", ev.Content)
}

func TestExecutor_RetrievalContextInPrompt(t *testing.T) {
	m := &testutil.ScriptedModel{Text: "ok"}
	e := newExecutor(m,
		agent.WithProfile(agent.Beach()),
		func(o *agent.Options) {
			o.Retriever = agent.RetrieverFunc(func(_ context.Context, q string) (string, error) {
				return "results for " + q, nil
			})
		},
	)

	e.Invoke(context.Background(), query("waikiki"))

	reqs := m.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "Web results:\nresults for waikiki\n\nAnswer the question: waikiki", reqs[0].Contents[0].Text())
}

func TestExecutor_RetrievalFailureProceedsWithoutContext(t *testing.T) {
	logger := &testutil.RecordingLogger{}
	m := &testutil.ScriptedModel{Text: "answer anyway"}
	e := newExecutor(m, func(o *agent.Options) {
		o.Logger = logger
		o.Retriever = agent.RetrieverFunc(func(context.Context, string) (string, error) {
			return "", errors.New("search down")
		})
	})

	ev := e.Invoke(context.Background(), query("bondi"))

	assert.Equal(t, core.TerminalEvent("answer anyway"), ev)
	assert.True(t, logger.Has("warn", "agent.retrieve.failed"), logger.String())
	assert.Equal(t, "Answer the question: bondi", m.Requests()[0].Contents[0].Text())
}

func TestExecutor_StreamSuccess(t *testing.T) {
	m := &testutil.ScriptedModel{Chunks: []string{"Bondi ", "is ", "great."}}
	e := newExecutor(m)

	events, err := core.Collect(e.Stream(context.Background(), query("bondi")))
	require.NoError(t, err)

	assert.Equal(t, []core.TaskEvent{
		core.PartialEvent("Bondi "),
		core.PartialEvent("is "),
		core.PartialEvent("great."),
		core.TerminalEvent(""),
	}, events)
}

func TestExecutor_StreamSkipsEmptyChunks(t *testing.T) {
	m := &testutil.ScriptedModel{Chunks: []string{"a", "", "b", ""}}
	e := newExecutor(m)

	events, err := core.Collect(e.Stream(context.Background(), query("q")))
	require.NoError(t, err)

	assert.Equal(t, []core.TaskEvent{
		core.PartialEvent("a"),
		core.PartialEvent("b"),
		core.TerminalEvent(""),
	}, events)
}

func TestExecutor_StreamErrorAfterChunks(t *testing.T) {
	logger := &testutil.RecordingLogger{}
	m := &testutil.ScriptedModel{
		Chunks:    []string{"one ", "two ", "three"},
		Err:       errors.New("connection reset"),
		FailAfter: 2,
	}
	e := newExecutor(m, func(o *agent.Options) { o.Logger = logger })

	events, err := core.Collect(e.Stream(context.Background(), query("q")))
	require.NoError(t, err)

	assert.Equal(t, []core.TaskEvent{
		core.PartialEvent("one "),
		core.PartialEvent("two "),
		core.TerminalEvent(agent.DefaultStreamErrorMessage),
	}, events)
	assert.True(t, logger.Has("error", "agent.backend.failed"), logger.String())
}

func TestExecutor_StreamErrorBeforeChunks(t *testing.T) {
	m := &testutil.ScriptedModel{Chunks: []string{"x"}, Err: errors.New("unauthorized")}
	e := newExecutor(m)

	events, err := core.Collect(e.Stream(context.Background(), query("q")))
	require.NoError(t, err)

	assert.Equal(t, []core.TaskEvent{core.TerminalEvent(agent.DefaultStreamErrorMessage)}, events)
}

func TestExecutor_StreamCancelled(t *testing.T) {
	m := &testutil.ScriptedModel{Chunks: []string{"one ", "two ", "three ", "four"}}
	e := newExecutor(m)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var events []core.TaskEvent
	for ev := range e.Stream(ctx, query("q")) {
		events = append(events, ev)
		if len(events) == 1 {
			cancel()
		}
	}

	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, core.TerminalEvent(agent.DefaultCancelledMessage), last)
	for _, ev := range events[:len(events)-1] {
		assert.False(t, ev.Complete)
	}
}

func TestExecutor_StreamEarlyBreak(t *testing.T) {
	m := &testutil.ScriptedModel{Chunks: []string{"a", "b", "c"}}
	e := newExecutor(m)

	var got []core.TaskEvent
	for ev := range e.Stream(context.Background(), query("q")) {
		got = append(got, ev)
		break
	}

	assert.Equal(t, []core.TaskEvent{core.PartialEvent("a")}, got)
}

func TestExecutor_StreamRestartsPerRange(t *testing.T) {
	m := &testutil.ScriptedModel{Chunks: []string{"a"}}
	e := newExecutor(m)

	seq := e.Stream(context.Background(), query("q"))
	for range seq {
	}
	for range seq {
	}

	assert.Equal(t, 2, m.Calls())
}

func TestExecutor_EventsNeverNeedInput(t *testing.T) {
	m := &testutil.ScriptedModel{Chunks: []string{"a", "b"}}
	e := newExecutor(m)

	for ev := range e.Stream(context.Background(), query("q")) {
		assert.False(t, ev.NeedsInput)
	}
	assert.False(t, e.Invoke(context.Background(), query("q")).NeedsInput)
}

func TestExecutor_InvalidTemplateFallsBack(t *testing.T) {
	logger := &testutil.RecordingLogger{}
	m := &testutil.ScriptedModel{Text: "ok"}
	e := newExecutor(m, func(o *agent.Options) {
		o.PromptTemplate = "{{.Query"
		o.Logger = logger
	})

	e.Invoke(context.Background(), query("bondi"))

	assert.True(t, logger.Has("error", "agent.prompt_template.invalid"))
	assert.Equal(t, "Answer the question: bondi", m.Requests()[0].Contents[0].Text())
}

func TestBuildRequest(t *testing.T) {
	req := agent.BuildRequest("be helpful", agent.DefaultPromptTemplate, "Web results", "Bondi: surf", "where to surf?")

	assert.Equal(t, "be helpful", req.Instructions)
	require.Len(t, req.Contents, 1)
	assert.Equal(t, "user", req.Contents[0].Role)
	assert.Equal(t, "Web results:\nBondi: surf\n\nAnswer the question: where to surf?", req.Contents[0].Text())
}

func TestBuildRequest_CustomTemplate(t *testing.T) {
	req := agent.BuildRequest("", "Q={{.Query | upper}} C={{default \"none\" .Context}}", "", "", "bondi")

	assert.Equal(t, "Q=BONDI C=none", req.Contents[0].Text())
}
