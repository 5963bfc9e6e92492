package a2a

import (
	"context"
	"fmt"
	"iter"
	"strings"

	a2ago "github.com/a2aproject/a2a-go/a2a"
	"github.com/a2aproject/a2a-go/a2asrv"
	"github.com/a2aproject/a2a-go/a2asrv/eventqueue"

	"github.com/hupe1980/beachparty/core"
	"github.com/hupe1980/beachparty/logging"
)

// TaskRunner produces the task event stream for a query. *agent.Executor
// satisfies it.
type TaskRunner interface {
	Name() string
	Stream(ctx context.Context, q core.Query) iter.Seq[core.TaskEvent]
}

// eventWriter is the part of eventqueue.Queue the executor writes to.
type eventWriter interface {
	Write(ctx context.Context, event a2ago.Event) error
}

// Options configures an Executor.
type Options struct {
	// ArtifactName names the artifact holding the final answer.
	ArtifactName string
	Logger       logging.Logger
}

// Executor serves one agent's tasks over A2A.
type Executor struct {
	runner TaskRunner
	opts   Options
	logger logging.Logger
}

var _ a2asrv.AgentExecutor = (*Executor)(nil)

// NewExecutor wraps runner.
func NewExecutor(runner TaskRunner, optFns ...func(o *Options)) *Executor {
	opts := Options{
		ArtifactName: "answer",
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Executor{
		runner: runner,
		opts:   opts,
		logger: logging.With(opts.Logger, "component", "a2a", "agent", runner.Name()),
	}
}

// Execute runs the task described by reqCtx and publishes its progress to queue.
func (e *Executor) Execute(ctx context.Context, reqCtx *a2asrv.RequestContext, queue eventqueue.Queue) error {
	return e.execute(ctx, reqCtx, queue)
}

// Cancel marks the task cancelled. The running stream observes the
// cancellation through its context.
func (e *Executor) Cancel(ctx context.Context, reqCtx *a2asrv.RequestContext, queue eventqueue.Queue) error {
	return e.cancel(ctx, reqCtx, queue)
}

func (e *Executor) execute(ctx context.Context, reqCtx *a2asrv.RequestContext, w eventWriter) error {
	q := core.Query{Text: MessageText(reqCtx.Message), SessionID: reqCtx.ContextID}
	logger := logging.With(e.logger, "task_id", string(reqCtx.TaskID), "session_id", q.SessionID)

	if reqCtx.StoredTask == nil {
		if err := w.Write(ctx, a2ago.NewSubmittedTask(reqCtx, reqCtx.Message)); err != nil {
			return fmt.Errorf("write submitted task: %w", err)
		}
	}

	var (
		lc      core.Lifecycle
		partial strings.Builder
	)
	for ev := range e.runner.Stream(ctx, q) {
		if err := lc.Observe(ev); err != nil {
			return err
		}

		if !ev.Complete {
			partial.WriteString(ev.Content)
			if err := w.Write(ctx, e.working(reqCtx, ev.Content)); err != nil {
				return fmt.Errorf("write status update: %w", err)
			}
			continue
		}

		answer := aggregate(partial.String(), ev.Content)
		if err := w.Write(ctx, e.artifact(reqCtx, answer)); err != nil {
			return fmt.Errorf("write artifact: %w", err)
		}

		state := a2ago.TaskStateCompleted
		if ev.NeedsInput {
			state = a2ago.TaskStateInputRequired
		}
		final := a2ago.NewStatusUpdateEvent(reqCtx, state, nil)
		final.Final = true
		if err := w.Write(ctx, final); err != nil {
			return fmt.Errorf("write final status: %w", err)
		}

		logger.Info("a2a.task.done", "state", string(state), "partials", lc.Partials(), "chars", len(answer))

		break
	}

	if err := lc.Close(); err != nil {
		logger.Error("a2a.task.failed", "error", err.Error())

		failed := a2ago.NewStatusUpdateEvent(reqCtx, a2ago.TaskStateFailed, agentMessage(reqCtx, err.Error()))
		failed.Final = true
		if werr := w.Write(ctx, failed); werr != nil {
			return fmt.Errorf("write failed status: %w", werr)
		}
		return err
	}

	return nil
}

func (e *Executor) cancel(ctx context.Context, reqCtx *a2asrv.RequestContext, w eventWriter) error {
	e.logger.Info("a2a.task.cancel", "task_id", string(reqCtx.TaskID))

	ev := a2ago.NewStatusUpdateEvent(reqCtx, a2ago.TaskStateCanceled, nil)
	ev.Final = true
	if err := w.Write(ctx, ev); err != nil {
		return fmt.Errorf("write cancel status: %w", err)
	}
	return nil
}

func (e *Executor) working(reqCtx *a2asrv.RequestContext, text string) *a2ago.TaskStatusUpdateEvent {
	return a2ago.NewStatusUpdateEvent(reqCtx, a2ago.TaskStateWorking, agentMessage(reqCtx, text))
}

func (e *Executor) artifact(reqCtx *a2asrv.RequestContext, text string) *a2ago.TaskArtifactUpdateEvent {
	ev := a2ago.NewArtifactEvent(reqCtx, a2ago.TextPart{Text: text})
	ev.Artifact.Name = e.opts.ArtifactName
	ev.LastChunk = true
	return ev
}

func agentMessage(reqCtx *a2asrv.RequestContext, text string) *a2ago.Message {
	return a2ago.NewMessageForTask(a2ago.MessageRoleAgent, reqCtx, a2ago.TextPart{Text: text})
}

// aggregate joins the streamed partial text with the terminal content. The
// terminal content is empty on success and a readable message otherwise.
func aggregate(partial, terminal string) string {
	switch {
	case partial == "":
		return terminal
	case terminal == "":
		return partial
	default:
		return partial + "\n\n" + terminal
	}
}

// MessageText concatenates the text parts of msg.
func MessageText(msg *a2ago.Message) string {
	if msg == nil {
		return ""
	}
	return partsText(msg.Parts)
}

func partsText(parts []a2ago.Part) string {
	var sb strings.Builder
	for _, p := range parts {
		switch tp := p.(type) {
		case a2ago.TextPart:
			sb.WriteString(tp.Text)
		case *a2ago.TextPart:
			sb.WriteString(tp.Text)
		}
	}
	return sb.String()
}
