package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	ai "github.com/spetersoncode/scout"
	"github.com/spetersoncode/scout/decision"
	"github.com/spetersoncode/scout/event"
	"github.com/spetersoncode/scout/internal/store"
)

// ToolBackend lists and invokes tools. *mcp.Client implements it.
type ToolBackend interface {
	ListTools(ctx context.Context) (*ai.Catalog, error)
	CallTool(ctx context.Context, name string, params *ai.Params) (ai.ToolOutcome, error)
	DescribeTools() string
}

// Agent answers questions for one session. Questions on the same Agent run
// one at a time; separate Agents run independently.
type Agent struct {
	reasoner ai.Reasoner
	tools    ToolBackend
	opts     *Options
	log      *slog.Logger
	history  *store.History

	mu sync.Mutex
}

// New creates an Agent with the given reasoner and tool backend.
func New(r ai.Reasoner, tools ToolBackend, opts ...Option) *Agent {
	o := ApplyOptions(opts...)
	return &Agent{
		reasoner: r,
		tools:    tools,
		opts:     o,
		log:      o.Logger.With("component", "agent"),
		history:  store.NewHistory(o.HistoryLimit),
	}
}

// History returns the answered questions and their answers, oldest first.
func (a *Agent) History() []ai.Turn {
	return a.history.Turns()
}

// ClearHistory forgets all previous turns.
func (a *Agent) ClearHistory() {
	a.history.Clear()
}

// Ask answers question and returns the outcome. This is a blocking call
// that drains the event stream; an Error event becomes the returned error.
func (a *Agent) Ask(ctx context.Context, question string) (*Result, error) {
	out := &Result{}
	for range a.stream(ctx, question, out) {
	}
	return out, out.Error
}

// Research answers question and returns the ordered event stream. The
// channel is unbuffered and is closed after the terminal event. Callers
// must drain it or cancel ctx.
func (a *Agent) Research(ctx context.Context, question string) <-chan event.Event {
	return a.stream(ctx, question, &Result{})
}

func (a *Agent) stream(ctx context.Context, question string, out *Result) <-chan event.Event {
	eventCh := event.NewChannel()

	go a.runLoop(ctx, question, eventCh, out)

	return eventCh
}

// run carries the per-question state shared by the loop helpers.
type run struct {
	emitCtx context.Context
	ctx     context.Context
	ch      chan<- event.Event
	out     *Result
	log     *slog.Logger
	rc      *ReasoningContext
}

// emit delivers e, returning false when the consumer has gone away.
func (r *run) emit(e event.Event) bool {
	if err := event.Emit(r.emitCtx, r.ch, e); err != nil {
		r.out.Termination = TerminationCancelled
		r.out.Error = err
		return false
	}
	return true
}

// fail ends the question with one Error event.
func (r *run) fail(step int, err error) {
	if r.ctx.Err() != nil && r.emitCtx.Err() == nil && !errors.Is(err, ErrTimeout) {
		err = fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	r.log.Warn("question failed", "step", step, "error", err)
	if r.emit(event.NewError(step, err)) {
		r.out.Termination = TerminationError
		r.out.Error = err
	}
}

func (a *Agent) runLoop(ctx context.Context, question string, eventCh chan<- event.Event, out *Result) {
	defer close(eventCh)

	a.mu.Lock()
	defer a.mu.Unlock()

	// Work is bounded by the timeout; emission only by the caller's ctx, so
	// a timed-out question still delivers its Error event.
	workCtx := ctx
	if a.opts.Timeout > 0 {
		var cancel context.CancelFunc
		workCtx, cancel = context.WithTimeout(ctx, a.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	r := &run{
		emitCtx: ctx,
		ctx:     workCtx,
		ch:      eventCh,
		out:     out,
		log:     a.log.With("question_id", uuid.NewString()),
		rc:      NewReasoningContext(strings.TrimSpace(question)),
	}
	defer func() {
		out.Iterations = r.rc.Iteration
		out.ToolsUsed = r.rc.ToolsUsed()
		r.log.Info("question finished",
			"termination", out.Termination,
			"iterations", out.Iterations,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}()

	if r.rc.Question == "" {
		r.fail(0, fmt.Errorf("question: %w", ai.ErrEmptyInput))
		return
	}

	if !r.emit(event.NewThinking(0, "Analyzing question: "+r.rc.Question)) {
		return
	}

	if _, err := a.tools.ListTools(workCtx); err != nil {
		r.fail(0, err)
		return
	}

	for r.rc.Iteration < a.opts.MaxIterations {
		if done := a.step(r); done {
			return
		}
	}

	// Exhausted: a soft outcome that still answers.
	r.log.Debug("iteration limit reached", "error", ai.ErrIterationExhausted)
	answer := SynthesizeFallback(r.rc, a.opts.FallbackLimit)
	if r.emit(event.NewAnswer(r.rc.Iteration, answer)) {
		out.Answer = answer
		out.Termination = TerminationExhausted
	}
}

// step runs one decide/act cycle and reports whether the question ended.
func (a *Agent) step(r *run) bool {
	step := r.rc.Iteration + 1
	r.log.Debug("deciding", "step", step)

	prompt := BuildPrompt(a.opts.Instructions, a.tools.DescribeTools(), r.rc)
	text, err := a.reasoner.Generate(r.ctx, prompt, a.opts.ReasonerOptions...)
	if err != nil {
		r.fail(step, err)
		return true
	}

	d, err := decision.Parse(text)
	if err != nil {
		r.fail(step, err)
		return true
	}

	if thinking := d.Reasoning(); thinking != "" {
		if !r.emit(event.NewThinking(step, thinking)) {
			return true
		}
	}

	switch d := d.(type) {
	case decision.Terminate:
		if r.emit(event.NewAnswer(step, d.Answer)) {
			a.history.Append(
				ai.NewTurn(ai.RoleUser, r.rc.Question),
				ai.NewTurn(ai.RoleAssistant, d.Answer),
			)
			r.out.Answer = d.Answer
			r.out.Termination = TerminationAnswered
		}
		return true

	case decision.ContinueWithTool:
		if !r.emit(event.NewToolCall(step, d.Tool, d.Params)) {
			return true
		}

		outcome, err := a.tools.CallTool(r.ctx, d.Tool, d.Params)
		if err != nil {
			r.fail(step, err)
			return true
		}
		if outcome.IsError() {
			r.log.Debug("tool reported error", "tool", d.Tool, "error", outcome.Error)
		}

		inv := r.rc.Record(d.Tool, d.Params, ai.Truncate(outcome.Text(), a.opts.ResultLimit))
		return !r.emit(event.NewToolResult(step, d.Tool, ai.Preview(inv.Result, a.opts.PreviewLimit)))
	}

	r.fail(step, fmt.Errorf("unhandled decision %T", d))
	return true
}
