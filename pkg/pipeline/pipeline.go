// Package pipeline turns a natural-language question and a table schema into
// a read-only SQL query for the drawing table.
//
// A run always completes with a Result. Failures never escape as errors or
// panics; they are reported as a Result of KindFailure, which encodes to the
// legacy "Error: <message>" string.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ionut-t/nlsql/pkg/columns"
	"github.com/ionut-t/nlsql/pkg/llm"
	"github.com/ionut-t/nlsql/pkg/prompt"
	"go.uber.org/zap"
)

const failurePrefix = llm.Sentinel + ": "

type Kind int

const (
	KindQuery Kind = iota
	KindSentinel
	KindFailure
)

func (k Kind) String() string {
	switch k {
	case KindQuery:
		return "query"
	case KindSentinel:
		return "sentinel"
	case KindFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Result is the outcome of one run.
type Result struct {
	Kind  Kind
	Query string
	Err   error
}

// String encodes the result the way existing callers expect: the query text,
// the bare sentinel, or "Error: " followed by the failure message.
func (r Result) String() string {
	switch r.Kind {
	case KindSentinel:
		return llm.Sentinel
	case KindFailure:
		if r.Err == nil {
			return failurePrefix + "unknown error"
		}
		return failurePrefix + r.Err.Error()
	default:
		return r.Query
	}
}

func (r Result) IsSentinel() bool { return r.Kind == KindSentinel }
func (r Result) IsFailure() bool  { return r.Kind == KindFailure }

type State int

const (
	StateIdle State = iota
	StateNormalizing
	StateAssembling
	StateGenerating
	StateSanitizing
	StateDone
)

var stateNames = [...]string{
	"idle",
	llm.StageNormalizing,
	llm.StageAssembling,
	llm.StageGenerating,
	llm.StageSanitizing,
	"done",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Observer receives the outcome of every run.
type Observer interface {
	ObserveRun(outcome string, duration time.Duration)
	ObserveGeneration(model string, duration time.Duration, err error)
}

type Pipeline struct {
	generator llm.Generator
	mapping   *columns.Mapping
	frame     prompt.Frame
	logger    *zap.Logger
	observer  Observer
}

type Option func(*Pipeline)

func WithMapping(m *columns.Mapping) Option {
	return func(p *Pipeline) { p.mapping = m }
}

func WithPromptFrame(s prompt.Frame) Option {
	return func(p *Pipeline) { p.frame = s }
}

func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

func WithObserver(o Observer) Option {
	return func(p *Pipeline) { p.observer = o }
}

// New returns a pipeline backed by generator. Without options it uses the
// embedded column mapping and the default drawing prompt.
func New(generator llm.Generator, opts ...Option) *Pipeline {
	p := &Pipeline{
		generator: generator,
		mapping:   columns.Default(),
		frame:     prompt.Default,
		logger:    zap.NewNop(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Chat runs the pipeline and returns the legacy string encoding.
func (p *Pipeline) Chat(ctx context.Context, question, table string) string {
	return p.Run(ctx, question, table).String()
}

// Run makes exactly one generation attempt. The context is the only bound on
// how long the backend call may take.
func (p *Pipeline) Run(ctx context.Context, question, table string) (result Result) {
	start := time.Now()
	state := StateIdle

	defer func() {
		if r := recover(); r != nil {
			result = Result{
				Kind: KindFailure,
				Err:  llm.NewGenerationError(state.String(), fmt.Errorf("%v", r)),
			}
		}

		p.finish(result, state, time.Since(start))
	}()

	state = p.enter(StateNormalizing)
	normalized := columns.Normalize(question, p.mapping)

	state = p.enter(StateAssembling)
	messages, err := p.frame.Assemble(prompt.Request{Context: table, Question: normalized})
	if err != nil {
		return failure(state, err)
	}

	state = p.enter(StateGenerating)
	raw, err := p.generate(ctx, messages)
	if err != nil {
		return failure(state, err)
	}

	state = p.enter(StateSanitizing)
	text := llm.Sanitise(raw)

	state = p.enter(StateDone)
	if text == llm.Sentinel {
		return Result{Kind: KindSentinel}
	}

	return Result{Kind: KindQuery, Query: text}
}

func (p *Pipeline) generate(ctx context.Context, messages []llm.Message) (string, error) {
	if p.generator == nil {
		return "", errors.New("no generator configured")
	}

	start := time.Now()
	raw, err := p.generator.Generate(ctx, messages)
	if p.observer != nil {
		p.observer.ObserveGeneration(p.generator.Model(), time.Since(start), err)
	}

	return raw, err
}

func (p *Pipeline) enter(s State) State {
	p.logger.Debug("pipeline state", zap.Stringer("state", s))
	return s
}

func (p *Pipeline) finish(result Result, last State, d time.Duration) {
	if p.observer != nil {
		p.observer.ObserveRun(result.Kind.String(), d)
	}

	fields := []zap.Field{
		zap.Stringer("outcome", result.Kind),
		zap.Duration("duration", d),
	}

	if result.IsFailure() {
		p.logger.Warn("query generation failed",
			append(fields, zap.Stringer("state", last), zap.Error(result.Err))...)
		return
	}

	p.logger.Info("query generated", append(fields, zap.String("result", result.String()))...)
}

func failure(state State, err error) Result {
	return Result{Kind: KindFailure, Err: llm.NewGenerationError(state.String(), err)}
}
