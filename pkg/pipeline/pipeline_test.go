package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ionut-t/nlsql/pkg/columns"
	"github.com/ionut-t/nlsql/pkg/llm"
	"github.com/ionut-t/nlsql/pkg/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeGenerator struct {
	mu       sync.Mutex
	response string
	err      error
	panicMsg string
	calls    int
	received []llm.Message
}

func (f *fakeGenerator) Generate(ctx context.Context, messages []llm.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	f.received = messages

	if f.panicMsg != "" {
		panic(f.panicMsg)
	}

	if err := ctx.Err(); err != nil {
		return "", llm.NewGenerationError(llm.StageGenerating, err)
	}

	return f.response, f.err
}

func (f *fakeGenerator) Model() string { return "fake" }

type recordingObserver struct {
	mu          sync.Mutex
	outcomes    []string
	generations int
	genErrors   int
}

func (o *recordingObserver) ObserveRun(outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func (o *recordingObserver) ObserveGeneration(_ string, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.generations++
	if err != nil {
		o.genErrors++
	}
}

const table = "drawing_number TEXT, other_cost NUMERIC"

func TestRunQuery(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{response: "  SELECT other_cost FROM drawing WHERE drawing_number = 'A-1';\n"}
	p := New(gen, WithLogger(zaptest.NewLogger(t)))

	res := p.Run(context.Background(), "図面番号「A-1」のその他の費用はいくらですか？", table)

	assert.Equal(t, KindQuery, res.Kind)
	assert.Equal(t, "SELECT other_cost FROM drawing WHERE drawing_number = 'A-1';", res.Query)
	assert.Equal(t, res.Query, res.String())
	assert.NoError(t, res.Err)

	require.Len(t, gen.received, 3)
	user := gen.received[2].Content
	assert.Contains(t, user, "drawing_number「A-1」のother_costはいくらですか？")
	assert.Contains(t, user, table)
}

func TestRunSentinel(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{response: " Error \n"}
	p := New(gen)

	res := p.Run(context.Background(), "What is the weather today?", table)

	assert.True(t, res.IsSentinel())
	assert.False(t, res.IsFailure())
	assert.Equal(t, "Error", res.String())
	assert.Equal(t, "Error", p.Chat(context.Background(), "What is the weather today?", table))
}

func TestRunBackendFailure(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{err: llm.NewGenerationError(llm.StageGenerating, errors.New("connection refused"))}
	obs := &recordingObserver{}
	p := New(gen, WithObserver(obs))

	res := p.Run(context.Background(), "How many drawing numbers are there?", table)

	assert.True(t, res.IsFailure())
	assert.Equal(t, "Error: connection refused", res.String())
	assert.True(t, strings.HasPrefix(p.Chat(context.Background(), "q", table), "Error: "))

	var genErr *llm.GenerationError
	require.True(t, errors.As(res.Err, &genErr))
	assert.Equal(t, llm.StageGenerating, genErr.Stage)
	assert.Equal(t, StateGenerating.String(), genErr.Stage)

	assert.Equal(t, []string{"failure", "failure"}, obs.outcomes)
	assert.Equal(t, 2, obs.generations)
	assert.Equal(t, 2, obs.genErrors)
}

func TestRunPlainErrorIsWrapped(t *testing.T) {
	t.Parallel()

	p := New(&fakeGenerator{err: errors.New("boom")})
	res := p.Run(context.Background(), "q", table)

	var genErr *llm.GenerationError
	require.True(t, errors.As(res.Err, &genErr))
	assert.Equal(t, "generating", genErr.Stage)
	assert.Equal(t, "Error: boom", res.String())
}

func TestRunRecoversPanics(t *testing.T) {
	t.Parallel()

	p := New(&fakeGenerator{panicMsg: "backend exploded"})

	var res Result
	assert.NotPanics(t, func() {
		res = p.Run(context.Background(), "q", table)
	})
	assert.Equal(t, "Error: backend exploded", res.String())
}

func TestRunWithoutGenerator(t *testing.T) {
	t.Parallel()

	res := New(nil).Run(context.Background(), "q", table)
	assert.Equal(t, "Error: no generator configured", res.String())
}

func TestRunCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := New(&fakeGenerator{response: "SELECT 1;"}).Run(ctx, "q", table)
	assert.True(t, res.IsFailure())
	assert.ErrorIs(t, res.Err, context.Canceled)
}

func TestRunMakesExactlyOneAttempt(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{err: errors.New("unavailable")}
	New(gen).Run(context.Background(), "q", table)
	assert.Equal(t, 1, gen.calls)
}

func TestRunCustomMappingAndFrame(t *testing.T) {
	t.Parallel()

	m, err := columns.Parse([]byte("drawing_number:\n  ko: 도면 번호\n"))
	require.NoError(t, err)

	gen := &fakeGenerator{response: "SELECT drawing_number FROM drawing;"}
	p := New(gen, WithMapping(m), WithPromptFrame(prompt.Frame{Instructions: "rules", Examples: "examples"}))

	res := p.Run(context.Background(), "도면 번호 목록", table)
	assert.Equal(t, KindQuery, res.Kind)
	assert.Equal(t, "rules", gen.received[0].Content)
	assert.Contains(t, gen.received[2].Content, "drawing_number 목록")
}

func TestRunConcurrent(t *testing.T) {
	t.Parallel()

	p := New(&fakeGenerator{response: "SELECT name FROM drawing;"})

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = p.Chat(context.Background(), "名前", table)
		}()
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, "SELECT name FROM drawing;", r)
	}
}

func TestResultString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		result   Result
		expected string
	}{
		{name: "query", result: Result{Kind: KindQuery, Query: "SELECT name FROM drawing;"}, expected: "SELECT name FROM drawing;"},
		{name: "sentinel", result: Result{Kind: KindSentinel}, expected: "Error"},
		{name: "failure", result: Result{Kind: KindFailure, Err: errors.New("timeout")}, expected: "Error: timeout"},
		{name: "failure without error", result: Result{Kind: KindFailure}, expected: "Error: unknown error"},
		{name: "empty query", result: Result{Kind: KindQuery}, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.result.String())
		})
	}
}

func TestStateAndKindNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "sanitizing", StateSanitizing.String())
	assert.Equal(t, "done", StateDone.String())
	assert.Equal(t, "unknown", State(42).String())

	assert.Equal(t, "query", KindQuery.String())
	assert.Equal(t, "sentinel", KindSentinel.String())
	assert.Equal(t, "failure", KindFailure.String())
	assert.Equal(t, "unknown", Kind(9).String())
}
