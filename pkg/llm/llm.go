package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Role tags a message for the chat backend.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Sentinel is returned verbatim by the model when the question has nothing
// to do with the supplied schema.
const Sentinel = "Error"

const (
	DefaultModel       = "qwen2.5-coder:1.5b"
	DefaultTemperature = 0.1
	DefaultKeepAlive   = 24 * time.Hour
)

// Stage names recorded on a GenerationError. The pipeline reports its states
// under the same names.
const (
	StageNormalizing = "normalizing"
	StageAssembling  = "assembling"
	StageGenerating  = "generating"
	StageSanitizing  = "sanitizing"
)

var ErrEmptyPrompt = errors.New("no messages to send")

type Message struct {
	Role    Role
	Content string
}

// Generator turns a role-tagged prompt into raw model text.
// Implementations hold only immutable endpoint/model configuration and are
// safe for concurrent use.
type Generator interface {
	Generate(ctx context.Context, messages []Message) (string, error)
	Model() string
}

// Options configures a backend generation call.
type Options struct {
	Model       string
	Temperature float64
	KeepAlive   time.Duration
}

func DefaultOptions() Options {
	return Options{
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		KeepAlive:   DefaultKeepAlive,
	}
}

// GenerationError wraps any failure raised while producing a query.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return e.Stage + " failed"
	}
	return e.Err.Error()
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func NewGenerationError(stage string, err error) *GenerationError {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr
	}
	return &GenerationError{Stage: stage, Err: err}
}

func Errorf(stage, format string, args ...any) *GenerationError {
	return &GenerationError{Stage: stage, Err: fmt.Errorf(format, args...)}
}

// Sanitise strips surrounding whitespace and nothing else. The sentinel and
// the SELECT-only contract are left to the model.
func Sanitise(text string) string {
	return strings.TrimSpace(text)
}
