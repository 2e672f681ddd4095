// Package prompt builds the role-tagged messages sent to the SQL generator.
package prompt

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/ionut-t/nlsql/internal/constants"
	"github.com/ionut-t/nlsql/pkg/llm"
)

var questionTmpl = template.Must(template.New("question").Parse(constants.SQLQuestionTemplate))

// Request holds the per-call values substituted into the user message.
type Request struct {
	Context  string
	Question string
}

// Frame is the fixed part of the prompt.
type Frame struct {
	Instructions string
	Examples     string
}

// Default is the prompt used for the drawing table.
var Default = Frame{
	Instructions: constants.SQLSystemInstructions,
	Examples:     constants.SQLExamples,
}

// Assemble returns the system rules, the few-shot examples and the filled
// user template, in that order. The context is inserted verbatim.
func Assemble(context, question string) ([]llm.Message, error) {
	return Default.Assemble(Request{Context: context, Question: question})
}

func (f Frame) Assemble(req Request) ([]llm.Message, error) {
	user, err := render(req)
	if err != nil {
		return nil, err
	}

	return []llm.Message{
		{Role: llm.RoleSystem, Content: f.Instructions},
		{Role: llm.RoleSystem, Content: f.Examples},
		{Role: llm.RoleUser, Content: user},
	}, nil
}

func render(req Request) (string, error) {
	var b strings.Builder
	if err := questionTmpl.Execute(&b, req); err != nil {
		return "", fmt.Errorf("failed to render question template: %w", err)
	}

	return b.String(), nil
}
