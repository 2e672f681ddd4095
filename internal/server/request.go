package server

import (
	"encoding/json"
	"fmt"
)

// ValidationError describes a /chat body that cannot reach the pipeline.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ChatRequest is the body of POST /chat. Both fields are required and must
// be non-empty strings.
type ChatRequest struct {
	Prompt string
	Table  string
}

// ParseChatRequest checks presence of both fields before checking that they
// are non-empty, so a body missing the table but with an empty prompt
// reports the missing table.
func ParseChatRequest(body []byte) (ChatRequest, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return ChatRequest{}, &ValidationError{Message: "Invalid JSON body"}
	}

	for _, field := range []string{"prompt", "table"} {
		if _, ok := raw[field]; !ok {
			return ChatRequest{}, &ValidationError{
				Field:   field,
				Message: fmt.Sprintf("No %s part in the request", field),
			}
		}
	}

	var req ChatRequest
	values := []struct {
		field string
		dest  *string
	}{
		{"prompt", &req.Prompt},
		{"table", &req.Table},
	}

	for _, v := range values {
		if err := json.Unmarshal(raw[v.field], v.dest); err != nil {
			return ChatRequest{}, &ValidationError{
				Field:   v.field,
				Message: fmt.Sprintf("Field %s must be a string", v.field),
			}
		}
	}

	for _, v := range values {
		if *v.dest == "" {
			return ChatRequest{}, &ValidationError{
				Field:   v.field,
				Message: fmt.Sprintf("No %s provided", v.field),
			}
		}
	}

	return req, nil
}
