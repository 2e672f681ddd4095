package ollama

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ionut-t/nlsql/pkg/llm"
	"github.com/ollama/ollama/api"
)

const providerName = "Ollama"

type ollama struct {
	client  *api.Client
	options llm.Options
}

var _ llm.Generator = (*ollama)(nil)

// BaseURL builds the backend address from a host and a port. A host that
// already carries a scheme is used as is.
func BaseURL(host string, port int) string {
	host = strings.TrimSpace(host)
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return strings.TrimRight(host, "/")
	}

	if host == "" {
		host = "localhost"
	}

	return "http://" + host + ":" + strconv.Itoa(port)
}

// New creates a generator talking to the Ollama server at baseURL. The
// underlying HTTP client has no timeout of its own; calls are bounded by the
// caller's context.
func New(baseURL string, opts llm.Options) (llm.Generator, error) {
	return NewWithClient(baseURL, opts, &http.Client{})
}

func NewWithClient(baseURL string, opts llm.Options, httpClient *http.Client) (llm.Generator, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid %s address %q", providerName, baseURL)
	}

	if opts.Model == "" {
		return nil, fmt.Errorf("no %s model specified", providerName)
	}

	return &ollama{
		client:  api.NewClient(u, httpClient),
		options: opts,
	}, nil
}

func (o *ollama) Model() string {
	return o.options.Model
}

func (o *ollama) Generate(ctx context.Context, messages []llm.Message) (string, error) {
	if len(messages) == 0 {
		return "", llm.NewGenerationError(llm.StageGenerating, llm.ErrEmptyPrompt)
	}

	stream := false
	req := &api.ChatRequest{
		Model:     o.options.Model,
		Messages:  make([]api.Message, 0, len(messages)),
		Stream:    &stream,
		KeepAlive: &api.Duration{Duration: o.options.KeepAlive},
		Options: map[string]any{
			"temperature": o.options.Temperature,
		},
	}

	for _, m := range messages {
		req.Messages = append(req.Messages, api.Message{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	var b strings.Builder
	err := o.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		b.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", llm.NewGenerationError(llm.StageGenerating, unwrap(err))
	}

	return b.String(), nil
}

func unwrap(err error) error {
	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		msg := statusErr.ErrorMessage
		if msg == "" {
			msg = statusErr.Status
		}
		return fmt.Errorf("%s returned status %d: %s", providerName, statusErr.StatusCode, msg)
	}

	return err
}
