package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Request carries the inputs of one generation call. Instructions define the
// output contract, Input carries the business facts; they map onto the
// system and user messages of the chat API.
type Request struct {
	Instructions string
	Input        string
	MaxTokens    int
	Temperature  float32
	Timeout      time.Duration
}

// Result is the extracted payload of a successful generation call: the
// flattened text of all choices in emission order.
type Result struct {
	Text string
}

// ErrEmptyResult indicates the backend answered successfully but produced no
// extractable text. Callers surface it instead of retrying.
var ErrEmptyResult = errors.New("generation returned no text")

// BackendError is the single typed failure of a generation call. Transport
// distinguishes network/timeout aborts from non-2xx backend responses, which
// carry the backend-supplied message and status.
type BackendError struct {
	Transport bool
	Timeout   bool
	Status    int
	Message   string
	Err       error
}

func (e *BackendError) Error() string {
	switch {
	case e.Timeout:
		return "generation backend timed out: " + e.Message
	case e.Transport:
		return "generation backend unreachable: " + e.Message
	default:
		return fmt.Sprintf("generation backend error (status %d): %s", e.Status, e.Message)
	}
}

func (e *BackendError) Unwrap() error { return e.Err }

// Generator issues generation calls against a chat backend. Each call is
// attempted exactly once; the pipeline's pass structure, not retries, bounds
// total backend traffic.
type Generator struct {
	Client Client
	Model  string
}

// Generate sends one request and extracts its text payload. The request
// timeout, when set, bounds the call; on expiry the in-flight call is
// cancelled and a timeout BackendError returned.
func (g *Generator) Generate(ctx context.Context, req Request) (Result, error) {
	if g.Client == nil || g.Model == "" {
		return Result{}, errors.New("generator not configured")
	}
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	resp, err := g.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.Instructions},
			{Role: openai.ChatMessageRoleUser, Content: req.Input},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		N:           1,
	})
	if err != nil {
		return Result{}, classify(err)
	}

	var b strings.Builder
	for _, ch := range resp.Choices {
		b.WriteString(ch.Message.Content)
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return Result{}, ErrEmptyResult
	}
	return Result{Text: text}, nil
}

func classify(err error) *BackendError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &BackendError{Status: apiErr.HTTPStatusCode, Message: apiErr.Message, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &BackendError{Transport: true, Timeout: true, Message: err.Error(), Err: err}
	}
	return &BackendError{Transport: true, Message: err.Error(), Err: err}
}
