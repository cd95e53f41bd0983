package llm

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// fakeClient returns canned responses or errors in order of invocation.
type fakeClient struct {
	responses []openai.ChatCompletionResponse
	errs      []error
	calls     int
	lastReq   openai.ChatCompletionRequest
}

func (f *fakeClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.lastReq = req
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return openai.ChatCompletionResponse{}, f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return openai.ChatCompletionResponse{}, nil
}

func textResponse(s string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: s}}},
	}
}

func TestGenerateExtractsFlattenedText(t *testing.T) {
	fc := &fakeClient{responses: []openai.ChatCompletionResponse{textResponse("  hello doc  ")}}
	g := &Generator{Client: fc, Model: "test-model"}
	res, err := g.Generate(context.Background(), Request{Instructions: "sys", Input: "user"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Text != "hello doc" {
		t.Fatalf("text = %q", res.Text)
	}
	if fc.lastReq.Model != "test-model" {
		t.Fatalf("model = %q", fc.lastReq.Model)
	}
	if len(fc.lastReq.Messages) != 2 || fc.lastReq.Messages[0].Role != openai.ChatMessageRoleSystem {
		t.Fatalf("unexpected message shape: %+v", fc.lastReq.Messages)
	}
}

func TestGenerateEmptyResult(t *testing.T) {
	fc := &fakeClient{responses: []openai.ChatCompletionResponse{textResponse("   ")}}
	g := &Generator{Client: fc, Model: "m"}
	_, err := g.Generate(context.Background(), Request{})
	if !errors.Is(err, ErrEmptyResult) {
		t.Fatalf("err = %v, want ErrEmptyResult", err)
	}
}

func TestGenerateClassifiesAPIError(t *testing.T) {
	fc := &fakeClient{errs: []error{&openai.APIError{HTTPStatusCode: 429, Message: "rate limited"}}}
	g := &Generator{Client: fc, Model: "m"}
	_, err := g.Generate(context.Background(), Request{})
	var be *BackendError
	if !errors.As(err, &be) {
		t.Fatalf("err = %T, want *BackendError", err)
	}
	if be.Transport || be.Status != 429 || be.Message != "rate limited" {
		t.Fatalf("classified wrong: %+v", be)
	}
}

func TestGenerateClassifiesTimeout(t *testing.T) {
	fc := &fakeClient{errs: []error{context.DeadlineExceeded}}
	g := &Generator{Client: fc, Model: "m"}
	_, err := g.Generate(context.Background(), Request{Timeout: time.Second})
	var be *BackendError
	if !errors.As(err, &be) {
		t.Fatalf("err = %T, want *BackendError", err)
	}
	if !be.Transport || !be.Timeout {
		t.Fatalf("classified wrong: %+v", be)
	}
}

func TestGenerateClassifiesNetworkError(t *testing.T) {
	fc := &fakeClient{errs: []error{&net.OpError{Op: "dial", Err: errors.New("connection refused")}}}
	g := &Generator{Client: fc, Model: "m"}
	_, err := g.Generate(context.Background(), Request{})
	var be *BackendError
	if !errors.As(err, &be) {
		t.Fatalf("err = %T, want *BackendError", err)
	}
	if !be.Transport || be.Timeout {
		t.Fatalf("classified wrong: %+v", be)
	}
}

func TestGenerateUnconfigured(t *testing.T) {
	g := &Generator{}
	if _, err := g.Generate(context.Background(), Request{}); err == nil {
		t.Fatalf("expected configuration error")
	}
}
