package specialist

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/closurecast/closurecast/internal/contract"
	"github.com/closurecast/closurecast/internal/openrouter"
)

// GenerationError reports a failed specialist call: the transport failed,
// the output was not parseable JSON, or the output broke its contract.
type GenerationError struct {
	Role       Role
	Err        error
	Mismatches []contract.Mismatch
}

func (e *GenerationError) Error() string {
	if len(e.Mismatches) > 0 {
		return fmt.Sprintf("specialist %s: output contract broken: %v", e.Role, e.Mismatches)
	}
	return fmt.Sprintf("specialist %s: %v", e.Role, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Request describes one structured generation call.
type Request struct {
	Role     Role
	Model    string
	System   string
	User     string
	Contract contract.Contract
}

// Invoker wraps the text-generation service for specialist calls. It never
// retries; retry policy belongs to callers.
type Invoker struct {
	llm Generator
}

// NewInvoker creates an Invoker over a generation service.
func NewInvoker(llm Generator) *Invoker {
	return &Invoker{llm: llm}
}

// Invoke performs one generation call, extracts the JSON object from the
// response, validates it against the request contract, and decodes it into
// out. Any failure is returned as a *GenerationError.
func (inv *Invoker) Invoke(ctx context.Context, req Request, out any) error {
	obj, raw, err := inv.InvokeRaw(ctx, req.Role, req.Model, req.System, req.User)
	if err != nil {
		return err
	}
	if mismatches := req.Contract.Validate(obj); len(mismatches) > 0 {
		return &GenerationError{Role: req.Role, Err: fmt.Errorf("contract %s", req.Contract.Name), Mismatches: mismatches}
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return &GenerationError{Role: req.Role, Err: fmt.Errorf("decoding validated output: %w", err)}
	}
	return nil
}

// InvokeRaw performs one generation call and extracts the JSON object
// without contract validation. Used by the coordinator, whose candidate must
// reach the validation layer even when malformed.
func (inv *Invoker) InvokeRaw(ctx context.Context, role Role, model, system, user string) (map[string]any, string, error) {
	resp, err := inv.llm.Complete(ctx, openrouter.ChatRequest{
		Model: model,
		Messages: []openrouter.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	})
	if err != nil {
		return nil, "", &GenerationError{Role: role, Err: err}
	}
	content := resp.Choices[0].Message.Content
	obj, raw, ok := contract.ExtractObject(content)
	if !ok {
		return nil, "", &GenerationError{Role: role, Err: fmt.Errorf("no JSON object in output")}
	}
	return obj, raw, nil
}

// Consult performs a free-text consultation call for the coordinator's
// on-demand tools. The answer is returned verbatim.
func (inv *Invoker) Consult(ctx context.Context, role Role, model, system, question string) (string, error) {
	resp, err := inv.llm.Complete(ctx, openrouter.ChatRequest{
		Model: model,
		Messages: []openrouter.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: question},
		},
	})
	if err != nil {
		return "", &GenerationError{Role: role, Err: err}
	}
	return resp.Choices[0].Message.Content, nil
}
