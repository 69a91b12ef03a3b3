// Package coordinator synthesizes the final decision from all specialist
// analyses and the debate record, with on-demand consultation tools, and
// validates the result against the decision contract.
package coordinator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/closurecast/closurecast/internal/contract"
	"github.com/closurecast/closurecast/internal/debate"
	"github.com/closurecast/closurecast/internal/decision"
	"github.com/closurecast/closurecast/internal/forecast"
	"github.com/closurecast/closurecast/internal/openrouter"
	"github.com/closurecast/closurecast/internal/specialist"
)

// maxToolIterations bounds the model-driven tool loop. Past the cap the last
// assistant content is taken as the candidate.
const maxToolIterations = 8

// ConsultationContext is the immutable bundle every consultation sub-call
// reads. Owned by the coordinator stage; passed explicitly, never global.
type ConsultationContext struct {
	Forecast *forecast.Context
	Analyses *specialist.Set
	Models   map[specialist.Role]string
}

// Candidate is the coordinator's raw output before validation.
type Candidate struct {
	Object map[string]any
	Raw    string
}

// Coordinator runs the synthesis call.
type Coordinator struct {
	llm   specialist.Generator
	inv   *specialist.Invoker
	model string
	log   *logrus.Logger
}

// New creates a Coordinator that synthesizes on the given model.
func New(llm specialist.Generator, inv *specialist.Invoker, model string, log *logrus.Logger) *Coordinator {
	if log == nil {
		log = logrus.New()
	}
	return &Coordinator{llm: llm, inv: inv, model: model, log: log}
}

func systemPrompt() string {
	return "You are the decision coordinator for a school-closure forecast. Four specialists have analyzed the " +
		"forecast and debated their positions. Weigh all of it and produce the final closure probability. " +
		"You may call ask_specialist or cross_check to consult specialists before deciding.\n" +
		"Your final answer must be ONLY valid JSON in this exact format:\n" + decision.Schema +
		"\nDo NOT return a specialist's analysis shape. Do NOT include any other text or markdown formatting."
}

func userPrompt(cctx ConsultationContext, collab *debate.Collaboration) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Forecast context:\n%s\n", cctx.Forecast.Rendered)
	fmt.Fprintf(&sb, "Specialist analyses:\n%s", cctx.Analyses.RenderAllJSON())
	if collab != nil {
		fmt.Fprintf(&sb, "Debate outcome: %s\n", collab.Summary)
		if len(collab.Rounds) > 0 {
			last := collab.Rounds[len(collab.Rounds)-1]
			fmt.Fprintf(&sb, "Final positions:\n%s", debate.RenderPositions(last.Positions))
		}
		for _, d := range collab.KeyDisagreements {
			fmt.Fprintf(&sb, "Unresolved: %s challenges %s (%s impact): %s\n", d.Challenger, d.Target, d.Impact, d.Challenge)
		}
	}
	sb.WriteString("\nProduce the final decision now.")
	return sb.String()
}

// Synthesize runs the tool-augmented synthesis call and returns the raw
// candidate for the validation layer.
func (c *Coordinator) Synthesize(ctx context.Context, cctx ConsultationContext, collab *debate.Collaboration) (Candidate, error) {
	return c.run(ctx, cctx, collab, "")
}

// Retry reruns synthesis with an emphatic restatement of the required
// shape. Used exactly once, on schema confusion.
func (c *Coordinator) Retry(ctx context.Context, cctx ConsultationContext, collab *debate.Collaboration) (Candidate, error) {
	corrective := "Your previous answer used a specialist analysis schema instead of the final decision schema. " +
		"That is wrong. Return ONLY the final decision JSON, exactly this shape:\n" + decision.Schema
	return c.run(ctx, cctx, collab, corrective)
}

func (c *Coordinator) run(ctx context.Context, cctx ConsultationContext, collab *debate.Collaboration, corrective string) (Candidate, error) {
	messages := []openrouter.Message{
		{Role: "system", Content: systemPrompt()},
		{Role: "user", Content: userPrompt(cctx, collab)},
	}
	if corrective != "" {
		messages = append(messages, openrouter.Message{Role: "user", Content: corrective})
	}

	var content string
	for i := 0; i < maxToolIterations; i++ {
		resp, err := c.llm.Complete(ctx, openrouter.ChatRequest{
			Model:    c.model,
			Messages: messages,
			Tools:    toolDefs(),
		})
		if err != nil {
			return Candidate{}, fmt.Errorf("coordinator: %w", err)
		}

		msg := resp.Choices[0].Message
		content = msg.Content
		if len(msg.ToolCalls) == 0 {
			break
		}

		messages = append(messages, msg)
		for _, call := range msg.ToolCalls {
			result := c.dispatch(ctx, cctx, call)
			messages = append(messages, openrouter.Message{
				Role:       "tool",
				ToolCallID: call.ID,
				Content:    result,
			})
		}
	}

	obj, raw, ok := contract.ExtractObject(content)
	if !ok {
		// Hand the unparseable text to the validation layer as an empty
		// candidate; best-effort defaulting covers it.
		c.log.WithField("stage", "coordination").Warn("coordinator output contained no JSON object")
		return Candidate{Object: map[string]any{}, Raw: content}, nil
	}
	return Candidate{Object: obj, Raw: raw}, nil
}

// dispatch executes one tool call and renders its result for the model.
// Tool failures are reported back into the conversation, not raised.
func (c *Coordinator) dispatch(ctx context.Context, cctx ConsultationContext, call openrouter.ToolCall) string {
	var args struct {
		Role     string   `json:"role"`
		Roles    []string `json:"roles"`
		Question string   `json:"question"`
	}
	if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
		return fmt.Sprintf("tool error: bad arguments: %v", err)
	}

	c.log.WithFields(logrus.Fields{
		"stage": "coordination",
		"tool":  call.Function.Name,
	}).Info("consultation call")

	switch call.Function.Name {
	case toolAskSpecialist:
		answer, err := c.askSpecialist(ctx, cctx, args.Role, args.Question)
		if err != nil {
			return fmt.Sprintf("tool error: %v", err)
		}
		return answer
	case toolCrossCheck:
		answer, err := c.crossCheck(ctx, cctx, args.Roles, args.Question)
		if err != nil {
			return fmt.Sprintf("tool error: %v", err)
		}
		return answer
	}
	return fmt.Sprintf("tool error: unknown tool %q", call.Function.Name)
}
