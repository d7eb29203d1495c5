// File: internal/agent/loop.go

// Package agent runs the observe-think-act control loop: it feeds the model
// the conversation so far, executes the single tool call it is allowed per
// step, and stops when the model answers in plain text or the step budget
// runs out.
package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/perchlabs/deskpilot/internal/chat"
	"github.com/perchlabs/deskpilot/internal/history"
	"github.com/perchlabs/deskpilot/internal/tools"
)

// InitialObservationID is the synthetic correlation id of the screenshot
// taken before the model is consulted for the first time.
const InitialObservationID = "initial_observation"

// ModelClient produces one assistant message per completion request. A
// returned error is fatal for the run.
type ModelClient interface {
	Complete(ctx context.Context, messages []chat.Message, toolSchema []chat.Tool) (chat.Message, error)
}

// Executor runs one tool call and renders the result as chat messages. The
// second message, when present, is a user-role companion (screenshots).
type Executor interface {
	Execute(ctx context.Context, name string, rawArgs []byte, callID string) (chat.Message, *chat.Message)
}

// Options bounds a run.
type Options struct {
	MaxSteps        int
	StepDelay       time.Duration
	KeepScreenshots int
	KeepThinks      int
}

// Loop drives one task to completion. It is single-use and strictly
// sequential; every blocking call threads the run context.
type Loop struct {
	client  ModelClient
	exec    Executor
	schema  []chat.Tool
	opts    Options
	limiter *rate.Limiter
	logger  *zap.Logger
	runID   string
}

func New(client ModelClient, exec Executor, schema []chat.Tool, opts Options, logger *zap.Logger) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	runID := uuid.NewString()

	// One token per step-delay interval paces the loop. The initial token is
	// drained up front so the very first wait already observes the delay.
	limiter := rate.NewLimiter(rate.Every(opts.StepDelay), 1)
	if opts.StepDelay > 0 {
		limiter.Allow()
	}

	return &Loop{
		client:  client,
		exec:    exec,
		schema:  schema,
		opts:    opts,
		limiter: limiter,
		logger:  logger.Named("agent").With(zap.String("run_id", runID)),
		runID:   runID,
	}
}

// Run executes the loop until the model produces a final text answer or the
// step budget is exhausted. The returned answer has private reasoning spans
// stripped; it is empty when the model never produced text. Errors are
// limited to RPC failures and context cancellation.
func (l *Loop) Run(ctx context.Context, systemPrompt, taskPrompt string) (string, error) {
	messages := []chat.Message{
		{Role: chat.RoleSystem, Content: chat.Text(systemPrompt)},
		{Role: chat.RoleUser, Content: chat.Text(taskPrompt)},
	}

	// Seed the conversation with an initial observation so the model's first
	// decision is grounded in what the screen actually shows.
	toolMsg, userMsg := l.exec.Execute(ctx, string(tools.ObserveScreen), nil, InitialObservationID)
	messages = append(messages, toolMsg)
	if userMsg != nil {
		messages = append(messages, *userMsg)
		history.PruneOldScreenshots(messages, l.opts.KeepScreenshots)
	}

	lastContent := ""

	for step := 1; step <= l.opts.MaxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		msg, err := l.client.Complete(ctx, messages, l.schema)
		if err != nil {
			return "", fmt.Errorf("completion request failed at step %d: %w", step, err)
		}
		messages = append(messages, msg)
		history.PruneOldThinks(messages, l.opts.KeepThinks)

		if msg.Content.IsText() {
			lastContent = msg.Content.Text
		}

		if len(msg.ToolCalls) == 0 {
			l.logger.Info("Model returned a final answer.", zap.Int("step", step))
			return history.StripThink(lastContent), nil
		}

		// One action per step. Extra calls are refused but still answered, so
		// every tool_call_id the model emitted gets a response.
		if len(msg.ToolCalls) > 1 {
			l.logger.Warn("Model requested multiple tool calls in one step.",
				zap.Int("step", step),
				zap.Int("count", len(msg.ToolCalls)))
			for _, extra := range msg.ToolCalls[1:] {
				messages = append(messages, chat.Message{
					Role:       chat.RoleTool,
					ToolCallID: extra.ID,
					Name:       extra.Function.Name,
					Content:    chat.Text(tools.ErrPayload(tools.ErrCodeTooManyToolCalls, "one tool call per step")),
				})
			}
		}

		tc := msg.ToolCalls[0]
		l.logger.Debug("Dispatching tool call.",
			zap.Int("step", step),
			zap.String("tool", tc.Function.Name),
			zap.String("call_id", tc.ID))

		toolMsg, userMsg := l.exec.Execute(ctx, tc.Function.Name, tc.Function.Arguments, tc.ID)
		messages = append(messages, toolMsg)
		if userMsg != nil {
			messages = append(messages, *userMsg)
			history.PruneOldScreenshots(messages, l.opts.KeepScreenshots)
		}

		if err := l.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	l.logger.Info("Step budget exhausted.", zap.Int("max_steps", l.opts.MaxSteps))
	return history.StripThink(lastContent), nil
}
