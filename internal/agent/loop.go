package agent

import (
	"context"
	"log/slog"

	"leavechat/internal/agent/tools"
	"leavechat/internal/domain/models"
)

// Replies returned when the loop cannot finish normally. The gateway call
// failing or the round budget running out never surfaces as an HTTP
// error; the user gets a plain answer either way.
const (
	replyUnavailable = "I'm sorry, the assistant is temporarily unavailable. Please try again in a moment."
	replyOutOfRounds = "I'm sorry, I couldn't complete that request. Please try rephrasing or break it into smaller steps."
	defaultMaxRounds = 15
)

// Loop is the orchestration core: it consults the gateway, dispatches the
// requested operation batch through the capability resolver and registry,
// appends the results to the transcript, and repeats until the gateway
// returns a final reply or the round budget is exhausted.
type Loop struct {
	gateway   Gateway
	registry  *tools.Registry
	maxRounds int
	logger    *slog.Logger
}

// NewLoop creates a Loop. maxRounds bounds the number of gateway
// consultations per chat turn; values below 1 fall back to the default.
func NewLoop(gateway Gateway, registry *tools.Registry, maxRounds int, logger *slog.Logger) *Loop {
	if maxRounds < 1 {
		maxRounds = defaultMaxRounds
	}
	return &Loop{
		gateway:   gateway,
		registry:  registry,
		maxRounds: maxRounds,
		logger:    logger,
	}
}

// Run drives one chat turn to a final reply. The transcript must already
// end with the user's latest message. Side effects happen only between
// gateway calls, never during them.
func (l *Loop) Run(ctx context.Context, transcript []Turn, caller *models.CallerIdentity) (string, error) {
	catalog := l.registry.Definitions()

	for round := 0; round < l.maxRounds; round++ {
		// If the caller disconnected, stop consulting the gateway.
		// Operations already dispatched have run to completion below.
		if err := ctx.Err(); err != nil {
			return "", err
		}

		decision, err := l.gateway.Decide(ctx, transcript, caller, catalog)
		if err != nil {
			l.logger.Error("gateway call failed",
				"round", round,
				"caller", caller.EmployeeID,
				"error", err,
			)
			return replyUnavailable, nil
		}

		if decision.Final() {
			return decision.Reply, nil
		}

		transcript = append(transcript, Turn{
			Role:    RoleAssistant,
			Content: decision.Reply,
			Calls:   decision.Calls,
		})

		results := l.dispatchBatch(ctx, decision.Calls, caller)
		transcript = append(transcript, Turn{
			Role:    RoleToolResult,
			Results: results,
		})
	}

	l.logger.Warn("round budget exhausted",
		"max_rounds", l.maxRounds,
		"caller", caller.EmployeeID,
	)
	return replyOutOfRounds, nil
}

// dispatchBatch resolves and executes one gateway batch, returning
// results in invocation order. Resolution failures (denied operations)
// occupy their slot as error results; the remaining calls still run.
// The batch executes under a context detached from cancellation: store
// operations have real-world effects and run to completion even if the
// caller disconnects mid-loop.
func (l *Loop) dispatchBatch(ctx context.Context, calls []tools.Call, caller *models.CallerIdentity) []tools.Result {
	results := make([]tools.Result, len(calls))

	resolved := make([]tools.Call, 0, len(calls))
	slots := make([]int, 0, len(calls))
	for i, call := range calls {
		safe, err := ResolveCall(call, caller)
		if err != nil {
			l.logger.Warn("operation denied",
				"op", call.Name,
				"caller", caller.EmployeeID,
				"role", caller.Role,
			)
			results[i] = tools.ErrorResult(call, "Error: "+err.Error())
			continue
		}
		resolved = append(resolved, safe)
		slots = append(slots, i)
	}

	executed := l.registry.ExecuteBatch(context.WithoutCancel(ctx), resolved)
	for j, result := range executed {
		results[slots[j]] = result
	}

	return results
}
