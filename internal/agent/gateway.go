package agent

import (
	"context"

	"leavechat/internal/agent/tools"
	"leavechat/internal/domain/models"
)

// TurnRole identifies who produced a transcript turn.
type TurnRole string

const (
	RoleUser       TurnRole = "user"
	RoleAssistant  TurnRole = "assistant"
	RoleToolResult TurnRole = "tool-result"
)

// Turn is one entry in the conversation transcript. Assistant turns may
// carry the operation batch the gateway requested instead of (or next to)
// text; tool-result turns carry the outcomes, correlated by call id.
// The transcript is append-only within one request and is not persisted:
// the caller resubmits history each turn, so the loop is stateless across
// HTTP requests.
type Turn struct {
	Role    TurnRole
	Content string
	Calls   []tools.Call
	Results []tools.Result
}

// UserTurn builds a plain user message turn.
func UserTurn(content string) Turn {
	return Turn{Role: RoleUser, Content: content}
}

// AssistantTurn builds a plain assistant message turn.
func AssistantTurn(content string) Turn {
	return Turn{Role: RoleAssistant, Content: content}
}

// Decision is a single gateway verdict: either a final reply (no calls)
// or a batch of operation invocations to run before consulting it again.
type Decision struct {
	Reply string
	Calls []tools.Call
}

// Final reports whether the decision terminates the loop.
func (d *Decision) Final() bool {
	return len(d.Calls) == 0
}

// Gateway is the external language-model capability. Given the transcript
// so far, the caller's identity context, and the operation catalog, it
// decides whether to answer or to act. Implementations must not execute
// operations themselves; side effects belong to the loop.
type Gateway interface {
	Decide(ctx context.Context, transcript []Turn, caller *models.CallerIdentity, catalog []tools.Definition) (*Decision, error)
}
