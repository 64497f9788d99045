package tools

import "context"

// Executor runs one operation against the leave workflow.
// Implementations must be safe for concurrent use and respect context
// cancellation. The returned value must be JSON-serializable; strings
// pass through to the transcript unchanged.
type Executor interface {
	Execute(ctx context.Context, input map[string]interface{}) (interface{}, error)
}
