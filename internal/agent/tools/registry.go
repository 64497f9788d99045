package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// Op enumerates the closed set of operations the assistant can invoke.
// There is no dynamic registration; the catalog is fixed at construction.
type Op string

const (
	OpCreateLeaveRequest        Op = "create_leave_request"
	OpGetMyLeaveRequests        Op = "get_my_leave_requests"
	OpGetPendingSupervisorQueue Op = "get_pending_supervisor_requests"
	OpGetPendingHRQueue         Op = "get_pending_hr_requests"
	OpApproveOrRejectRequest    Op = "approve_or_reject_request"
)

// ParseOp maps an operation name to its Op, reporting whether it is part
// of the catalog.
func ParseOp(name string) (Op, bool) {
	switch Op(name) {
	case OpCreateLeaveRequest, OpGetMyLeaveRequests, OpGetPendingSupervisorQueue,
		OpGetPendingHRQueue, OpApproveOrRejectRequest:
		return Op(name), true
	}
	return "", false
}

// Call is a single operation invocation requested by the gateway.
// ID correlates the call with its result in the transcript.
type Call struct {
	ID    string                 `json:"id"`
	Name  string                 `json:"name"`
	Input map[string]interface{} `json:"input"`
}

// Result is the transcript-ready outcome of one call. Operation failures
// are carried as text with IsError set; they are never fatal to the
// conversation.
type Result struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Content string `json:"content"`
	IsError bool   `json:"is_error"`
}

// ErrorResult builds an error Result correlated with the call.
func ErrorResult(call Call, message string) Result {
	return Result{ID: call.ID, Name: call.Name, Content: message, IsError: true}
}

// Registry holds the fixed operation catalog and executes calls against
// it. Safe for concurrent use; the op table is read-only after New.
type Registry struct {
	ops    map[Op]Executor
	logger *slog.Logger
}

// New builds the registry with all five workflow operations wired to the
// leave service.
func New(leave LeaveOps, logger *slog.Logger) *Registry {
	return &Registry{
		ops: map[Op]Executor{
			OpCreateLeaveRequest:        &createLeaveRequestTool{leave: leave},
			OpGetMyLeaveRequests:        &getMyLeaveRequestsTool{leave: leave},
			OpGetPendingSupervisorQueue: &getPendingSupervisorTool{leave: leave},
			OpGetPendingHRQueue:         &getPendingHRTool{leave: leave},
			OpApproveOrRejectRequest:    &approveOrRejectTool{leave: leave},
		},
		logger: logger,
	}
}

// Execute runs a single call. Unknown names and execution failures come
// back as error results, not Go errors.
func (r *Registry) Execute(ctx context.Context, call Call) Result {
	op, ok := ParseOp(call.Name)
	if !ok {
		return ErrorResult(call, fmt.Sprintf("Tool '%s' not found.", call.Name))
	}

	output, err := r.ops[op].Execute(ctx, call.Input)
	if err != nil {
		r.logger.Warn("operation failed",
			"op", call.Name,
			"call_id", call.ID,
			"error", err,
		)
		return ErrorResult(call, fmt.Sprintf("Error: %s", err.Error()))
	}

	return Result{ID: call.ID, Name: call.Name, Content: renderOutput(output)}
}

// ExecuteBatch runs the calls of one gateway batch concurrently and
// returns the results in invocation order. The calls within a batch are
// independent requests to the store, so they may overlap; ordering is
// restored before the results re-enter the transcript.
func (r *Registry) ExecuteBatch(ctx context.Context, calls []Call) []Result {
	if len(calls) == 0 {
		return []Result{}
	}

	results := make([]Result, len(calls))
	var wg sync.WaitGroup

	for i, call := range calls {
		wg.Add(1)
		go func(index int, c Call) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[index] = ErrorResult(c, fmt.Sprintf("Error: %s", ctx.Err()))
				return
			default:
			}

			results[index] = r.Execute(ctx, c)
		}(i, call)
	}

	wg.Wait()
	return results
}

// renderOutput turns an executor's return value into transcript text.
func renderOutput(output interface{}) string {
	switch v := output.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		payload, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(payload)
	}
}
