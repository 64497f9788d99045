package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"

	"leavechat/internal/agent/tools"
	"leavechat/internal/domain/models"
	"leavechat/internal/service"
)

// scriptedGateway returns canned decisions in order and records every
// transcript it was shown.
type scriptedGateway struct {
	mu          sync.Mutex
	decisions   []*Decision
	errs        []error
	round       int
	transcripts [][]Turn
}

func (g *scriptedGateway) Decide(ctx context.Context, transcript []Turn, caller *models.CallerIdentity, catalog []tools.Definition) (*Decision, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	copied := make([]Turn, len(transcript))
	copy(copied, transcript)
	g.transcripts = append(g.transcripts, copied)

	i := g.round
	g.round++
	if i < len(g.errs) && g.errs[i] != nil {
		return nil, g.errs[i]
	}
	if i < len(g.decisions) {
		return g.decisions[i], nil
	}
	// Past the script: keep requesting the same operation forever.
	return &Decision{
		Calls: []tools.Call{{ID: fmt.Sprintf("c%d", i), Name: "get_pending_hr_requests", Input: map[string]interface{}{}}},
	}, nil
}

// recordingLeaveOps remembers what reached the leave service.
type recordingLeaveOps struct {
	mu      sync.Mutex
	created []service.CreateLeaveRequestInput
	decided []service.DecideInput
}

func (f *recordingLeaveOps) Create(ctx context.Context, input service.CreateLeaveRequestInput) (*models.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, input)
	return &models.LeaveRequest{
		ID:           "R1",
		EmployeeID:   input.EmployeeID,
		SupervisorID: input.SupervisorID,
		LeaveType:    input.LeaveType,
		Status:       models.StatusPendingSupervisor,
	}, nil
}

func (f *recordingLeaveOps) ListByEmployee(ctx context.Context, employeeID string) ([]*models.LeaveRequest, error) {
	return []*models.LeaveRequest{}, nil
}

func (f *recordingLeaveOps) ListPendingForSupervisor(ctx context.Context, supervisorID string) ([]*models.LeaveRequest, error) {
	return []*models.LeaveRequest{{ID: "R1", EmployeeID: "EMP123", SupervisorID: supervisorID, Status: models.StatusPendingSupervisor}}, nil
}

func (f *recordingLeaveOps) ListPendingForHR(ctx context.Context) ([]*models.LeaveRequest, error) {
	return []*models.LeaveRequest{}, nil
}

func (f *recordingLeaveOps) Decide(ctx context.Context, input service.DecideInput) (*models.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decided = append(f.decided, input)
	return &models.LeaveRequest{ID: input.RequestID, Status: input.NewStatus}, nil
}

func newTestLoop(gateway Gateway, leave tools.LeaveOps, maxRounds int) *Loop {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewLoop(gateway, tools.New(leave, logger), maxRounds, logger)
}

func TestRunReturnsFinalReplyWithoutOperations(t *testing.T) {
	gateway := &scriptedGateway{decisions: []*Decision{{Reply: "Hello! How can I help?"}}}
	loop := newTestLoop(gateway, &recordingLeaveOps{}, 15)

	reply, err := loop.Run(context.Background(), []Turn{UserTurn("hi")}, employee)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if reply != "Hello! How can I help?" {
		t.Errorf("reply = %q", reply)
	}
	if gateway.round != 1 {
		t.Errorf("gateway consulted %d times, want 1", gateway.round)
	}
}

// TestRunCreateScenario drives the final turn of the Kamal scenario: the
// user has confirmed, the gateway invokes create_leave_request with ids
// it made up, and the persisted record must carry the caller's real ids.
func TestRunCreateScenario(t *testing.T) {
	gateway := &scriptedGateway{decisions: []*Decision{
		{
			Reply: "Creating your leave request now.",
			Calls: []tools.Call{{
				ID:   "toolu_01",
				Name: "create_leave_request",
				Input: map[string]interface{}{
					"employee_id":   "EMP999", // wrong on purpose
					"supervisor_id": "SUP999",
					"leave_type":    "Annual",
					"start_date":    "2025-07-15",
					"end_date":      "2025-07-16",
				},
			}},
		},
		{Reply: "Done! Your leave request R1 is pending supervisor approval."},
	}}
	leave := &recordingLeaveOps{}
	loop := newTestLoop(gateway, leave, 15)

	transcript := []Turn{
		UserTurn("I need 2 days annual leave starting 2025-07-15"),
		AssistantTurn("What date does your leave end?"),
		UserTurn("ending 2025-07-16"),
		AssistantTurn("Annual leave from 2025-07-15 to 2025-07-16, shall I file it?"),
		UserTurn("yes"),
	}

	reply, err := loop.Run(context.Background(), transcript, employee)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(reply, "R1") {
		t.Errorf("reply = %q, want mention of R1", reply)
	}

	if len(leave.created) != 1 {
		t.Fatalf("%d requests created, want 1", len(leave.created))
	}
	if leave.created[0].EmployeeID != "EMP123" {
		t.Errorf("persisted employee_id = %q, want EMP123 (injected)", leave.created[0].EmployeeID)
	}
	if leave.created[0].SupervisorID != "SUP001" {
		t.Errorf("persisted supervisor_id = %q, want SUP001 (injected)", leave.created[0].SupervisorID)
	}

	// The second gateway round must have seen the assistant turn with
	// the call and the correlated result turn, in that order.
	second := gateway.transcripts[1]
	if len(second) != len(transcript)+2 {
		t.Fatalf("second round transcript has %d turns, want %d", len(second), len(transcript)+2)
	}
	assistant := second[len(second)-2]
	if assistant.Role != RoleAssistant || len(assistant.Calls) != 1 {
		t.Error("assistant turn with the call batch missing from transcript")
	}
	resultTurn := second[len(second)-1]
	if resultTurn.Role != RoleToolResult || len(resultTurn.Results) != 1 {
		t.Fatal("tool-result turn missing from transcript")
	}
	if resultTurn.Results[0].ID != "toolu_01" {
		t.Errorf("result id = %q, want toolu_01", resultTurn.Results[0].ID)
	}
	if resultTurn.Results[0].IsError {
		t.Errorf("result is an error: %s", resultTurn.Results[0].Content)
	}
}

// TestRunSupervisorApproval drives the supervisor scenario: list the
// queue, then approve with forged approver fields that must be replaced.
func TestRunSupervisorApproval(t *testing.T) {
	gateway := &scriptedGateway{decisions: []*Decision{
		{Calls: []tools.Call{{
			ID:    "toolu_01",
			Name:  "get_pending_supervisor_requests",
			Input: map[string]interface{}{"supervisor_id": "SUP001"},
		}}},
		{Calls: []tools.Call{{
			ID:   "toolu_02",
			Name: "approve_or_reject_request",
			Input: map[string]interface{}{
				"request_id":    "R1",
				"new_status":    "approved_by_supervisor",
				"approver_id":   "EMP123",
				"approver_role": "employee",
			},
		}}},
		{Reply: "Approved Kamal's request."},
	}}
	leave := &recordingLeaveOps{}
	loop := newTestLoop(gateway, leave, 15)

	reply, err := loop.Run(context.Background(), []Turn{UserTurn("approve Kamal's request")}, supervisor)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if reply != "Approved Kamal's request." {
		t.Errorf("reply = %q", reply)
	}

	if len(leave.decided) != 1 {
		t.Fatalf("%d decisions reached the service, want 1", len(leave.decided))
	}
	decision := leave.decided[0]
	if decision.RequestID != "R1" {
		t.Errorf("request_id = %q, want R1", decision.RequestID)
	}
	if decision.ApproverID != "SUP001" || decision.ApproverRole != models.RoleSupervisor {
		t.Errorf("approver = %s/%s, want SUP001/supervisor (injected)", decision.ApproverID, decision.ApproverRole)
	}
	if decision.NewStatus != models.StatusApprovedSupervisor {
		t.Errorf("new_status = %s", decision.NewStatus)
	}
}

func TestRunDeniedOperationIsNonFatal(t *testing.T) {
	// An employee asking for the HR queue gets a denial result, and the
	// conversation continues to a normal reply.
	gateway := &scriptedGateway{decisions: []*Decision{
		{Calls: []tools.Call{{ID: "toolu_01", Name: "get_pending_hr_requests", Input: map[string]interface{}{}}}},
		{Reply: "You don't have access to the HR queue."},
	}}
	leave := &recordingLeaveOps{}
	loop := newTestLoop(gateway, leave, 15)

	reply, err := loop.Run(context.Background(), []Turn{UserTurn("show hr queue")}, employee)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if reply != "You don't have access to the HR queue." {
		t.Errorf("reply = %q", reply)
	}

	resultTurn := gateway.transcripts[1][len(gateway.transcripts[1])-1]
	if len(resultTurn.Results) != 1 || !resultTurn.Results[0].IsError {
		t.Fatal("denial should appear as an error result in the transcript")
	}
	if !strings.Contains(resultTurn.Results[0].Content, "not permitted") {
		t.Errorf("denial content = %q", resultTurn.Results[0].Content)
	}
}

func TestRunUnknownToolFedBack(t *testing.T) {
	gateway := &scriptedGateway{decisions: []*Decision{
		{Calls: []tools.Call{{ID: "toolu_01", Name: "fire_employee", Input: map[string]interface{}{}}}},
		{Reply: "I can't do that."},
	}}
	loop := newTestLoop(gateway, &recordingLeaveOps{}, 15)

	if _, err := loop.Run(context.Background(), []Turn{UserTurn("fire me")}, hr); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	resultTurn := gateway.transcripts[1][len(gateway.transcripts[1])-1]
	if resultTurn.Results[0].Content != "Tool 'fire_employee' not found." {
		t.Errorf("content = %q", resultTurn.Results[0].Content)
	}
}

func TestRunBoundedWhenGatewayNeverFinishes(t *testing.T) {
	// Empty script: the gateway requests operations forever.
	gateway := &scriptedGateway{}
	loop := newTestLoop(gateway, &recordingLeaveOps{}, 5)

	reply, err := loop.Run(context.Background(), []Turn{UserTurn("loop forever")}, hr)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if reply != replyOutOfRounds {
		t.Errorf("reply = %q, want the out-of-rounds reply", reply)
	}
	if gateway.round != 5 {
		t.Errorf("gateway consulted %d times, want exactly 5", gateway.round)
	}
}

func TestRunGatewayFailureDegrades(t *testing.T) {
	gateway := &scriptedGateway{errs: []error{errors.New("model overloaded")}}
	loop := newTestLoop(gateway, &recordingLeaveOps{}, 15)

	reply, err := loop.Run(context.Background(), []Turn{UserTurn("hi")}, employee)
	if err != nil {
		t.Fatalf("gateway failure must not propagate: %v", err)
	}
	if reply != replyUnavailable {
		t.Errorf("reply = %q, want the unavailable reply", reply)
	}
}

func TestRunStopsAfterCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gateway := &scriptedGateway{decisions: []*Decision{{Reply: "never reached"}}}
	loop := newTestLoop(gateway, &recordingLeaveOps{}, 15)

	if _, err := loop.Run(ctx, []Turn{UserTurn("hi")}, employee); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if gateway.round != 0 {
		t.Error("no gateway rounds should run after cancellation")
	}
}
