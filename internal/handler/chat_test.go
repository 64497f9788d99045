package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"leavechat/internal/agent"
	"leavechat/internal/agent/tools"
	"leavechat/internal/domain/models"
	"leavechat/internal/httputil"
	"leavechat/internal/service"
)

// echoGateway replies with a summary of the transcript it received so
// tests can assert on what the handler assembled.
type echoGateway struct {
	seen []agent.Turn
}

func (g *echoGateway) Decide(ctx context.Context, transcript []agent.Turn, caller *models.CallerIdentity, catalog []tools.Definition) (*agent.Decision, error) {
	g.seen = transcript
	return &agent.Decision{Reply: "ack"}, nil
}

type noopLeaveOps struct{}

func (noopLeaveOps) Create(ctx context.Context, input service.CreateLeaveRequestInput) (*models.LeaveRequest, error) {
	return &models.LeaveRequest{ID: "R1"}, nil
}
func (noopLeaveOps) ListByEmployee(ctx context.Context, employeeID string) ([]*models.LeaveRequest, error) {
	return nil, nil
}
func (noopLeaveOps) ListPendingForSupervisor(ctx context.Context, supervisorID string) ([]*models.LeaveRequest, error) {
	return nil, nil
}
func (noopLeaveOps) ListPendingForHR(ctx context.Context) ([]*models.LeaveRequest, error) {
	return nil, nil
}
func (noopLeaveOps) Decide(ctx context.Context, input service.DecideInput) (*models.LeaveRequest, error) {
	return nil, nil
}

func newChatFixture() (*ChatHandler, *echoGateway) {
	gateway := &echoGateway{}
	logger := testLogger()
	loop := agent.NewLoop(gateway, tools.New(noopLeaveOps{}, logger), 15, logger)
	return NewChatHandler(loop, logger), gateway
}

func postChat(h *ChatHandler, body string, caller *models.CallerIdentity) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/chat/", bytes.NewBufferString(body))
	if caller != nil {
		req = httputil.WithCaller(req, caller)
	}
	rec := httptest.NewRecorder()
	h.Chat(rec, req)
	return rec
}

var chatCaller = &models.CallerIdentity{
	EmployeeID:   "EMP123",
	Username:     "emp1",
	Role:         models.RoleEmployee,
	SupervisorID: "SUP001",
}

func TestChatRepliesWithResponse(t *testing.T) {
	h, _ := newChatFixture()

	rec := postChat(h, `{"message":"hi","history":[]}`, chatCaller)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Response != "ack" {
		t.Errorf("response = %q", resp.Response)
	}
}

func TestChatDropsLeadingGreeting(t *testing.T) {
	h, gateway := newChatFixture()

	body := `{"message":"two days off","history":[
		{"role":"assistant","content":"Hello! How can I help you today?"},
		{"role":"user","content":"I want some leave"},
		{"role":"assistant","content":"What kind of leave?"}
	]}`
	rec := postChat(h, body, chatCaller)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	want := []struct {
		role    agent.TurnRole
		content string
	}{
		{agent.RoleUser, "I want some leave"},
		{agent.RoleAssistant, "What kind of leave?"},
		{agent.RoleUser, "two days off"},
	}
	if len(gateway.seen) != len(want) {
		t.Fatalf("transcript has %d turns, want %d", len(gateway.seen), len(want))
	}
	for i, w := range want {
		if gateway.seen[i].Role != w.role || gateway.seen[i].Content != w.content {
			t.Errorf("turn %d = %s %q, want %s %q", i, gateway.seen[i].Role, gateway.seen[i].Content, w.role, w.content)
		}
	}
}

func TestChatKeepsMidConversationAssistantTurns(t *testing.T) {
	h, gateway := newChatFixture()

	body := `{"message":"yes","history":[
		{"role":"user","content":"I want leave"},
		{"role":"assistant","content":"Which dates?"}
	]}`
	if rec := postChat(h, body, chatCaller); rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(gateway.seen) != 3 {
		t.Fatalf("transcript has %d turns, want 3", len(gateway.seen))
	}
	if gateway.seen[1].Role != agent.RoleAssistant {
		t.Error("mid-conversation assistant turn was dropped")
	}
}

func TestChatMissingMessage(t *testing.T) {
	h, _ := newChatFixture()

	rec := postChat(h, `{"history":[]}`, chatCaller)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestChatRequiresCaller(t *testing.T) {
	h, _ := newChatFixture()

	rec := postChat(h, `{"message":"hi"}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
