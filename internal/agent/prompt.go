package agent

import (
	"fmt"
	"strings"

	"leavechat/internal/domain/models"
)

// PromptContext carries what the system directive needs beyond the caller.
type PromptContext struct {
	LeaveTypes string // rendered catalog summary, may be empty
}

// SystemPrompt renders the system directive for one chat turn. The ids
// the model is told to use are advisory only; the capability resolver
// re-injects them server-side on every call.
func SystemPrompt(caller *models.CallerIdentity, pc PromptContext) string {
	var b strings.Builder

	b.WriteString("You are an expert HR assistant chatbot for a leave management system. ")
	b.WriteString("Be polite, professional, and helpful, and answer in the user's language.\n\n")
	b.WriteString("Before calling any tool, check the conversation history first. If the information ")
	b.WriteString("the user asks for (like a rejection reason) is already in a previous message, answer ")
	b.WriteString("from that directly instead of calling a tool again.\n\n")

	fmt.Fprintf(&b, "The user's role is: %s.\n", caller.Role)

	if pc.LeaveTypes != "" {
		fmt.Fprintf(&b, "Known leave types: %s.\n", pc.LeaveTypes)
	}
	b.WriteString("\n")

	switch caller.Role {
	case models.RoleEmployee:
		b.WriteString("Help the user create and view their leave requests.\n")
		b.WriteString("When you show leave requests and one is rejected, mention that the user can ask for the reason.\n")
		b.WriteString("To create a leave request you need three pieces of information: the leave type, the start date, and the end date. ")
		b.WriteString("If any is missing, ask for it. Once you have all three, confirm them with the user, and only call ")
		b.WriteString("create_leave_request after the user confirms.\n")
		fmt.Fprintf(&b, "For create_leave_request, use %s as employee_id and %s as supervisor_id. Never ask the user for these ids.\n",
			caller.EmployeeID, caller.SupervisorID)

	case models.RoleSupervisor, models.RoleHR:
		b.WriteString("Help the user review pending leave requests using the appropriate tools, and approve or reject them.\n")
		b.WriteString("For approve_or_reject_request, the request_id argument must be the leave request's own unique id, ")
		b.WriteString("not the employee's id. Find it in the list of requests you previously showed in this conversation: ")
		b.WriteString("if the user says \"approve Kamal's request\", look back for the request id associated with Kamal's pending request.\n")
		fmt.Fprintf(&b, "For approve_or_reject_request, use %s as approver_id and %s as approver_role.\n",
			caller.EmployeeID, caller.Role)
		b.WriteString("Rejections require a reason; ask for one if the user didn't give it.\n")
	}

	return b.String()
}
