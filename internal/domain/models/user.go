package models

// Role identifies what a user is allowed to do in the leave workflow.
type Role string

const (
	RoleEmployee   Role = "employee"
	RoleSupervisor Role = "supervisor"
	RoleHR         Role = "hr"
)

// Valid reports whether the role is one of the known workflow roles.
func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleSupervisor, RoleHR:
		return true
	}
	return false
}

// User is a stored account. EmployeeID is the workforce identity used
// throughout the leave workflow; SupervisorID is set only for employees.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
	EmployeeID   string `json:"employee_id"`
	SupervisorID string `json:"supervisor_id,omitempty"`
}

// CallerIdentity is the authenticated identity for one chat request.
// It is resolved once from the bearer token (plus a user lookup for the
// supervisor id) and is immutable for the duration of the request.
type CallerIdentity struct {
	EmployeeID   string
	Username     string
	Role         Role
	SupervisorID string // populated only for employees
}
