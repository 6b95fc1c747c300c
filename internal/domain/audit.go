package domain

import (
	"net/http"
	"time"
)

type AuditAction string

const (
	ActionCreate AuditAction = "create"
	ActionUpdate AuditAction = "update"
	ActionDelete AuditAction = "delete"
	ActionLogin  AuditAction = "login"
	ActionLogout AuditAction = "logout"
	ActionReveal AuditAction = "reveal"
	ActionUpload AuditAction = "upload"
	ActionVerify AuditAction = "verify"
)

// AuditModuleAuth is the module recorded for sign-in and session events.
const AuditModuleAuth = "auth"

func (a AuditAction) IsValid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete, ActionLogin, ActionLogout, ActionReveal, ActionUpload, ActionVerify:
		return true
	}
	return false
}

// ActionForMethod maps a mutating HTTP method to its audit action.
func ActionForMethod(method string) (AuditAction, bool) {
	switch method {
	case http.MethodPost:
		return ActionCreate, true
	case http.MethodPut, http.MethodPatch:
		return ActionUpdate, true
	case http.MethodDelete:
		return ActionDelete, true
	}
	return "", false
}

type AuditLog struct {
	ID             string      `json:"id"`
	OrganizationID string      `json:"organization_id,omitempty"`
	UserID         string      `json:"user_id,omitempty"`
	UserEmail      string      `json:"user_email,omitempty"`
	Role           Role        `json:"role,omitempty"`
	Action         AuditAction `json:"action"`
	Module         string      `json:"module"`
	ResourceID     string      `json:"resource_id,omitempty"`
	Method         string      `json:"method,omitempty"`
	Path           string      `json:"path,omitempty"`
	StatusCode     int         `json:"status_code,omitempty"`
	IP             string      `json:"ip,omitempty"`
	UserAgent      string      `json:"user_agent,omitempty"`
	Timestamp      time.Time   `json:"timestamp"`
}
