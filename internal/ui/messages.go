package ui

import (
	"partaudit/internal/domain"
	"partaudit/internal/services"
)

type auditResultMsg struct {
	result domain.AuditResult
	err    error
}

type auditProgressMsg struct {
	progress services.AuditProgress
}
