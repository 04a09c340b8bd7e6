package services

import (
	"context"

	"partaudit/internal/domain"
)

// FileSystem is the storage collaborator the audit reads from. List returns the
// direct children of a directory; an empty result means no children.
type FileSystem interface {
	List(path string) ([]domain.Entry, error)
	Stat(path string) (domain.Entry, error)
}

type Auditor interface {
	Audit(ctx context.Context, req AuditRequest) (domain.AuditResult, error)
}
