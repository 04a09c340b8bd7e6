package services

import (
	"strings"

	"partaudit/internal/domain"
)

var DefaultBaseDirs = []string{"streams", "streams_local"}

// AuditRequest names the (root × base × stream) combinations to audit. An empty
// Streams list means stream names are discovered under each root/base.
type AuditRequest struct {
	Roots    []string
	BaseDirs []string
	Streams  []string
}

// ParseAuditRequest reads the positional arguments: roots, then optional base
// directories, then optional stream names, each comma separated. Arguments past
// the third are returned as extra.
func ParseAuditRequest(args []string, defaultBases []string) (AuditRequest, []string, error) {
	if len(args) == 0 {
		return AuditRequest{}, nil, domain.ArgumentError("at least one root directory is required")
	}
	req := AuditRequest{Roots: splitList(args[0])}
	if len(req.Roots) == 0 {
		return AuditRequest{}, nil, domain.ArgumentError("root directory list is empty")
	}
	if len(args) > 1 {
		req.BaseDirs = splitList(args[1])
	}
	if len(req.BaseDirs) == 0 {
		req.BaseDirs = append([]string(nil), defaultBases...)
	}
	if len(req.BaseDirs) == 0 {
		req.BaseDirs = append([]string(nil), DefaultBaseDirs...)
	}
	if len(args) > 2 {
		req.Streams = splitList(args[2])
	}
	var extra []string
	if len(args) > 3 {
		extra = args[3:]
	}
	return req, extra, nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			items = append(items, part)
		}
	}
	return items
}
