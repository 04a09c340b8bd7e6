package services

type AuditProgress struct {
	Stream     string
	Audited    int
	Total      int
	Completed  bool
	ErrMessage string
}

type ProgressProvider interface {
	Progress() <-chan AuditProgress
}

func progressNonBlocking(ch chan<- AuditProgress, msg AuditProgress) {
	if ch == nil {
		return
	}
	select {
	case ch <- msg:
	default:
	}
}
