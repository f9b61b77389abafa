package dashboard

// StatusKind is a status indicator state.
type StatusKind int

const (
	StatusOK StatusKind = iota
	StatusError
)

func (k StatusKind) String() string {
	if k == StatusError {
		return "error"
	}
	return "ok"
}

// Status is a two-state indicator with a free-text message.
type Status struct {
	Kind    StatusKind
	Message string
}

// OK returns an ok status with message.
func OK(message string) Status {
	return Status{Kind: StatusOK, Message: message}
}

// Failed returns an error status with message.
func Failed(message string) Status {
	return Status{Kind: StatusError, Message: message}
}

// Dot returns the termui styled indicator dot.
func (s Status) Dot() string {
	if s.Kind == StatusError {
		return "[●](fg:red)"
	}
	return "[●](fg:green)"
}
