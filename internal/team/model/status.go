package model

// Status is the team visibility/access mode.
type Status int

// Team status codes. Overdue is terminal: it is reached only through the
// expiry sweep and never reversed.
const (
	StatusPublic    Status = 0
	StatusPrivate   Status = 1
	StatusEncrypted Status = 2
	StatusOverdue   Status = 3
)

// ParseStatus validates a status code against the closed enum.
func ParseStatus(code int) (Status, error) {
	switch Status(code) {
	case StatusPublic, StatusPrivate, StatusEncrypted, StatusOverdue:
		return Status(code), nil
	default:
		return 0, ErrInvalidStatus
	}
}

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusPublic:
		return "public"
	case StatusPrivate:
		return "private"
	case StatusEncrypted:
		return "encrypted"
	case StatusOverdue:
		return "overdue"
	default:
		return "unknown"
	}
}
