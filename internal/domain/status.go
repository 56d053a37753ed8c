package domain

// Status is the reading status of a copy.
type Status string

// Reading statuses. StatusUnset is stored as NULL.
const (
	StatusUnset  Status = ""
	StatusRead   Status = "Read"
	StatusToRead Status = "To Read"
	StatusDNF    Status = "DNF"
)

// IsValid reports whether s is one of the known statuses (unset included).
func (s Status) IsValid() bool {
	switch s {
	case StatusUnset, StatusRead, StatusToRead, StatusDNF:
		return true
	default:
		return false
	}
}

// Statuses lists the settable statuses in display order.
func Statuses() []Status {
	return []Status{StatusRead, StatusToRead, StatusDNF}
}
