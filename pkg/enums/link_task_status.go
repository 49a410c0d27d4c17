package enums

// LinkTaskStatus tracks a queued staged-identity reconciliation task.
type LinkTaskStatus string

const (
	LinkTaskPending  LinkTaskStatus = "pending"
	LinkTaskResolved LinkTaskStatus = "resolved"
	LinkTaskFailed   LinkTaskStatus = "failed"
)

var validLinkTaskStatuses = []LinkTaskStatus{
	LinkTaskPending,
	LinkTaskResolved,
	LinkTaskFailed,
}

// IsValid reports whether the value is a known LinkTaskStatus.
func (s LinkTaskStatus) IsValid() bool {
	for _, candidate := range validLinkTaskStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}
