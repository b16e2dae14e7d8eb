package domain

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// validTransitions maps each status to the statuses it may move to.
// cancelled and completed are terminal.
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusConfirmed, StatusCancelled, StatusCompleted},
	StatusCancelled: {},
	StatusCompleted: {},
}

// ValidStatus reports whether s is one of the four reservation statuses.
func ValidStatus(s Status) bool {
	_, ok := validTransitions[s]
	return ok
}

// ConfirmableStatuses returns the statuses a reservation may be confirmed from.
// Confirming an already confirmed reservation is a no-op rather than an error.
func ConfirmableStatuses() []Status {
	return []Status{StatusPending, StatusConfirmed}
}

// CancellableStatuses returns the statuses the cancel action accepts.
// Note this is wider than CanBeCancelled, which drives the customer-facing
// flag: staff may cancel a confirmed reservation, customers may only
// cancel while it is still pending.
func CancellableStatuses() []Status {
	return []Status{StatusPending, StatusConfirmed}
}
