package models

// Reservation lifecycle states.
const (
	StatusBooked    = "booked"
	StatusSeated    = "seated"
	StatusFinished  = "finished"
	StatusCancelled = "cancelled"
)

var validStatuses = map[string]bool{
	StatusBooked:    true,
	StatusSeated:    true,
	StatusFinished:  true,
	StatusCancelled: true,
}

// ValidStatus reports whether s is one of the four lifecycle states.
func ValidStatus(s string) bool {
	return validStatuses[s]
}

// TerminalStatus reports whether a reservation in state s accepts no further
// transitions.
func TerminalStatus(s string) bool {
	return s == StatusFinished || s == StatusCancelled
}

type statusTransition struct {
	From string
	To   string
}

// Direct status updates may only book->seat, book->cancel. seated->finished is
// reserved for the seating coordinator so the table is released in the same
// transaction.
var directTransitions = map[statusTransition]bool{
	{StatusBooked, StatusSeated}:    true,
	{StatusBooked, StatusCancelled}: true,
}

// CanTransitionDirectly reports whether a plain status update may move a
// reservation from one state to the other.
func CanTransitionDirectly(from, to string) bool {
	return directTransitions[statusTransition{From: from, To: to}]
}
