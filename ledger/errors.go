package ledger

import (
	"encoding/json"
	"errors"
)

// InsufficientCapitalError is returned when an entry order is denied
// admission. It carries the full check so callers can surface the
// shortfall breakdown; nothing has been mutated when it is returned.
type InsufficientCapitalError struct {
	Check CapitalCheck
}

func (e *InsufficientCapitalError) Error() string {
	return "insufficient capital: " + e.Check.Reason
}

// MarshalJSON renders the wire shape
// {"error":"insufficient_capital","message":...,"capitalState":...}.
func (e *InsufficientCapitalError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Error        string       `json:"error"`
		Message      string       `json:"message"`
		CapitalState CapitalCheck `json:"capitalState"`
	}{
		Error:        "insufficient_capital",
		Message:      e.Check.Reason,
		CapitalState: e.Check,
	})
}

// IsInsufficientCapital reports whether err is an admission denial.
func IsInsufficientCapital(err error) bool {
	var ice *InsufficientCapitalError
	return errors.As(err, &ice)
}
