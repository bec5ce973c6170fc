package store

import (
	"errors"
	"net/http"

	"github.com/2beens/fittrack/pkg"
)

// SetupPath is where clients are sent when the schema is incomplete.
const SetupPath = "/database-setup"

type ErrorPayload struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Setup string `json:"setup,omitempty"`
}

// WriteHTTPError maps store failures to responses. A missing table gives 503
// with the setup hint, so clients can show a banner instead of failing hard.
func WriteHTTPError(w http.ResponseWriter, message string, err error) {
	switch {
	case IsTableMissing(err):
		pkg.WriteJSON(w, http.StatusServiceUnavailable, ErrorPayload{
			Error: "database tables are missing, run the setup",
			Code:  "table_missing",
			Setup: SetupPath,
		})
	case IsOffline(err):
		pkg.WriteJSON(w, http.StatusServiceUnavailable, ErrorPayload{
			Error: "database unreachable",
			Code:  CodeOffline,
		})
	case errors.Is(err, ErrDayNotFound), errors.Is(err, ErrPlanNotFound), errors.Is(err, ErrUserNotFound):
		pkg.WriteJSON(w, http.StatusNotFound, ErrorPayload{Error: err.Error()})
	default:
		pkg.WriteJSON(w, http.StatusInternalServerError, ErrorPayload{Error: message})
	}
}
