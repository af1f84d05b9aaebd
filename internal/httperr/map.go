package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
)

// Business codes shared by the scheduling core. Handlers may still invent
// local codes; these are the ones with a fixed status mapping.
var statusByCode = map[string]int{
	"validation_error":      http.StatusBadRequest,
	"invalid_date_or_time":  http.StatusBadRequest,
	"slot_overlap":          http.StatusBadRequest,
	"slot_unavailable":      http.StatusBadRequest,
	"doctor_not_found":      http.StatusNotFound,
	"user_not_found":        http.StatusNotFound,
	"appointment_not_found": http.StatusNotFound,
	"not_authorized":        http.StatusForbidden,
	"booking_conflict":      http.StatusConflict,
	"invalid_state":         http.StatusConflict,
}

var messageByCode = map[string]string{
	"validation_error":      "Missing or malformed input.",
	"invalid_date_or_time":  "Date or time is invalid.",
	"slot_overlap":          "The range overlaps an existing slot.",
	"slot_unavailable":      "Selected slot is not available.",
	"doctor_not_found":      "Doctor not found.",
	"user_not_found":        "User not found.",
	"appointment_not_found": "Appointment not found.",
	"not_authorized":        "Not authorized to access this resource.",
	"booking_conflict":      "The slot was just taken. Re-check availability and retry.",
	"invalid_state":         "The appointment is not in a state that allows this.",
}

const pgUniqueViolation = "23505"

// Handle maps an error coming out of a use case to a JSON error response.
// Business errors get their taxonomy status; a postgres unique violation is
// a lost booking race; anything else is a 500, with the underlying detail
// only outside production.
func Handle(c *gin.Context, dev bool, err error) {
	var be BusinessError
	if errors.As(err, &be) {
		status, ok := statusByCode[be.Code]
		if !ok {
			status = http.StatusBadRequest
		}
		Write(c, status, be.Code, messageByCode[be.Code])
		return
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		Write(c, http.StatusConflict, "booking_conflict", messageByCode["booking_conflict"])
		return
	}

	msg := "Internal server error."
	if dev {
		msg = err.Error()
	}
	Internal(c, "internal_error", msg)
}
