package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	appointmentdomain "garden-planner-go/internal/domain/appointment"
	typedomain "garden-planner-go/internal/domain/appointmenttype"
	"garden-planner-go/internal/domain/common"
	languagedomain "garden-planner-go/internal/domain/language"
	tododomain "garden-planner-go/internal/domain/todo"
	userdomain "garden-planner-go/internal/domain/user"
	"garden-planner-go/internal/domain/validation"
	vehicledomain "garden-planner-go/internal/domain/vehicle"
)

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Fields  []validation.FieldError `json:"fields,omitempty"`
}

var notFoundCodes = []struct {
	err  error
	code string
}{
	{appointmentdomain.ErrAppointmentNotFound, "appointment_not_found"},
	{typedomain.ErrAppointmentTypeNotFound, "appointment_type_not_found"},
	{tododomain.ErrToDoNotFound, "todo_not_found"},
	{vehicledomain.ErrVehicleNotFound, "vehicle_not_found"},
	{userdomain.ErrUserNotFound, "user_not_found"},
	{languagedomain.ErrLanguageNotFound, "language_not_found"},
}

// writeServiceError maps a service error to a response. Expected failures
// are logged as business errors, everything else as internal with a
// generic body.
func (h *Handlers) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error, args ...any) {
	log := h.logFor(r)

	if verr, ok := validation.As(err); ok {
		log.BusinessError(op+": validation failed", err, args...)
		writeJSON(w, http.StatusBadRequest, errorEnvelope{Error: errorBody{
			Code:    "validation_failed",
			Message: "validation failed",
			Fields:  verr.Fields,
		}})
		return
	}

	for _, candidate := range notFoundCodes {
		if errors.Is(err, candidate.err) {
			log.BusinessError(op+": not found", err, args...)
			writeError(w, http.StatusNotFound, candidate.code, candidate.err.Error())
			return
		}
	}

	switch {
	case errors.Is(err, common.ErrConflict):
		log.BusinessError(op+": conflict", err, args...)
		writeError(w, http.StatusConflict, "conflict", "the resource was changed by someone else")
	case errors.Is(err, common.ErrDuplicate):
		log.BusinessError(op+": duplicate", err, args...)
		writeError(w, http.StatusConflict, "duplicate", "a resource with the same value already exists")
	case errors.Is(err, userdomain.ErrAdminRoleRequired):
		log.BusinessError(op+": forbidden", err, args...)
		writeError(w, http.StatusForbidden, "forbidden", "only admins can grant or revoke the admin role")
	case errors.Is(err, userdomain.ErrInvalidCredentials):
		log.BusinessError(op+": invalid credentials", err, args...)
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
	default:
		log.InternalError(op+": failed", err, args...)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

func writeInvalidRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, "invalid_request", message)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
