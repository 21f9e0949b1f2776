package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"unisport-backend/internal/service"
)

// Error codes kept stable for the frontend.
const (
	errCodeValidation   = 1
	errCodeNotEditable  = 2
	errCodeDenied       = 3
	errCodeAlreadyIn    = 4
	errCodeNotCheckedIn = 5
	errCodeUnauthorized = 10
	errCodeInternal     = 50
)

type errorDetail struct {
	Code        int    `json:"code"`
	Description string `json:"description"`
}

type errorResponse struct {
	Detail errorDetail `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status, code int, description string) {
	writeJSON(w, status, errorResponse{Detail: errorDetail{Code: code, Description: description}})
}

// writeServiceError turns expected business outcomes into structured client
// errors; anything unrecognized is a genuine server fault.
func writeServiceError(w http.ResponseWriter, err error) {
	var notEditable *service.NotEditableError
	var validation *service.ValidationError
	var violations *service.GradeViolationsError

	switch {
	case errors.Is(err, service.ErrStudentNotFound),
		errors.Is(err, service.ErrTrainingNotFound),
		errors.Is(err, service.ErrSemesterNotFound),
		errors.Is(err, service.ErrGroupNotFound):
		writeError(w, http.StatusNotFound, errCodeValidation, err.Error())

	case errors.Is(err, service.ErrNotTrainerOfGroup):
		writeError(w, http.StatusForbidden, errCodeDenied, err.Error())

	case errors.Is(err, service.ErrAlreadyCheckedIn):
		writeError(w, http.StatusBadRequest, errCodeAlreadyIn, err.Error())

	case errors.Is(err, service.ErrNotCheckedIn):
		writeError(w, http.StatusBadRequest, errCodeNotCheckedIn, err.Error())

	case errors.Is(err, service.ErrCheckInDenied):
		writeError(w, http.StatusBadRequest, errCodeDenied, err.Error())

	case errors.Is(err, service.ErrTrainingFinished):
		writeError(w, http.StatusBadRequest, errCodeNotEditable, err.Error())

	case errors.As(err, &notEditable):
		writeError(w, http.StatusBadRequest, errCodeNotEditable, notEditable.Error())

	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, errCodeValidation, validation.Error())

	case errors.As(err, &violations):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"detail":         errorDetail{Code: errCodeDenied, Description: violations.Error()},
			"negative_marks": violations.NegativeMarks,
			"overflow_marks": violations.OverflowMarks,
		})

	default:
		writeError(w, http.StatusInternalServerError, errCodeInternal, "internal error")
	}
}
