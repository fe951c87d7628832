package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

const (
	codeEventNotFound       = "event_not_found"
	codeEventValidation     = "event_validation"
	codeEventBusinessRule   = "event_business_rule"
	codeValidationError     = "validation_error"
	codeInvalidRequestBody  = "invalid_request_body"
	codeNotFound            = "not_found"
	codeMethodNotAllowed    = "method_not_allowed"
	codeInternalServerError = "internal_server_error"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeErrorDetails(w, status, code, msg, "")
}

func writeErrorDetails(w http.ResponseWriter, status int, code, msg, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorEnvelope{Error: errorBody{
		Code:    code,
		Message: msg,
		Details: details,
	}})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":{"code":"internal_server_error","message":"internal error"}}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeValidationError renders field-level validator failures in the details
// string, mirroring the envelope used for all other errors.
func writeValidationError(w http.ResponseWriter, errs validator.ValidationErrors) {
	type fieldError struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	}
	fields := make([]fieldError, 0, len(errs))
	for _, fe := range errs {
		fields = append(fields, fieldError{
			Field:   fe.Field(),
			Message: "failed validation on '" + fe.Tag() + "'",
		})
	}
	details, err := json.Marshal(map[string]any{"validation_errors": fields})
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationError, "request validation failed")
		return
	}
	writeErrorDetails(w, http.StatusBadRequest, codeValidationError, "request validation failed", string(details))
}
