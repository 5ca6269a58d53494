package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/petcarehq/petcare/pkg/validator"
)

// Errors go out as problem details: {title, detail, status}. Internal
// errors never leak their cause to the client.

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeJSON(w, status, map[string]any{
		"title":  title,
		"detail": detail,
		"status": status,
	})
}

func writeValidationProblem(w http.ResponseWriter, errs validator.ValidationErrors) {
	writeProblem(w, http.StatusBadRequest, "Validation failed", errs.Detail())
}

func writeInternal(w http.ResponseWriter) {
	writeProblem(w, http.StatusInternalServerError, "Internal error", "Something went wrong.")
}
