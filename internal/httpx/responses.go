package httpx

import (
	"encoding/json"
	"net/http"
	"strings"
)

const (
	MediaTypeJSONLD     = "application/ld+json"
	MediaTypeJSON       = "application/json"
	MediaTypeMergePatch = "application/merge-patch+json"
)

// ErrorResponse is the JSON-LD error document.
type ErrorResponse struct {
	Context     string      `json:"@context"`
	Type        string      `json:"@type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Status      int         `json:"status"`
	Violations  []Violation `json:"violations,omitempty"`
}

// Violation is a single failed constraint on an input field.
type Violation struct {
	PropertyPath string `json:"propertyPath"`
	Message      string `json:"message"`
}

// WriteJSON writes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, statusCode int, contentType string, v any) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

func JSONLD(w http.ResponseWriter, statusCode int, v any) {
	WriteJSON(w, statusCode, MediaTypeJSONLD, v)
}

func JSONLDCreated(w http.ResponseWriter, v any) {
	JSONLD(w, http.StatusCreated, v)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// JSONError writes a JSON-LD error document.
func JSONError(w http.ResponseWriter, statusCode int, description string) {
	WriteJSON(w, statusCode, MediaTypeJSONLD, ErrorResponse{
		Context:     APIPrefix + "/contexts/Error",
		Type:        "Error",
		Title:       "An error occurred",
		Description: description,
		Status:      statusCode,
	})
}

// JSONViolations writes a 400 constraint violation document.
func JSONViolations(w http.ResponseWriter, violations []Violation) {
	WriteJSON(w, http.StatusBadRequest, MediaTypeJSONLD, ErrorResponse{
		Context:     APIPrefix + "/contexts/ConstraintViolation",
		Type:        "ConstraintViolation",
		Title:       "An error occurred",
		Description: describeViolations(violations),
		Status:      http.StatusBadRequest,
		Violations:  violations,
	})
}

func describeViolations(violations []Violation) string {
	lines := make([]string, 0, len(violations))
	for _, v := range violations {
		lines = append(lines, v.PropertyPath+": "+v.Message)
	}
	return strings.Join(lines, "\n")
}
