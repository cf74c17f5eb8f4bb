package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/interview-agents/internal/pipeline"
)

// HTTPStatus returns the appropriate HTTP status code for a pipeline error.
// Request validation failures map to 400; stage failures and anything else
// surface as internal errors.
func HTTPStatus(err error) int {
	var validation *pipeline.ValidationError
	if errors.As(err, &validation) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
