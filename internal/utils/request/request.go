// Package request decodes and validates JSON request bodies.
package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/taskflow-api/internal/types"
	"github.com/aanand-mishra/taskflow-api/internal/utils/response"
)

// maxBodyBytes bounds a JSON body; the largest valid payload is a task
// with a 5000 character description.
const maxBodyBytes = 1 << 20

var ErrEmptyBody = errors.New("request body is empty")

// Decode reads r.Body into v. An empty body is reported as ErrEmptyBody.
func Decode(w http.ResponseWriter, r *http.Request, v any) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if errors.Is(err, io.EOF) {
		return ErrEmptyBody
	}
	if err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// DecodeValid decodes r.Body into v and checks its validate:"..." tags.
// On failure it writes the 400 response itself and returns false, so
// handlers can simply return.
func DecodeValid(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := Decode(w, r, v); err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return false
	}

	if err := types.Validate(v); err != nil {
		var validateErrs validator.ValidationErrors
		if errors.As(err, &validateErrs) {
			response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(validateErrs))
			return false
		}
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return false
	}

	return true
}
