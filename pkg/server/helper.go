package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/matzehuels/pinboard/pkg/errors"
	"github.com/matzehuels/pinboard/pkg/masonry"
)

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// writeJSON encodes payload before writing the header, so an encoding
// failure is reported as a 500 instead of a truncated success.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		status = http.StatusInternalServerError
		data, _ = json.Marshal(errorResponse{Code: errors.ErrCodeInternal, Message: "encode response"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(data, '\n'))
}

// writeError maps error codes to HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch {
	case errors.IsValidation(err):
		status = http.StatusBadRequest
	case code == errors.ErrCodeNotFound || code == errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case code == errors.ErrCodeUnsupported:
		status = http.StatusNotImplemented
	}
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: errors.UserMessage(err)})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body: %v", err)
	}
	return nil
}

// parseRegion reads x, y, width and height query parameters. When required
// is false and none are given it returns nil.
func parseRegion(r *http.Request, required bool) (*masonry.Rect, error) {
	q := r.URL.Query()
	names := []string{"x", "y", "width", "height"}
	if !required {
		found := false
		for _, n := range names {
			if q.Has(n) {
				found = true
			}
		}
		if !found {
			return nil, nil
		}
	}

	var vals [4]float64
	for i, n := range names {
		v := q.Get(n)
		if v == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "query parameter %q is required", n)
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "query parameter %q: %q is not a number", n, v)
		}
		vals[i] = f
	}
	if err := errors.ValidateRegion(vals[0], vals[1], vals[2], vals[3]); err != nil {
		return nil, err
	}
	rect := masonry.NewRect(vals[0], vals[1], vals[2], vals[3])
	return &rect, nil
}
