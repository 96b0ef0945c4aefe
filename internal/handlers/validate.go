package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"millcms/internal/models"
)

// Request limits.
const (
	maxBodyBytes      = 1 << 20
	defaultMediaLimit = 50
	maxMediaLimit     = 200
)

// decodeJSON reads a single JSON value from the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return errors.New("request body is empty")
		case errors.As(err, &maxErr):
			return fmt.Errorf("request body is too large (max %d bytes)", maxErr.Limit)
		default:
			return fmt.Errorf("invalid JSON: %v", err)
		}
	}
	if dec.More() {
		return errors.New("request body must hold a single JSON value")
	}
	return nil
}

// pageParams reads limit and offset from the query string, clamping them
// to sane values.
func pageParams(r *http.Request) (limit, offset int) {
	limit = defaultMediaLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = min(v, maxMediaLimit)
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}

// inquiryUpdate is the PATCH body for an inquiry. Omitted fields keep
// their current value.
type inquiryUpdate struct {
	Status   *models.InquiryStatus   `json:"status"`
	Priority *models.InquiryPriority `json:"priority"`
}

// validateInquiryUpdate checks the update and returns the first error
// found, or "".
func validateInquiryUpdate(u inquiryUpdate) string {
	if u.Status == nil && u.Priority == nil {
		return "Nothing to update: send status and/or priority."
	}
	if u.Status != nil && !u.Status.Valid() {
		return fmt.Sprintf("Unknown status %q.", *u.Status)
	}
	if u.Priority != nil && !u.Priority.Valid() {
		return fmt.Sprintf("Unknown priority %q.", *u.Priority)
	}
	return ""
}
