// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating request data.

package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"farmbook/internal/core"
	"farmbook/internal/store"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// decodeJSON parses the request body into dst, rejecting unknown payloads
// over the size cap.
func decodeJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return errors.New("empty request body")
	}
	return json.Unmarshal(body, dst)
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// ParseRangeParams extracts a from/to date range from query parameters. The
// default range is the current calendar year.
func ParseRangeParams(r *http.Request) (start, end core.Date, err error) {
	now := time.Now()
	start = core.NewDate(now.Year(), 1, 1)
	end = core.NewDate(now.Year(), 12, 31)

	if v := strings.TrimSpace(r.URL.Query().Get("from")); v != "" {
		start, err = core.ParseDate(v)
		if err != nil {
			return core.Date{}, core.Date{}, errors.New("invalid from date, want YYYY-MM-DD")
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("to")); v != "" {
		end, err = core.ParseDate(v)
		if err != nil {
			return core.Date{}, core.Date{}, errors.New("invalid to date, want YYYY-MM-DD")
		}
	}
	return start, end, nil
}

// RequireMethod checks if the request method matches the expected method(s).
// Returns an error response builder if the method doesn't match.
func RequireMethod(r *http.Request, methods ...string) *ResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// storeError maps store and validation errors onto API responses.
func storeError(err error) *ResponseBuilder {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return NotFoundError("not found")
	case errors.Is(err, store.ErrKindImmutable):
		return ConflictError("transaction kind cannot be changed")
	case errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidKind),
		errors.Is(err, core.ErrInvalidArea),
		errors.Is(err, core.ErrInvalidAreaUnit),
		errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrEmptyTask),
		errors.Is(err, core.ErrDescriptionTooLong):
		return UnprocessableEntityError(err.Error())
	default:
		return InternalServerError("internal error")
	}
}
