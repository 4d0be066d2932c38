package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rogerio-castellano/kasir/internal/http/middleware"
	"github.com/rogerio-castellano/kasir/internal/i18n"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
)

// readJSON tries to read the body of a request and converts it into JSON
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1048576 // one megabyte
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must have only a single json value")
	}

	return nil
}

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any, headers ...http.Header) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}

	return nil
}

// respond writes data and logs encoding failures; the status is already sent.
func respond(w http.ResponseWriter, r *http.Request, status int, data any, headers ...http.Header) {
	if err := writeJSON(w, status, data, headers...); err != nil {
		logFor(r, log.Error()).Err(err).Msg("failed to write JSON response")
	}
}

func lang(r *http.Request) language.Tag {
	return i18n.FromHeader(r.Header.Get("Accept-Language"))
}

// fail writes a plain-text localized message.
func fail(w http.ResponseWriter, r *http.Request, status int, key string, args ...any) {
	http.Error(w, i18n.T(lang(r), key, args...), status)
}

// internalError logs cause and answers with a generic localized message.
func internalError(w http.ResponseWriter, r *http.Request, cause error, key string) {
	logFor(r, log.Error()).Err(cause).Str("path", r.URL.Path).Msg(key)
	fail(w, r, http.StatusInternalServerError, key)
}

func logFor(r *http.Request, ev *zerolog.Event) *zerolog.Event {
	return ev.Str("request_id", middleware.RequestIDFromContext(r.Context()))
}

func parseIntPtr(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// parseTime reads an RFC3339 query value.
func parseTime(s string) (*time.Time, error) {
	// Reverse the substitution from + for space in the date parameters, otherwise
	// time.Parse will fail with an error.
	// Example: 2025-07-03T17:44:03+02:00 becomes 2025-07-03T17:44:03 02:00 on r.URL.Query().Get()
	if len(s) == len(time.RFC3339) && s[len(s)-6] == ' ' {
		s = s[:len(s)-6] + "+" + s[len(s)-5:]
	}
	if s == "" {
		return nil, nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

// parsePaging validates offset and limit query values.
func parsePaging(w http.ResponseWriter, r *http.Request) (offset, limit *int, ok bool) {
	q := r.URL.Query()

	limit, err := parseIntPtr(q.Get("limit"))
	if err != nil {
		http.Error(w, "invalid limit format", http.StatusBadRequest)
		return nil, nil, false
	}
	if limit != nil && *limit <= 0 {
		http.Error(w, "limit must be greater than zero", http.StatusBadRequest)
		return nil, nil, false
	}

	offset, err = parseIntPtr(q.Get("offset"))
	if err != nil {
		http.Error(w, "invalid offset format", http.StatusBadRequest)
		return nil, nil, false
	}
	if offset != nil && *offset < 0 {
		http.Error(w, "offset must be zero or positive", http.StatusBadRequest)
		return nil, nil, false
	}
	return offset, limit, true
}
