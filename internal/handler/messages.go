// Package handler translates board requests into store operations and
// store results into responses.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/johndosdos/board/components/board"
	"github.com/johndosdos/board/internal/model"
	"github.com/johndosdos/board/internal/store"
	"github.com/johndosdos/board/internal/timerange"
)

const (
	fieldUsername = "username"
	fieldMessage  = "message"
)

var (
	validate        = newValidator()
	errTrailingData = errors.New("unexpected data after JSON object")
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// SubmitRequest is the write payload. Both fields are required and their
// keys are case sensitive.
type SubmitRequest struct {
	Username string `json:"username" validate:"required"`
	Message  string `json:"message" validate:"required"`
}

// ServeMessages renders the messages inside the requested time window.
func ServeMessages(s store.MessageStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tr, err := timerange.Parse(r.URL.RawQuery)
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		messages, err := s.List(ctx, tr)
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		body, err := board.Render(ctx, messages)
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(body); err != nil {
			slog.WarnContext(ctx, "failed to write page", "error", err)
		}
	}
}

// SubmitMessage stores a posted message. The body must be a JSON object with
// non-empty username and message fields.
func SubmitMessage(s store.MessageStore, maxBodyBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		req, err := decodeSubmitRequest(w, r, maxBodyBytes)
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		msg, err := s.Insert(ctx, req.Username, req.Message)
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		w.Header().Set("Content-Length", "0")
		w.WriteHeader(http.StatusOK)

		slog.InfoContext(ctx, "message posted",
			slog.Int64("id", msg.ID),
			slog.String("username", msg.Username))
	}
}

func decodeSubmitRequest(w http.ResponseWriter, r *http.Request, maxBodyBytes int64) (SubmitRequest, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))

	// Keys are matched exactly, so the payload is read as raw fields first.
	var fields map[string]json.RawMessage
	if err := dec.Decode(&fields); err != nil {
		return SubmitRequest{}, &model.MalformedPayloadError{Err: err}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errTrailingData
		}
		return SubmitRequest{}, &model.MalformedPayloadError{Err: err}
	}

	var req SubmitRequest
	for key, dst := range map[string]*string{
		fieldUsername: &req.Username,
		fieldMessage:  &req.Message,
	} {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return SubmitRequest{}, &model.MalformedPayloadError{Err: fmt.Errorf("field %s: %w", key, err)}
		}
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Message = strings.TrimSpace(req.Message)

	if err := validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return SubmitRequest{}, &model.ValidationError{
				Field: fieldErrs[0].Field(),
				Err:   errors.New("field is required"),
			}
		}
		return SubmitRequest{}, &model.MalformedPayloadError{Err: err}
	}

	return req, nil
}

// writeError converts a failed operation into its response. Client errors
// carry their message; everything else is a 500 with an empty body.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var (
		verr *model.ValidationError
		merr *model.MalformedPayloadError
	)

	switch {
	case errors.As(err, &verr), errors.As(err, &merr):
		slog.InfoContext(ctx, "rejected request", "error", err)

		msg := err.Error()
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Length", strconv.Itoa(len(msg)))
		w.WriteHeader(http.StatusBadRequest)
		if _, werr := w.Write([]byte(msg)); werr != nil {
			slog.WarnContext(ctx, "failed to write error response", "error", werr)
		}
	default:
		slog.ErrorContext(ctx, "request failed", "error", err)

		w.Header().Set("Content-Length", "0")
		w.WriteHeader(http.StatusInternalServerError)
	}
}
