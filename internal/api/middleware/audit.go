package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mcoot/rconstore/internal/api/apierr"
	"github.com/mcoot/rconstore/internal/middleware"
	"github.com/mcoot/rconstore/internal/model"
)

const maxAuditBody = 64 << 10

// AuditRecorder stores one audit entry
type AuditRecorder interface {
	Record(ctx context.Context, username, command string, args any, result string) (*model.AuditEntry, error)
}

// Audit records every mutating request with the operator, route, body and status.
// Must run inside Auth so the operator is known.
func Audit(recorder AuditRecorder, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			command := r.Method + " " + r.URL.Path
			wrapped := middleware.NewResponseWriter(w)

			var body []byte
			if r.Body != nil {
				var err error
				body, err = io.ReadAll(io.LimitReader(r.Body, maxAuditBody))
				if err != nil {
					logger.Warn("failed to read request body",
						slog.String("command", command),
						slog.Any("error", err))
					apierr.WriteError(wrapped, apierr.NewInvalidRequestError("Could not read request body"))
					record(r.Context(), recorder, logger, command, nil, wrapped.Status())
					return
				}
				r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), r.Body))
			}

			next.ServeHTTP(wrapped, r)

			var args any
			if len(body) > 0 && json.Valid(body) {
				args = json.RawMessage(body)
			}
			record(r.Context(), recorder, logger, command, args, wrapped.Status())
		})
	}
}

func record(ctx context.Context, recorder AuditRecorder, logger *slog.Logger, command string, args any, status int) {
	if _, err := recorder.Record(context.WithoutCancel(ctx), GetOperator(ctx), command, args, strconv.Itoa(status)); err != nil {
		logger.Error("audit record failed",
			slog.String("command", command),
			slog.Any("error", err))
	}
}
