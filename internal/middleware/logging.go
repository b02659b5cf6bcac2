package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	// Error bodies are small; anything bigger is not ours to parse.
	maxCapturedErrorBody = 4 << 10
)

// errorBody mirrors model.ErrorResponse.
type errorBody struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details"`
}

// Logging tags each request with an id and writes one access line once the
// handler returns. Failed requests also carry the error code and message.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		started := time.Now()
		cw := &captureWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(cw, r)

		attrs := []slog.Attr{
			slog.String("request_id", requestID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", cw.status),
			slog.Int("bytes", cw.written),
			slog.Duration("duration", time.Since(started)),
			slog.String("client_ip", extractClientIP(r)),
		}
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			attrs = append(attrs, slog.String("route", rctx.RoutePattern()))
		}
		if parsed, ok := cw.errorBody(); ok {
			attrs = append(attrs, slog.String("error_code", parsed.Code), slog.String("error_message", parsed.Error))
			if parsed.Details != "" {
				attrs = append(attrs, slog.String("error_details", parsed.Details))
			}
		}

		level := slog.LevelInfo
		switch {
		case cw.status >= 500:
			level = slog.LevelError
		case cw.status >= 400:
			level = slog.LevelWarn
		}
		slog.LogAttrs(r.Context(), level, "request", attrs...)
	})
}

type captureWriter struct {
	http.ResponseWriter
	status      int
	written     int
	wroteHeader bool
	errBuf      bytes.Buffer
}

func (cw *captureWriter) WriteHeader(code int) {
	if cw.wroteHeader {
		return
	}
	cw.status = code
	cw.wroteHeader = true
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if !cw.wroteHeader {
		cw.WriteHeader(http.StatusOK)
	}
	if cw.status >= 400 && cw.errBuf.Len() < maxCapturedErrorBody {
		cw.errBuf.Write(b[:min(len(b), maxCapturedErrorBody-cw.errBuf.Len())])
	}
	n, err := cw.ResponseWriter.Write(b)
	cw.written += n
	return n, err
}

func (cw *captureWriter) Unwrap() http.ResponseWriter {
	return cw.ResponseWriter
}

func (cw *captureWriter) errorBody() (errorBody, bool) {
	if cw.status < 400 || cw.errBuf.Len() == 0 {
		return errorBody{}, false
	}
	var parsed errorBody
	if err := json.Unmarshal(cw.errBuf.Bytes(), &parsed); err != nil || parsed.Error == "" {
		return errorBody{}, false
	}
	return parsed, true
}
