package handler

import (
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
)

// webhookTokenHeader is the header the webhook source presents its shared
// secret in.
const webhookTokenHeader = "x-webhook-token"

type responseRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	bytes       int
}

func (r *responseRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.status = http.StatusOK
		r.wroteHeader = true
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// RequireWebhookToken returns middleware that rejects requests whose
// x-webhook-token header does not match secret. The comparison is
// constant-time so response latency does not depend on how much of the
// presented token matches.
func RequireWebhookToken(secret string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(webhookTokenHeader)
		if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			slog.Warn("webhook: rejected request with missing or invalid token", "remote", r.RemoteAddr)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// LogRequests returns middleware that logs each HTTP request.
// format selects the output style:
//   - "simple" (or ""): structured slog line with method, path, status, bytes, duration
//   - "nginx": nginx combined log format
//
// Every request gets a generated ID, echoed in the X-Request-Id response
// header so operators can line up gateway complaints with access logs.
func LogRequests(format string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-Id", requestID)
		rec := &responseRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		if format == "nginx" {
			orDash := func(s string) string {
				if s == "" {
					return "-"
				}
				return s
			}
			if _, err := fmt.Fprintf(os.Stdout, "%s - - [%s] \"%s %s %s\" %d %d \"%s\" \"%s\" \"%s\"\n",
				r.RemoteAddr,
				start.Format("02/Jan/2006:15:04:05 -0700"),
				r.Method,
				r.RequestURI,
				r.Proto,
				rec.status,
				rec.bytes,
				orDash(r.Referer()),
				orDash(r.UserAgent()),
				orDash(r.Header.Get("X-Forwarded-For")),
			); err != nil {
				slog.Error("failed to write access log", "error", err)
			}
		} else {
			slog.Info("http request",
				"request_id", requestID,
				"method", r.Method,
				"path", r.RequestURI,
				"status", rec.status,
				"bytes", rec.bytes,
				"duration", time.Since(start),
			)
		}
	})
}
