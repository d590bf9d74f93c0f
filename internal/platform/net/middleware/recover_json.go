package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	perr "crimecast/internal/platform/errors"
	"crimecast/internal/platform/logger"
	pnet "crimecast/internal/platform/net"
)

// RecoverJSON turns a panic into a JSON 500 envelope and logs the stack
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			reqID := pnet.RequestID(r.Context())
			logger.C(r.Context()).Error().
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			status, wire := perr.HTTP(perr.PanicErrf("internal error"))
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			if reqID != "" {
				w.Header().Set("X-Request-ID", reqID)
			}
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status_code": status,
				"status":      http.StatusText(status),
				"code":        wire.Code,
				"error":       wire.Message,
				"request_id":  reqID,
			})
		}()
		next.ServeHTTP(w, r)
	})
}
