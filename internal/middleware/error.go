package middleware

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// ErrorHandler creates panic-recovery middleware. Recovered panics become
// the proxy's uniform {"error": ...} 500 body.
func ErrorHandler(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					// Log panic details server-side, never expose them
					logger.Error("panic_recovered",
						zap.Any("error", err),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					if encErr := json.NewEncoder(w).Encode(map[string]string{"error": "Internal server error"}); encErr != nil {
						logger.Error("failed_to_encode_error_response", zap.Error(encErr))
					}
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
