package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/deepencoding/video-processing-service/pkg/requestid"
)

// RequestID takes the request ID from the x-request-id header, or from chi's
// built-in RequestID middleware when present, generating a fresh UUID
// otherwise, and injects it into the request's context so every layer logs
// the same ID.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("x-request-id")

		if requestID == "" {
			requestID = middleware.GetReqID(r.Context())
		}

		if requestID == "" {
			requestID = requestid.Generate()
		}

		ctx := requestid.ToContext(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
