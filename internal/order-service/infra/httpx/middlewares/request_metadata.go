package middlewares

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/jcmexdev/order-management/internal/pkg/constants"
)

// AttachRequestMetadata puts the request id and the idempotency key into the
// request context. A request without X-Request-Id gets a fresh UUID; the id
// is echoed on the response either way.
func AttachRequestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(constants.HeaderXRequestId)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		idempotencyKey := r.Header.Get(constants.HeaderXIdempotencyKey)

		ctx := context.WithValue(r.Context(), constants.ContextKeyRequestID, requestID)
		ctx = context.WithValue(ctx, constants.ContextKeyIdempotencyKey, idempotencyKey)

		w.Header().Set(constants.HeaderXRequestId, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
