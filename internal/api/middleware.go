package api

import (
	"context"
	"net/http"
	"time"

	"github.com/babylonlabs-io/staking-ledger/internal/observability/metrics"
	"github.com/babylonlabs-io/staking-ledger/internal/observability/tracing"
	"github.com/babylonlabs-io/staking-ledger/internal/types"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// IdentityHeader carries the caller identity. It is set by the authenticating
// gateway in front of the service after verifying the caller's signature.
const IdentityHeader = "X-Staker-Identity"

type callerKey struct{}

// tracingMiddleware reuses an incoming trace id or creates one, and echoes it
// back in the response.
func tracingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(tracing.TraceIdHeader)
		if traceID == "" {
			traceID = uuid.New().String()
		}
		w.Header().Set(tracing.TraceIdHeader, traceID)

		ctx := tracing.WithTraceID(r.Context(), traceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		// the route pattern keeps path parameters out of the label values
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.RecordHttpRequestDuration(time.Since(startTime), r.Method, route, status)
	})
}

func identityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller := r.Header.Get(IdentityHeader)
		if caller == "" {
			writeError(w, r, types.NewErrorWithMsg(
				http.StatusUnauthorized, types.Unauthorized, "missing "+IdentityHeader+" header",
			))
			return
		}
		ctx := context.WithValue(r.Context(), callerKey{}, caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func callerFrom(r *http.Request) string {
	caller, _ := r.Context().Value(callerKey{}).(string)
	return caller
}
