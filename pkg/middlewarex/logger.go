package middlewarex

import (
	"log/slog"
	"net/http"

	"trader_market/pkg/contextx"
	"trader_market/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		traceID, err := contextx.TraceIDFromContext(ctx)
		if err != nil {
			logger(ctx).Error("contextx.TraceIDFromContext", logx.Error(err))
		}

		ctx = contextx.WithLogger(
			ctx,
			logger(ctx).With(
				logx.Stringer(logx.FieldTraceID, traceID),
				slog.String(logx.FieldHTTPMethod, r.Method),
				logx.Stringer(logx.FieldURL, r.URL),
			),
		)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
