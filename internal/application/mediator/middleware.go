package mediator

import (
	"context"
	"fmt"

	"github.com/andrescamacho/factorysim/internal/application/logging"
)

// LoggingMiddleware logs every request that ends in an error, using the
// logger carried by the context
func LoggingMiddleware() Middleware {
	return func(ctx context.Context, request Request, next HandlerFunc) (Response, error) {
		response, err := next(ctx, request)
		if err != nil {
			logging.LoggerFromContext(ctx).Log("ERROR", "request failed", map[string]interface{}{
				"request": fmt.Sprintf("%T", request),
				"error":   err.Error(),
			})
		}
		return response, err
	}
}
