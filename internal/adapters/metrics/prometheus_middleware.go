package metrics

import (
	"context"
	"time"

	"github.com/andrescamacho/bizsim-go/internal/application/common"
)

// PrometheusMiddleware records the duration and outcome of every command and
// query sent through the mediator, labelled by bare request type name
// (AddWorkOrderCommand, GetDashboardQuery, ...)
func PrometheusMiddleware(collector *CommandMetricsCollector) common.Middleware {
	return func(ctx context.Context, request common.Request, next common.HandlerFunc) (common.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}

		start := time.Now()
		response, err := next(ctx, request)
		collector.RecordCommandExecution(common.RequestName(request), time.Since(start).Seconds(), err == nil)
		return response, err
	}
}
