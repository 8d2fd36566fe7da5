package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/stakefit/backend/internal/common"
	"github.com/stakefit/backend/pkg/router"
	"github.com/stakefit/backend/pkg/xcontext"
)

func WithStartTime() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		return xcontext.WithStartTime(ctx, time.Now()), nil
	}
}

func Prometheus() router.CloserFunc {
	return func(ctx context.Context) {
		method := xcontext.HTTPRequest(ctx).Method
		code := fmt.Sprint(xcontext.ResponseStatus(ctx))

		for key, counter := range common.PromCounters {
			switch key {
			case common.HTTPRequestTotal:
				counter.WithLabelValues(method, code).Inc()
			}
		}

		startTime := xcontext.StartTime(ctx)
		if startTime.IsZero() {
			return
		}

		for key, histogram := range common.PromHistograms {
			switch key {
			case common.HTTPRequestDurationSeconds:
				histogram.WithLabelValues(method, code).Observe(time.Since(startTime).Seconds())
			}
		}
	}
}
