package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stakefit/backend/pkg/errorx"
	"github.com/stakefit/backend/pkg/router"
	"github.com/stakefit/backend/pkg/xcontext"
)

func Logger() router.CloserFunc {
	return func(ctx context.Context) {
		req := xcontext.HTTPRequest(ctx)
		info := fmt.Sprintf("%s | %s | %d", req.Method, req.URL.Path, xcontext.ResponseStatus(ctx))
		if startTime := xcontext.StartTime(ctx); !startTime.IsZero() {
			info = fmt.Sprintf("%s | %s", info, time.Since(startTime))
		}

		if err := xcontext.Error(ctx); err != nil {
			var errx errorx.Error
			if errors.As(err, &errx) && errx.Code != errorx.Internal {
				xcontext.Logger(ctx).Warnf("%s | %d", info, errx.Code)
			} else {
				xcontext.Logger(ctx).Errorf("%s | %v", info, err)
			}
		} else {
			xcontext.Logger(ctx).Infof(info)
		}
	}
}
