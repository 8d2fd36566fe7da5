package domain

import (
	"context"

	"github.com/stakefit/backend/pkg/errorx"
	"github.com/stakefit/backend/pkg/xcontext"
)

// normalizeLimit applies the default limit and rejects out of range limits.
func normalizeLimit(ctx context.Context, limit int) (int, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	if limit == 0 {
		limit = apiCfg.DefaultLimit
	}

	if limit < 0 {
		return 0, errorx.New(errorx.BadRequest, "Limit must be positive")
	}

	if limit > apiCfg.MaxLimit {
		return 0, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (%d)", apiCfg.MaxLimit)
	}

	return limit, nil
}
