package middleware

import (
	"context"
	"strings"

	"github.com/stakefit/backend/internal/model"
	"github.com/stakefit/backend/pkg/authenticator"
	"github.com/stakefit/backend/pkg/errorx"
	"github.com/stakefit/backend/pkg/router"
	"github.com/stakefit/backend/pkg/xcontext"
)

type AuthVerifier struct {
	accessTokenEngine authenticator.TokenEngine[model.AccessToken]
}

func NewAuthVerifier() *AuthVerifier {
	return &AuthVerifier{}
}

func (a *AuthVerifier) WithAccessToken(engine authenticator.TokenEngine[model.AccessToken]) *AuthVerifier {
	a.accessTokenEngine = engine
	return a
}

// Verify returns the user id carried by the bearer access token of the
// current http request.
func (a *AuthVerifier) Verify(ctx context.Context) (string, error) {
	req := xcontext.HTTPRequest(ctx)
	if req == nil || a.accessTokenEngine == nil {
		return "", errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}

	authorization := req.Header.Get("Authorization")
	token, found := strings.CutPrefix(authorization, "Bearer ")
	if !found || strings.TrimSpace(token) == "" {
		return "", errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}

	accessToken, err := a.accessTokenEngine.Verify(strings.TrimSpace(token))
	if err != nil {
		xcontext.Logger(ctx).Debugf("Failed to verify access token: %v", err)
		return "", errorx.New(errorx.Unauthenticated, "Invalid access token")
	}

	if accessToken.ID == "" {
		return "", errorx.New(errorx.Unauthenticated, "Invalid access token")
	}

	return accessToken.ID, nil
}

func (a *AuthVerifier) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		userID, err := a.Verify(ctx)
		if err != nil {
			return nil, err
		}

		return xcontext.WithRequestUserID(ctx, userID), nil
	}
}
