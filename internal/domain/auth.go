package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/stakefit/backend/internal/entity"
	"github.com/stakefit/backend/internal/model"
	"github.com/stakefit/backend/internal/repository"
	"github.com/stakefit/backend/pkg/authenticator"
	"github.com/stakefit/backend/pkg/crypto"
	"github.com/stakefit/backend/pkg/errorx"
	"github.com/stakefit/backend/pkg/idutil"
	"github.com/stakefit/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type AuthDomain interface {
	Register(context.Context, *model.RegisterRequest) (*model.RegisterResponse, error)
	Login(context.Context, *model.LoginRequest) (*model.LoginResponse, error)
	Refresh(context.Context, *model.RefreshRequest) (*model.RefreshResponse, error)
}

type authDomain struct {
	userRepo           repository.UserRepository
	accessTokenEngine  authenticator.TokenEngine[model.AccessToken]
	refreshTokenEngine authenticator.TokenEngine[model.RefreshToken]
	validate           *validator.Validate
}

func NewAuthDomain(
	userRepo repository.UserRepository,
	accessTokenEngine authenticator.TokenEngine[model.AccessToken],
	refreshTokenEngine authenticator.TokenEngine[model.RefreshToken],
) *authDomain {
	return &authDomain{
		userRepo:           userRepo,
		accessTokenEngine:  accessTokenEngine,
		refreshTokenEngine: refreshTokenEngine,
		validate:           validator.New(),
	}
}

func (d *authDomain) Register(
	ctx context.Context, req *model.RegisterRequest,
) (*model.RegisterResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)

	if err := d.validate.Struct(req); err != nil {
		return nil, registerValidationError(err)
	}

	if _, err := d.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "Email is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get user by email: %v", err)
		return nil, errorx.Classify(err)
	}

	if _, err := d.userRepo.GetByUsername(ctx, req.Username); err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "Username is already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get user by username: %v", err)
		return nil, errorx.Classify(err)
	}

	passwordHash, err := crypto.HashPassword(req.Password)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot hash password: %v", err)
		return nil, errorx.Unknown
	}

	user := &entity.User{
		Base:         entity.Base{ID: idutil.NewUUID()},
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Phone:        req.Phone,
	}

	if err := d.userRepo.Create(ctx, user); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create user: %v", err)
		return nil, errorx.Classify(err)
	}

	accessToken, refreshToken, err := d.generateTokens(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &model.RegisterResponse{
		User:         model.ConvertUser(user, true),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (d *authDomain) Login(
	ctx context.Context, req *model.LoginRequest,
) (*model.LoginResponse, error) {
	user, err := d.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unauthenticated, "Invalid email or password")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user by email: %v", err)
		return nil, errorx.Classify(err)
	}

	if !crypto.ComparePassword(user.PasswordHash, req.Password) {
		return nil, errorx.New(errorx.Unauthenticated, "Invalid email or password")
	}

	accessToken, refreshToken, err := d.generateTokens(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (d *authDomain) Refresh(
	ctx context.Context, req *model.RefreshRequest,
) (*model.RefreshResponse, error) {
	refreshToken, err := d.refreshTokenEngine.Verify(req.RefreshToken)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Failed to verify refresh token: %v", err)
		return nil, errorx.New(errorx.Unauthenticated, "Invalid refresh token")
	}

	// The user may have been removed since the token was issued.
	if _, err := d.userRepo.GetByID(ctx, refreshToken.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unauthenticated, "Invalid refresh token")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Classify(err)
	}

	newAccessToken, newRefreshToken, err := d.generateTokens(ctx, refreshToken.ID)
	if err != nil {
		return nil, err
	}

	return &model.RefreshResponse{
		AccessToken:  newAccessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

func (d *authDomain) generateTokens(ctx context.Context, userID string) (string, string, error) {
	accessToken, err := d.accessTokenEngine.Generate(userID, model.AccessToken{ID: userID})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate access token: %v", err)
		return "", "", errorx.Unknown
	}

	refreshToken, err := d.refreshTokenEngine.Generate(userID, model.RefreshToken{ID: userID})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate refresh token: %v", err)
		return "", "", errorx.Unknown
	}

	return accessToken, refreshToken, nil
}

func registerValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return errorx.New(errorx.BadRequest, "Invalid request")
	}

	fieldErr := validationErrs[0]
	switch fieldErr.Field() {
	case "Email":
		return errorx.New(errorx.BadRequest, "Invalid email")
	case "Password":
		return errorx.New(errorx.BadRequest, "Password must have at least 6 characters")
	case "Username":
		return errorx.New(errorx.BadRequest, "Username is required")
	}

	return errorx.New(errorx.BadRequest, "Invalid %s", strings.ToLower(fieldErr.Field()))
}
