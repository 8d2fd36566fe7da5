package domain

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/stakefit/backend/internal/common"
	"github.com/stakefit/backend/internal/domain/geofence"
	"github.com/stakefit/backend/internal/domain/progress"
	"github.com/stakefit/backend/internal/entity"
	"github.com/stakefit/backend/internal/model"
	"github.com/stakefit/backend/internal/repository"
	"github.com/stakefit/backend/pkg/errorx"
	"github.com/stakefit/backend/pkg/idutil"
	"github.com/stakefit/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type CheckInDomain interface {
	CheckIn(context.Context, *model.CheckInRequest) (*model.CheckInResponse, error)
}

type checkInDomain struct {
	challengeRepo   repository.ChallengeRepository
	participantRepo repository.ParticipantRepository
	checkInRepo     repository.CheckInRepository
	ledger          *ledgerWriter
	progress        *progress.Updater
}

func NewCheckInDomain(
	challengeRepo repository.ChallengeRepository,
	participantRepo repository.ParticipantRepository,
	checkInRepo repository.CheckInRepository,
	transactionRepo repository.TransactionRepository,
	balanceRepo repository.BalanceRepository,
	progressUpdater *progress.Updater,
) *checkInDomain {
	return &checkInDomain{
		challengeRepo:   challengeRepo,
		participantRepo: participantRepo,
		checkInRepo:     checkInRepo,
		ledger:          &ledgerWriter{transactionRepo: transactionRepo, balanceRepo: balanceRepo},
		progress:        progressUpdater,
	}
}

func (d *checkInDomain) CheckIn(
	ctx context.Context, req *model.CheckInRequest,
) (*model.CheckInResponse, error) {
	if req.ChallengeID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty challenge id")
	}

	challenge, err := d.challengeRepo.GetByID(ctx, req.ChallengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found challenge")
		}

		xcontext.Logger(ctx).Errorf("Cannot get challenge: %v", err)
		return nil, errorx.Classify(err)
	}

	now := time.Now().UTC()
	if challenge.Status != entity.ChallengeActive {
		return nil, errorx.New(errorx.BadRequest, "Challenge is not active")
	}

	if now.Before(challenge.StartAt) {
		return nil, errorx.New(errorx.BadRequest, "Challenge has not started yet")
	}

	if !now.Before(challenge.EndAt) {
		return nil, errorx.New(errorx.BadRequest, "Challenge has ended")
	}

	userID := xcontext.RequestUserID(ctx)
	if _, err := d.participantRepo.Get(ctx, challenge.ID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.PermissionDenied, "User is not a participant of the challenge")
		}

		xcontext.Logger(ctx).Errorf("Cannot get participant: %v", err)
		return nil, errorx.Classify(err)
	}

	var target, claimed *geofence.Point
	if challenge.HasLocation() {
		target = &geofence.Point{
			Latitude:  challenge.LocationLatitude.Float64,
			Longitude: challenge.LocationLongitude.Float64,
		}
	}

	if req.Latitude != nil && req.Longitude != nil {
		claimed = &geofence.Point{Latitude: *req.Latitude, Longitude: *req.Longitude}
	}

	result, err := geofence.Validate(target, claimed)
	if err != nil {
		switch {
		case errors.Is(err, geofence.ErrMissingLocation):
			return nil, errorx.New(errorx.BadRequest, "Location is required to check in this challenge")
		case errors.Is(err, geofence.ErrInvalidLocation):
			return nil, errorx.New(errorx.BadRequest, "Location is out of range")
		}

		xcontext.Logger(ctx).Errorf("Cannot validate location: %v", err)
		return nil, errorx.Unknown
	}

	if !result.Accepted {
		common.IncCounter(common.CheckInTotal, "rejected")
		return &model.CheckInResponse{Accepted: false, DistanceMeters: result.DistanceMeters}, nil
	}

	checkIn := &entity.CheckIn{
		ID:          idutil.NewSnowflake(),
		CreatedAt:   now,
		ChallengeID: challenge.ID,
		UserID:      userID,
		Day:         now.Format(time.DateOnly),
	}

	if claimed != nil {
		checkIn.Latitude = sql.NullFloat64{Valid: true, Float64: claimed.Latitude}
		checkIn.Longitude = sql.NullFloat64{Valid: true, Float64: claimed.Longitude}
	}

	if result.DistanceMeters != nil {
		checkIn.DistanceMeters = sql.NullFloat64{Valid: true, Float64: *result.DistanceMeters}
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	created, err := d.checkInRepo.Create(ctx, checkIn)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create check-in: %v", err)
		return nil, errorx.Classify(err)
	}

	if !created {
		common.IncCounter(common.CheckInTotal, "duplicated")
		return nil, errorx.New(errorx.AlreadyExists, "Already checked in the challenge today")
	}

	if challenge.StakeAmount > 0 {
		_, err := d.ledger.append(ctx, userID, challenge.StakeAmount, entity.TransactionEarn,
			fmt.Sprintf("Check-in reward: %s", challenge.Name), checkIn.ID)
		if err != nil {
			return nil, err
		}
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit check-in: %v", err)
		return nil, errorx.Classify(err)
	}

	common.IncCounter(common.CheckInTotal, "accepted")

	// The reward is committed, the progress is applied at least once from
	// here on and never rolls the reward back.
	d.progress.FollowUp(ctx, checkIn.ID)

	return &model.CheckInResponse{
		Accepted:       true,
		CheckInID:      checkIn.ID,
		DistanceMeters: result.DistanceMeters,
		Reward:         challenge.StakeAmount,
	}, nil
}
