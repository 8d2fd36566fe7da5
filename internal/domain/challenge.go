package domain

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/stakefit/backend/internal/domain/geofence"
	"github.com/stakefit/backend/internal/domain/leaderboard"
	"github.com/stakefit/backend/internal/domain/search"
	"github.com/stakefit/backend/internal/entity"
	"github.com/stakefit/backend/internal/model"
	"github.com/stakefit/backend/internal/repository"
	"github.com/stakefit/backend/pkg/dateutil"
	"github.com/stakefit/backend/pkg/enum"
	"github.com/stakefit/backend/pkg/errorx"
	"github.com/stakefit/backend/pkg/idutil"
	"github.com/stakefit/backend/pkg/xcontext"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type ChallengeDomain interface {
	Create(context.Context, *model.CreateChallengeRequest) (*model.CreateChallengeResponse, error)
	Join(context.Context, *model.JoinChallengeRequest) (*model.JoinChallengeResponse, error)
	Leave(context.Context, *model.LeaveChallengeRequest) (*model.LeaveChallengeResponse, error)
	Delete(context.Context, *model.DeleteChallengeRequest) (*model.DeleteChallengeResponse, error)
	GetMyChallenges(context.Context, *model.GetMyChallengesRequest) (*model.GetMyChallengesResponse, error)
	Get(context.Context, *model.GetChallengeRequest) (*model.GetChallengeResponse, error)
	GetPublicChallenges(context.Context, *model.GetPublicChallengesRequest) (*model.GetPublicChallengesResponse, error)
	Search(context.Context, *model.SearchChallengesRequest) (*model.SearchChallengesResponse, error)
	GetLeaderboard(context.Context, *model.GetChallengeLeaderboardRequest) (*model.GetChallengeLeaderboardResponse, error)
	IndexPublicChallenges(context.Context) error
	SeedPublicChallenges(ctx context.Context, creatorID string) (int, error)
}

type challengeDomain struct {
	challengeRepo   repository.ChallengeRepository
	participantRepo repository.ParticipantRepository
	leaderboard     leaderboard.Leaderboard
	searchIndex     search.Index
}

func NewChallengeDomain(
	challengeRepo repository.ChallengeRepository,
	participantRepo repository.ParticipantRepository,
	leaderboard leaderboard.Leaderboard,
	searchIndex search.Index,
) *challengeDomain {
	return &challengeDomain{
		challengeRepo:   challengeRepo,
		participantRepo: participantRepo,
		leaderboard:     leaderboard,
		searchIndex:     searchIndex,
	}
}

func (d *challengeDomain) Create(
	ctx context.Context, req *model.CreateChallengeRequest,
) (*model.CreateChallengeResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)

	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty name")
	}

	if req.Description == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty description")
	}

	if req.DurationDays < 1 {
		return nil, errorx.New(errorx.BadRequest, "Duration must be at least 1 day")
	}

	if req.StakeAmount < 0 {
		return nil, errorx.New(errorx.BadRequest, "Stake amount must not be negative")
	}

	visibility := entity.ChallengePublic
	if req.Visibility != "" {
		var err error
		visibility, err = enum.ToEnum[entity.ChallengeVisibility](req.Visibility)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Invalid visibility: %v", err)
			return nil, errorx.New(errorx.BadRequest, "Invalid visibility %s", req.Visibility)
		}
	}

	userID := xcontext.RequestUserID(ctx)
	now := time.Now().UTC()
	startAt := now
	if req.StartAt != nil {
		startAt = req.StartAt.UTC()
	}

	challenge := &entity.Challenge{
		Base:         entity.Base{ID: idutil.NewUUID()},
		Name:         req.Name,
		Description:  req.Description,
		DurationDays: req.DurationDays,
		Type:         strings.TrimSpace(req.Type),
		StakeAmount:  req.StakeAmount,
		CreatedBy:    userID,
		Status:       entity.ChallengeActive,
		Visibility:   visibility,
		StartAt:      startAt,
		EndAt:        dateutil.AddDays(startAt, req.DurationDays),
	}

	if (req.Latitude == nil) != (req.Longitude == nil) {
		return nil, errorx.New(errorx.BadRequest, "Latitude and longitude must be both present or both absent")
	}

	if req.Latitude != nil {
		target := geofence.Point{Latitude: *req.Latitude, Longitude: *req.Longitude}
		if !target.Valid() {
			return nil, errorx.New(errorx.BadRequest, "Location is out of range")
		}

		challenge.LocationName = sql.NullString{Valid: true, String: strings.TrimSpace(req.LocationName)}
		challenge.LocationLatitude = sql.NullFloat64{Valid: true, Float64: target.Latitude}
		challenge.LocationLongitude = sql.NullFloat64{Valid: true, Float64: target.Longitude}
	}

	for _, id := range req.InvitedUserIDs {
		if id != "" && id != userID && !slices.Contains(challenge.InvitedUserIDs, id) {
			challenge.InvitedUserIDs = append(challenge.InvitedUserIDs, id)
		}
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.challengeRepo.Create(ctx, challenge); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create challenge: %v", err)
		return nil, errorx.Classify(err)
	}

	_, err := d.participantRepo.Create(ctx, &entity.ChallengeParticipant{
		ChallengeID: challenge.ID,
		UserID:      userID,
		JoinedAt:    now,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot add creator to participants: %v", err)
		return nil, errorx.Classify(err)
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit challenge: %v", err)
		return nil, errorx.Classify(err)
	}

	if challenge.Visibility == entity.ChallengePublic {
		d.index(ctx, challenge)
	}

	return &model.CreateChallengeResponse{ID: challenge.ID}, nil
}

func (d *challengeDomain) Join(
	ctx context.Context, req *model.JoinChallengeRequest,
) (*model.JoinChallengeResponse, error) {
	challenge, err := d.getChallenge(ctx, req.ChallengeID)
	if err != nil {
		return nil, err
	}

	userID := xcontext.RequestUserID(ctx)
	inserted, err := d.participantRepo.Create(ctx, &entity.ChallengeParticipant{
		ChallengeID: challenge.ID,
		UserID:      userID,
		JoinedAt:    time.Now().UTC(),
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create participant: %v", err)
		return nil, errorx.Classify(err)
	}

	if inserted {
		if err := d.leaderboard.AddMember(ctx, challenge.ID, userID); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot add %s to leaderboard of %s: %v", userID, challenge.ID, err)
		}
	}

	return &model.JoinChallengeResponse{}, nil
}

func (d *challengeDomain) Leave(
	ctx context.Context, req *model.LeaveChallengeRequest,
) (*model.LeaveChallengeResponse, error) {
	challenge, err := d.getChallenge(ctx, req.ChallengeID)
	if err != nil {
		return nil, err
	}

	userID := xcontext.RequestUserID(ctx)
	if challenge.CreatedBy == userID {
		return nil, errorx.New(errorx.BadRequest, "Creator cannot leave, delete the challenge instead")
	}

	if err := d.participantRepo.Delete(ctx, challenge.ID, userID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete participant: %v", err)
		return nil, errorx.Classify(err)
	}

	if err := d.leaderboard.RemoveMember(ctx, challenge.ID, userID); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot remove %s from leaderboard of %s: %v", userID, challenge.ID, err)
	}

	return &model.LeaveChallengeResponse{}, nil
}

func (d *challengeDomain) Delete(
	ctx context.Context, req *model.DeleteChallengeRequest,
) (*model.DeleteChallengeResponse, error) {
	challenge, err := d.getChallenge(ctx, req.ChallengeID)
	if err != nil {
		return nil, err
	}

	if challenge.CreatedBy != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Only the creator can delete the challenge")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.participantRepo.DeleteByChallengeID(ctx, challenge.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete participants: %v", err)
		return nil, errorx.Classify(err)
	}

	if err := d.challengeRepo.Delete(ctx, challenge.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete challenge: %v", err)
		return nil, errorx.Classify(err)
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit challenge deletion: %v", err)
		return nil, errorx.Classify(err)
	}

	if err := d.searchIndex.Delete(search.ChallengeDoc, challenge.ID); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot delete challenge %s from search index: %v", challenge.ID, err)
	}

	if err := d.leaderboard.Remove(ctx, challenge.ID); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot remove leaderboard of %s: %v", challenge.ID, err)
	}

	return &model.DeleteChallengeResponse{}, nil
}

func (d *challengeDomain) GetMyChallenges(
	ctx context.Context, req *model.GetMyChallengesRequest,
) (*model.GetMyChallengesResponse, error) {
	requestUserID := xcontext.RequestUserID(ctx)
	userID := req.UserID
	if userID == "" {
		userID = requestUserID
	}

	challenges, err := d.challengeRepo.GetListByParticipant(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get challenges of user: %v", err)
		return nil, errorx.Classify(err)
	}

	clientChallenges := []model.Challenge{}
	for i := range challenges {
		// Private challenges are only listed for their own participants.
		if userID != requestUserID && challenges[i].Visibility == entity.ChallengePrivate {
			continue
		}

		clientChallenges = append(clientChallenges, model.ConvertChallenge(&challenges[i], nil))
	}

	return &model.GetMyChallengesResponse{Challenges: clientChallenges}, nil
}

func (d *challengeDomain) Get(
	ctx context.Context, req *model.GetChallengeRequest,
) (*model.GetChallengeResponse, error) {
	challenge, err := d.getChallenge(ctx, req.ChallengeID)
	if err != nil {
		return nil, err
	}

	participants, err := d.participantRepo.GetListByChallengeID(ctx, challenge.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get participants: %v", err)
		return nil, errorx.Classify(err)
	}

	clientParticipants := []model.Participant{}
	for i := range participants {
		clientParticipants = append(clientParticipants, model.ConvertParticipant(&participants[i]))
	}

	resp := model.GetChallengeResponse(model.ConvertChallenge(challenge, clientParticipants))
	return &resp, nil
}

func (d *challengeDomain) GetPublicChallenges(
	ctx context.Context, req *model.GetPublicChallengesRequest,
) (*model.GetPublicChallengesResponse, error) {
	limit, err := normalizeLimit(ctx, req.Limit)
	if err != nil {
		return nil, err
	}

	challenges, err := d.challengeRepo.GetPublicList(ctx, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get public challenges: %v", err)
		return nil, errorx.Classify(err)
	}

	clientChallenges := []model.Challenge{}
	for i := range challenges {
		clientChallenges = append(clientChallenges, model.ConvertChallenge(&challenges[i], nil))
	}

	return &model.GetPublicChallengesResponse{Challenges: clientChallenges}, nil
}

func (d *challengeDomain) Search(
	ctx context.Context, req *model.SearchChallengesRequest,
) (*model.SearchChallengesResponse, error) {
	if strings.TrimSpace(req.Q) == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty query")
	}

	limit, err := normalizeLimit(ctx, req.Limit)
	if err != nil {
		return nil, err
	}

	ids, err := d.searchIndex.Search(search.ChallengeDoc, req.Q, 0, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot search challenges: %v", err)
		return nil, errorx.Unknown
	}

	challenges, err := d.challengeRepo.GetByIDs(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get challenges: %v", err)
		return nil, errorx.Classify(err)
	}

	challengeMap := map[string]*entity.Challenge{}
	for i := range challenges {
		challengeMap[challenges[i].ID] = &challenges[i]
	}

	// Keep the relevance order of the search result.
	clientChallenges := []model.Challenge{}
	for _, id := range ids {
		c, ok := challengeMap[id]
		if !ok || c.Visibility != entity.ChallengePublic {
			continue
		}

		clientChallenges = append(clientChallenges, model.ConvertChallenge(c, nil))
	}

	return &model.SearchChallengesResponse{Challenges: clientChallenges}, nil
}

func (d *challengeDomain) GetLeaderboard(
	ctx context.Context, req *model.GetChallengeLeaderboardRequest,
) (*model.GetChallengeLeaderboardResponse, error) {
	if req.Offset < 0 {
		return nil, errorx.New(errorx.BadRequest, "Offset must not be negative")
	}

	limit, err := normalizeLimit(ctx, req.Limit)
	if err != nil {
		return nil, err
	}

	challenge, err := d.getChallenge(ctx, req.ChallengeID)
	if err != nil {
		return nil, err
	}

	entries, err := d.leaderboard.Get(ctx, challenge.ID, req.Offset, limit)
	if err != nil {
		return nil, err
	}

	return &model.GetChallengeLeaderboardResponse{Leaderboard: entries}, nil
}

// IndexPublicChallenges rebuilds the search index from the database.
func (d *challengeDomain) IndexPublicChallenges(ctx context.Context) error {
	challenges, err := d.challengeRepo.GetAllPublic(ctx)
	if err != nil {
		return err
	}

	for i := range challenges {
		d.index(ctx, &challenges[i])
	}

	xcontext.Logger(ctx).Infof("Indexed %d public challenges", len(challenges))
	return nil
}

func (d *challengeDomain) index(ctx context.Context, c *entity.Challenge) {
	err := d.searchIndex.Index(search.ChallengeDoc, c.ID, search.ChallengeData{
		Name:        c.Name,
		Type:        c.Type,
		Description: c.Description,
	})
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot index challenge %s: %v", c.ID, err)
	}
}

func (d *challengeDomain) getChallenge(ctx context.Context, id string) (*entity.Challenge, error) {
	if id == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty challenge id")
	}

	challenge, err := d.challengeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found challenge")
		}

		xcontext.Logger(ctx).Errorf("Cannot get challenge: %v", err)
		return nil, errorx.Classify(err)
	}

	return challenge, nil
}
