package leaderboard

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stakefit/backend/internal/model"
	"github.com/stakefit/backend/internal/repository"
	"github.com/stakefit/backend/pkg/errorx"
	"github.com/stakefit/backend/pkg/xcontext"
	"github.com/stakefit/backend/pkg/xredis"
)

// keyTTL bounds how long a leaderboard loaded from the database may drift
// from it.
const keyTTL = 24 * time.Hour

type Leaderboard interface {
	Get(ctx context.Context, challengeID string, offset, limit int) ([]model.LeaderboardEntry, error)
	Rank(ctx context.Context, challengeID, userID string) (uint64, error)
	Increase(ctx context.Context, challengeID, userID string, value int64) error
	AddMember(ctx context.Context, challengeID, userID string) error
	RemoveMember(ctx context.Context, challengeID, userID string) error
	Remove(ctx context.Context, challengeID string) error
}

type leaderboard struct {
	participantRepo repository.ParticipantRepository
	redisClient     xredis.Client
}

func New(
	participantRepo repository.ParticipantRepository,
	redisClient xredis.Client,
) *leaderboard {
	return &leaderboard{participantRepo: participantRepo, redisClient: redisClient}
}

func (l *leaderboard) Get(
	ctx context.Context, challengeID string, offset, limit int,
) ([]model.LeaderboardEntry, error) {
	key := redisKeyCheckInLeaderboard(challengeID)
	if err := l.ensureLoaded(ctx, challengeID, key); err != nil {
		return nil, err
	}

	results, err := l.redisClient.ZRevRangeWithScores(ctx, key, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get revrange redis: %v", err)
		return nil, errorx.Unknown
	}

	entries := []model.LeaderboardEntry{}
	for i, z := range results {
		member, ok := z.Member.(string)
		if !ok {
			xcontext.Logger(ctx).Errorf("Invalid leaderboard member type %T", z.Member)
			return nil, errorx.Unknown
		}

		entries = append(entries, model.LeaderboardEntry{
			UserID:   member,
			CheckIns: int(z.Score),
			Rank:     offset + i + 1,
		})
	}

	return entries, nil
}

// Rank returns the 1-based rank of the user, or 0 if the user is not in the
// leaderboard.
func (l *leaderboard) Rank(ctx context.Context, challengeID, userID string) (uint64, error) {
	key := redisKeyCheckInLeaderboard(challengeID)
	if err := l.ensureLoaded(ctx, challengeID, key); err != nil {
		return 0, err
	}

	rank, err := l.redisClient.ZRevRank(ctx, key, userID)
	if err != nil {
		if errors.Is(err, xredis.ErrNil) {
			return 0, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get rev rank redis: %v", err)
		return 0, errorx.Unknown
	}

	return rank + 1, nil
}

// Increase is a no-op if the leaderboard has not been loaded, the next reader
// loads it from the database with the value already included.
func (l *leaderboard) Increase(ctx context.Context, challengeID, userID string, value int64) error {
	err := l.redisClient.ZIncrBy(ctx, redisKeyCheckInLeaderboard(challengeID), value, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call ZIncrBy redis: %v", err)
		return errorx.New(errorx.Unavailable, "Leaderboard is unavailable")
	}

	return nil
}

func (l *leaderboard) AddMember(ctx context.Context, challengeID, userID string) error {
	key := redisKeyCheckInLeaderboard(challengeID)
	ok, err := l.redisClient.Exist(ctx, key)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
		return errorx.Unknown
	}

	// If the key didn't exist in redis, no need to update.
	if !ok {
		return nil
	}

	if err := l.redisClient.ZAdd(ctx, key, redis.Z{Member: userID, Score: 0}); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot zadd redis: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (l *leaderboard) RemoveMember(ctx context.Context, challengeID, userID string) error {
	if err := l.redisClient.ZRem(ctx, redisKeyCheckInLeaderboard(challengeID), userID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot zrem redis: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (l *leaderboard) Remove(ctx context.Context, challengeID string) error {
	if err := l.redisClient.Del(ctx, redisKeyCheckInLeaderboard(challengeID)); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot del redis: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (l *leaderboard) ensureLoaded(ctx context.Context, challengeID, key string) error {
	ok, err := l.redisClient.Exist(ctx, key)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
		return errorx.Unknown
	}

	// If the key didn't exist in redis, load it from database.
	if !ok {
		return l.loadFromDB(ctx, challengeID, key)
	}

	return nil
}

func (l *leaderboard) loadFromDB(ctx context.Context, challengeID, key string) error {
	participants, err := l.participantRepo.GetListByChallengeID(ctx, challengeID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load participants from database: %v", err)
		return errorx.Unknown
	}

	members := make([]redis.Z, 0, len(participants))
	for _, p := range participants {
		members = append(members, redis.Z{Member: p.UserID, Score: float64(p.Progress)})
	}

	if err := l.redisClient.ZAdd(ctx, key, members...); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot zadd redis: %v", err)
		return errorx.Unknown
	}

	if err := l.redisClient.Expire(ctx, key, keyTTL); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot set expiration of %s: %v", key, err)
	}

	return nil
}
