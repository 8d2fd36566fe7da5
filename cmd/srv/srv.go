package main

import (
	"context"
	"strings"
	"time"

	"github.com/stakefit/backend/config"
	"github.com/stakefit/backend/internal/domain"
	"github.com/stakefit/backend/internal/domain/leaderboard"
	"github.com/stakefit/backend/internal/domain/progress"
	"github.com/stakefit/backend/internal/domain/search"
	"github.com/stakefit/backend/internal/model"
	"github.com/stakefit/backend/internal/repository"
	"github.com/stakefit/backend/pkg/authenticator"
	"github.com/stakefit/backend/pkg/kafka"
	"github.com/stakefit/backend/pkg/logger"
	"github.com/stakefit/backend/pkg/pubsub"
	"github.com/stakefit/backend/pkg/router"
	"github.com/stakefit/backend/pkg/storage"
	"github.com/stakefit/backend/pkg/xcontext"
	"github.com/stakefit/backend/pkg/xredis"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	ctx context.Context
	app *cli.App

	userRepo        repository.UserRepository
	challengeRepo   repository.ChallengeRepository
	participantRepo repository.ParticipantRepository
	checkInRepo     repository.CheckInRepository
	transactionRepo repository.TransactionRepository
	balanceRepo     repository.BalanceRepository
	followRepo      repository.FollowRepository

	authDomain      domain.AuthDomain
	userDomain      domain.UserDomain
	challengeDomain domain.ChallengeDomain
	checkInDomain   domain.CheckInDomain
	ledgerDomain    domain.LedgerDomain
	socialDomain    domain.SocialDomain

	accessTokenEngine  authenticator.TokenEngine[model.AccessToken]
	refreshTokenEngine authenticator.TokenEngine[model.RefreshToken]

	redisClient     xredis.Client
	storage         storage.Storage
	publisher       pubsub.Publisher
	searchIndex     search.Index
	leaderboard     leaderboard.Leaderboard
	progressUpdater *progress.Updater

	router *router.Router
}

func (s *srv) loadConfig(cctx *cli.Context) error {
	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		return err
	}

	s.ctx = xcontext.WithConfigs(s.ctx, cfg)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(logger.ParseLevel(cfg.LogLevel)))
	return nil
}

func (s *srv) newDatabase() *gorm.DB {
	dbCfg := xcontext.Configs(s.ctx).Database
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       dbCfg.ConnectionString(), // data source name
		DefaultStringSize:         256,                      // default size for string fields
		DisableDatetimePrecision:  true,                     // disable datetime precision, which not supported before MySQL 5.6
		DontSupportRenameIndex:    true,                     // drop & create when rename index, rename index not supported before MySQL 5.7, MariaDB
		DontSupportRenameColumn:   true,                     // `change` when rename column, rename column not supported before MySQL 8, MariaDB
		SkipInitializeWithVersion: false,                    // auto configure based on currently MySQL version
	}), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormLogLevel(dbCfg.LogLevel)),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		panic(err)
	}

	return db
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "warn":
		return gormlogger.Warn
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Error
	}
}

func (s *srv) loadRedisClient() {
	var err error
	s.redisClient, err = xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadStorage() {
	var err error
	s.storage, err = storage.NewS3Storage(xcontext.Configs(s.ctx).Storage)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadPublisher(clientID string) {
	var err error
	s.publisher, err = kafka.NewPublisher(clientID, []string{xcontext.Configs(s.ctx).Kafka.Addr})
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadTokenEngines() {
	authCfg := xcontext.Configs(s.ctx).Auth
	s.accessTokenEngine = authenticator.NewTokenEngine[model.AccessToken](
		authCfg.TokenSecret, authCfg.AccessToken.Name, authCfg.AccessToken.Expiration)
	s.refreshTokenEngine = authenticator.NewTokenEngine[model.RefreshToken](
		authCfg.TokenSecret, authCfg.RefreshToken.Name, authCfg.RefreshToken.Expiration)
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.challengeRepo = repository.NewChallengeRepository()
	s.participantRepo = repository.NewParticipantRepository()
	s.checkInRepo = repository.NewCheckInRepository()
	s.transactionRepo = repository.NewTransactionRepository()
	s.balanceRepo = repository.NewBalanceRepository()
	s.followRepo = repository.NewFollowRepository()
}

// loadProgressUpdater requires the repositories, redis client and publisher.
func (s *srv) loadProgressUpdater() {
	s.leaderboard = leaderboard.New(s.participantRepo, s.redisClient)
	s.progressUpdater = progress.NewUpdater(s.checkInRepo, s.participantRepo, s.leaderboard, s.publisher)
}

func (s *srv) loadDomains() {
	s.searchIndex = search.NewBleveIndex(s.ctx)

	s.authDomain = domain.NewAuthDomain(s.userRepo, s.accessTokenEngine, s.refreshTokenEngine)
	s.userDomain = domain.NewUserDomain(s.userRepo, s.balanceRepo, s.storage)
	s.challengeDomain = domain.NewChallengeDomain(s.challengeRepo, s.participantRepo, s.leaderboard, s.searchIndex)
	s.checkInDomain = domain.NewCheckInDomain(s.challengeRepo, s.participantRepo, s.checkInRepo,
		s.transactionRepo, s.balanceRepo, s.progressUpdater)
	s.ledgerDomain = domain.NewLedgerDomain(s.transactionRepo, s.balanceRepo)
	s.socialDomain = domain.NewSocialDomain(s.userRepo, s.followRepo, s.checkInRepo)
}
