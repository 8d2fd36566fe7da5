package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/stakefit/backend/internal/middleware"
	"github.com/stakefit/backend/pkg/prometheus"
	"github.com/stakefit/backend/pkg/router"
	"github.com/stakefit/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

const (
	shutdownTimeout = 10 * time.Second

	limiterCleanupInterval = time.Minute
	limiterIdleTimeout     = 10 * time.Minute
)

func (s *srv) startApi(*cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.loadRedisClient()
	s.loadStorage()
	s.loadPublisher("api")
	s.loadTokenEngines()
	s.loadRepos()
	s.loadProgressUpdater()
	s.loadDomains()
	defer s.searchIndex.Close()

	// The search index is rebuilt from the database on every start.
	if err := s.challengeDomain.IndexPublicChallenges(s.ctx); err != nil {
		xcontext.Logger(s.ctx).Errorf("Cannot index public challenges: %v", err)
		return err
	}

	if err := s.loadRouter(); err != nil {
		return err
	}

	cfg := xcontext.Configs(s.ctx).ApiServer
	httpSrv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      middleware.AllowCors(s.router.Handler(), cfg.AllowedOrigins),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		<-s.ctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(ctx); err != nil {
			xcontext.Logger(s.ctx).Errorf("Cannot shutdown api server: %v", err)
		}
	}()

	xcontext.Logger(s.ctx).Infof("Starting api server on %s", cfg.Address())
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Api server stopped")
	return nil
}

func (s *srv) loadRouter() error {
	cfg := xcontext.Configs(s.ctx).ApiServer

	rateLimiter, err := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst).
		WithTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		xcontext.Logger(s.ctx).Errorf("Cannot load rate limiter: %v", err)
		return err
	}
	rateLimiter.StartCleanup(s.ctx, limiterCleanupInterval, limiterIdleTimeout)

	s.router = router.New(s.ctx)
	s.router.SetOptions(router.Options{
		Timeout:      cfg.RequestTimeout,
		Retries:      uint64(max(cfg.RequestRetries, 0)),
		RetryBackoff: cfg.RequestRetryBackoff,
	})
	s.router.Before(middleware.WithStartTime())
	s.router.Before(rateLimiter.Middleware())
	s.router.AddCloser(middleware.Logger())
	s.router.AddCloser(middleware.Prometheus())

	s.router.Handle(http.MethodGet, "/metrics", prometheus.NewHandler())

	// Auth API
	router.POST(s.router, "/register", s.authDomain.Register)
	router.POST(s.router, "/login", s.authDomain.Login)
	router.POST(s.router, "/refresh", s.authDomain.Refresh)

	// Public API
	router.GET(s.router, "/getPublicChallenges", s.challengeDomain.GetPublicChallenges)
	router.GET(s.router, "/searchChallenges", s.challengeDomain.Search)

	// These following APIs need authentication with Access Token.
	authRouter := s.router.Branch()
	authRouter.Before(middleware.NewAuthVerifier().WithAccessToken(s.accessTokenEngine).Middleware())
	{
		// User API
		router.GET(authRouter, "/getMe", s.userDomain.GetMe)
		router.GET(authRouter, "/getUser", s.userDomain.GetUser)
		router.POST(authRouter, "/updateUser", s.userDomain.UpdateUser)
		router.POST(authRouter, "/uploadAvatar", s.userDomain.UploadAvatar)

		// Challenge API
		router.POST(authRouter, "/createChallenge", s.challengeDomain.Create)
		router.POST(authRouter, "/joinChallenge", s.challengeDomain.Join)
		router.POST(authRouter, "/leaveChallenge", s.challengeDomain.Leave)
		router.POST(authRouter, "/deleteChallenge", s.challengeDomain.Delete)
		router.GET(authRouter, "/getMyChallenges", s.challengeDomain.GetMyChallenges)
		router.GET(authRouter, "/getChallenge", s.challengeDomain.Get)
		router.GET(authRouter, "/getChallengeLeaderboard", s.challengeDomain.GetLeaderboard)

		// Check-in API
		router.POST(authRouter, "/checkIn", s.checkInDomain.CheckIn)

		// Social API
		router.POST(authRouter, "/follow", s.socialDomain.Follow)
		router.POST(authRouter, "/unfollow", s.socialDomain.Unfollow)
		router.GET(authRouter, "/getFollowing", s.socialDomain.GetFollowing)
		router.GET(authRouter, "/getFollowers", s.socialDomain.GetFollowers)
		router.GET(authRouter, "/getSuggestedFriends", s.socialDomain.GetSuggestedFriends)
		router.GET(authRouter, "/getFeed", s.socialDomain.GetFeed)

		// Ledger API
		router.POST(authRouter, "/recordTransaction", s.ledgerDomain.RecordTransaction)
		router.POST(authRouter, "/purchaseTokens", s.ledgerDomain.PurchaseTokens)
		router.GET(authRouter, "/getBalance", s.ledgerDomain.GetBalance)
		router.GET(authRouter, "/getTransactions", s.ledgerDomain.GetTransactions)
	}

	return nil
}
