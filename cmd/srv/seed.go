package main

import (
	"errors"
	"fmt"

	"github.com/stakefit/backend/internal/domain"
	"github.com/stakefit/backend/internal/domain/search"
	"github.com/stakefit/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
)

func (s *srv) startSeed(cctx *cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.loadRepos()

	// The api rebuilds its own index on start, this one is discarded.
	s.searchIndex = search.NewBleveIndex(s.ctx)
	defer s.searchIndex.Close()

	// Creating challenges never touches the leaderboard.
	s.challengeDomain = domain.NewChallengeDomain(s.challengeRepo, s.participantRepo, nil, s.searchIndex)

	creatorID := cctx.String("creator")
	if _, err := s.userRepo.GetByID(s.ctx, creatorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("not found creator %s", creatorID)
		}

		return err
	}

	created, err := s.challengeDomain.SeedPublicChallenges(s.ctx, creatorID)
	if err != nil {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Seeded %d public challenges", created)
	return nil
}
