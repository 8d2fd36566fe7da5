package main

import (
	"github.com/stakefit/backend/internal/domain/progress"
	"github.com/stakefit/backend/pkg/kafka"
	"github.com/stakefit/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startProgress(*cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.loadRedisClient()
	s.loadPublisher("progress")
	s.loadRepos()
	s.loadProgressUpdater()

	kafkaCfg := xcontext.Configs(s.ctx).Kafka
	subscriber, err := kafka.NewSubscriber(
		kafkaCfg.ConsumerGroup,
		[]string{kafkaCfg.Addr},
		[]string{progress.Topic},
		s.progressUpdater.Subscribe,
	)
	if err != nil {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Progress subscriber started")
	subscriber.Subscribe(s.ctx)

	<-s.ctx.Done()
	if err := subscriber.Stop(s.ctx); err != nil {
		xcontext.Logger(s.ctx).Errorf("Cannot stop subscriber: %v", err)
	}

	xcontext.Logger(s.ctx).Infof("Progress subscriber stopped")
	return nil
}
