package main

import (
	"github.com/stakefit/backend/migration"
	"github.com/urfave/cli/v2"
)

func (s *srv) startMigrate(cctx *cli.Context) error {
	if cctx.Bool("rollback") {
		return migration.Rollback(s.ctx)
	}

	return migration.Migrate(s.ctx)
}
