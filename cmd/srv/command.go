package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	s.app = cli.NewApp()
	s.app.Action = cli.ShowAppHelp
	s.app.Name = "StakeFit"
	s.app.Usage = "Fitness challenges backed by a token ledger"
	s.app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the toml configuration file",
			EnvVars: []string{"CONFIG_FILE"},
		},
	}
	s.app.Before = s.loadConfig
	s.app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Category:    "Api",
			Description: `Used for start service api, it main service included all apis.`,
		},
		{
			Action:      s.startProgress,
			Name:        "progress",
			Usage:       "Start service progress",
			Category:    "Worker",
			Description: `Used to apply the progress of check-ins deferred to the message queue.`,
		},
		{
			Action:      s.startCron,
			Name:        "cron",
			Usage:       "Start service cron",
			Category:    "Worker",
			Description: `Used to run the periodic jobs: challenge completion, balance reconciliation and progress sweep.`,
		},
		{
			Action:   s.startMigrate,
			Name:     "migrate",
			Usage:    "Migrate the database",
			Category: "Database",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "rollback",
					Usage: "Revert the latest migration instead",
				},
			},
			Description: `Used to apply the versioned migrations embedded in the binary.`,
		},
		{
			Action:   s.startSeed,
			Name:     "seed",
			Usage:    "Seed the sample public challenges",
			Category: "Database",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "creator",
					Usage:    "Id of the user creating the challenges",
					Required: true,
				},
			},
			Description: `Used to create the sample public challenges, challenges already seeded are skipped.`,
		},
	}
}
