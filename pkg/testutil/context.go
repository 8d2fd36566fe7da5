package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/stakefit/backend/config"
	"github.com/stakefit/backend/migration"
	"github.com/stakefit/backend/pkg/idutil"
	"github.com/stakefit/backend/pkg/logger"
	"github.com/stakefit/backend/pkg/xcontext"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func MockConfigs() config.Configs {
	return config.Configs{
		Env: "test",
		ApiServer: config.APIServerConfigs{
			MaxLimit:     50,
			DefaultLimit: 10,
		},
		Auth: config.AuthConfigs{
			TokenSecret: "secret",
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: time.Minute,
			},
			RefreshToken: config.TokenConfigs{
				Name:       "refresh_token",
				Expiration: time.Hour,
			},
		},
		Storage: config.S3Configs{Bucket: "stakefit"},
		File:    config.FileConfigs{MaxSize: 2 * 1024 * 1024},
		CheckIn: config.CheckInConfigs{
			ProgressRetries: 2,
			ProgressBackoff: time.Millisecond,
		},
	}
}

// NewMockContext returns a context carrying the test configurations, a silent
// logger and a fresh in-memory database with all tables created.
func NewMockContext() context.Context {
	// Every context gets its own named in-memory database. A single connection
	// keeps all queries (and transactions) on the same database.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", idutil.NewUUID())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		panic(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, MockConfigs())
	ctx = xcontext.WithLogger(ctx, logger.NewNopLogger())
	ctx = xcontext.WithDB(ctx, db)

	if err := migration.AutoMigrate(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func NewMockContextWithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = NewMockContext()
	}

	return xcontext.WithRequestUserID(ctx, userID)
}
