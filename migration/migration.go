package migration

import (
	"context"
	"embed"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stakefit/backend/internal/entity"
	"github.com/stakefit/backend/pkg/xcontext"
)

//go:embed mysql/*.sql
var mysqlFS embed.FS

func newMigrate(ctx context.Context) (*migrate.Migrate, error) {
	src, err := iofs.New(mysqlFS, "mysql")
	if err != nil {
		return nil, err
	}

	dbCfg := xcontext.Configs(ctx).Database
	return migrate.NewWithSourceInstance("iofs", src, "mysql://"+dbCfg.MigrationString())
}

// Migrate applies all versioned migrations embedded in the binary.
func Migrate(ctx context.Context) error {
	m, err := newMigrate(ctx)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return err
	}

	xcontext.Logger(ctx).Infof("Database is at version %d (dirty=%v)", version, dirty)
	return nil
}

// Rollback reverts the latest applied migration.
func Rollback(ctx context.Context) error {
	m, err := newMigrate(ctx)
	if err != nil {
		return err
	}
	defer m.Close()

	return m.Steps(-1)
}

// AutoMigrate creates the tables from the entities. It is used for tests and
// local development instead of the versioned migrations.
func AutoMigrate(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&entity.User{},
		&entity.Challenge{},
		&entity.ChallengeParticipant{},
		&entity.Transaction{},
		&entity.Balance{},
		&entity.CheckIn{},
		&entity.Follow{},
	)
}
