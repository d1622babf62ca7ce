package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"hotelops/config"
	"hotelops/infras/postgres"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

type MigrationAction string

const (
	MigrateUp     MigrationAction = "up"
	MigrateDown   MigrationAction = "down"
	MigrateStepUp MigrationAction = "step-up"
	MigrateDrop   MigrationAction = "drop"
)

var ErrUnknownMigrationAction = errors.New("unknown migration action, use up, down, step-up or drop")

// ParseMigrationAction validates a command line argument.
func ParseMigrationAction(arg string) (MigrationAction, error) {
	switch action := MigrationAction(arg); action {
	case MigrateUp, MigrateDown, MigrateStepUp, MigrateDrop:
		return action, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMigrationAction, arg)
	}
}

// MigrationDSN targets the write side and carries the custom history table, if any.
func MigrationDSN(cfg *config.Config) string {
	dsn := postgres.DSN(cfg.DB.Postgres.Write, cfg.DB.Postgres.Prefix)

	if table := cfg.DB.Postgres.MigrationTable; table != "" {
		dsn += "&x-migrations-table=" + url.QueryEscape(table)
	}

	return dsn
}

// Migrate applies one action of the source (e.g. file://migrations/postgres) to dsn.
func Migrate(source, dsn string, action MigrationAction) error {
	mig, err := migrate.New(source, dsn)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	defer func() {
		if srcErr, dbErr := mig.Close(); srcErr != nil || dbErr != nil {
			log.Warn().AnErr("source", srcErr).AnErr("database", dbErr).Msg("failed to close migrate instance")
		}
	}()

	switch action {
	case MigrateUp:
		err = mig.Up()
	case MigrateDown:
		err = mig.Steps(-1)
	case MigrateStepUp:
		err = mig.Steps(1)
	case MigrateDrop:
		err = mig.Down()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMigrationAction, action)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		log.Info().Str("action", string(action)).Msg("database schema already current")

		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to run migration %s: %w", action, err)
	}

	version, dirty, verr := mig.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read migration version: %w", verr)
	}

	log.Info().Str("action", string(action)).Uint("version", version).Bool("dirty", dirty).Msg("database migration applied")

	return nil
}

// Runner migrates the configured database.
func Runner(cfg *config.Config, action MigrationAction) error {
	return Migrate(cfg.DB.Postgres.MigrationSource, MigrationDSN(cfg), action)
}
