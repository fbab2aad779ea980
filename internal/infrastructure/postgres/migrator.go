package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
)

// migrateLogger routes golang-migrate output through zerolog at debug level.
type migrateLogger struct {
	logger zerolog.Logger
}

func (l migrateLogger) Printf(format string, v ...any) {
	l.logger.Debug().Msgf(strings.TrimSpace(format), v...)
}

func (l migrateLogger) Verbose() bool {
	return l.logger.GetLevel() <= zerolog.DebugLevel
}

// RunMigrations brings the kv_store schema up to date. A schema left dirty by
// an interrupted migration is reported and not touched.
func RunMigrations(databaseURL, migrationsPath string, logger zerolog.Logger) error {
	m, err := migrate.New("file://"+migrationsPath, databaseURL)
	if err != nil {
		return fmt.Errorf("open migrations in %s: %w", migrationsPath, err)
	}
	defer func() {
		if closeErr := errors.Join(m.Close()); closeErr != nil {
			logger.Warn().Err(closeErr).Msg("failed to close migrator")
		}
	}()
	m.Log = migrateLogger{logger: logger.With().Str("component", "migrate").Logger()}

	from, err := schemaVersion(m)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	to, err := schemaVersion(m)
	if err != nil {
		return err
	}
	logger.Info().Uint("from", from).Uint("to", to).Msg("schema up to date")
	return nil
}

func schemaVersion(m *migrate.Migrate) (uint, error) {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("schema version %d is dirty: repair it and force the version before restarting", version)
	}
	return version, nil
}
