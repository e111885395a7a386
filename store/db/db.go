package db

import (
	"github.com/pkg/errors"

	"github.com/rayahq/raya/internal/profile"
	"github.com/rayahq/raya/store"
	"github.com/rayahq/raya/store/db/postgres"
	"github.com/rayahq/raya/store/db/sqlite"
)

// NewDBDriver creates new db driver based on profile.
//
// SQLite is the default and the intended engine for the single-user case:
// one file-backed database, no held transactions, no pooling discipline
// beyond database/sql defaults. PostgreSQL is supported for deployments that
// already run one.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.Errorf("unknown db driver: %s (only 'sqlite' and 'postgres' are supported)", profile.Driver)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
