package config

import (
	"errors"
	"fmt"
	"net/url"
)

const (
	DbDriverMongo  = "mongo"
	DbDriverSQLite = "sqlite"
)

type DbConfig struct {
	// Driver selects the storage backend, mongo (default) or sqlite.
	Driver   string `mapstructure:"driver"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DbName   string `mapstructure:"db-name"`
	Address  string `mapstructure:"address"`
	// SQLitePath is the database file used by the sqlite driver.
	SQLitePath string `mapstructure:"sqlite-path"`
}

func (cfg *DbConfig) Validate() error {
	switch cfg.Driver {
	case "", DbDriverMongo:
		return cfg.validateMongo()
	case DbDriverSQLite:
		if cfg.SQLitePath == "" {
			return errors.New("sqlite-path is required for the sqlite driver")
		}
		return nil
	default:
		return fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}
}

func (cfg *DbConfig) validateMongo() error {
	if cfg.Username == "" {
		return errors.New("missing db username")
	}

	if cfg.Password == "" {
		return errors.New("missing db password")
	}

	if cfg.Address == "" {
		return errors.New("missing db address")
	}

	if cfg.DbName == "" {
		return errors.New("missing db name")
	}

	u, err := url.Parse(cfg.Address)
	if err != nil {
		return fmt.Errorf("invalid db address: %w", err)
	}

	if u.Scheme != "mongodb" && u.Scheme != "mongodb+srv" {
		return fmt.Errorf("unsupported db address scheme: %s", u.Scheme)
	}

	return nil
}

// IsSQLite reports whether the sqlite backend is selected.
func (cfg *DbConfig) IsSQLite() bool {
	return cfg.Driver == DbDriverSQLite
}
