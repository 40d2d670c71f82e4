package config

import (
	"fmt"
)

const (
	DbDriverMongo  = "mongo"
	DbDriverSqlite = "sqlite"
)

type DbConfig struct {
	// Driver selects the storage backend, mongo (default) or sqlite.
	Driver     string `mapstructure:"driver"`
	Username   string `mapstructure:"username"`
	Password   string `mapstructure:"password"`
	DbName     string `mapstructure:"db-name"`
	Address    string `mapstructure:"address"`
	SqlitePath string `mapstructure:"sqlite-path"`
}

func (cfg *DbConfig) Validate() error {
	switch cfg.Driver {
	case "", DbDriverMongo:
		if cfg.Username == "" {
			return fmt.Errorf("missing db username")
		}
		if cfg.Password == "" {
			return fmt.Errorf("missing db password")
		}
		if cfg.Address == "" {
			return fmt.Errorf("missing db address")
		}
		if cfg.DbName == "" {
			return fmt.Errorf("missing db name")
		}
	case DbDriverSqlite:
		if cfg.SqlitePath == "" {
			return fmt.Errorf("missing sqlite path")
		}
	default:
		return fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}

	return nil
}
