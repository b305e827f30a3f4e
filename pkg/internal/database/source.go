package database

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var C *gorm.DB

// NewDialector picks the gorm driver named by the database.driver setting.
// Postgres is the production store, sqlite is meant for local runs.
func NewDialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "", "postgres":
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

func NewGorm() error {
	dialector, err := NewDialector(viper.GetString("database.driver"), viper.GetString("database.dsn"))
	if err != nil {
		return err
	}

	C, err = gorm.Open(dialector, NewConfig(
		viper.GetString("database.prefix"),
		lo.Ternary(viper.GetBool("debug.database"), logger.Info, logger.Silent),
	))

	return err
}

// NewConfig stamps records with a UTC clock. sqlite keeps timestamps as text
// with their offset, so every stored time has to share one zone to compare correctly.
func NewConfig(prefix string, level logger.LogLevel) *gorm.Config {
	return &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			TablePrefix: prefix,
		},
		Logger: logger.New(&log.Logger, logger.Config{
			Colorful: true,
			LogLevel: level,
		}),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}
