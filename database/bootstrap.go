package database

import (
	"fmt"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite" // CGO-free driver
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"agri/config"
	"agri/entities"
)

// Models lists every table the service owns, in migration order.
func Models() []any {
	return []any{
		&entities.Crop{},
		&entities.Region{},
		&entities.PriceRecord{},
		&entities.ForecastModel{},
		&entities.ForecastTask{},
		&entities.ForecastResult{},
		&entities.Report{},
		&entities.ReportSection{},
		&entities.SystemSetting{},
		&entities.SystemLog{},
		&entities.User{},
		&entities.Role{},
		&entities.Permission{},
		&entities.UserRole{},
		&entities.RolePermission{},
		&entities.DatasetFile{},
	}
}

// Open connects with the configured driver, then migrates the schema.
func Open(cfg config.AppConfig, log zerolog.Logger) (*gorm.DB, error) {
	var dial gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
		dial = postgres.Open(cfg.DatabaseURL)
	case "sqlite", "":
		dial = sqlite.Open(SQLiteDSN(cfg.DBPath))
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dial, &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(log),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DBDriver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// SQLiteDSN adds the pragmas every sqlite connection needs: a busy timeout so
// concurrent writers queue instead of failing, and immediate transactions so
// two writers never deadlock upgrading a read lock.
func SQLiteDSN(path string) string {
	if strings.Contains(path, "_pragma=") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_txlock=immediate"
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	if err := migrateSettingsSingleton(db); err != nil {
		return fmt.Errorf("migrate settings: %w", err)
	}
	if err := migrateCaseInsensitiveNames(db); err != nil {
		return fmt.Errorf("migrate name indexes: %w", err)
	}
	return nil
}

// Names compared with LOWER() by the repositories get a matching unique
// index, so "Wheat" and "WHEAT" cannot both be inserted.
var lowerNameIndexes = []struct{ index, table string }{
	{"idx_crops_name_lower", "crops"},
	{"idx_forecast_models_name_lower", "forecast_models"},
}

func migrateCaseInsensitiveNames(db *gorm.DB) error {
	for _, ix := range lowerNameIndexes {
		stmt := fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (LOWER(name))", ix.index, ix.table)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("%s: %w", ix.index, err)
		}
	}
	return nil
}

// migrateSettingsSingleton collapses legacy duplicate system_settings rows,
// keeping the lowest id as the authoritative one.
func migrateSettingsSingleton(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&entities.SystemSetting{}).Order("id ASC").Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) <= 1 {
			return nil
		}
		return tx.Where("id > ?", ids[0]).Delete(&entities.SystemSetting{}).Error
	})
}

type gormWriter struct{ log zerolog.Logger }

func (w gormWriter) Printf(format string, args ...any) {
	w.log.Debug().Msgf(format, args...)
}

func newGormLogger(log zerolog.Logger) gormlogger.Interface {
	return gormlogger.New(gormWriter{log: log.With().Str("component", "gorm").Logger()}, gormlogger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}
