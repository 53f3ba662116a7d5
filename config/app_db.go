package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/swipefolio/landing-api/internal/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

// DBConfig selects the database and sizes its pool. APP_DATABASE_URL wins over the POSTGRES_* parts.
type DBConfig struct {
	Driver     string `envconfig:"DB_DRIVER" default:"postgres"`
	SQLitePath string `envconfig:"SQLITE_PATH" default:"swipefolio.db"`

	URL      string `envconfig:"APP_DATABASE_URL"`
	Host     string `envconfig:"POSTGRES_HOST"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER"`
	Password string `envconfig:"POSTGRES_PASSWORD"`
	Name     string `envconfig:"POSTGRES_DB_NAME"`
	SSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"require"`

	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"10"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"100"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"1m"`
}

func LoadDBConfig() (*DBConfig, error) {
	var c DBConfig
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("load database config: %w", err)
	}

	// Container env files pass quotes through untouched.
	for _, field := range []*string{&c.Driver, &c.SQLitePath, &c.URL, &c.Host, &c.User, &c.Password, &c.Name, &c.SSLMode} {
		*field = unquote(*field)
	}
	return c.withDefaults(), nil
}

func (c *DBConfig) withDefaults() *DBConfig {
	out := DBConfig{}
	if c != nil {
		out = *c
	}
	if strings.EqualFold(out.Driver, DBDriverSQLite) {
		out.Driver = DBDriverSQLite
	} else {
		out.Driver = DBDriverPostgres
	}
	if out.SQLitePath == "" {
		out.SQLitePath = "swipefolio.db"
	}
	if out.Port <= 0 {
		out.Port = 5432
	}
	if out.SSLMode == "" {
		out.SSLMode = "require"
	}
	if out.MaxIdleConns <= 0 {
		out.MaxIdleConns = 10
	}
	if out.MaxOpenConns <= 0 {
		out.MaxOpenConns = 100
	}
	if out.ConnMaxLifetime <= 0 {
		out.ConnMaxLifetime = time.Minute
	}
	return &out
}

func (c *DBConfig) IsSQLite() bool {
	return c.Driver == DBDriverSQLite
}

// DSN builds the postgres connection string, listing every missing POSTGRES_* variable at once.
func (c *DBConfig) DSN() (string, error) {
	if c.URL != "" {
		return c.URL, nil
	}

	var missing []string
	if c.Host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if c.User == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if c.Name == "" {
		missing = append(missing, "POSTGRES_DB_NAME")
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("missing required database env vars: %s", strings.Join(missing, ", "))
	}

	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode), nil
}

func (c *DBConfig) dialector(logger *log.Logger) (gorm.Dialector, error) {
	if c.IsSQLite() {
		logger.Info("Using SQLite database", "path", c.SQLitePath)
		return sqlite.Open(c.SQLitePath), nil
	}

	dsn, err := c.DSN()
	if err != nil {
		return nil, err
	}
	if c.URL != "" {
		logger.Info("Using APP_DATABASE_URL for database connection")
	} else {
		logger.Info("Connecting to database", "host", c.Host, "port", c.Port, "user", c.User, "dbname", c.Name, "sslmode", c.SSLMode)
	}
	return postgres.Open(dsn), nil
}

func unquote(v string) string {
	s := strings.TrimSpace(v)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		s = s[1 : len(s)-1]
	}
	return s
}

// NewDatabase opens the pool described by cfg. TranslateError makes unique violations
// surface as gorm.ErrDuplicatedKey on both drivers.
func NewDatabase(logger *log.Logger, cfg *DBConfig) (*gorm.DB, error) {
	cfg = cfg.withDefaults()

	dialector, err := cfg.dialector(logger)
	if err != nil {
		logger.Error("Invalid database configuration", "error", err)
		return nil, err
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if cfg.IsSQLite() {
		// SQLite serializes writers; one connection avoids "database is locked" under concurrent signups.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := sqlDB.Ping(); err != nil {
		logger.Error("Database ping failed", "error", err)
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	logger.Info("Database connection established successfully", "driver", cfg.Driver)
	return gdb, nil
}

func AutoMigrate(logger *log.Logger, db *gorm.DB, models ...any) error {
	if db == nil {
		return errors.New("cannot migrate: db is nil")
	}

	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Database migration failed", "error", err)
		return fmt.Errorf("auto-migrate failed: %w", err)
	}

	logger.Info("Schema created from models", "models", len(models))
	return nil
}

func CloseDatabase(db *gorm.DB, logger *log.Logger) {
	if db == nil {
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("Failed to get SQL DB instance", "error", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		logger.Error("Failed to close database", "error", err)
		return
	}
	logger.Info("Database closed")
}
