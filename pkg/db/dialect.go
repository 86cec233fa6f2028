package db

import (
	"fmt"
	"net"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/smallbiznis/invoicemaker/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// sqliteBusyTimeout keeps a second process (or a test) holding the draft file
// from failing writes outright.
const sqliteBusyTimeout = 5 * time.Second

// Dialect picks the gorm dialector for the configured draft storage.
func Dialect(cfg config.Config) (gorm.Dialector, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}
	switch cfg.DBType {
	case config.StorageMySQL:
		return mysql.Open(dsn), nil
	case config.StoragePostgres:
		return postgres.Open(dsn), nil
	default:
		return sqlite.Open(dsn), nil
	}
}

// DSN renders the driver connection string for cfg.DBType.
func DSN(cfg config.Config) (string, error) {
	switch cfg.DBType {
	case config.StorageMySQL:
		my := mysqldriver.NewConfig()
		my.User = cfg.DBUser
		my.Passwd = cfg.DBPassword
		my.Net = "tcp"
		my.Addr = net.JoinHostPort(cfg.DBHost, cfg.DBPort)
		my.DBName = cfg.DBName
		my.ParseTime = true
		my.Loc = time.UTC
		my.Params = map[string]string{"charset": "utf8mb4"}
		return my.FormatDSN(), nil
	case config.StoragePostgres:
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode), nil
	case config.StorageSQLite:
		return sqliteDSN(cfg.DraftPath), nil
	default:
		return "", fmt.Errorf("unsupported %s type", cfg.DBType)
	}
}

func sqliteDSN(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || path == ":memory:" || strings.Contains(path, "?") {
		return path
	}
	return fmt.Sprintf("file:%s?_busy_timeout=%d&_journal_mode=WAL", path, sqliteBusyTimeout.Milliseconds())
}
