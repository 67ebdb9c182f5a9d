// database/connection.go
package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/gewnthar/routeboard/config"
	_ "github.com/go-sql-driver/mysql" // MySQL/MariaDB driver
	"github.com/sirupsen/logrus"
)

var DB *sql.DB

// DSN builds the driver connection string for cfg.
func DSN(cfg config.DatabaseConfig) string {
	// username:password@protocol(address)/dbname?param=value
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
	)
}

// InitDB initializes the read-only connection pool to the routes database.
func InitDB(cfg config.DatabaseConfig) error {
	var err error
	DB, err = sql.Open("mysql", DSN(cfg))
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	// The panel only reads; a small pool is enough.
	DB.SetMaxOpenConns(5)
	DB.SetMaxIdleConns(5)
	DB.SetConnMaxLifetime(5 * time.Minute)

	if err = DB.Ping(); err != nil {
		DB.Close()
		DB = nil
		return fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.WithField("host", cfg.Host).WithField("dbname", cfg.DBName).Info("Successfully connected to the database")
	return nil
}

// CloseDB closes the connection pool on shutdown.
func CloseDB() {
	if DB != nil {
		DB.Close()
		logrus.Info("Database connection closed")
	}
}
