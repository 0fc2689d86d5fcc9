package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"

	"lightbnb/internal/shared"
)

const pingTimeout = 10 * time.Second

// DSN renders cfg as a connection string for its driver.
func DSN(cfg shared.DatabaseConfig) (string, error) {
	hostPort := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	switch cfg.Driver {
	case "postgres":
		sslMode := cfg.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(cfg.User, cfg.Password),
			Host:     hostPort,
			Path:     "/" + cfg.Name,
			RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
		}
		return u.String(), nil
	case "mysql":
		mc := mysql.NewConfig()
		mc.User = cfg.User
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		mc.Addr = hostPort
		mc.DBName = cfg.Name
		mc.ParseTime = true
		mc.Loc = time.UTC
		return mc.FormatDSN(), nil
	}
	return "", fmt.Errorf("sqlstore: unsupported driver %q", cfg.Driver)
}

// Open creates the shared connection pool for cfg and verifies it with a ping.
func Open(ctx context.Context, cfg shared.DatabaseConfig, logger zerolog.Logger) (*sql.DB, Dialect, error) {
	d, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, Dialect{}, err
	}
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, Dialect{}, err
	}

	var db *sql.DB
	switch d {
	case Postgres:
		cc, err := pgx.ParseConfig(dsn)
		if err != nil {
			return nil, Dialect{}, fmt.Errorf("parse pgx config: %w", err)
		}
		if cfg.TraceQueries {
			cc.Tracer = &tracelog.TraceLog{
				Logger:   pgxzero.NewLogger(logger.With().Str("component", "pgx").Logger()),
				LogLevel: traceLevel(logger.GetLevel()),
			}
		}
		db = stdlib.OpenDB(*cc)
	default:
		db, err = sql.Open(d.DriverName, dsn)
		if err != nil {
			return nil, Dialect{}, fmt.Errorf("sql.Open: %w", err)
		}
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, Dialect{}, fmt.Errorf("ping %s: %w", d.Name, err)
	}
	logger.Info().
		Str("driver", d.Name).
		Str("host", cfg.Host).
		Str("database", cfg.Name).
		Msg("database connection ok")
	return db, d, nil
}

func traceLevel(l zerolog.Level) tracelog.LogLevel {
	switch l {
	case zerolog.TraceLevel:
		return tracelog.LogLevelTrace
	case zerolog.DebugLevel:
		return tracelog.LogLevelDebug
	case zerolog.InfoLevel:
		return tracelog.LogLevelInfo
	case zerolog.WarnLevel:
		return tracelog.LogLevelWarn
	case zerolog.ErrorLevel:
		return tracelog.LogLevelError
	}
	return tracelog.LogLevelNone
}
