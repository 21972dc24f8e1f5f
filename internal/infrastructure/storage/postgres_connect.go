package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/url"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// ConnectOptions Postgres ulanishini qayta urinish sozlamalari
type ConnectOptions struct {
	Attempts int
	Delay    time.Duration
}

type dsnInfo struct {
	User     string
	Password string
	Host     string
	Port     string
	DBName   string
	SSLMode  string
}

// OpenPostgres opens a pool and pings it, retrying while the server comes up.
// A missing database is created once through the maintenance "postgres" db.
func OpenPostgres(ctx context.Context, dsn string, opts ConnectOptions) (*sql.DB, error) {
	if opts.Attempts <= 0 {
		opts.Attempts = 1
	}
	if opts.Delay <= 0 {
		opts.Delay = time.Second
	}

	var lastErr error
	created := false
	for attempt := 1; attempt <= opts.Attempts; attempt++ {
		db, err := sql.Open("postgres", dsn)
		if err == nil {
			if err = db.PingContext(ctx); err == nil {
				db.SetMaxOpenConns(10)
				db.SetMaxIdleConns(5)
				db.SetConnMaxLifetime(30 * time.Minute)
				return db, nil
			}
			_ = db.Close()
		}
		lastErr = err
		if !created && isDatabaseMissingError(err) {
			if createErr := ensureDatabase(ctx, dsn); createErr == nil {
				created = true
				continue
			} else {
				lastErr = createErr
			}
		}
		if attempt < opts.Attempts {
			log.Printf("[storage] postgres not ready (attempt %d/%d): %v", attempt, opts.Attempts, err)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(opts.Delay):
			}
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("postgres connection failed")
	}
	return nil, lastErr
}

func ensureDatabase(ctx context.Context, dsn string) error {
	info, ok := parseDSN(dsn)
	if !ok || info.DBName == "" || info.Host == "" || info.User == "" {
		return fmt.Errorf("database info not found in dsn")
	}
	db, err := sql.Open("postgres", info.withDB("postgres"))
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, "CREATE DATABASE "+quoteIdentifier(info.DBName)); err != nil && !isDatabaseExistsError(err) {
		return fmt.Errorf("create database %s: %w", info.DBName, err)
	}
	log.Printf("[storage] created database %s", info.DBName)
	return nil
}

func parseDSN(dsn string) (dsnInfo, bool) {
	trimmed := strings.TrimSpace(dsn)
	if trimmed == "" {
		return dsnInfo{}, false
	}
	var info dsnInfo
	if strings.HasPrefix(trimmed, "postgres://") || strings.HasPrefix(trimmed, "postgresql://") {
		u, err := url.Parse(trimmed)
		if err != nil || u.Host == "" {
			return dsnInfo{}, false
		}
		info = dsnInfo{
			Host:    u.Hostname(),
			Port:    u.Port(),
			DBName:  strings.TrimPrefix(u.Path, "/"),
			SSLMode: u.Query().Get("sslmode"),
		}
		if u.User != nil {
			info.User = u.User.Username()
			info.Password, _ = u.User.Password()
		}
	} else {
		// key=value form
		for _, part := range strings.Fields(trimmed) {
			kv := strings.SplitN(part, "=", 2)
			if len(kv) != 2 {
				continue
			}
			val := strings.Trim(kv[1], `"'`)
			switch strings.ToLower(kv[0]) {
			case "user", "username":
				info.User = val
			case "password":
				info.Password = val
			case "host":
				info.Host = val
			case "port":
				info.Port = val
			case "dbname", "database":
				info.DBName = val
			case "sslmode":
				info.SSLMode = val
			}
		}
		if info.Host == "" && info.User == "" && info.DBName == "" {
			return dsnInfo{}, false
		}
	}
	if info.Port == "" {
		info.Port = "5432"
	}
	if info.SSLMode == "" {
		info.SSLMode = "disable"
	}
	return info, true
}

func (d dsnInfo) withDB(dbName string) string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(d.Host, d.Port),
		Path:   "/" + dbName,
	}
	if d.User != "" {
		if d.Password != "" {
			u.User = url.UserPassword(d.User, d.Password)
		} else {
			u.User = url.User(d.User)
		}
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

func isDatabaseMissingError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "does not exist") && strings.Contains(msg, "database")
}

func isDatabaseExistsError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already exists") && strings.Contains(msg, "database")
}

func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
