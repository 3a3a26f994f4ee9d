package session

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

const (
	keyLockEnabled    = "lock_enabled"
	keyHomeBypass     = "lock_home_bypass"
	keySessionTimeout = "session_timeout"
	keySessionExpire  = "session_expire_millis"
)

const schema = `CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// Store keeps the application lock settings and the current session in SQLite.
type Store struct {
	db *sql.DB

	// Now is replaceable for tests
	Now func() time.Time

	// HomeNetwork reports whether the device is connected to the home network.
	// The home network bypass never applies if it is nil.
	HomeNetwork func() bool
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database %v: %w", path, err)
	}
	// In-memory databases exist per connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create session schema: %w", err)
	}
	log.Debugln("Opened session database", path)
	return &Store{db: db, Now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %v: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) set(ctx context.Context, key string, value string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value)
	if err != nil {
		return fmt.Errorf("failed to write %v: %w", key, err)
	}
	return nil
}

func (s *Store) getBool(ctx context.Context, key string) (bool, error) {
	value, ok, err := s.get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	return strconv.ParseBool(value)
}

func (s *Store) getInt(ctx context.Context, key string) (int64, error) {
	value, ok, err := s.get(ctx, key)
	if err != nil || !ok {
		return 0, err
	}
	return strconv.ParseInt(value, 10, 64)
}

func (s *Store) IsLockEnabledRaw(ctx context.Context) (bool, error) {
	return s.getBool(ctx, keyLockEnabled)
}

func (s *Store) IsLockHomeBypassEnabled(ctx context.Context) (bool, error) {
	return s.getBool(ctx, keyHomeBypass)
}

func (s *Store) SessionTimeout(ctx context.Context) (int, error) {
	timeout, err := s.getInt(ctx, keySessionTimeout)
	return int(timeout), err
}

func (s *Store) SessionExpireMillis(ctx context.Context) (int64, error) {
	return s.getInt(ctx, keySessionExpire)
}

// IsLockEnabled applies the home network bypass to the raw lock setting.
func (s *Store) IsLockEnabled(ctx context.Context) (bool, error) {
	enabled, err := s.IsLockEnabledRaw(ctx)
	if err != nil || !enabled {
		return false, err
	}
	bypass, err := s.IsLockHomeBypassEnabled(ctx)
	if err != nil {
		return false, err
	}
	if bypass && s.HomeNetwork != nil && s.HomeNetwork() {
		return false, nil
	}
	return true, nil
}

// IsAppLocked is true while the lock is enabled and the session has expired.
func (s *Store) IsAppLocked(ctx context.Context) (bool, error) {
	enabled, err := s.IsLockEnabled(ctx)
	if err != nil || !enabled {
		return false, err
	}
	expire, err := s.SessionExpireMillis(ctx)
	if err != nil {
		return false, err
	}
	return s.Now().UnixNano()/int64(time.Millisecond) >= expire, nil
}

func (s *Store) SetLockEnabled(ctx context.Context, enabled bool) error {
	return s.set(ctx, keyLockEnabled, strconv.FormatBool(enabled))
}

func (s *Store) SetLockHomeBypass(ctx context.Context, enabled bool) error {
	return s.set(ctx, keyHomeBypass, strconv.FormatBool(enabled))
}

// SetSessionTimeout sets the session timeout in seconds.
func (s *Store) SetSessionTimeout(ctx context.Context, seconds int) error {
	return s.set(ctx, keySessionTimeout, strconv.Itoa(seconds))
}

func (s *Store) SetSessionExpireMillis(ctx context.Context, millis int64) error {
	return s.set(ctx, keySessionExpire, strconv.FormatInt(millis, 10))
}

// Unlock starts a new session that expires after the configured timeout.
func (s *Store) Unlock(ctx context.Context) error {
	timeout, err := s.SessionTimeout(ctx)
	if err != nil {
		return err
	}
	expire := s.Now().Add(time.Duration(timeout) * time.Second)
	return s.SetSessionExpireMillis(ctx, expire.UnixNano()/int64(time.Millisecond))
}

// Lock expires the current session immediately.
func (s *Store) Lock(ctx context.Context) error {
	return s.SetSessionExpireMillis(ctx, s.Now().UnixNano()/int64(time.Millisecond))
}
