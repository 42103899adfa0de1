package client

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// State manages client-side persistent state
type State struct {
	db  *sql.DB
	dir string // Directory where state is stored
}

// OpenState opens or creates the client state database
func OpenState(path string) (*State, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}

	db.SetMaxOpenConns(1) // Client only needs one connection
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &State{db: db, dir: dir}, nil
}

// Close closes the state database
func (s *State) Close() error {
	return s.db.Close()
}

// GetConfig retrieves a configuration value. Missing keys return "".
func (s *State) GetConfig(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM Config WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetConfig stores a configuration value
func (s *State) SetConfig(key, value string) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO Config (key, value) VALUES (?, ?)
	`, key, value)
	return err
}

// GetSpeed returns the stored interval for a subsystem.
func (s *State) GetSpeed(name string) (time.Duration, bool) {
	var ms int64
	err := s.db.QueryRow("SELECT interval_ms FROM Speed WHERE name = ?", name).Scan(&ms)
	if err != nil || ms <= 0 {
		return 0, false
	}
	return time.Duration(ms) * time.Millisecond, true
}

// SetSpeed stores the interval for a subsystem.
func (s *State) SetSpeed(name string, d time.Duration) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO Speed (name, interval_ms, updated_at) VALUES (?, ?, ?)
	`, name, d.Milliseconds(), time.Now().Unix())
	return err
}

// GetLastServerForm returns the values last submitted in the new-server dialog
func (s *State) GetLastServerForm() ServerForm {
	server, _ := s.GetConfig("last_server")
	port, _ := s.GetConfig("last_port")
	profile, _ := s.GetConfig("last_profile")
	return ServerForm{Server: server, Port: port, Profile: profile}
}

// SetLastServerForm remembers the values submitted in the new-server dialog
func (s *State) SetLastServerForm(form ServerForm) error {
	if err := s.SetConfig("last_server", form.Server); err != nil {
		return err
	}
	if err := s.SetConfig("last_port", form.Port); err != nil {
		return err
	}
	return s.SetConfig("last_profile", form.Profile)
}

// GetStateDir returns the directory where state is stored
func (s *State) GetStateDir() string {
	return s.dir
}

// SchemaVersion reports the highest applied migration.
func (s *State) SchemaVersion() (int, error) {
	var v sql.NullInt64
	if err := s.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&v); err != nil {
		return 0, err
	}
	return int(v.Int64), nil
}

