package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"layoutsmith/internal/catalog"
	"layoutsmith/internal/logging"
)

// fallbackKey is the settings row used for the simplified single-key
// save when the snapshot table cannot be written.
const fallbackKey = "catalog_fallback"

// SQLiteStore implements SessionStore on a local SQLite database.
// The catalog is read-modify-written as a whole value; there is no
// row-level locking because concurrent scans are not supported.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// NewSQLiteStore opens (or creates) the database at the given path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	timer := logging.StartTimer(logging.CategoryStore, "NewSQLiteStore")
	defer timer.Stop()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("Failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite journal_mode=WAL: %v", err)
	}

	s := &SQLiteStore{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logging.Store("Session store ready at %s", path)
	return s, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS catalog_snapshots (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		document_fingerprint TEXT NOT NULL,
		scanned_at TIMESTAMP NOT NULL,
		payload TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// ReadCatalog loads the stored catalog. A fingerprint mismatch is
// treated as absent, never served stale; a corrupt payload is also
// absent, with an error for the caller to surface.
func (s *SQLiteStore) ReadCatalog(fingerprint string) (*catalog.Catalog, time.Time, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var storedFingerprint, payload string
	var scannedAt time.Time
	err := s.db.QueryRow(
		"SELECT document_fingerprint, scanned_at, payload FROM catalog_snapshots WHERE id = 1",
	).Scan(&storedFingerprint, &scannedAt, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return s.readFallback(fingerprint)
	}
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("failed to read catalog: %w", err)
	}

	if storedFingerprint != fingerprint {
		logging.Store("Stored catalog is for document %s, current is %s; treating as absent",
			storedFingerprint, fingerprint)
		return nil, time.Time{}, false, nil
	}

	cat, err := catalog.Unmarshal([]byte(payload))
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("stored catalog is corrupt: %w", err)
	}

	logging.StoreDebug("Loaded catalog: %d records, scanned %s", cat.Len(), scannedAt)
	return cat, scannedAt, true, nil
}

// readFallback checks the simplified single-key save.
func (s *SQLiteStore) readFallback(fingerprint string) (*catalog.Catalog, time.Time, bool, error) {
	var payload string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", fallbackKey).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("failed to read catalog fallback: %w", err)
	}

	cat, err := catalog.Unmarshal([]byte(payload))
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("catalog fallback is corrupt: %w", err)
	}
	if cat.Fingerprint != fingerprint {
		return nil, time.Time{}, false, nil
	}
	return cat, cat.ScannedAt, true, nil
}

// WriteCatalog replaces the stored snapshot wholesale. On failure it
// degrades to the simplified single-key save so a scan is never lost to
// a storage hiccup.
func (s *SQLiteStore) WriteCatalog(cat *catalog.Catalog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := cat.Marshal()
	if err != nil {
		return fmt.Errorf("failed to serialize catalog: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO catalog_snapshots (id, document_fingerprint, scanned_at, payload)
		 VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   document_fingerprint = excluded.document_fingerprint,
		   scanned_at = excluded.scanned_at,
		   payload = excluded.payload`,
		cat.Fingerprint, cat.ScannedAt, string(payload),
	)
	if err == nil {
		logging.Store("Persisted catalog: %d records for document %s", cat.Len(), cat.Fingerprint)
		return nil
	}

	logging.Get(logging.CategoryStore).Error("Snapshot write failed (%v), using simplified save", err)
	if _, fbErr := s.db.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		fallbackKey, string(payload),
	); fbErr != nil {
		return fmt.Errorf("failed to save catalog (snapshot: %v, fallback: %w)", err, fbErr)
	}
	return nil
}

// ReadAPIKey returns the stored key, empty when unset.
func (s *SQLiteStore) ReadAPIKey() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var key string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = 'api_key'").Scan(&key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	return key, nil
}

// WriteAPIKey stores the completion backend key.
func (s *SQLiteStore) WriteAPIKey(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT INTO settings (key, value) VALUES ('api_key', ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key,
	)
	if err != nil {
		return fmt.Errorf("failed to save API key: %w", err)
	}
	return nil
}

// ClearAll wipes every persisted value.
func (s *SQLiteStore) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM catalog_snapshots"); err != nil {
		return fmt.Errorf("failed to clear catalog: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM settings"); err != nil {
		return fmt.Errorf("failed to clear settings: %w", err)
	}
	logging.Store("Session store cleared")
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
