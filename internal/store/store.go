// Package store persists session state between plugin runs: the scanned
// catalog (tagged with its document fingerprint) and the completion
// backend API key.
package store

import (
	"time"

	"layoutsmith/internal/catalog"
)

// SessionStore is the persistence surface consumed by the plugin layer.
// Catalog reads are fingerprint-checked: a catalog persisted for one
// document is treated as absent when another document is open.
type SessionStore interface {
	// ReadCatalog returns the persisted catalog when its fingerprint
	// matches, or ok=false when nothing usable is stored.
	ReadCatalog(fingerprint string) (cat *catalog.Catalog, scannedAt time.Time, ok bool, err error)

	// WriteCatalog replaces the stored catalog wholesale.
	WriteCatalog(cat *catalog.Catalog) error

	ReadAPIKey() (string, error)
	WriteAPIKey(key string) error

	// ClearAll wipes every persisted value.
	ClearAll() error

	Close() error
}
