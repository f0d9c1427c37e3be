package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cardwallet/internal/manifest"
	manifestsq "cardwallet/internal/manifest/store/sqlc"
)

// PostgresStore persists manifest entries in PostgreSQL.
type PostgresStore struct {
	db      *sql.DB
	queries *manifestsq.Queries
}

// NewPostgres constructs a PostgreSQL-backed manifest store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db:      db,
		queries: manifestsq.New(db),
	}
}

// Snapshot loads every entry in insertion order. The returned slice is
// owned by the caller; later writes never affect it.
func (s *PostgresStore) Snapshot(ctx context.Context) ([]manifest.Entry, error) {
	rows, err := s.queries.ListManifestEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list manifest entries: %w", err)
	}
	entries := make([]manifest.Entry, 0, len(rows))
	for _, row := range rows {
		entry := manifest.Entry{
			Credential:  row.Credential,
			FHIRVersion: row.FhirVersion,
		}
		if len(row.Bundle) > 0 {
			if err := json.Unmarshal(row.Bundle, &entry.FHIRBundleContains); err != nil {
				return nil, fmt.Errorf("unmarshal bundle metadata: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Add stores a new entry with its extracted bundle metadata.
func (s *PostgresStore) Add(ctx context.Context, entry manifest.Entry) error {
	bundle, err := json.Marshal(entry.FHIRBundleContains)
	if err != nil {
		return fmt.Errorf("marshal bundle metadata: %w", err)
	}
	err = s.queries.InsertManifestEntry(ctx, manifestsq.InsertManifestEntryParams{
		ID:          uuid.New(),
		Credential:  entry.Credential,
		FhirVersion: entry.FHIRVersion,
		Bundle:      bundle,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("insert manifest entry: %w", err)
	}
	return nil
}
