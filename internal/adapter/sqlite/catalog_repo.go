package sqlite

import (
	"fmt"

	"github.com/MeteoBoy4/gpcp-1dd/internal/domain"
	"github.com/MeteoBoy4/gpcp-1dd/internal/port"
)

// Record upserts the entry for a dataset name
func (s *Store) Record(entry port.CatalogEntry) error {
	query := `
		INSERT INTO datasets (name, year, month, size_bytes, status, error, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			size_bytes = excluded.size_bytes,
			status = excluded.status,
			error = excluded.error,
			fetched_at = excluded.fetched_at
	`
	_, err := s.db.Exec(query,
		entry.Name, entry.Year, entry.Month, entry.SizeBytes,
		string(entry.Status), entry.Error, entry.FetchedAt)
	if err != nil {
		return fmt.Errorf("failed to record %s: %w", entry.Name, err)
	}
	return nil
}

// MarkDecompressed flips the status of a fetched dataset
func (s *Store) MarkDecompressed(name string) error {
	result, err := s.db.Exec(
		`UPDATE datasets SET status = ?, error = '' WHERE name = ?`,
		string(domain.OutcomeDecompressed), name)
	if err != nil {
		return fmt.Errorf("failed to mark %s decompressed: %w", name, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("mark %s decompressed: %w", name, domain.ErrNotFound)
	}
	return nil
}

// List returns all entries ordered by year then month
func (s *Store) List() ([]port.CatalogEntry, error) {
	rows, err := s.db.Query(`
		SELECT name, year, month, size_bytes, status, error, fetched_at
		FROM datasets
		ORDER BY year, month
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	defer rows.Close()

	var entries []port.CatalogEntry
	for rows.Next() {
		var entry port.CatalogEntry
		var status string
		if err := rows.Scan(&entry.Name, &entry.Year, &entry.Month,
			&entry.SizeBytes, &status, &entry.Error, &entry.FetchedAt); err != nil {
			return nil, err
		}
		entry.Status = domain.Outcome(status)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
