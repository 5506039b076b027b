package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// RecordExport appends a row to the export log.
func (db *DB) RecordExport(ctx context.Context, input ExportInput) (*ExportRecord, error) {
	if !IsValidChannel(input.Channel) {
		return nil, fmt.Errorf("invalid export channel: %q", input.Channel)
	}
	if input.FileName == "" {
		return nil, fmt.Errorf("export file name cannot be empty")
	}

	var r ExportRecord
	err := db.pool.QueryRow(ctx,
		`INSERT INTO profile_exports (company_id, file_name, channel, recipient, byte_size)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, company_id, file_name, channel, recipient, byte_size, created_at`,
		nullIfNil(input.CompanyID), input.FileName, input.Channel, nullIfEmpty(input.Recipient), input.ByteSize,
	).Scan(&r.ID, &r.CompanyID, &r.FileName, &r.Channel, &r.Recipient, &r.ByteSize, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to record export: %w", err)
	}
	return &r, nil
}

// ListExportsByCompany returns the most recent exports of a company.
func (db *DB) ListExportsByCompany(ctx context.Context, companyID uuid.UUID, limit int) ([]ExportRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, company_id, file_name, channel, recipient, byte_size, created_at
		 FROM profile_exports
		 WHERE company_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		companyID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}
	defer rows.Close()

	var records []ExportRecord
	for rows.Next() {
		var r ExportRecord
		if err := rows.Scan(&r.ID, &r.CompanyID, &r.FileName, &r.Channel, &r.Recipient, &r.ByteSize, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan export: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
