package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/venture-profile/internal/types"
)

// GetCompanyProfile retrieves the profile of a company. It returns nil, nil
// when the company does not exist.
func (db *DB) GetCompanyProfile(ctx context.Context, companyID uuid.UUID) (*types.CompanyProfile, error) {
	var doc []byte
	err := db.pool.QueryRow(ctx,
		`SELECT profile FROM companies WHERE id = $1`,
		companyID,
	).Scan(&doc)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company profile: %w", err)
	}

	var p types.CompanyProfile
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, fmt.Errorf("failed to decode company profile: %w", err)
	}
	p.ID = companyID.String()
	return &p, nil
}

// UpsertCompanyProfile stores a profile. A nil companyID creates a new
// company; otherwise the existing row is replaced or created with that ID.
func (db *DB) UpsertCompanyProfile(ctx context.Context, companyID uuid.UUID, profile *types.CompanyProfile) (uuid.UUID, error) {
	if profile == nil || profile.Name == "" {
		return uuid.Nil, fmt.Errorf("company name cannot be empty")
	}
	if companyID == uuid.Nil {
		companyID = uuid.New()
	}

	stored := *profile
	stored.ID = ""
	doc, err := json.Marshal(&stored)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal company profile: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO companies (id, name, profile)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET name = $2, profile = $3, updated_at = NOW()
		 RETURNING id`,
		companyID, profile.Name, doc,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert company profile: %w", err)
	}
	return id, nil
}

// DeleteCompany removes a company together with its funding rounds. It
// reports false when no company had that ID.
func (db *DB) DeleteCompany(ctx context.Context, companyID uuid.UUID) (bool, error) {
	result, err := db.pool.Exec(ctx, `DELETE FROM companies WHERE id = $1`, companyID)
	if err != nil {
		return false, fmt.Errorf("failed to delete company: %w", err)
	}
	return result.RowsAffected() > 0, nil
}
