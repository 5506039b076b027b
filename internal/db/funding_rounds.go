package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/venture-profile/internal/types"
)

// ListFundingRoundsByCompany returns a company's funding rounds, most recent
// first. Rounds without a date sort last.
func (db *DB) ListFundingRoundsByCompany(ctx context.Context, companyID uuid.UUID) ([]types.FundingRound, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, company_id, round_type, amount::float8, round_date, status
		 FROM funding_rounds
		 WHERE company_id = $1
		 ORDER BY round_date DESC NULLS LAST, created_at DESC`,
		companyID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list funding rounds: %w", err)
	}
	defer rows.Close()

	var rounds []types.FundingRound
	for rows.Next() {
		var (
			id, company uuid.UUID
			r           types.FundingRound
			date        *time.Time
		)
		if err := rows.Scan(&id, &company, &r.RoundType, &r.Amount, &date, &r.Status); err != nil {
			return nil, fmt.Errorf("failed to scan funding round: %w", err)
		}
		r.ID = id.String()
		r.CompanyID = company.String()
		r.Date = formatRoundDate(date)
		rounds = append(rounds, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list funding rounds: %w", err)
	}
	return rounds, nil
}

// AddFundingRounds attaches rounds to a company in one transaction and
// returns their IDs in order. Either every round is stored or none is.
func (db *DB) AddFundingRounds(ctx context.Context, companyID uuid.UUID, rounds []types.FundingRound) ([]uuid.UUID, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ids := make([]uuid.UUID, 0, len(rounds))
	for _, round := range rounds {
		var id uuid.UUID
		err := tx.QueryRow(ctx,
			`INSERT INTO funding_rounds (company_id, round_type, amount, round_date, status)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id`,
			companyID, round.RoundType, round.Amount, parseRoundDate(round.Date), round.Status,
		).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("failed to add funding round: %w", err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit funding rounds: %w", err)
	}
	return ids, nil
}
