package repository

import (
	"context"
	"fmt"

	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/models"
)

// OddsRepository handles bookmakers, markets and odds snapshots
type OddsRepository struct {
	db *Database
}

// UpsertBookmaker inserts or updates a bookmaker keyed by its provider id.
func (r *OddsRepository) UpsertBookmaker(ctx context.Context, q Querier, bm *models.Bookmaker) error {
	query := `
		INSERT INTO bookmakers (provider_id, name, slug)
		VALUES ($1, $2, $3)
		ON CONFLICT (provider_id) DO UPDATE SET
			name = EXCLUDED.name,
			slug = EXCLUDED.slug,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query, bm.ProviderID, bm.Name, bm.Slug).
		Scan(&bm.ID, &bm.CreatedAt, &bm.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert bookmaker: %w", err)
	}
	return nil
}

// UpsertMarket inserts or updates a market keyed by its provider id.
func (r *OddsRepository) UpsertMarket(ctx context.Context, q Querier, market *models.Market) error {
	query := `
		INSERT INTO markets (provider_id, name, key, is_line_market)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (provider_id) DO UPDATE SET
			name = EXCLUDED.name,
			key = EXCLUDED.key,
			is_line_market = EXCLUDED.is_line_market,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query, market.ProviderID, market.Name, market.Key, market.IsLineMarket).
		Scan(&market.ID, &market.CreatedAt, &market.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert market: %w", err)
	}
	return nil
}

// CreateSnapshot appends a new immutable odds snapshot. Snapshots are
// never updated; each sync run produces fresh ones.
func (r *OddsRepository) CreateSnapshot(ctx context.Context, q Querier, snap *models.OddsSnapshot) error {
	query := `
		INSERT INTO odds_snapshots (match_id, bookmaker_id, captured_at, provider_updated_at, source, is_live)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		snap.MatchID, snap.BookmakerID, snap.CapturedAt, snap.ProviderUpdatedAt, snap.Source, snap.IsLive,
	).Scan(&snap.ID, &snap.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create odds snapshot: %w", err)
	}
	return nil
}

// CreateSnapshotLine appends one priced selection to a snapshot.
func (r *OddsRepository) CreateSnapshotLine(ctx context.Context, q Querier, line *models.OddsSnapshotLine) error {
	query := `
		INSERT INTO odds_snapshot_lines (
			snapshot_id, market_id, line, selection, odd_value, implied_probability
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := q.QueryRow(ctx, query,
		line.SnapshotID, line.MarketID, line.Line,
		line.Selection, line.OddValue, line.ImpliedProbability,
	).Scan(&line.ID)
	if err != nil {
		return fmt.Errorf("failed to create odds snapshot line: %w", err)
	}
	return nil
}

// ListSnapshots returns all snapshots for a match and bookmaker in capture
// order. Used by tests and the query service.
func (r *OddsRepository) ListSnapshots(ctx context.Context, matchID, bookmakerID int64) ([]*models.OddsSnapshot, error) {
	query := `
		SELECT id, match_id, bookmaker_id, captured_at, provider_updated_at, source, is_live, created_at
		FROM odds_snapshots
		WHERE match_id = $1 AND bookmaker_id = $2
		ORDER BY captured_at
	`

	rows, err := r.db.Pool.Query(ctx, query, matchID, bookmakerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list odds snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []*models.OddsSnapshot
	for rows.Next() {
		var snap models.OddsSnapshot
		err := rows.Scan(
			&snap.ID, &snap.MatchID, &snap.BookmakerID, &snap.CapturedAt,
			&snap.ProviderUpdatedAt, &snap.Source, &snap.IsLive, &snap.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan odds snapshot: %w", err)
		}
		snaps = append(snaps, &snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating odds snapshots: %w", err)
	}
	return snaps, nil
}

// CountLines returns the number of lines attached to a snapshot.
func (r *OddsRepository) CountLines(ctx context.Context, snapshotID int64) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM odds_snapshot_lines WHERE snapshot_id = $1`, snapshotID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count snapshot lines: %w", err)
	}
	return count, nil
}
