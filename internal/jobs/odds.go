package jobs

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/client"
	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/models"
	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/reconcile"
)

// SyncOdds captures a fresh odds snapshot for every upcoming match.
// Snapshots are append-only; each run adds one per (match, bookmaker)
// so price movement over time stays queryable.
func (r *Runner) SyncOdds(ctx context.Context) error {
	return r.runInTx(ctx, JobOdds, func(ctx context.Context, run *reconcile.Run) (models.SyncStats, error) {
		matches, err := r.db.Matches.ListUpcoming(ctx, r.upcomingWindow())
		if err != nil {
			return models.SyncStats{}, err
		}
		if len(matches) == 0 {
			log.Info().Msg("No upcoming matches, nothing to price")
			return models.SyncStats{}, nil
		}

		// Snapshots carry the run's own clock, not the bookmaker's update
		// time: two runs must stay distinguishable even when nothing repriced.
		capturedAt := time.Now().UTC()

		var stats models.SyncStats
		for i, match := range matches {
			if i > 0 {
				if err := r.pause(ctx); err != nil {
					return stats, err
				}
			}

			entries, err := r.client.Odds(ctx, match.ProviderFixtureID)
			if err != nil {
				return stats, err
			}

			for _, entry := range entries {
				stats.Fetched += len(entry.Bookmakers)
				providerUpdatedAt := parseUpdateTime(entry.Update)
				for _, bm := range entry.Bookmakers {
					bm := bm
					match := match
					err := run.Item(ctx, fmt.Sprintf("odds fixture %d bookmaker %d", match.ProviderFixtureID, bm.ID), func(ctx context.Context) error {
						return r.snapshotBookmaker(ctx, run, match.ID, bm, capturedAt, providerUpdatedAt)
					})
					if err != nil {
						return stats, err
					}
				}
			}
		}
		return stats, nil
	})
}

// snapshotBookmaker appends one snapshot with every priced selection the
// bookmaker currently offers for the match.
func (r *Runner) snapshotBookmaker(ctx context.Context, run *reconcile.Run, matchID int64, bm client.BookmakerEntry, capturedAt time.Time, providerUpdatedAt sql.NullTime) error {
	if bm.ID == 0 || bm.Name == "" {
		return fmt.Errorf("bookmaker payload is missing id or name")
	}

	bookmakerID, err := run.EnsureBookmaker(ctx, bm.ID, bm.Name)
	if err != nil {
		return fmt.Errorf("bookmaker: %w", err)
	}

	snap := &models.OddsSnapshot{
		MatchID:           matchID,
		BookmakerID:       bookmakerID,
		CapturedAt:        capturedAt,
		ProviderUpdatedAt: providerUpdatedAt,
		Source:            models.SourceAPIFootball,
	}
	if err := r.db.Odds.CreateSnapshot(ctx, run.Querier(), snap); err != nil {
		return err
	}

	for _, bet := range bm.Bets {
		marketID, err := run.EnsureMarket(ctx, bet.ID, bet.Name)
		if err != nil {
			return fmt.Errorf("market %q: %w", bet.Name, err)
		}
		lineMarket := models.IsLineMarketName(bet.Name)

		for _, v := range bet.Values {
			odd, err := decimal.NewFromString(v.Odd)
			if err != nil {
				return fmt.Errorf("market %q selection %q has unparseable odd %q: %w", bet.Name, v.Value, v.Odd, err)
			}

			selection, line := splitSelection(v.Value, lineMarket)
			sl := models.NewSnapshotLine(marketID, line, selection, odd)
			sl.SnapshotID = snap.ID
			if err := r.db.Odds.CreateSnapshotLine(ctx, run.Querier(), &sl); err != nil {
				return err
			}
		}
	}
	return nil
}

// splitSelection normalizes a priced value label. Line markets carry the
// line inside the label ("Over 2.5"), plain markets don't.
func splitSelection(value string, lineMarket bool) (string, decimal.NullDecimal) {
	selection := strings.ToLower(strings.TrimSpace(value))
	if !lineMarket {
		return selection, decimal.NullDecimal{}
	}

	line := models.ParseLine(value)
	if fields := strings.Fields(selection); len(fields) > 0 {
		if _, err := decimal.NewFromString(fields[len(fields)-1]); err == nil {
			selection = strings.Join(fields[:len(fields)-1], " ")
		}
	}
	if selection == "" {
		selection = strings.ToLower(strings.TrimSpace(value))
	}
	return selection, line
}

// parseUpdateTime parses the bookmaker's repricing timestamp. It is
// informational; an unparseable value stays NULL.
func parseUpdateTime(s string) sql.NullTime {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return sql.NullTime{Time: t, Valid: true}
	}
	return sql.NullTime{}
}
