package client

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// Leagues fetches all leagues with their seasons and coverage flags.
func (c *Client) Leagues(ctx context.Context) ([]LeagueEntry, error) {
	body, err := c.get(ctx, "leagues", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leagues: %w", err)
	}

	var leagues []LeagueEntry
	if err := decodeEnvelope(body, &leagues); err != nil {
		return nil, fmt.Errorf("failed to decode leagues: %w", err)
	}
	return leagues, nil
}

// Teams fetches the teams (with venues) for one league season.
func (c *Client) Teams(ctx context.Context, leagueID int64, season int) ([]TeamEntry, error) {
	body, err := c.get(ctx, "teams", map[string]string{
		"league": strconv.FormatInt(leagueID, 10),
		"season": strconv.Itoa(season),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch teams: %w", err)
	}

	var teams []TeamEntry
	if err := decodeEnvelope(body, &teams); err != nil {
		return nil, fmt.Errorf("failed to decode teams: %w", err)
	}
	return teams, nil
}

// Fixtures fetches all fixtures for one league season.
func (c *Client) Fixtures(ctx context.Context, leagueID int64, season int) ([]FixtureEntry, error) {
	body, err := c.get(ctx, "fixtures", map[string]string{
		"league": strconv.FormatInt(leagueID, 10),
		"season": strconv.Itoa(season),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fixtures: %w", err)
	}

	var fixtures []FixtureEntry
	if err := decodeEnvelope(body, &fixtures); err != nil {
		return nil, fmt.Errorf("failed to decode fixtures: %w", err)
	}
	return fixtures, nil
}

// FixturesByDate fetches all fixtures scheduled on one calendar date (UTC).
func (c *Client) FixturesByDate(ctx context.Context, date time.Time) ([]FixtureEntry, error) {
	body, err := c.get(ctx, "fixtures", map[string]string{
		"date": date.UTC().Format("2006-01-02"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fixtures by date: %w", err)
	}

	var fixtures []FixtureEntry
	if err := decodeEnvelope(body, &fixtures); err != nil {
		return nil, fmt.Errorf("failed to decode fixtures by date: %w", err)
	}
	return fixtures, nil
}

// Odds fetches all bookmakers' odds for one fixture.
func (c *Client) Odds(ctx context.Context, fixtureID int64) ([]OddsEntry, error) {
	body, err := c.get(ctx, "odds", map[string]string{
		"fixture": strconv.FormatInt(fixtureID, 10),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch odds: %w", err)
	}

	var odds []OddsEntry
	if err := decodeEnvelope(body, &odds); err != nil {
		return nil, fmt.Errorf("failed to decode odds: %w", err)
	}
	return odds, nil
}

// Predictions fetches the provider's prediction for one fixture.
func (c *Client) Predictions(ctx context.Context, fixtureID int64) ([]PredictionEntry, error) {
	body, err := c.get(ctx, "predictions", map[string]string{
		"fixture": strconv.FormatInt(fixtureID, 10),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch predictions: %w", err)
	}

	var predictions []PredictionEntry
	if err := decodeEnvelope(body, &predictions); err != nil {
		return nil, fmt.Errorf("failed to decode predictions: %w", err)
	}
	return predictions, nil
}

// Players fetches the full squad (with season statistics) for one team
// season, following the provider's paging until every page is read.
func (c *Client) Players(ctx context.Context, teamID int64, season int) ([]PlayerEntry, error) {
	params := map[string]string{
		"team":   strconv.FormatInt(teamID, 10),
		"season": strconv.Itoa(season),
	}

	var all []PlayerEntry
	for page := 1; ; page++ {
		params["page"] = strconv.Itoa(page)
		body, err := c.get(ctx, "players", params)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch players page %d: %w", page, err)
		}

		var players []PlayerEntry
		pg, err := decodeEnvelopePage(body, &players)
		if err != nil {
			return nil, fmt.Errorf("failed to decode players page %d: %w", page, err)
		}
		all = append(all, players...)

		if page >= pg.Total {
			break
		}
	}
	return all, nil
}

// Events fetches the in-match events for one fixture.
func (c *Client) Events(ctx context.Context, fixtureID int64) ([]EventEntry, error) {
	body, err := c.get(ctx, "fixtures/events", map[string]string{
		"fixture": strconv.FormatInt(fixtureID, 10),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}

	var events []EventEntry
	if err := decodeEnvelope(body, &events); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}
	return events, nil
}

// Lineups fetches both teams' lineups for one fixture.
func (c *Client) Lineups(ctx context.Context, fixtureID int64) ([]LineupEntry, error) {
	body, err := c.get(ctx, "fixtures/lineups", map[string]string{
		"fixture": strconv.FormatInt(fixtureID, 10),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lineups: %w", err)
	}

	var lineups []LineupEntry
	if err := decodeEnvelope(body, &lineups); err != nil {
		return nil, fmt.Errorf("failed to decode lineups: %w", err)
	}
	return lineups, nil
}
