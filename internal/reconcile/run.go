package reconcile

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/models"
	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/repository"
)

// Run carries the state of one reconciliation pass: the job's transaction
// and short-lived lookup caches mapping provider ids to internal ids.
// Caches are populated lazily on first sight and discarded with the Run,
// bounding lookups to O(distinct entities) per run.
//
// A Run is single-goroutine; jobs never share one.
type Run struct {
	tx pgx.Tx
	db *repository.Database

	// q is the active querier: the item savepoint while inside Item,
	// the job transaction otherwise.
	q      repository.Querier
	inItem bool
	undo   []func()

	countries  map[string]int64
	leagues    map[int64]int64
	seasons    map[seasonKey]int64
	teams      map[int64]int64
	venues     map[int64]int64
	players    map[int64]int64
	bookmakers map[int64]int64
	markets    map[int64]int64

	// Aggregate counters reported to the sync-state ledger.
	Processed int
	Skipped   int
}

type seasonKey struct {
	leagueID int64
	year     int
}

// NewRun starts a reconciliation pass inside the given job transaction.
func NewRun(tx pgx.Tx, db *repository.Database) *Run {
	return &Run{
		tx:         tx,
		db:         db,
		q:          tx,
		countries:  make(map[string]int64),
		leagues:    make(map[int64]int64),
		seasons:    make(map[seasonKey]int64),
		teams:      make(map[int64]int64),
		venues:     make(map[int64]int64),
		players:    make(map[int64]int64),
		bookmakers: make(map[int64]int64),
		markets:    make(map[int64]int64),
	}
}

// Querier exposes the active querier for repository calls that need it
// directly (always the savepoint while inside an Item).
func (r *Run) Querier() repository.Querier {
	return r.q
}

// Item isolates one payload item behind a transaction savepoint. A
// failure rolls back only that item's writes (and its cache entries),
// counts it as skipped, and lets the run continue. Errors escape only
// when the savepoint machinery itself breaks, which poisons the whole
// transaction and must abort the job.
func (r *Run) Item(ctx context.Context, desc string, fn func(ctx context.Context) error) error {
	sp, err := r.tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to open item savepoint: %w", err)
	}

	r.q = sp
	r.inItem = true
	r.undo = r.undo[:0]

	itemErr := fn(ctx)

	r.inItem = false
	r.q = r.tx

	if itemErr != nil {
		if rbErr := sp.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("failed to roll back item savepoint: %w", rbErr)
		}
		// Cache entries created by the rolled-back item point at rows
		// that no longer exist.
		for _, u := range r.undo {
			u()
		}
		r.Skipped++
		log.Warn().
			Err(itemErr).
			Str("item", desc).
			Msg("Item reconciliation failed, skipping")
		return nil
	}

	if err := sp.Commit(ctx); err != nil {
		return fmt.Errorf("failed to release item savepoint: %w", err)
	}
	r.Processed++
	return nil
}

func (r *Run) remember(m map[int64]int64, key, id int64) {
	m[key] = id
	if r.inItem {
		r.undo = append(r.undo, func() { delete(m, key) })
	}
}

// EnsureCountry upserts a country by name and returns its internal id.
func (r *Run) EnsureCountry(ctx context.Context, name, code, flagURL string) (int64, error) {
	if name == "" {
		return 0, fmt.Errorf("country name is empty")
	}
	if id, ok := r.countries[name]; ok {
		return id, nil
	}

	country := &models.Country{
		Name:    name,
		Code:    repository.NullString(code),
		FlagURL: repository.NullString(flagURL),
	}
	if err := r.db.Countries.Upsert(ctx, r.q, country); err != nil {
		return 0, err
	}

	r.countries[name] = country.ID
	if r.inItem {
		r.undo = append(r.undo, func() { delete(r.countries, name) })
	}
	return country.ID, nil
}

// EnsureLeague upserts a league by provider id and returns its internal id.
func (r *Run) EnsureLeague(ctx context.Context, providerID, countryID int64, name, leagueType, logoURL string) (int64, error) {
	if id, ok := r.leagues[providerID]; ok {
		return id, nil
	}

	league := &models.League{
		ProviderID: providerID,
		CountryID:  countryID,
		Name:       name,
		Type:       repository.NullString(leagueType),
		LogoURL:    repository.NullString(logoURL),
		Slug:       models.Slugify(name),
	}
	if err := r.db.Leagues.Upsert(ctx, r.q, league); err != nil {
		return 0, err
	}

	r.remember(r.leagues, providerID, league.ID)
	return league.ID, nil
}

// EnsureSeason resolves the (league, year) season, creating a bare row if
// the leagues sync has not seen it yet.
func (r *Run) EnsureSeason(ctx context.Context, leagueID int64, year int) (int64, error) {
	key := seasonKey{leagueID: leagueID, year: year}
	if id, ok := r.seasons[key]; ok {
		return id, nil
	}

	id, err := r.db.Leagues.EnsureSeasonYear(ctx, r.q, leagueID, year)
	if err != nil {
		return 0, err
	}

	r.seasons[key] = id
	if r.inItem {
		r.undo = append(r.undo, func() { delete(r.seasons, key) })
	}
	return id, nil
}

// EnsureTeam upserts a team by provider id and returns its internal id.
// countryID and venueID of zero mean unknown.
func (r *Run) EnsureTeam(ctx context.Context, providerID int64, name, shortName, logoURL string, countryID, venueID int64) (int64, error) {
	if id, ok := r.teams[providerID]; ok {
		return id, nil
	}

	team := &models.Team{
		ProviderID: providerID,
		CountryID:  repository.NullInt64(countryID),
		VenueID:    repository.NullInt64(venueID),
		Name:       name,
		ShortName:  repository.NullString(shortName),
		LogoURL:    repository.NullString(logoURL),
		Slug:       models.Slugify(name),
	}
	if err := r.db.Teams.Upsert(ctx, r.q, team); err != nil {
		return 0, err
	}

	r.remember(r.teams, providerID, team.ID)
	return team.ID, nil
}

// EnsureVenue upserts a venue by provider id. A zero provider id or empty
// name means the payload carried no usable venue; returns 0 without error.
func (r *Run) EnsureVenue(ctx context.Context, providerID int64, name, city string, capacity int, surface string) (int64, error) {
	if providerID == 0 || name == "" {
		return 0, nil
	}
	if id, ok := r.venues[providerID]; ok {
		return id, nil
	}

	venue := &models.Venue{
		ProviderID: providerID,
		Name:       name,
		City:       repository.NullString(city),
		Capacity:   repository.NullInt32(capacity),
		Surface:    repository.NullString(surface),
	}
	if err := r.db.Teams.UpsertVenue(ctx, r.q, venue); err != nil {
		return 0, err
	}

	r.remember(r.venues, providerID, venue.ID)
	return venue.ID, nil
}

// EnsurePlayer resolves a player by provider id, creating a minimal row
// when lineup or event data references a player no sync has seen yet.
func (r *Run) EnsurePlayer(ctx context.Context, providerID int64, name string) (int64, error) {
	if id, ok := r.players[providerID]; ok {
		return id, nil
	}

	id, err := r.db.Players.EnsureMinimal(ctx, r.q, providerID, name)
	if err != nil {
		return 0, err
	}

	r.remember(r.players, providerID, id)
	return id, nil
}

// EnsureBookmaker upserts a bookmaker by provider id.
func (r *Run) EnsureBookmaker(ctx context.Context, providerID int64, name string) (int64, error) {
	if id, ok := r.bookmakers[providerID]; ok {
		return id, nil
	}

	bm := &models.Bookmaker{
		ProviderID: providerID,
		Name:       name,
		Slug:       models.Slugify(name),
	}
	if err := r.db.Odds.UpsertBookmaker(ctx, r.q, bm); err != nil {
		return 0, err
	}

	r.remember(r.bookmakers, providerID, bm.ID)
	return bm.ID, nil
}

// EnsureMarket upserts a market by provider id, deriving its stable key
// and line-market flag from the provider's market name.
func (r *Run) EnsureMarket(ctx context.Context, providerID int64, name string) (int64, error) {
	if id, ok := r.markets[providerID]; ok {
		return id, nil
	}

	market := &models.Market{
		ProviderID:   providerID,
		Name:         name,
		Key:          models.MarketKeyFor(name),
		IsLineMarket: models.IsLineMarketName(name),
	}
	if err := r.db.Odds.UpsertMarket(ctx, r.q, market); err != nil {
		return 0, err
	}

	r.remember(r.markets, providerID, market.ID)
	return market.ID, nil
}

// Stats returns the run's aggregate counters.
func (r *Run) Stats() (processed, skipped int) {
	return r.Processed, r.Skipped
}
