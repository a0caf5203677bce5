package client

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// envelope is the provider's common response wrapper. Every resource call
// returns one of these with a resource-specific element type inside
// "response". The "errors" member is a JSON object when the provider
// rejected the call and an empty array otherwise.
type envelope struct {
	Get        string          `json:"get"`
	Parameters json.RawMessage `json:"parameters"`
	Errors     json.RawMessage `json:"errors"`
	Results    int             `json:"results"`
	Paging     paging          `json:"paging"`
	Response   json.RawMessage `json:"response"`
}

type paging struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// providerErrors extracts provider-side error messages from the envelope.
func (e *envelope) providerErrors() map[string]string {
	trimmed := bytes.TrimSpace(e.Errors)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	var errs map[string]string
	if err := json.Unmarshal(trimmed, &errs); err != nil || len(errs) == 0 {
		return nil
	}
	return errs
}

// cacheable reports whether a body is a well-formed envelope the provider
// did not reject. The provider signals some failures (bad key, request
// rate limits) inside a 200 response; those bodies must never be cached
// or every call within the TTL would replay the failure.
func cacheable(body []byte) bool {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return false
	}
	return env.providerErrors() == nil
}

// decodeEnvelope decodes and validates the envelope, then strictly decodes
// the response array into out. Payloads that don't match the expected shape
// are rejected at the boundary rather than coerced.
func decodeEnvelope(body []byte, out interface{}) error {
	_, err := decodeEnvelopePage(body, out)
	return err
}

// decodeEnvelopePage is decodeEnvelope for paged resources; it also
// returns the envelope's paging block so callers can fetch the rest.
func decodeEnvelopePage(body []byte, out interface{}) (paging, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return paging{}, fmt.Errorf("malformed provider envelope: %w", err)
	}
	if errs := env.providerErrors(); errs != nil {
		return paging{}, fmt.Errorf("provider rejected request %q: %v", env.Get, errs)
	}
	dec := json.NewDecoder(bytes.NewReader(env.Response))
	if err := dec.Decode(out); err != nil {
		return paging{}, fmt.Errorf("unexpected payload shape for %q: %w", env.Get, err)
	}
	return env.Paging, nil
}

// LeagueEntry is one element of the leagues response.
type LeagueEntry struct {
	League struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		Type string `json:"type"`
		Logo string `json:"logo"`
	} `json:"league"`
	Country struct {
		Name string `json:"name"`
		Code string `json:"code"`
		Flag string `json:"flag"`
	} `json:"country"`
	Seasons []SeasonEntry `json:"seasons"`
}

// SeasonEntry is one season within a LeagueEntry, with coverage flags.
type SeasonEntry struct {
	Year     int    `json:"year"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Current  bool   `json:"current"`
	Coverage struct {
		Fixtures struct {
			Events  bool `json:"events"`
			Lineups bool `json:"lineups"`
			Stats   bool `json:"statistics_fixtures"`
		} `json:"fixtures"`
		Standings   bool `json:"standings"`
		Injuries    bool `json:"injuries"`
		Predictions bool `json:"predictions"`
		Odds        bool `json:"odds"`
	} `json:"coverage"`
}

// TeamEntry is one element of the teams response.
type TeamEntry struct {
	Team struct {
		ID      int64  `json:"id"`
		Name    string `json:"name"`
		Code    string `json:"code"`
		Country string `json:"country"`
		Logo    string `json:"logo"`
	} `json:"team"`
	Venue VenueEntry `json:"venue"`
}

// VenueEntry describes a stadium inside teams and fixtures payloads.
type VenueEntry struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	City     string `json:"city"`
	Capacity int    `json:"capacity"`
	Surface  string `json:"surface"`
}

// FixtureEntry is one element of the fixtures response.
type FixtureEntry struct {
	Fixture struct {
		ID       int64  `json:"id"`
		Timezone string `json:"timezone"`
		Date     string `json:"date"` // RFC 3339
		Venue    struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
			City string `json:"city"`
		} `json:"venue"`
		Status struct {
			Long    string `json:"long"`
			Short   string `json:"short"`
			Elapsed *int   `json:"elapsed"`
		} `json:"status"`
	} `json:"fixture"`
	League struct {
		ID      int64  `json:"id"`
		Name    string `json:"name"`
		Country string `json:"country"`
		Logo    string `json:"logo"`
		Flag    string `json:"flag"`
		Season  int    `json:"season"`
	} `json:"league"`
	Teams struct {
		Home FixtureTeam `json:"home"`
		Away FixtureTeam `json:"away"`
	} `json:"teams"`
	Goals struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"goals"`
	Score struct {
		Halftime struct {
			Home *int `json:"home"`
			Away *int `json:"away"`
		} `json:"halftime"`
		Fulltime struct {
			Home *int `json:"home"`
			Away *int `json:"away"`
		} `json:"fulltime"`
	} `json:"score"`
}

// FixtureTeam is the home/away team reference inside a fixture.
type FixtureTeam struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Logo   string `json:"logo"`
	Winner *bool  `json:"winner"`
}

// OddsEntry is one element of the odds response: all bookmakers' prices
// for one fixture.
type OddsEntry struct {
	Fixture struct {
		ID int64 `json:"id"`
	} `json:"fixture"`
	Update     string           `json:"update"`
	Bookmakers []BookmakerEntry `json:"bookmakers"`
}

// BookmakerEntry is one bookmaker's bets for a fixture.
type BookmakerEntry struct {
	ID   int64      `json:"id"`
	Name string     `json:"name"`
	Bets []BetEntry `json:"bets"`
}

// BetEntry is one market offered by a bookmaker.
type BetEntry struct {
	ID     int64      `json:"id"`
	Name   string     `json:"name"`
	Values []BetValue `json:"values"`
}

// BetValue is one priced selection. Odd is decimal-formatted by the
// provider; it is parsed downstream to keep the boundary strict but cheap.
type BetValue struct {
	Value string `json:"value"`
	Odd   string `json:"odd"`
}

// PredictionEntry is one element of the predictions response.
type PredictionEntry struct {
	Predictions struct {
		Winner struct {
			ID      *int64 `json:"id"`
			Name    string `json:"name"`
			Comment string `json:"comment"`
		} `json:"winner"`
		WinOrDraw bool   `json:"win_or_draw"`
		UnderOver string `json:"under_over"`
		Advice    string `json:"advice"`
		Percent   struct {
			Home string `json:"home"`
			Draw string `json:"draw"`
			Away string `json:"away"`
		} `json:"percent"`
	} `json:"predictions"`
}

// PlayerEntry is one element of the players response.
type PlayerEntry struct {
	Player struct {
		ID          int64  `json:"id"`
		Name        string `json:"name"`
		Nationality string `json:"nationality"`
		Birth       struct {
			Date string `json:"date"`
		} `json:"birth"`
		Height string `json:"height"` // "180 cm"
		Weight string `json:"weight"` // "75 kg"
		Photo  string `json:"photo"`
	} `json:"player"`
	Statistics []struct {
		Games struct {
			Position string `json:"position"`
		} `json:"games"`
	} `json:"statistics"`
}

// EventEntry is one element of the fixture events response.
type EventEntry struct {
	Time struct {
		Elapsed int  `json:"elapsed"`
		Extra   *int `json:"extra"`
	} `json:"time"`
	Team     EventRef `json:"team"`
	Player   EventRef `json:"player"`
	Assist   EventRef `json:"assist"`
	Type     string   `json:"type"`
	Detail   string   `json:"detail"`
	Comments string   `json:"comments"`
}

// EventRef is a loose reference to a team or player within an event.
// Player/assist ids may be null for anonymous events.
type EventRef struct {
	ID   *int64 `json:"id"`
	Name string `json:"name"`
}

// LineupEntry is one team's lineup for a fixture.
type LineupEntry struct {
	Team struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
	Formation   string        `json:"formation"`
	StartXI     []LineupSlot  `json:"startXI"`
	Substitutes []LineupSlot  `json:"substitutes"`
}

// LineupSlot wraps one player's slot in a lineup.
type LineupSlot struct {
	Player struct {
		ID     int64  `json:"id"`
		Name   string `json:"name"`
		Number *int   `json:"number"`
		Pos    string `json:"pos"`
		Grid   string `json:"grid"` // "row:col", empty for substitutes
	} `json:"player"`
}
