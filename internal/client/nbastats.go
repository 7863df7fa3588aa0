package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"nbastats/ingestion/internal/metrics"
	"nbastats/ingestion/internal/models"

	"github.com/rs/zerolog/log"
)

// RetryPolicy controls retry behavior for upstream requests
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  int
}

// DefaultRetryPolicy retries up to 3 times with 1s, 2s, 4s backoff
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second, Multiplier: 2}

// delay returns the backoff before the given retry attempt (1-based)
func (p RetryPolicy) delay(attempt int) time.Duration {
	d := p.BaseDelay
	for i := 1; i < attempt; i++ {
		d *= time.Duration(p.Multiplier)
	}
	return d
}

// Client is the NBA stats API client. It paces consecutive requests to
// respect upstream rate limits and retries transient failures with
// exponential backoff. A genuinely empty date or game yields an empty slice,
// not an error, so callers can tell "confirmed empty" from "fetch failed".
type Client struct {
	baseURL    string
	httpClient *http.Client
	retry      RetryPolicy
	requestGap time.Duration

	lastRequest time.Time
	now         func() time.Time
	sleep       func(time.Duration)
}

// Option configures a Client
type Option func(*Client)

// WithRetryPolicy overrides the default retry policy
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) { c.retry = p }
}

// WithRequestGap sets the minimum spacing between consecutive requests
func WithRequestGap(gap time.Duration) Option {
	return func(c *Client) { c.requestGap = gap }
}

// WithClock injects clock and sleep functions; used by tests
func WithClock(now func() time.Time, sleep func(time.Duration)) Option {
	return func(c *Client) {
		c.now = now
		c.sleep = sleep
	}
}

// NewClient creates a new NBA stats API client
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		retry:      DefaultRetryPolicy,
		requestGap: 600 * time.Millisecond,
		now:        time.Now,
		sleep:      time.Sleep,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// pace enforces the minimum gap between consecutive upstream requests
func (c *Client) pace() {
	if c.lastRequest.IsZero() {
		c.lastRequest = c.now()
		return
	}
	elapsed := c.now().Sub(c.lastRequest)
	if elapsed < c.requestGap {
		c.sleep(c.requestGap - elapsed)
	}
	c.lastRequest = c.now()
}

// get performs a GET request against the stats API with pacing and retries
func (c *Client) get(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, endpoint)

	var lastErr error
	for attempt := 0; attempt <= c.retry.MaxAttempts; attempt++ {
		if attempt > 0 {
			backoff := c.retry.delay(attempt)
			log.Info().
				Str("endpoint", endpoint).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Retrying API request after backoff")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
			c.sleep(backoff)
		}

		c.pace()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		// The stats API rejects requests without browser-style headers
		req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		req.Header.Set("Referer", "https://www.nba.com/")

		if len(params) > 0 {
			q := req.URL.Query()
			for key, value := range params {
				q.Add(key, value)
			}
			req.URL.RawQuery = q.Encode()
		}

		log.Debug().
			Str("endpoint", endpoint).
			Int("attempt", attempt+1).
			Msg("Making API request")

		start := c.now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("API request failed: %w", err)
			metrics.RecordAPICall(endpoint, "error", c.now().Sub(start).Seconds())
			if attempt < c.retry.MaxAttempts {
				continue
			}
			return nil, lastErr
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response body: %w", err)
			if attempt < c.retry.MaxAttempts {
				continue
			}
			return nil, lastErr
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			metrics.RecordAPICall(endpoint, "ok", c.now().Sub(start).Seconds())
			return body, nil

		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = fmt.Errorf("API returned retryable status %d", resp.StatusCode)
			metrics.RecordAPICall(endpoint, "retryable", c.now().Sub(start).Seconds())
			if attempt < c.retry.MaxAttempts {
				log.Warn().
					Str("endpoint", endpoint).
					Int("status", resp.StatusCode).
					Int("attempt", attempt+1).
					Msg("Received retryable error, will retry")
				continue
			}
			return nil, lastErr

		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			metrics.RecordAPICall(endpoint, "auth_error", c.now().Sub(start).Seconds())
			return nil, fmt.Errorf("API rejected request (status %d): %s", resp.StatusCode, string(body))

		default:
			metrics.RecordAPICall(endpoint, "error", c.now().Sub(start).Seconds())
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
	}

	return nil, lastErr
}

// ListGames fetches the games played on a single date. An empty slice with a
// nil error means the date had no games.
func (c *Client) ListGames(ctx context.Context, season string, date time.Time) ([]models.GameRecord, error) {
	params := map[string]string{
		"GameDate":  date.Format("01/02/2006"),
		"LeagueID":  "00",
		"DayOffset": "0",
	}

	body, err := c.get(ctx, "scoreboardv2", params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scoreboard for %s: %w", date.Format("2006-01-02"), err)
	}

	var resp statsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scoreboard: %w", err)
	}

	header := resp.set("GameHeader")
	if header == nil {
		return []models.GameRecord{}, nil
	}

	// LineScore rows carry team abbreviations and points keyed by team ID
	type lineScore struct {
		abbr   string
		points *int
	}
	lines := make(map[string]map[int]lineScore) // game id -> team id -> line
	if ls := resp.set("LineScore"); ls != nil {
		for _, r := range ls.rows() {
			gameID := r.str("GAME_ID")
			if lines[gameID] == nil {
				lines[gameID] = make(map[int]lineScore)
			}
			lines[gameID][r.int("TEAM_ID")] = lineScore{
				abbr:   r.str("TEAM_ABBREVIATION"),
				points: r.intPtr("PTS"),
			}
		}
	}

	dateStr := date.Format("2006-01-02")
	games := make([]models.GameRecord, 0, len(header.RowSet))
	for _, r := range header.rows() {
		gameID := r.str("GAME_ID")
		if gameID == "" {
			continue
		}

		rec := models.GameRecord{
			GameID:   gameID,
			GameDate: dateStr,
		}

		home := lines[gameID][r.int("HOME_TEAM_ID")]
		away := lines[gameID][r.int("VISITOR_TEAM_ID")]
		rec.HomeTeamAbbr = home.abbr
		rec.AwayTeamAbbr = away.abbr
		rec.HomeScore = home.points
		rec.AwayScore = away.points

		games = append(games, rec)
	}

	return games, nil
}

// GetBoxScore fetches the per-player statistical lines for one game
func (c *Client) GetBoxScore(ctx context.Context, gameID string) ([]models.BoxScoreRecord, error) {
	params := map[string]string{
		"GameID":      gameID,
		"StartPeriod": "0",
		"EndPeriod":   "10",
	}

	body, err := c.get(ctx, "boxscoretraditionalv2", params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch box score for game %s: %w", gameID, err)
	}

	var resp statsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal box score: %w", err)
	}

	stats := resp.set("PlayerStats")
	if stats == nil {
		return []models.BoxScoreRecord{}, nil
	}

	records := make([]models.BoxScoreRecord, 0, len(stats.RowSet))
	for _, r := range stats.rows() {
		records = append(records, models.BoxScoreRecord{
			GameID:     gameID,
			PlayerID:   r.int("PLAYER_ID"),
			PlayerName: r.str("PLAYER_NAME"),
			TeamAbbr:   r.str("TEAM_ABBREVIATION"),

			Minutes:       r.str("MIN"),
			Points:        r.int("PTS"),
			Rebounds:      r.int("REB"),
			Assists:       r.int("AST"),
			Steals:        r.int("STL"),
			Blocks:        r.int("BLK"),
			Turnovers:     r.int("TO"),
			PersonalFouls: r.int("PF"),

			FieldGoalsMade:         r.int("FGM"),
			FieldGoalsAttempted:    r.int("FGA"),
			ThreePointersMade:      r.int("FG3M"),
			ThreePointersAttempted: r.int("FG3A"),
			FreeThrowsMade:         r.int("FTM"),
			FreeThrowsAttempted:    r.int("FTA"),

			PlusMinus: r.int("PLUS_MINUS"),
		})
	}

	return records, nil
}

// ListPlayers fetches the active player list for a season
func (c *Client) ListPlayers(ctx context.Context, season string) ([]models.PlayerRecord, error) {
	params := map[string]string{
		"LeagueID":            "00",
		"Season":              season,
		"IsOnlyCurrentSeason": "1",
	}

	body, err := c.get(ctx, "commonallplayers", params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch players: %w", err)
	}

	var resp statsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal players: %w", err)
	}

	set := resp.set("CommonAllPlayers")
	if set == nil {
		return []models.PlayerRecord{}, nil
	}

	players := make([]models.PlayerRecord, 0, len(set.RowSet))
	for _, r := range set.rows() {
		name := r.str("DISPLAY_FIRST_LAST")
		if name == "" {
			continue
		}
		players = append(players, models.PlayerRecord{
			PlayerID:         r.int("PERSON_ID"),
			Name:             name,
			TeamAbbreviation: r.str("TEAM_ABBREVIATION"),
		})
	}

	return players, nil
}
