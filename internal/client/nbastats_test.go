package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scoreboardPayload = `{
	"resource": "scoreboardv2",
	"resultSets": [
		{
			"name": "GameHeader",
			"headers": ["GAME_ID", "GAME_STATUS_TEXT", "HOME_TEAM_ID", "VISITOR_TEAM_ID"],
			"rowSet": [
				["0022300641", "Final", 1610612738, 1610612747]
			]
		},
		{
			"name": "LineScore",
			"headers": ["GAME_ID", "TEAM_ID", "TEAM_ABBREVIATION", "PTS"],
			"rowSet": [
				["0022300641", 1610612738, "BOS", 110],
				["0022300641", 1610612747, "LAL", 98]
			]
		}
	]
}`

const emptyScoreboardPayload = `{
	"resource": "scoreboardv2",
	"resultSets": [
		{
			"name": "GameHeader",
			"headers": ["GAME_ID", "GAME_STATUS_TEXT", "HOME_TEAM_ID", "VISITOR_TEAM_ID"],
			"rowSet": []
		},
		{
			"name": "LineScore",
			"headers": ["GAME_ID", "TEAM_ID", "TEAM_ABBREVIATION", "PTS"],
			"rowSet": []
		}
	]
}`

const boxScorePayload = `{
	"resource": "boxscoretraditionalv2",
	"resultSets": [
		{
			"name": "PlayerStats",
			"headers": ["GAME_ID", "PLAYER_ID", "PLAYER_NAME", "TEAM_ABBREVIATION",
				"MIN", "PTS", "REB", "AST", "STL", "BLK", "TO", "PF",
				"FGM", "FGA", "FG3M", "FG3A", "FTM", "FTA", "PLUS_MINUS"],
			"rowSet": [
				["0022300641", 1628369, "Jayson Tatum", "BOS",
					"38:02", 30, 9, 5, 1, 0, 2, 3, 11, 22, 4, 10, 4, 4, 12],
				["0022300641", 2544, "LeBron James", "LAL",
					"", 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0]
			]
		}
	]
}`

// testClient builds a client against the given server with an instant clock
// so retries and pacing never actually sleep.
func testClient(t *testing.T, server *httptest.Server, opts ...Option) (*Client, *[]time.Duration) {
	t.Helper()

	var sleeps []time.Duration
	base := []Option{
		WithRequestGap(0),
		WithClock(
			func() time.Time { return time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC) },
			func(d time.Duration) { sleeps = append(sleeps, d) },
		),
	}
	c := NewClient(server.URL, 5*time.Second, append(base, opts...)...)
	return c, &sleeps
}

func TestListGames_ParsesScoreboard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/scoreboardv2", r.URL.Path)
		assert.Equal(t, "01/15/2024", r.URL.Query().Get("GameDate"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		assert.Equal(t, "https://www.nba.com/", r.Header.Get("Referer"))
		fmt.Fprint(w, scoreboardPayload)
	}))
	defer server.Close()

	c, _ := testClient(t, server)
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	games, err := c.ListGames(context.Background(), "2023-24", date)
	require.NoError(t, err)
	require.Len(t, games, 1)

	g := games[0]
	assert.Equal(t, "0022300641", g.GameID)
	assert.Equal(t, "2024-01-15", g.GameDate)
	assert.Equal(t, "BOS", g.HomeTeamAbbr)
	assert.Equal(t, "LAL", g.AwayTeamAbbr)
	require.NotNil(t, g.HomeScore)
	assert.Equal(t, 110, *g.HomeScore)
	require.NotNil(t, g.AwayScore)
	assert.Equal(t, 98, *g.AwayScore)
}

func TestListGames_EmptyDate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, emptyScoreboardPayload)
	}))
	defer server.Close()

	c, _ := testClient(t, server)
	date := time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC)

	games, err := c.ListGames(context.Background(), "2023-24", date)
	require.NoError(t, err, "a date without games is not an error")
	assert.Empty(t, games)
}

func TestGetBoxScore_ParsesPlayerLines(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/boxscoretraditionalv2", r.URL.Path)
		assert.Equal(t, "0022300641", r.URL.Query().Get("GameID"))
		fmt.Fprint(w, boxScorePayload)
	}))
	defer server.Close()

	c, _ := testClient(t, server)

	lines, err := c.GetBoxScore(context.Background(), "0022300641")
	require.NoError(t, err)
	require.Len(t, lines, 2)

	tatum := lines[0]
	assert.Equal(t, 1628369, tatum.PlayerID)
	assert.Equal(t, "Jayson Tatum", tatum.PlayerName)
	assert.Equal(t, "BOS", tatum.TeamAbbr)
	assert.Equal(t, "38:02", tatum.Minutes)
	assert.Equal(t, 30, tatum.Points)
	assert.Equal(t, 22, tatum.FieldGoalsAttempted)
	assert.Equal(t, 12, tatum.PlusMinus)

	dnp := lines[1]
	assert.Equal(t, "", dnp.Minutes)
	assert.Equal(t, 0, dnp.Points)
}

func TestGet_RetriesWithBackoff(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c, sleeps := testClient(t, server)
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	_, err := c.ListGames(context.Background(), "2023-24", date)
	require.Error(t, err)

	assert.Equal(t, 4, requests, "initial attempt plus three retries")
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, *sleeps,
		"backoff doubles each retry")
}

func TestGet_RecoversAfterTransientError(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, scoreboardPayload)
	}))
	defer server.Close()

	c, _ := testClient(t, server)
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	games, err := c.ListGames(context.Background(), "2023-24", date)
	require.NoError(t, err)
	assert.Len(t, games, 1)
	assert.Equal(t, 2, requests)
}

func TestGet_NoRetryOnRejection(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	c, _ := testClient(t, server)
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	_, err := c.ListGames(context.Background(), "2023-24", date)
	require.Error(t, err)
	assert.Equal(t, 1, requests, "a rejected request is not retried")
}

func TestPacing_SpacesConsecutiveRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, emptyScoreboardPayload)
	}))
	defer server.Close()

	var sleeps []time.Duration
	c := NewClient(server.URL, 5*time.Second,
		WithRequestGap(600*time.Millisecond),
		WithClock(
			func() time.Time { return time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC) },
			func(d time.Duration) { sleeps = append(sleeps, d) },
		),
	)

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	_, err := c.ListGames(context.Background(), "2023-24", date)
	require.NoError(t, err)
	assert.Empty(t, sleeps, "first request goes straight through")

	_, err = c.ListGames(context.Background(), "2023-24", date.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, sleeps, 1, "second request waits out the gap")
	assert.Equal(t, 600*time.Millisecond, sleeps[0])
}

func TestRetryPolicy_Delay(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second, Multiplier: 2}

	assert.Equal(t, time.Second, p.delay(1))
	assert.Equal(t, 2*time.Second, p.delay(2))
	assert.Equal(t, 4*time.Second, p.delay(3))
}
