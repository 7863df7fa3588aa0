package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"nbastats/ingestion/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGameSource serves scripted scoreboards and records every requested date
type fakeGameSource struct {
	games     map[string][]models.GameRecord // date -> games
	errs      map[string]error               // date -> fetch error
	requested []string
}

func newFakeGameSource() *fakeGameSource {
	return &fakeGameSource{
		games: make(map[string][]models.GameRecord),
		errs:  make(map[string]error),
	}
}

func (s *fakeGameSource) addGame(date, gameID string) {
	s.games[date] = append(s.games[date], models.GameRecord{
		GameID:       gameID,
		GameDate:     date,
		HomeTeamAbbr: "BOS",
		AwayTeamAbbr: "LAL",
	})
}

func (s *fakeGameSource) ListGames(ctx context.Context, season string, date time.Time) ([]models.GameRecord, error) {
	key := date.Format("2006-01-02")
	s.requested = append(s.requested, key)
	if err := s.errs[key]; err != nil {
		return nil, err
	}
	return s.games[key], nil
}

func (s *fakeGameSource) lastRequested() string {
	return s.requested[len(s.requested)-1]
}

func TestWalker_StopsAfterConsecutiveEmptyDates(t *testing.T) {
	source := newFakeGameSource()
	source.addGame("2023-10-01", "0022300001")
	source.addGame("2023-10-01", "0022300002")
	source.addGame("2023-10-02", "0022300003")
	// nothing from 2023-10-03 on

	var visited []string
	walker := NewWalker(source, 7)
	stats, err := walker.Walk(context.Background(), "2023-24", func(date time.Time, games []models.GameRecord) error {
		visited = append(visited, date.Format("2006-01-02"))
		return nil
	})
	require.NoError(t, err)

	assert.True(t, stats.StoppedEarly)
	assert.Equal(t, 3, stats.GamesFound)
	assert.Equal(t, []string{"2023-10-01", "2023-10-02"}, visited)

	// Empties start at 10-03; the walk must not look past 10-09
	assert.Equal(t, "2023-10-09", source.lastRequested())
	assert.Equal(t, 9, stats.DatesProcessed)
}

func TestWalker_StopsWhenSeasonNeverStarts(t *testing.T) {
	source := newFakeGameSource()

	walker := NewWalker(source, 7)
	stats, err := walker.Walk(context.Background(), "2023-24", func(date time.Time, games []models.GameRecord) error {
		t.Fatal("callback must not fire for empty dates")
		return nil
	})
	require.NoError(t, err)

	assert.True(t, stats.StoppedEarly)
	assert.Equal(t, 7, stats.DatesProcessed)
	assert.Equal(t, "2023-10-07", source.lastRequested())
}

func TestWalker_GamesResetEmptyCounter(t *testing.T) {
	source := newFakeGameSource()
	source.addGame("2023-10-01", "0022300001")
	// 6 empty dates, then games again: the walk must continue through the gap
	source.addGame("2023-10-08", "0022300002")

	var visited []string
	walker := NewWalker(source, 7)
	stats, err := walker.Walk(context.Background(), "2023-24", func(date time.Time, games []models.GameRecord) error {
		visited = append(visited, date.Format("2006-01-02"))
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"2023-10-01", "2023-10-08"}, visited)
	assert.True(t, stats.StoppedEarly, "walk still stops after the final gap")
	assert.Equal(t, "2023-10-15", source.lastRequested())
	assert.Equal(t, 2, stats.GamesFound)
}

func TestWalker_FetchFailureCountsAsEmpty(t *testing.T) {
	source := newFakeGameSource()
	source.addGame("2023-10-01", "0022300001")
	for d := 2; d <= 8; d++ {
		source.errs[time.Date(2023, 10, d, 0, 0, 0, 0, time.UTC).Format("2006-01-02")] = errors.New("upstream down")
	}

	var visited []string
	walker := NewWalker(source, 7)
	stats, err := walker.Walk(context.Background(), "2023-24", func(date time.Time, games []models.GameRecord) error {
		visited = append(visited, date.Format("2006-01-02"))
		return nil
	})
	require.NoError(t, err, "fetch failures never fail the walk")

	assert.Equal(t, []string{"2023-10-01"}, visited)
	assert.Equal(t, 7, stats.FetchFailures)
	assert.True(t, stats.StoppedEarly)
}

func TestWalker_CallbackErrorStopsWalk(t *testing.T) {
	source := newFakeGameSource()
	source.addGame("2023-10-01", "0022300001")

	boom := errors.New("sink unavailable")
	walker := NewWalker(source, 7)
	_, err := walker.Walk(context.Background(), "2023-24", func(date time.Time, games []models.GameRecord) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
}

func TestWalker_InvalidSeason(t *testing.T) {
	walker := NewWalker(newFakeGameSource(), 7)
	_, err := walker.Walk(context.Background(), "not-a-season", func(time.Time, []models.GameRecord) error {
		return nil
	})
	assert.Error(t, err)
}

func TestWalker_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	walker := NewWalker(newFakeGameSource(), 7)
	_, err := walker.Walk(ctx, "2023-24", func(time.Time, []models.GameRecord) error {
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
